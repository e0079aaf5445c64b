package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/forkful-backend/internal/domain"
	"github.com/heartmarshall/forkful-backend/internal/service/comment"
	"github.com/heartmarshall/forkful-backend/pkg/ctxutil"
)

type commentService interface {
	Create(ctx context.Context, input comment.CreateInput) (*domain.Comment, error)
	List(ctx context.Context, recipeSlug string, limit, offset int) ([]*domain.Comment, error)
}

// CommentHandler serves recipe comments.
type CommentHandler struct {
	svc commentService
	log *slog.Logger
}

// NewCommentHandler creates a CommentHandler.
func NewCommentHandler(svc commentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{svc: svc, log: logger.With("handler", "comment")}
}

type createCommentRequest struct {
	Author string `json:"author"`
	Body   string `json:"body"`
}

type commentResponse struct {
	Success bool       `json:"success"`
	Comment commentDTO `json:"comment"`
}

type commentListResponse struct {
	Success  bool         `json:"success"`
	Comments []commentDTO `json:"comments"`
}

// Create handles POST /api/recipes/{slug}/comments.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := h.svc.Create(r.Context(), comment.CreateInput{
		RecipeSlug: r.PathValue("slug"),
		Author:     req.Author,
		Body:       req.Body,
		ClientIP:   ctxutil.ClientIPFromCtx(r.Context()),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, commentResponse{Success: true, Comment: toCommentDTO(c)})
}

// List handles GET /api/recipes/{slug}/comments?limit=&offset=.
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)

	comments, err := h.svc.List(r.Context(), r.PathValue("slug"), limit, offset)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]commentDTO, 0, len(comments))
	for _, c := range comments {
		out = append(out, toCommentDTO(c))
	}
	writeJSON(w, http.StatusOK, commentListResponse{Success: true, Comments: out})
}
