package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/forkful-backend/internal/domain"
	"github.com/heartmarshall/forkful-backend/internal/service/moderation"
	"github.com/heartmarshall/forkful-backend/pkg/ctxutil"
)

type guideService interface {
	Generate(ctx context.Context, topic string) (*domain.Guide, error)
	Get(ctx context.Context, slug string) (*domain.Guide, error)
	List(ctx context.Context, filter domain.ListFilter) ([]*domain.Guide, error)
	Score(ctx context.Context, slug string) (*domain.Guide, moderation.Outcome, error)
}

// GuideHandler serves cooking guides.
type GuideHandler struct {
	svc guideService
	log *slog.Logger
}

// NewGuideHandler creates a GuideHandler.
func NewGuideHandler(svc guideService, logger *slog.Logger) *GuideHandler {
	return &GuideHandler{svc: svc, log: logger.With("handler", "guide")}
}

type generateGuideRequest struct {
	Topic string `json:"topic"`
}

type guideResponse struct {
	Success bool     `json:"success"`
	Guide   guideDTO `json:"guide"`
}

type guideListResponse struct {
	Success bool       `json:"success"`
	Guides  []guideDTO `json:"guides"`
}

// Generate handles POST /api/guides/generate.
func (h *GuideHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateGuideRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	g, err := h.svc.Generate(r.Context(), req.Topic)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, guideResponse{Success: true, Guide: toGuideDTO(g)})
}

// List handles GET /api/guides. Only featured guides are listed.
func (h *GuideHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	status := domain.StatusFeatured

	guides, err := h.svc.List(r.Context(), domain.ListFilter{Status: &status, Limit: limit, Offset: offset})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]guideDTO, 0, len(guides))
	for _, g := range guides {
		out = append(out, toGuideDTO(g))
	}
	writeJSON(w, http.StatusOK, guideListResponse{Success: true, Guides: out})
}

// Get handles GET /api/guides/{slug}.
func (h *GuideHandler) Get(w http.ResponseWriter, r *http.Request) {
	g, err := h.svc.Get(r.Context(), r.PathValue("slug"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if g.Status == domain.StatusRejected && !ctxutil.IsAdminCtx(r.Context()) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	writeJSON(w, http.StatusOK, guideResponse{Success: true, Guide: toGuideDTO(g)})
}

// Score handles POST /api/guides/score.
func (h *GuideHandler) Score(w http.ResponseWriter, r *http.Request) {
	var req slugRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Slug == "" {
		writeError(w, http.StatusBadRequest, "slug is required")
		return
	}

	_, out, err := h.svc.Score(r.Context(), req.Slug)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toScoreResponse(out))
}
