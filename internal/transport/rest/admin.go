package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/forkful-backend/internal/domain"
	"github.com/heartmarshall/forkful-backend/internal/service/imaging"
)

type adminRecipes interface {
	List(ctx context.Context, filter domain.ListFilter) ([]*domain.Recipe, error)
	SetStatus(ctx context.Context, slug string, status domain.ContentStatus) error
	GenerateImage(ctx context.Context, slug string) (imaging.Result, error)
}

type adminPhotos interface {
	ListByStatus(ctx context.Context, filter domain.ListFilter) ([]*domain.Photo, error)
	SetStatus(ctx context.Context, id uuid.UUID, status domain.ContentStatus) error
}

type adminGuides interface {
	List(ctx context.Context, filter domain.ListFilter) ([]*domain.Guide, error)
	SetStatus(ctx context.Context, slug string, status domain.ContentStatus) error
}

type taskService interface {
	GetStats(ctx context.Context) (domain.TaskStats, error)
	List(ctx context.Context, status domain.TaskStatus, limit, offset int) ([]domain.EnrichmentTask, error)
	RetryAllFailed(ctx context.Context) (int, error)
}

// AdminHandler serves moderation and task endpoints. Routes are mounted
// behind middleware.AdminOnly.
type AdminHandler struct {
	recipes adminRecipes
	photos  adminPhotos
	guides  adminGuides
	tasks   taskService
	log     *slog.Logger
}

// NewAdminHandler creates an AdminHandler. tasks may be nil when the
// durable queue is disabled.
func NewAdminHandler(
	recipes adminRecipes,
	photos adminPhotos,
	guides adminGuides,
	tasks taskService,
	logger *slog.Logger,
) *AdminHandler {
	return &AdminHandler{
		recipes: recipes,
		photos:  photos,
		guides:  guides,
		tasks:   tasks,
		log:     logger.With("handler", "admin"),
	}
}

type setStatusRequest struct {
	Status string `json:"status"`
}

type setStatusResponse struct {
	Success bool   `json:"success"`
	Kind    string `json:"kind"`
	Key     string `json:"key"`
	Status  string `json:"status"`
}

type imageResponse struct {
	Success  bool    `json:"success"`
	URL      string  `json:"url"`
	Score    float64 `json:"score"`
	Attempts int     `json:"attempts"`
}

type moderationResponse struct {
	Success bool        `json:"success"`
	Kind    string      `json:"kind"`
	Status  string      `json:"status"`
	Recipes []recipeDTO `json:"recipes,omitempty"`
	Photos  []photoDTO  `json:"photos,omitempty"`
	Guides  []guideDTO  `json:"guides,omitempty"`
}

type taskDTO struct {
	ID           string     `json:"id"`
	Kind         string     `json:"kind"`
	SubjectKey   string     `json:"subjectKey"`
	Status       string     `json:"status"`
	Attempts     int        `json:"attempts"`
	ErrorMessage *string    `json:"errorMessage,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	ProcessedAt  *time.Time `json:"processedAt,omitempty"`
}

type taskStatsResponse struct {
	Success    bool `json:"success"`
	Pending    int  `json:"pending"`
	Processing int  `json:"processing"`
	Done       int  `json:"done"`
	Failed     int  `json:"failed"`
	Total      int  `json:"total"`
}

type taskListResponse struct {
	Success bool      `json:"success"`
	Tasks   []taskDTO `json:"tasks"`
}

type retryResponse struct {
	Success bool `json:"success"`
	Retried int  `json:"retried"`
}

// kindFromPath maps the plural path segment onto a content kind.
func kindFromPath(s string) (domain.ContentKind, bool) {
	switch s {
	case "recipes", "recipe":
		return domain.KindRecipe, true
	case "photos", "photo":
		return domain.KindPhoto, true
	case "guides", "guide":
		return domain.KindGuide, true
	}
	return "", false
}

// SetStatus handles PATCH /admin/{kind}/{key}/status. Admin overrides may
// move an item in any direction.
func (h *AdminHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindFromPath(r.PathValue("kind"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown content kind")
		return
	}
	key := r.PathValue("key")

	var req setStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	status := domain.ContentStatus(req.Status)
	if !status.ValidFor(kind) {
		writeError(w, http.StatusBadRequest, "status "+req.Status+" is not valid for "+kind.String())
		return
	}

	var err error
	switch kind {
	case domain.KindRecipe:
		err = h.recipes.SetStatus(r.Context(), key, status)
	case domain.KindGuide:
		err = h.guides.SetStatus(r.Context(), key, status)
	case domain.KindPhoto:
		id, perr := uuid.Parse(key)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "invalid photo id")
			return
		}
		err = h.photos.SetStatus(r.Context(), id, status)
	}
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	h.log.InfoContext(r.Context(), "status overridden",
		slog.String("kind", kind.String()),
		slog.String("key", key),
		slog.String("status", status.String()),
	)
	writeJSON(w, http.StatusOK, setStatusResponse{Success: true, Kind: kind.String(), Key: key, Status: status.String()})
}

// GenerateImage handles POST /admin/recipes/{slug}/image. It runs the
// image loop synchronously.
func (h *AdminHandler) GenerateImage(w http.ResponseWriter, r *http.Request) {
	res, err := h.recipes.GenerateImage(r.Context(), r.PathValue("slug"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, imageResponse{Success: true, URL: res.URL, Score: res.Score, Attempts: res.Attempts})
}

// Moderation handles GET /admin/moderation?kind=recipe&status=pending.
func (h *AdminHandler) Moderation(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	kind := domain.KindRecipe
	if v := q.Get("kind"); v != "" {
		k, ok := kindFromPath(v)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid kind")
			return
		}
		kind = k
	}

	status := domain.StatusPending
	if v := q.Get("status"); v != "" {
		status = domain.ContentStatus(v)
	}
	if !status.ValidFor(kind) {
		writeError(w, http.StatusBadRequest, "invalid status for "+kind.String())
		return
	}

	limit, offset := pageParams(r)
	filter := domain.ListFilter{Status: &status, Limit: limit, Offset: offset}
	resp := moderationResponse{Success: true, Kind: kind.String(), Status: status.String()}

	switch kind {
	case domain.KindRecipe:
		items, err := h.recipes.List(r.Context(), filter)
		if err != nil {
			handleError(h.log, w, r, err)
			return
		}
		resp.Recipes = make([]recipeDTO, 0, len(items))
		for _, it := range items {
			resp.Recipes = append(resp.Recipes, toRecipeDTO(it))
		}
	case domain.KindPhoto:
		items, err := h.photos.ListByStatus(r.Context(), filter)
		if err != nil {
			handleError(h.log, w, r, err)
			return
		}
		resp.Photos = make([]photoDTO, 0, len(items))
		for _, it := range items {
			resp.Photos = append(resp.Photos, toPhotoDTO(it))
		}
	case domain.KindGuide:
		items, err := h.guides.List(r.Context(), filter)
		if err != nil {
			handleError(h.log, w, r, err)
			return
		}
		resp.Guides = make([]guideDTO, 0, len(items))
		for _, it := range items {
			resp.Guides = append(resp.Guides, toGuideDTO(it))
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// TaskStats handles GET /admin/tasks/stats.
func (h *AdminHandler) TaskStats(w http.ResponseWriter, r *http.Request) {
	if !h.requireQueue(w) {
		return
	}

	stats, err := h.tasks.GetStats(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, taskStatsResponse{
		Success:    true,
		Pending:    stats.Pending,
		Processing: stats.Processing,
		Done:       stats.Done,
		Failed:     stats.Failed,
		Total:      stats.Total,
	})
}

// TaskList handles GET /admin/tasks?status=failed&limit=&offset=.
func (h *AdminHandler) TaskList(w http.ResponseWriter, r *http.Request) {
	if !h.requireQueue(w) {
		return
	}
	limit, offset := pageParams(r)

	tasks, err := h.tasks.List(r.Context(), domain.TaskStatus(r.URL.Query().Get("status")), limit, offset)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]taskDTO, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskDTO{
			ID:           t.ID.String(),
			Kind:         string(t.Kind),
			SubjectKey:   t.SubjectKey,
			Status:       string(t.Status),
			Attempts:     t.Attempts,
			ErrorMessage: t.ErrorMessage,
			CreatedAt:    t.CreatedAt,
			ProcessedAt:  t.ProcessedAt,
		})
	}
	writeJSON(w, http.StatusOK, taskListResponse{Success: true, Tasks: out})
}

// RetryTasks handles POST /admin/tasks/retry.
func (h *AdminHandler) RetryTasks(w http.ResponseWriter, r *http.Request) {
	if !h.requireQueue(w) {
		return
	}

	n, err := h.tasks.RetryAllFailed(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	h.log.InfoContext(r.Context(), "failed tasks requeued", slog.Int("count", n))
	writeJSON(w, http.StatusOK, retryResponse{Success: true, Retried: n})
}

func (h *AdminHandler) requireQueue(w http.ResponseWriter) bool {
	if h.tasks == nil {
		writeError(w, http.StatusNotFound, "task queue is disabled")
		return false
	}
	return true
}
