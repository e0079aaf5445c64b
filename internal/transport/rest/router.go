package rest

import (
	"net/http"

	"github.com/heartmarshall/forkful-backend/internal/transport/middleware"
)

// Handlers groups every REST handler mounted by NewRouter.
type Handlers struct {
	Health   *HealthHandler
	Validate *ValidateHandler
	Recipes  *RecipeHandler
	Comments *CommentHandler
	Photos   *PhotoHandler
	Guides   *GuideHandler
	Auth     *AuthHandler
	Admin    *AdminHandler
	Media    *MediaHandler
}

// Limits are the per-route rate limiters. A nil entry disables limiting.
type Limits struct {
	Generate middleware.Middleware
	Comment  middleware.Middleware
}

// NewRouter registers all routes. Request-scoped middleware (request id,
// logging, auth) is applied by the caller around the returned mux.
func NewRouter(h Handlers, l Limits) *http.ServeMux {
	mux := http.NewServeMux()

	generate := middleware.Chain(l.Generate)
	comment := middleware.Chain(l.Comment)
	admin := middleware.AdminOnly

	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)

	mux.HandleFunc("POST /api/validate", h.Validate.Validate)

	mux.Handle("POST /api/recipes/generate", generate(http.HandlerFunc(h.Recipes.Generate)))
	mux.HandleFunc("POST /api/recipes", h.Recipes.Submit)
	mux.HandleFunc("GET /api/recipes", h.Recipes.List)
	mux.HandleFunc("GET /api/recipes/{slug}", h.Recipes.Get)
	mux.Handle("POST /api/recipes/score", generate(http.HandlerFunc(h.Recipes.Score)))

	mux.Handle("POST /api/recipes/{slug}/comments", comment(http.HandlerFunc(h.Comments.Create)))
	mux.HandleFunc("GET /api/recipes/{slug}/comments", h.Comments.List)

	mux.Handle("POST /api/photos", generate(http.HandlerFunc(h.Photos.Upload)))
	mux.HandleFunc("GET /api/photos/{id}", h.Photos.Get)
	mux.Handle("POST /api/photos/score", generate(http.HandlerFunc(h.Photos.Score)))

	mux.Handle("POST /api/guides/generate", generate(http.HandlerFunc(h.Guides.Generate)))
	mux.HandleFunc("GET /api/guides", h.Guides.List)
	mux.HandleFunc("GET /api/guides/{slug}", h.Guides.Get)
	mux.Handle("POST /api/guides/score", generate(http.HandlerFunc(h.Guides.Score)))

	mux.HandleFunc("POST /admin/login", h.Auth.Login)
	mux.Handle("PATCH /admin/{kind}/{key}/status", admin(http.HandlerFunc(h.Admin.SetStatus)))
	mux.Handle("POST /admin/recipes/{slug}/image", admin(http.HandlerFunc(h.Admin.GenerateImage)))
	mux.Handle("GET /admin/moderation", admin(http.HandlerFunc(h.Admin.Moderation)))
	mux.Handle("GET /admin/tasks", admin(http.HandlerFunc(h.Admin.TaskList)))
	mux.Handle("GET /admin/tasks/stats", admin(http.HandlerFunc(h.Admin.TaskStats)))
	mux.Handle("POST /admin/tasks/retry", admin(http.HandlerFunc(h.Admin.RetryTasks)))

	mux.HandleFunc("GET /media/{name...}", h.Media.Serve)

	return mux
}
