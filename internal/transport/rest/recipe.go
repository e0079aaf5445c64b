package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/forkful-backend/internal/domain"
	"github.com/heartmarshall/forkful-backend/internal/service/moderation"
	"github.com/heartmarshall/forkful-backend/internal/service/recipe"
	"github.com/heartmarshall/forkful-backend/pkg/ctxutil"
)

type recipeService interface {
	Generate(ctx context.Context, input recipe.GenerateInput) (*recipe.GenerateResult, error)
	Submit(ctx context.Context, input recipe.SubmitInput) (*domain.Recipe, error)
	Get(ctx context.Context, slug string) (*domain.Recipe, error)
	List(ctx context.Context, filter domain.ListFilter) ([]*domain.Recipe, error)
	Score(ctx context.Context, slug string) (*domain.Recipe, moderation.Outcome, error)
}

// RecipeHandler serves the public recipe endpoints.
type RecipeHandler struct {
	svc recipeService
	log *slog.Logger
}

// NewRecipeHandler creates a RecipeHandler.
func NewRecipeHandler(svc recipeService, logger *slog.Logger) *RecipeHandler {
	return &RecipeHandler{svc: svc, log: logger.With("handler", "recipe")}
}

type generateRecipeRequest struct {
	Query       string   `json:"query"`
	Ingredients []string `json:"ingredients"`
	Essentials  []string `json:"essentials"`
	Dietary     []string `json:"dietary"`
}

type generateRecipeResponse struct {
	Success bool      `json:"success"`
	Label   string    `json:"label"`
	Recipe  recipeDTO `json:"recipe"`
}

type submitRecipeRequest struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Ingredients []string     `json:"ingredients"`
	Method      []string     `json:"method"`
	Servings    int          `json:"servings"`
	PrepMinutes int          `json:"prepMinutes"`
	CookMinutes int          `json:"cookMinutes"`
	Nutrition   nutritionDTO `json:"nutrition"`
}

type recipeResponse struct {
	Success bool      `json:"success"`
	Recipe  recipeDTO `json:"recipe"`
}

type recipeListResponse struct {
	Success bool        `json:"success"`
	Recipes []recipeDTO `json:"recipes"`
}

type slugRequest struct {
	Slug string `json:"slug"`
}

// Generate handles POST /api/recipes/generate.
func (h *RecipeHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRecipeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.svc.Generate(r.Context(), recipe.GenerateInput{
		Query:       req.Query,
		Ingredients: req.Ingredients,
		Essentials:  req.Essentials,
		Dietary:     req.Dietary,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, generateRecipeResponse{
		Success: true,
		Label:   res.Label.String(),
		Recipe:  toRecipeDTO(res.Recipe),
	})
}

// Submit handles POST /api/recipes.
func (h *RecipeHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRecipeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := h.svc.Submit(r.Context(), recipe.SubmitInput{
		Title:       req.Title,
		Description: req.Description,
		Ingredients: req.Ingredients,
		Method:      req.Method,
		Servings:    req.Servings,
		PrepMinutes: req.PrepMinutes,
		CookMinutes: req.CookMinutes,
		Nutrition: domain.Nutrition{
			Calories: req.Nutrition.Calories,
			Protein:  req.Nutrition.Protein,
			Carbs:    req.Nutrition.Carbs,
			Fat:      req.Nutrition.Fat,
		},
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, recipeResponse{Success: true, Recipe: toRecipeDTO(rec)})
}

// List handles GET /api/recipes?limit=&offset=. Only featured recipes are
// public.
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	status := domain.StatusFeatured

	recipes, err := h.svc.List(r.Context(), domain.ListFilter{Status: &status, Limit: limit, Offset: offset})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]recipeDTO, 0, len(recipes))
	for _, rec := range recipes {
		out = append(out, toRecipeDTO(rec))
	}
	writeJSON(w, http.StatusOK, recipeListResponse{Success: true, Recipes: out})
}

// Get handles GET /api/recipes/{slug}. Rejected recipes are hidden from
// everyone but admins.
func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Get(r.Context(), r.PathValue("slug"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if rec.Status == domain.StatusRejected && !ctxutil.IsAdminCtx(r.Context()) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	writeJSON(w, http.StatusOK, recipeResponse{Success: true, Recipe: toRecipeDTO(rec)})
}

// Score handles POST /api/recipes/score.
func (h *RecipeHandler) Score(w http.ResponseWriter, r *http.Request) {
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
