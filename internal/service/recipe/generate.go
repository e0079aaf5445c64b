package recipe

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/forkful-backend/internal/domain"
	"github.com/heartmarshall/forkful-backend/internal/llm"
	"github.com/heartmarshall/forkful-backend/internal/service/classify"
)

const generateMaxTokens = 2000

// GenerateResult is a freshly generated recipe and the label its query
// was routed by.
type GenerateResult struct {
	Recipe *domain.Recipe
	Label  domain.ClassificationLabel
}

type generatedJSON struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients"`
	Method      []string `json:"method"`
	Servings    float64  `json:"servings"`
	PrepMinutes float64  `json:"prep_minutes"`
	CookMinutes float64  `json:"cook_minutes"`
	Nutrition   struct {
		Calories float64 `json:"calories"`
		Protein  float64 `json:"protein"`
		Carbs    float64 `json:"carbs"`
		Fat      float64 `json:"fat"`
	} `json:"nutrition"`
}

// Generate routes the query through the classifier, gates it on the food
// validator and asks the text model for a recipe. The recipe is saved as
// pending and returned at once; image generation and scoring run in the
// background.
func (s *Service) Generate(ctx context.Context, input GenerateInput) (*GenerateResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	query := strings.TrimSpace(input.Query)
	ingredients := nonEmpty(input.Ingredients)
	essentials := nonEmpty(input.Essentials)

	label := domain.LabelIngredients
	var dish string
	if query != "" {
		label = classify.Classify(query)
		if label == domain.LabelDish {
			dish = query
		} else {
			ingredients = append(ingredients, classify.SplitTerms(query)...)
		}
	}

	terms := ingredients
	if dish != "" {
		terms = append([]string{dish}, ingredients...)
	}
	verdict := s.validator.ValidateUserInput(ctx, terms, essentials)
	if !verdict.Valid {
		return nil, domain.NewValidationError("query", verdict.Reason)
	}

	reply, err := s.model.Complete(ctx, llm.Request{
		System:    generateSystemPrompt,
		Prompt:    buildGeneratePrompt(dish, ingredients, essentials, nonEmpty(input.Dietary)),
		MaxTokens: generateMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("recipe.Generate: %w: %v", domain.ErrUpstream, err)
	}

	var g generatedJSON
	if err := llm.DecodeJSON(reply, &g); err != nil {
		return nil, fmt.Errorf("recipe.Generate: %w: %v", domain.ErrUpstream, err)
	}

	rec := g.toRecipe()
	if rec == nil {
		return nil, fmt.Errorf("recipe.Generate: %w: incomplete recipe", domain.ErrUpstream)
	}

	rec.Slug, err = s.uniqueSlug(ctx, rec.Title)
	if err != nil {
		return nil, fmt.Errorf("recipe.Generate: %w", err)
	}

	created, err := s.recipes.Create(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("recipe.Generate: create: %w", err)
	}

	s.log.InfoContext(ctx, "recipe generated",
		slog.String("slug", created.Slug),
		slog.String("label", string(label)),
	)

	s.enqueue(ctx, created.Slug, domain.TaskGenerateRecipeImage, domain.TaskScoreRecipe)

	return &GenerateResult{Recipe: created, Label: label}, nil
}

// toRecipe converts the model reply into a pending AI recipe, or nil when
// the reply lacks a title, ingredients or method.
func (g generatedJSON) toRecipe() *domain.Recipe {
	title := strings.TrimSpace(g.Title)
	ingredients := nonEmpty(g.Ingredients)
	method := nonEmpty(g.Method)
	if title == "" || domain.Slugify(title) == "" || len(ingredients) == 0 || len(method) == 0 {
		return nil
	}

	return &domain.Recipe{
		Title:       title,
		Description: strings.TrimSpace(g.Description),
		Ingredients: ingredients,
		Method:      method,
		Servings:    boundedInt(g.Servings, maxServings),
		PrepMinutes: boundedInt(g.PrepMinutes, maxMinutes),
		CookMinutes: boundedInt(g.CookMinutes, maxMinutes),
		Nutrition: domain.Nutrition{
			Calories: g.Nutrition.Calories,
			Protein:  g.Nutrition.Protein,
			Carbs:    g.Nutrition.Carbs,
			Fat:      g.Nutrition.Fat,
		}.Clamp(),
		Source: domain.SourceAI,
		Status: domain.StatusPending,
	}
}

func boundedInt(v float64, hi int) int {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > float64(hi) {
		return hi
	}
	return int(math.Round(v))
}

// uniqueSlug derives a slug from title, adding a short random suffix when
// the plain slug is taken.
func (s *Service) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := domain.Slugify(title)
	candidate := base
	for range 5 {
		exists, err := s.recipes.SlugExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = base + "-" + uuid.NewString()[:6]
	}
	return "", fmt.Errorf("slug %q: %w", base, domain.ErrAlreadyExists)
}
