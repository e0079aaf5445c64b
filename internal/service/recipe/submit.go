package recipe

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/forkful-backend/internal/domain"
)

// Submit saves a community recipe for review. It is gated on the food
// validator, saved as pending, queued for scoring and announced to the
// admins.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (*domain.Recipe, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	ingredients := nonEmpty(input.Ingredients)
	verdict := s.validator.ValidateUserInput(ctx, ingredients, nil)
	if !verdict.Valid {
		return nil, domain.NewValidationError("ingredients", verdict.Reason)
	}

	title := strings.TrimSpace(input.Title)
	slug, err := s.uniqueSlug(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("recipe.Submit: %w", err)
	}

	created, err := s.recipes.Create(ctx, &domain.Recipe{
		Slug:        slug,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Ingredients: ingredients,
		Method:      nonEmpty(input.Method),
		Servings:    input.Servings,
		PrepMinutes: input.PrepMinutes,
		CookMinutes: input.CookMinutes,
		Nutrition:   input.Nutrition.Clamp(),
		Source:      domain.SourceCommunity,
		Status:      domain.StatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("recipe.Submit: create: %w", err)
	}

	s.log.InfoContext(ctx, "recipe submitted", slog.String("slug", created.Slug))

	s.enqueue(ctx, created.Slug, domain.TaskScoreRecipe)
	if err := s.notify.NotifyRecipeSubmitted(ctx, created); err != nil {
		s.log.WarnContext(ctx, "admin notification failed",
			slog.String("slug", created.Slug),
			slog.String("error", err.Error()),
		)
	}

	return created, nil
}
