package recipe

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/forkful-backend/internal/domain"
	"github.com/heartmarshall/forkful-backend/internal/service/imaging"
	"github.com/heartmarshall/forkful-backend/internal/service/moderation"
)

// Score runs the recipe through the moderation pipeline synchronously.
func (s *Service) Score(ctx context.Context, slug string) (*domain.Recipe, moderation.Outcome, error) {
	r, err := s.Get(ctx, slug)
	if err != nil {
		return nil, moderation.Outcome{}, err
	}

	out, err := s.pipeline.Run(ctx, r)
	if err != nil {
		return nil, moderation.Outcome{}, fmt.Errorf("recipe.Score: %w", err)
	}
	return r, out, nil
}

// GenerateImage runs the image sub-flow for an existing recipe.
func (s *Service) GenerateImage(ctx context.Context, slug string) (imaging.Result, error) {
	r, err := s.Get(ctx, slug)
	if err != nil {
		return imaging.Result{}, err
	}

	res, err := s.images.GenerateForRecipe(ctx, r)
	if err != nil {
		s.log.WarnContext(ctx, "image generation failed",
			slog.String("slug", slug),
			slog.String("error", err.Error()),
		)
		return imaging.Result{}, fmt.Errorf("recipe.GenerateImage: %w", err)
	}
	return res, nil
}

// SetStatus overrides the moderation status. Admins may move a recipe in
// either direction.
func (s *Service) SetStatus(ctx context.Context, slug string, status domain.ContentStatus) error {
	if slug == "" {
		return domain.NewValidationError("slug", "required")
	}
	if !status.ValidFor(domain.KindRecipe) {
		return domain.NewValidationError("status", "invalid for recipes")
	}
	if err := s.recipes.SetStatus(ctx, slug, status); err != nil {
		return fmt.Errorf("recipe.SetStatus: %w", err)
	}
	s.log.InfoContext(ctx, "recipe status set", slog.String("slug", slug), slog.String("status", string(status)))
	return nil
}

// HandleScoreTask is the background handler for recipe scoring.
func (s *Service) HandleScoreTask(ctx context.Context, slug string) error {
	_, _, err := s.Score(ctx, slug)
	return err
}

// HandleImageTask is the background handler for recipe image
// generation.
func (s *Service) HandleImageTask(ctx context.Context, slug string) error {
	_, err := s.GenerateImage(ctx, slug)
	return err
}
