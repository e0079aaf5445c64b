package recipe

import (
	"context"

	"github.com/heartmarshall/forkful-backend/internal/domain"
)

// Get returns a recipe by slug.
func (s *Service) Get(ctx context.Context, slug string) (*domain.Recipe, error) {
	if slug == "" {
		return nil, domain.NewValidationError("slug", "required")
	}
	return s.recipes.GetBySlug(ctx, slug)
}

// List returns recipes, optionally filtered by status, newest first.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Recipe, error) {
	if filter.Status != nil && !filter.Status.ValidFor(domain.KindRecipe) {
		return nil, domain.NewValidationError("status", "invalid for recipes")
	}
	if filter.Limit <= 0 {
		filter.Limit = DefaultLimit
	}
	if filter.Limit > MaxLimit {
		filter.Limit = MaxLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.recipes.List(ctx, filter)
}
