// Package comment implements public recipe comments.
package comment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/heartmarshall/forkful-backend/internal/domain"
)

type commentRepo interface {
	Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error)
	ListByRecipe(ctx context.Context, recipeSlug string, limit, offset int) ([]*domain.Comment, error)
}

type recipeLookup interface {
	SlugExists(ctx context.Context, slug string) (bool, error)
}

const (
	MaxAuthorLen = 80
	MaxBodyLen   = 2000

	DefaultLimit = 50
	MaxLimit     = 200
)

// Service provides comment operations.
type Service struct {
	log      *slog.Logger
	comments commentRepo
	recipes  recipeLookup
}

// NewService creates a new comment service.
func NewService(log *slog.Logger, comments commentRepo, recipes recipeLookup) *Service {
	return &Service{
		log:      log.With("service", "comment"),
		comments: comments,
		recipes:  recipes,
	}
}

// CreateInput holds the parameters for posting a comment.
type CreateInput struct {
	RecipeSlug string
	Author     string
	Body       string
	ClientIP   string
}

// Validate checks all fields and collects all errors.
func (i CreateInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.RecipeSlug) == "" {
		errs = append(errs, domain.FieldError{Field: "recipe_slug", Message: "required"})
	}

	author := strings.TrimSpace(i.Author)
	if author == "" {
		errs = append(errs, domain.FieldError{Field: "author", Message: "required"})
	}
	if utf8.RuneCountInString(author) > MaxAuthorLen {
		errs = append(errs, domain.FieldError{Field: "author", Message: "max 80 characters"})
	}

	body := strings.TrimSpace(i.Body)
	if body == "" {
		errs = append(errs, domain.FieldError{Field: "body", Message: "required"})
	}
	if utf8.RuneCountInString(body) > MaxBodyLen {
		errs = append(errs, domain.FieldError{Field: "body", Message: "max 2000 characters"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// Create posts a comment on an existing recipe.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Comment, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.recipes.SlugExists(ctx, input.RecipeSlug)
	if err != nil {
		return nil, fmt.Errorf("comment.Create: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("recipe %s: %w", input.RecipeSlug, domain.ErrNotFound)
	}

	c, err := s.comments.Create(ctx, &domain.Comment{
		RecipeSlug: input.RecipeSlug,
		Author:     strings.TrimSpace(input.Author),
		Body:       strings.TrimSpace(input.Body),
		ClientIP:   input.ClientIP,
	})
	if err != nil {
		return nil, fmt.Errorf("comment.Create: %w", err)
	}

	s.log.InfoContext(ctx, "comment created", slog.String("recipe", c.RecipeSlug), slog.String("comment_id", c.ID.String()))
	return c, nil
}

// List returns comments on a recipe, oldest first.
func (s *Service) List(ctx context.Context, recipeSlug string, limit, offset int) ([]*domain.Comment, error) {
	if recipeSlug == "" {
		return nil, domain.NewValidationError("recipe_slug", "required")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return s.comments.ListByRecipe(ctx, recipeSlug, min(limit, MaxLimit), max(offset, 0))
}
