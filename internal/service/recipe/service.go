// Package recipe implements recipe generation, community submission and
// moderation.
package recipe

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/forkful-backend/internal/domain"
	"github.com/heartmarshall/forkful-backend/internal/llm"
	"github.com/heartmarshall/forkful-backend/internal/service/imaging"
	"github.com/heartmarshall/forkful-backend/internal/service/moderation"
)

type recipeRepo interface {
	Create(ctx context.Context, r *domain.Recipe) (*domain.Recipe, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Recipe, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, filter domain.ListFilter) ([]*domain.Recipe, error)
	ApplyScore(ctx context.Context, slug string, score float64, status domain.ContentStatus) error
	SetStatus(ctx context.Context, slug string, status domain.ContentStatus) error
}

type inputValidator interface {
	ValidateUserInput(ctx context.Context, terms, essentials []string) domain.ValidationVerdict
}

type completer interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

type dispatcher interface {
	Enqueue(ctx context.Context, kind domain.TaskKind, key string) error
}

type imager interface {
	GenerateForRecipe(ctx context.Context, r *domain.Recipe) (imaging.Result, error)
}

type notifier interface {
	NotifyRecipeSubmitted(ctx context.Context, r *domain.Recipe) error
}

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Service provides recipe operations.
type Service struct {
	log       *slog.Logger
	recipes   recipeRepo
	validator inputValidator
	model     completer
	tasks     dispatcher
	images    imager
	notify    notifier
	pipeline  *moderation.Pipeline[*domain.Recipe]
}

// NewService creates a new recipe service. The rubric scores recipes; the
// outcome is written back through the recipe repository.
func NewService(
	log *slog.Logger,
	recipes recipeRepo,
	validator inputValidator,
	model completer,
	tasks dispatcher,
	images imager,
	notify notifier,
	rubric moderation.Strategy[*domain.Recipe],
) *Service {
	log = log.With("service", "recipe")
	return &Service{
		log:       log,
		recipes:   recipes,
		validator: validator,
		model:     model,
		tasks:     tasks,
		images:    images,
		notify:    notify,
		pipeline:  moderation.NewPipeline(log, domain.KindRecipe, rubric, scoreSink{recipes: recipes}),
	}
}

// scoreSink persists pipeline outcomes by slug.
type scoreSink struct {
	recipes recipeRepo
}

func (s scoreSink) Apply(ctx context.Context, r *domain.Recipe, out moderation.Outcome) error {
	if err := s.recipes.ApplyScore(ctx, r.Slug, out.Score(), out.Status); err != nil {
		return err
	}
	score := out.Score()
	r.QualityScore = &score
	r.Status = out.Status
	return nil
}

// enqueue schedules background work. Failures are logged only; the
// recipe is already saved.
func (s *Service) enqueue(ctx context.Context, slug string, kinds ...domain.TaskKind) {
	for _, kind := range kinds {
		if err := s.tasks.Enqueue(ctx, kind, slug); err != nil {
			s.log.WarnContext(ctx, "enqueue failed",
				slog.String("kind", string(kind)),
				slog.String("slug", slug),
				slog.String("error", err.Error()),
			)
		}
	}
}
