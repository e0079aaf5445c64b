package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/forkful-backend/internal/adapter/blob/gridfs"
	"github.com/heartmarshall/forkful-backend/internal/adapter/blob/local"
	"github.com/heartmarshall/forkful-backend/internal/adapter/email"
	"github.com/heartmarshall/forkful-backend/internal/adapter/llm/anthropic"
	"github.com/heartmarshall/forkful-backend/internal/adapter/llm/gemini"
	"github.com/heartmarshall/forkful-backend/internal/adapter/postgres"
	commentrepo "github.com/heartmarshall/forkful-backend/internal/adapter/postgres/comment"
	enrichmentrepo "github.com/heartmarshall/forkful-backend/internal/adapter/postgres/enrichment"
	guiderepo "github.com/heartmarshall/forkful-backend/internal/adapter/postgres/guide"
	photorepo "github.com/heartmarshall/forkful-backend/internal/adapter/postgres/photo"
	reciperepo "github.com/heartmarshall/forkful-backend/internal/adapter/postgres/recipe"
	internalauth "github.com/heartmarshall/forkful-backend/internal/auth"
	"github.com/heartmarshall/forkful-backend/internal/config"
	"github.com/heartmarshall/forkful-backend/internal/domain"
	"github.com/heartmarshall/forkful-backend/internal/llm"
	authsvc "github.com/heartmarshall/forkful-backend/internal/service/auth"
	"github.com/heartmarshall/forkful-backend/internal/service/comment"
	"github.com/heartmarshall/forkful-backend/internal/service/enrichment"
	"github.com/heartmarshall/forkful-backend/internal/service/guide"
	"github.com/heartmarshall/forkful-backend/internal/service/imaging"
	"github.com/heartmarshall/forkful-backend/internal/service/moderation"
	"github.com/heartmarshall/forkful-backend/internal/service/photo"
	"github.com/heartmarshall/forkful-backend/internal/service/recipe"
	"github.com/heartmarshall/forkful-backend/internal/service/validate"
	"github.com/heartmarshall/forkful-backend/internal/transport/rest"
)

// BlobStore is the media storage used by the photo and imaging services.
type BlobStore interface {
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// Components is the assembled dependency graph shared by the server and
// the admin CLI.
type Components struct {
	Config *config.Config
	Log    *slog.Logger

	Pool  *pgxpool.Pool
	Blobs BlobStore

	Auth      *authsvc.Service
	Validator *validate.Service
	Recipes   *recipe.Service
	Photos    *photo.Service
	Guides    *guide.Service
	Comments  *comment.Service

	// Exactly one of Async and Queue is set, depending on the enrichment mode.
	Async  *enrichment.AsyncDispatcher
	Queue  *enrichment.Service
	Worker *enrichment.Worker

	checks  []rest.Check
	closers []func(ctx context.Context) error
}

// Build connects to the database and blob store and wires every service.
// The caller must Close the result.
func Build(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Components, error) {
	c := &Components{Config: cfg, Log: log}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("app.Build: %w", err)
	}
	c.Pool = pool
	c.checks = append(c.checks, rest.Check{Name: "database", Pinger: pool})
	c.closers = append(c.closers, func(context.Context) error { pool.Close(); return nil })

	if err := c.buildBlobs(ctx); err != nil {
		c.Close(ctx)
		return nil, err
	}

	text, vision, images, err := buildModels(ctx, cfg.LLM)
	if err != nil {
		c.Close(ctx)
		return nil, err
	}

	recipes := reciperepo.New(pool)
	photos := photorepo.New(pool)
	guides := guiderepo.New(pool)
	comments := commentrepo.New(pool)

	notify := email.NewSender(cfg.Email)
	jwt := internalauth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	runner := enrichment.NewRunner()
	var tasks interface {
		Enqueue(ctx context.Context, kind domain.TaskKind, key string) error
	}
	switch cfg.Enrichment.Mode {
	case config.EnrichmentQueue:
		c.Queue = enrichment.NewService(log, enrichmentrepo.New(pool))
		c.Worker = enrichment.NewWorker(log, c.Queue, runner, cfg.Enrichment)
		tasks = enrichment.NewQueueDispatcher(c.Queue)
	default:
		c.Async = enrichment.NewAsyncDispatcher(log, runner, cfg.Enrichment.TaskTimeout)
		tasks = c.Async
	}

	c.Validator = validate.NewService(log, text)
	c.Auth = authsvc.NewService(log, jwt, cfg.Auth)

	imager := imaging.NewService(log, images, vision, c.Blobs, recipes, cfg.Moderation)
	c.Recipes = recipe.NewService(log, recipes, c.Validator, text, tasks, imager, notify,
		moderation.NewRecipeRubric(log, text, cfg.Moderation))
	c.Guides = guide.NewService(log, guides, c.Validator, text, tasks,
		moderation.NewGuideRubric(log, text, cfg.Moderation))
	c.Photos = photo.NewService(log, photos, recipes, c.Blobs, notify,
		moderation.NewPhotoStrategy(log, vision, cfg.Moderation), cfg.Moderation, cfg.Storage)
	c.Comments = comment.NewService(log, comments, recipes)

	runner.Register(domain.TaskScoreRecipe, c.Recipes.HandleScoreTask)
	runner.Register(domain.TaskGenerateRecipeImage, c.Recipes.HandleImageTask)
	runner.Register(domain.TaskScoreGuide, c.Guides.HandleScoreTask)

	return c, nil
}

func (c *Components) buildBlobs(ctx context.Context) error {
	switch c.Config.Storage.Backend {
	case config.StorageGridFS:
		store, err := gridfs.Connect(ctx, c.Config.Storage)
		if err != nil {
			return fmt.Errorf("app.Build: %w", err)
		}
		c.Blobs = store
		c.checks = append(c.checks, rest.Check{Name: "storage", Pinger: store})
		c.closers = append(c.closers, store.Close)
	default:
		store, err := local.New(c.Config.Storage.LocalDir, c.Config.Storage.PublicBaseURL)
		if err != nil {
			return fmt.Errorf("app.Build: %w", err)
		}
		c.Blobs = store
	}
	return nil
}

// buildModels returns the text completer, the vision completer and the
// image generator for the configured providers.
func buildModels(ctx context.Context, cfg config.LLMConfig) (text, vision llm.Completer, images llm.ImageGenerator, err error) {
	images = llm.NoImages{}

	var gem *gemini.Client
	if cfg.NeedsGemini() {
		gem, err = gemini.New(ctx, gemini.Config{
			APIKey:     cfg.GeminiAPIKey,
			Model:      cfg.GeminiModel,
			ImageModel: cfg.ImageModel,
			MaxTokens:  cfg.MaxTokens,
			Timeout:    cfg.RequestTimeout,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("app.Build: %w", err)
		}
		images = gem
	}

	var claude *anthropic.Client
	if cfg.AnthropicAPIKey != "" {
		claude = anthropic.New(anthropic.Config{
			APIKey:     cfg.AnthropicAPIKey,
			Model:      cfg.AnthropicModel,
			MaxTokens:  cfg.MaxTokens,
			Timeout:    cfg.RequestTimeout,
			MaxRetries: cfg.MaxRetries,
		})
	}

	// Nil clients must stay untyped nil for the check below.
	pick := func(provider string) llm.Completer {
		switch {
		case provider == config.ProviderGemini && gem != nil:
			return gem
		case provider == config.ProviderAnthropic && claude != nil:
			return claude
		}
		return nil
	}
	text, vision = pick(cfg.TextProvider), pick(cfg.VisionProvider)
	if text == nil || vision == nil {
		return nil, nil, nil, errors.New("app.Build: selected llm provider is not configured")
	}
	return text, vision, images, nil
}

// HealthChecks returns the readiness probes of the connected backends.
func (c *Components) HealthChecks() []rest.Check {
	return c.checks
}

// Close releases connections in reverse order of acquisition.
func (c *Components) Close(ctx context.Context) {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](ctx); err != nil {
			c.Log.Warn("close failed", slog.String("error", err.Error()))
		}
	}
	c.closers = nil
}
