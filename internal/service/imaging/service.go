// Package imaging generates, scores and stores hero images for recipes.
package imaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/forkful-backend/internal/config"
	"github.com/heartmarshall/forkful-backend/internal/domain"
	"github.com/heartmarshall/forkful-backend/internal/llm"
)

// ErrNoImage is returned when every generation attempt failed.
var ErrNoImage = errors.New("no image could be generated")

type imageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (llm.GeneratedImage, error)
}

type completer interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

type blobStore interface {
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
}

type recipeImageRepo interface {
	SetImage(ctx context.Context, slug, url string, isAI bool, score *float64) error
}

// Result describes the stored image.
type Result struct {
	URL      string
	Score    float64
	Attempts int
}

// Service runs the generate, score, keep best loop.
type Service struct {
	log     *slog.Logger
	gen     imageGenerator
	vision  completer
	blobs   blobStore
	recipes recipeImageRepo
	http    *http.Client
	cfg     config.ModerationConfig
}

// NewService creates a new imaging service.
func NewService(
	log *slog.Logger,
	gen imageGenerator,
	vision completer,
	blobs blobStore,
	recipes recipeImageRepo,
	cfg config.ModerationConfig,
) *Service {
	return &Service{
		log:     log.With("service", "imaging"),
		gen:     gen,
		vision:  vision,
		blobs:   blobs,
		recipes: recipes,
		http:    &http.Client{Timeout: 30 * time.Second},
		cfg:     cfg,
	}
}

type candidate struct {
	data      []byte
	mediaType string
	score     float64
}

// GenerateForRecipe makes up to MaxImageAttempts images, stops at the first
// one scoring at least ImageAcceptThreshold and otherwise keeps the best.
// The winner is uploaded and set as the recipe's AI image.
func (s *Service) GenerateForRecipe(ctx context.Context, r *domain.Recipe) (Result, error) {
	prompt := buildImagePrompt(r)

	var best *candidate
	attempts := 0
	for attempts < s.cfg.MaxImageAttempts {
		attempts++

		c, err := s.attempt(ctx, r, prompt)
		if err != nil {
			s.log.WarnContext(ctx, "image attempt failed",
				slog.String("slug", r.Slug),
				slog.Int("attempt", attempts),
				slog.String("error", err.Error()),
			)
			if ctx.Err() != nil {
				break
			}
			continue
		}

		s.log.InfoContext(ctx, "image attempt scored",
			slog.String("slug", r.Slug),
			slog.Int("attempt", attempts),
			slog.Float64("score", c.score),
		)
		if best == nil || c.score > best.score {
			best = c
		}
		if c.score >= s.cfg.ImageAcceptThreshold {
			break
		}
	}

	if best == nil {
		return Result{Attempts: attempts}, fmt.Errorf("imaging.GenerateForRecipe %s: %w", r.Slug, ErrNoImage)
	}

	name := fmt.Sprintf("recipes/%s-%s%s", r.Slug, uuid.NewString()[:8], extension(best.mediaType))
	url, err := s.blobs.Put(ctx, name, best.mediaType, best.data)
	if err != nil {
		return Result{Attempts: attempts}, fmt.Errorf("imaging.GenerateForRecipe %s: upload: %w", r.Slug, err)
	}

	score := best.score
	if err := s.recipes.SetImage(ctx, r.Slug, url, true, &score); err != nil {
		return Result{Attempts: attempts}, fmt.Errorf("imaging.GenerateForRecipe %s: save: %w", r.Slug, err)
	}

	s.log.InfoContext(ctx, "recipe image stored",
		slog.String("slug", r.Slug),
		slog.String("url", url),
		slog.Float64("score", score),
		slog.Int("attempts", attempts),
	)
	return Result{URL: url, Score: score, Attempts: attempts}, nil
}

func (s *Service) attempt(ctx context.Context, r *domain.Recipe, prompt string) (*candidate, error) {
	img, err := s.gen.GenerateImage(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	data, mediaType := img.Data, img.MediaType
	if len(data) == 0 {
		if img.URL == "" {
			return nil, errors.New("generator returned neither bytes nor url")
		}
		data, mediaType, err = s.download(ctx, img.URL)
		if err != nil {
			return nil, err
		}
	}

	return &candidate{data: data, mediaType: mediaType, score: s.scoreImage(ctx, r, data, mediaType)}, nil
}
