// Package photo handles user photo uploads and their moderation.
package photo

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/forkful-backend/internal/config"
	"github.com/heartmarshall/forkful-backend/internal/domain"
	"github.com/heartmarshall/forkful-backend/internal/photoinspect"
	"github.com/heartmarshall/forkful-backend/internal/service/moderation"
)

type photoRepo interface {
	Create(ctx context.Context, p *domain.Photo) (*domain.Photo, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Photo, error)
	ListByStatus(ctx context.Context, filter domain.ListFilter) ([]*domain.Photo, error)
	HashesByRecipe(ctx context.Context, recipeSlug string) ([]uint64, error)
	ApplyAssessment(ctx context.Context, id uuid.UUID, a domain.Assessment, status domain.ContentStatus) error
	SetStatus(ctx context.Context, id uuid.UUID, status domain.ContentStatus) error
}

type recipeStore interface {
	SlugExists(ctx context.Context, slug string) (bool, error)
	SetImage(ctx context.Context, slug, url string, isAI bool, score *float64) error
}

type blobStore interface {
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

type notifier interface {
	NotifyPhotoFlagged(ctx context.Context, p *domain.Photo) error
}

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Service provides photo operations.
type Service struct {
	log      *slog.Logger
	photos   photoRepo
	recipes  recipeStore
	blobs    blobStore
	pipeline *moderation.Pipeline[moderation.PhotoSubject]
	maxBytes int64
}

// NewService creates a new photo service.
func NewService(
	log *slog.Logger,
	photos photoRepo,
	recipes recipeStore,
	blobs blobStore,
	notify notifier,
	strategy moderation.Strategy[moderation.PhotoSubject],
	modCfg config.ModerationConfig,
	storageCfg config.StorageConfig,
) *Service {
	log = log.With("service", "photo")
	sink := &assessmentSink{
		log:       log,
		photos:    photos,
		recipes:   recipes,
		notify:    notify,
		promoteAt: modCfg.PhotoPromoteThreshold,
	}
	return &Service{
		log:      log,
		photos:   photos,
		recipes:  recipes,
		blobs:    blobs,
		pipeline: moderation.NewPipeline(log, domain.KindPhoto, strategy, sink),
		maxBytes: storageCfg.MaxUploadBytes,
	}
}

// assessmentSink persists photo outcomes. An approved photo scoring at
// least promoteAt becomes the recipe's primary image, and a flagged photo
// is announced to the admins.
type assessmentSink struct {
	log       *slog.Logger
	photos    photoRepo
	recipes   recipeStore
	notify    notifier
	promoteAt float64
}

func (s *assessmentSink) Apply(ctx context.Context, subj moderation.PhotoSubject, out moderation.Outcome) error {
	p := subj.Photo
	if err := s.photos.ApplyAssessment(ctx, p.ID, out.Assessment, out.Status); err != nil {
		return err
	}

	score := out.Score()
	auth := out.Assessment.Authenticity
	conf := out.Assessment.AuthenticityConfidence
	p.QualityScore = &score
	p.Status = out.Status
	if auth != "" {
		p.Authenticity = &auth
		p.AuthenticityConfidence = &conf
	}
	if r := out.Assessment.Reasoning; r != "" {
		p.Reasoning = &r
	}

	if !out.Changed() {
		return nil
	}

	switch out.Status {
	case domain.StatusApproved:
		if score >= s.promoteAt {
			if err := s.recipes.SetImage(ctx, p.RecipeSlug, p.URL, false, &score); err != nil {
				return fmt.Errorf("promote photo: %w", err)
			}
			s.log.InfoContext(ctx, "photo promoted",
				slog.String("photo_id", p.ID.String()),
				slog.String("recipe", p.RecipeSlug),
			)
		}
	case domain.StatusFlagged:
		if err := s.notify.NotifyPhotoFlagged(ctx, p); err != nil {
			s.log.WarnContext(ctx, "admin notification failed",
				slog.String("photo_id", p.ID.String()),
				slog.String("error", err.Error()),
			)
		}
	}
	return nil
}

// subject loads the stored image bytes for scoring.
func (s *Service) subject(ctx context.Context, p *domain.Photo) (moderation.PhotoSubject, error) {
	rc, err := s.blobs.Open(ctx, p.BlobName)
	if err != nil {
		return moderation.PhotoSubject{}, fmt.Errorf("open blob: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, s.maxBytes+1))
	if err != nil {
		return moderation.PhotoSubject{}, fmt.Errorf("read blob: %w", err)
	}

	d, err := photoinspect.Decode(data)
	if err != nil {
		return moderation.PhotoSubject{}, err
	}
	return moderation.PhotoSubject{Photo: p, Data: data, MediaType: photoinspect.MediaType(d.Format), Format: d.Format}, nil
}
