package photo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/forkful-backend/internal/domain"
	"github.com/heartmarshall/forkful-backend/internal/service/moderation"
)

// Score re-runs moderation for a stored photo. Failures leave the photo
// untouched and are returned as upstream errors.
func (s *Service) Score(ctx context.Context, id uuid.UUID) (*domain.Photo, moderation.Outcome, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, moderation.Outcome{}, err
	}

	subj, err := s.subject(ctx, p)
	if err != nil {
		return nil, moderation.Outcome{}, fmt.Errorf("photo.Score: %w", err)
	}

	out, err := s.pipeline.Run(ctx, subj)
	if err != nil {
		return nil, moderation.Outcome{}, fmt.Errorf("photo.Score: %w", asUpstream(err))
	}
	return p, out, nil
}

// Get returns a photo by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Photo, error) {
	if id == uuid.Nil {
		return nil, domain.NewValidationError("photo_id", "required")
	}
	return s.photos.GetByID(ctx, id)
}

// ListByStatus returns photos, optionally filtered by status, newest first.
func (s *Service) ListByStatus(ctx context.Context, filter domain.ListFilter) ([]*domain.Photo, error) {
	if filter.Status != nil && !filter.Status.ValidFor(domain.KindPhoto) {
		return nil, domain.NewValidationError("status", "invalid for photos")
	}
	if filter.Limit <= 0 {
		filter.Limit = DefaultLimit
	}
	filter.Limit = min(filter.Limit, MaxLimit)
	filter.Offset = max(filter.Offset, 0)
	return s.photos.ListByStatus(ctx, filter)
}

// SetStatus overrides the moderation status.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status domain.ContentStatus) error {
	if id == uuid.Nil {
		return domain.NewValidationError("photo_id", "required")
	}
	if !status.ValidFor(domain.KindPhoto) {
		return domain.NewValidationError("status", "invalid for photos")
	}
	if err := s.photos.SetStatus(ctx, id, status); err != nil {
		return fmt.Errorf("photo.SetStatus: %w", err)
	}
	s.log.InfoContext(ctx, "photo status set", slog.String("photo_id", id.String()), slog.String("status", string(status)))
	return nil
}
