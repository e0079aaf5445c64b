// Package enrichment runs background scoring and image generation, either
// as detached goroutines or through a durable task queue.
package enrichment

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/forkful-backend/internal/domain"
)

type queueRepo interface {
	Enqueue(ctx context.Context, kind domain.TaskKind, subjectKey string) error
	ClaimBatch(ctx context.Context, limit int) ([]domain.EnrichmentTask, error)
	MarkDone(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
	GetStats(ctx context.Context) (domain.TaskStats, error)
	List(ctx context.Context, status domain.TaskStatus, limit, offset int) ([]domain.EnrichmentTask, error)
	RetryAllFailed(ctx context.Context) (int, error)
	ResetProcessing(ctx context.Context) (int, error)
}

// Service wraps the task queue repository with business logic.
type Service struct {
	log   *slog.Logger
	queue queueRepo
}

// NewService creates a new enrichment service.
func NewService(log *slog.Logger, queue queueRepo) *Service {
	return &Service{
		log:   log.With("service", "enrichment"),
		queue: queue,
	}
}

// Enqueue adds a task. A pending task for the same kind and subject is
// not duplicated.
func (s *Service) Enqueue(ctx context.Context, kind domain.TaskKind, subjectKey string) error {
	if !kind.IsValid() {
		return domain.NewValidationError("kind", "unknown task kind")
	}
	if subjectKey == "" {
		return domain.NewValidationError("subject_key", "required")
	}
	return s.queue.Enqueue(ctx, kind, subjectKey)
}

// ClaimBatch claims up to limit pending tasks for processing.
func (s *Service) ClaimBatch(ctx context.Context, limit int) ([]domain.EnrichmentTask, error) {
	if limit <= 0 {
		limit = 50
	}
	tasks, err := s.queue.ClaimBatch(ctx, limit)
	if err != nil {
		return nil, err
	}
	if len(tasks) > 0 {
		s.log.InfoContext(ctx, "claimed batch", slog.Int("count", len(tasks)))
	}
	return tasks, nil
}

// MarkDone marks a task as completed.
func (s *Service) MarkDone(ctx context.Context, id uuid.UUID) error {
	return s.queue.MarkDone(ctx, id)
}

// MarkFailed marks a task as failed with error message.
func (s *Service) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	return s.queue.MarkFailed(ctx, id, errMsg)
}

// GetStats returns aggregate counts by status.
func (s *Service) GetStats(ctx context.Context) (domain.TaskStats, error) {
	return s.queue.GetStats(ctx)
}

// List returns tasks filtered by status with pagination.
func (s *Service) List(ctx context.Context, status domain.TaskStatus, limit, offset int) ([]domain.EnrichmentTask, error) {
	if status != "" && !status.IsValid() {
		return nil, domain.NewValidationError("status", "unknown task status")
	}
	if limit <= 0 {
		limit = 50
	}
	return s.queue.List(ctx, status, limit, offset)
}

// RetryAllFailed resets all failed tasks to pending.
func (s *Service) RetryAllFailed(ctx context.Context) (int, error) {
	n, err := s.queue.RetryAllFailed(ctx)
	if err != nil {
		return 0, err
	}
	s.log.InfoContext(ctx, "retried all failed tasks", slog.Int("count", n))
	return n, nil
}

// ResetProcessing resets stuck processing tasks back to pending.
func (s *Service) ResetProcessing(ctx context.Context) (int, error) {
	n, err := s.queue.ResetProcessing(ctx)
	if err != nil {
		return 0, err
	}
	s.log.InfoContext(ctx, "reset processing tasks", slog.Int("count", n))
	return n, nil
}
