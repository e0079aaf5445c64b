package enrichment

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/forkful-backend/internal/config"
	"github.com/heartmarshall/forkful-backend/internal/domain"
)

type taskQueue interface {
	ClaimBatch(ctx context.Context, limit int) ([]domain.EnrichmentTask, error)
	MarkDone(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
	ResetProcessing(ctx context.Context) (int, error)
}

// Worker drains the durable queue. Tasks left in processing by a crash
// are reset on start, so delivery is at-least-once.
type Worker struct {
	log    *slog.Logger
	queue  taskQueue
	runner taskRunner
	cfg    config.EnrichmentConfig
}

// NewWorker creates a queue worker.
func NewWorker(log *slog.Logger, queue taskQueue, runner taskRunner, cfg config.EnrichmentConfig) *Worker {
	return &Worker{
		log:    log.With("service", "enrichment", "mode", "queue"),
		queue:  queue,
		runner: runner,
		cfg:    cfg,
	}
}

// Run polls until ctx is cancelled. The batch in progress is allowed to
// finish.
func (w *Worker) Run(ctx context.Context) error {
	if _, err := w.queue.ResetProcessing(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		n, err := w.RunOnce(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			w.log.ErrorContext(ctx, "poll failed", slog.String("error", err.Error()))
		}
		if n > 0 {
			continue
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// RunOnce claims and processes one batch. It returns the number of claimed
// tasks.
func (w *Worker) RunOnce(ctx context.Context) (int, error) {
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}

	tasks, err := w.queue.ClaimBatch(ctx, w.cfg.BatchSize)
	if err != nil {
		return 0, err
	}

	// Tasks are completed on a detached context so a shutdown mid-batch
	// still records results.
	base := context.WithoutCancel(ctx)

	var g errgroup.Group
	g.SetLimit(max(w.cfg.Workers, 1))
	for _, t := range tasks {
		g.Go(func() error {
			w.process(base, t)
			return nil
		})
	}
	_ = g.Wait()
	return len(tasks), nil
}

func (w *Worker) process(ctx context.Context, t domain.EnrichmentTask) {
	tctx, cancel := context.WithTimeout(ctx, w.cfg.TaskTimeout)
	defer cancel()

	log := w.log.With(
		slog.String("task_id", t.ID.String()),
		slog.String("kind", string(t.Kind)),
		slog.String("key", t.SubjectKey),
	)

	if err := w.runner.Run(tctx, t.Kind, t.SubjectKey); err != nil {
		log.WarnContext(ctx, "task failed", slog.String("error", err.Error()))
		if mErr := w.queue.MarkFailed(ctx, t.ID, err.Error()); mErr != nil {
			log.ErrorContext(ctx, "mark failed", slog.String("error", mErr.Error()))
		}
		return
	}

	if err := w.queue.MarkDone(ctx, t.ID); err != nil {
		log.ErrorContext(ctx, "mark done", slog.String("error", err.Error()))
		return
	}
	log.InfoContext(ctx, "task done")
}
