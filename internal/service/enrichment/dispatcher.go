package enrichment

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/heartmarshall/forkful-backend/internal/domain"
)

// Dispatcher schedules background work. Enqueue returns without waiting
// for the work to run.
type Dispatcher interface {
	Enqueue(ctx context.Context, kind domain.TaskKind, key string) error
}

type taskRunner interface {
	Run(ctx context.Context, kind domain.TaskKind, key string) error
}

// AsyncDispatcher runs each task in its own goroutine, detached from the
// request context. Tasks are not retried and are lost if the process exits
// before they finish.
type AsyncDispatcher struct {
	log     *slog.Logger
	runner  taskRunner
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewAsyncDispatcher creates a best-effort dispatcher.
func NewAsyncDispatcher(log *slog.Logger, runner taskRunner, timeout time.Duration) *AsyncDispatcher {
	return &AsyncDispatcher{
		log:     log.With("service", "enrichment", "mode", "async"),
		runner:  runner,
		timeout: timeout,
	}
}

// Enqueue implements Dispatcher.
func (d *AsyncDispatcher) Enqueue(ctx context.Context, kind domain.TaskKind, key string) error {
	if !kind.IsValid() {
		return domain.NewValidationError("kind", "unknown task kind")
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				d.log.Error("task panic",
					slog.String("kind", string(kind)),
					slog.String("key", key),
					slog.Any("panic", rec),
					slog.String("stack", string(debug.Stack())),
				)
			}
		}()

		tctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()

		start := time.Now()
		if err := d.runner.Run(tctx, kind, key); err != nil {
			d.log.ErrorContext(tctx, "task failed",
				slog.String("kind", string(kind)),
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
			return
		}
		d.log.InfoContext(tctx, "task done",
			slog.String("kind", string(kind)),
			slog.String("key", key),
			slog.Duration("duration", time.Since(start)),
		)
	}()
	return nil
}

// Wait blocks until in-flight tasks finish or ctx is done.
func (d *AsyncDispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("enrichment.Wait: %w", ctx.Err())
	}
}

type enqueuer interface {
	Enqueue(ctx context.Context, kind domain.TaskKind, subjectKey string) error
}

// QueueDispatcher persists tasks for the Worker.
type QueueDispatcher struct {
	queue enqueuer
}

// NewQueueDispatcher creates a durable dispatcher.
func NewQueueDispatcher(queue enqueuer) *QueueDispatcher {
	return &QueueDispatcher{queue: queue}
}

// Enqueue implements Dispatcher.
func (d *QueueDispatcher) Enqueue(ctx context.Context, kind domain.TaskKind, key string) error {
	if err := d.queue.Enqueue(ctx, kind, key); err != nil {
		return fmt.Errorf("enrichment.Enqueue: %w", err)
	}
	return nil
}
