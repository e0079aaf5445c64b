package enrichment

import (
	"context"
	"fmt"
	"sync"

	"github.com/heartmarshall/forkful-backend/internal/domain"
)

// Handler processes one task for the subject identified by key.
type Handler func(ctx context.Context, key string) error

// Runner routes task kinds to handlers. Handlers are registered once at
// startup, after the services they call exist.
type Runner struct {
	mu       sync.RWMutex
	handlers map[domain.TaskKind]Handler
}

// NewRunner creates an empty runner.
func NewRunner() *Runner {
	return &Runner{handlers: make(map[domain.TaskKind]Handler)}
}

// Register binds h to kind, replacing any previous handler.
func (r *Runner) Register(kind domain.TaskKind, h Handler) {
	r.mu.Lock()
	r.handlers[kind] = h
	r.mu.Unlock()
}

// Run executes the handler for kind.
func (r *Runner) Run(ctx context.Context, kind domain.TaskKind, key string) error {
	r.mu.RLock()
	h, ok := r.handlers[kind]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("enrichment.Run: no handler for %q", kind)
	}
	return h(ctx, key)
}
