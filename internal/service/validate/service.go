// Package validate gates recipe and guide generation on whether the user
// input is plausibly about food.
package validate

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/forkful-backend/internal/llm"
)

type completer interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

// Service asks a text model whether input is food related. Model failures
// never block the caller: every such path returns a valid verdict.
type Service struct {
	log   *slog.Logger
	model completer
}

// NewService creates a new validation service.
func NewService(log *slog.Logger, model completer) *Service {
	return &Service{
		log:   log.With("service", "validate"),
		model: model,
	}
}
