// Package moderation scores content with external models and moves it
// through the moderation lifecycle. One Pipeline serves every content type;
// a Strategy supplies the rubric and the thresholds.
package moderation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/forkful-backend/internal/domain"
	"github.com/heartmarshall/forkful-backend/internal/llm"
)

type completer interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

// Item is a moderated content item.
type Item interface {
	ModerationStatus() domain.ContentStatus
}

// Strategy assesses an item and maps the assessment to a status.
type Strategy[T Item] interface {
	Assess(ctx context.Context, item T) (domain.Assessment, error)
	Decide(a domain.Assessment) domain.ContentStatus
}

// Sink persists an outcome by the item's primary key.
type Sink[T Item] interface {
	Apply(ctx context.Context, item T, out Outcome) error
}

// Outcome is the result of one pipeline run.
type Outcome struct {
	Assessment domain.Assessment
	Previous   domain.ContentStatus
	Status     domain.ContentStatus
}

// Score is the clamped quality score.
func (o Outcome) Score() float64 { return o.Assessment.Score }

// Changed reports whether the run moved the item to a new status.
func (o Outcome) Changed() bool { return o.Status != o.Previous }

// Pipeline runs assess, clamp, decide and persist for one content kind.
type Pipeline[T Item] struct {
	log      *slog.Logger
	kind     domain.ContentKind
	strategy Strategy[T]
	sink     Sink[T]
}

// NewPipeline creates a pipeline for kind.
func NewPipeline[T Item](log *slog.Logger, kind domain.ContentKind, strategy Strategy[T], sink Sink[T]) *Pipeline[T] {
	return &Pipeline[T]{
		log:      log.With("service", "moderation", "kind", string(kind)),
		kind:     kind,
		strategy: strategy,
		sink:     sink,
	}
}

// Run scores item and persists the outcome. The status only moves while
// the item is pending; otherwise only the score is updated. Assessment
// errors are returned without touching the store.
func (p *Pipeline[T]) Run(ctx context.Context, item T) (Outcome, error) {
	a, err := p.strategy.Assess(ctx, item)
	if err != nil {
		return Outcome{}, fmt.Errorf("moderation.Run %s: %w", p.kind, err)
	}
	a.Score = domain.ClampScore(a.Score)

	current := item.ModerationStatus()
	out := Outcome{Assessment: a, Previous: current, Status: current}
	if current == domain.StatusPending {
		out.Status = p.strategy.Decide(a)
	}

	if err := p.sink.Apply(ctx, item, out); err != nil {
		return Outcome{}, fmt.Errorf("moderation.Run %s: apply: %w", p.kind, err)
	}

	p.log.InfoContext(ctx, "content scored",
		slog.Float64("score", out.Score()),
		slog.String("previous", string(out.Previous)),
		slog.String("status", string(out.Status)),
	)
	return out, nil
}
