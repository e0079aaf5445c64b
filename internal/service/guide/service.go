// Package guide generates and moderates cooking technique guides.
package guide

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/heartmarshall/forkful-backend/internal/domain"
	"github.com/heartmarshall/forkful-backend/internal/llm"
	"github.com/heartmarshall/forkful-backend/internal/service/moderation"
)

type guideRepo interface {
	Create(ctx context.Context, g *domain.Guide) (*domain.Guide, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Guide, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, filter domain.ListFilter) ([]*domain.Guide, error)
	ApplyScore(ctx context.Context, slug string, score float64, status domain.ContentStatus) error
	SetStatus(ctx context.Context, slug string, status domain.ContentStatus) error
}

type topicChecker interface {
	CheckGuideTopic(ctx context.Context, topic string) domain.ValidationVerdict
}

type completer interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

type dispatcher interface {
	Enqueue(ctx context.Context, kind domain.TaskKind, key string) error
}

const (
	DefaultLimit = 20
	MaxLimit     = 100

	maxTopicRunes = 200

	generateMaxTokens = 1500
)

const generateSystemPrompt = `You are a cooking instructor writing short technique guides for home cooks.
Reply with ONLY a JSON object of this shape:
{"title": "...", "summary": "<two sentences>", "steps": ["step", ...], "tips": ["tip", ...]}`

// Service provides guide operations.
type Service struct {
	log      *slog.Logger
	guides   guideRepo
	topics   topicChecker
	model    completer
	tasks    dispatcher
	pipeline *moderation.Pipeline[*domain.Guide]
}

// NewService creates a new guide service.
func NewService(
	log *slog.Logger,
	guides guideRepo,
	topics topicChecker,
	model completer,
	tasks dispatcher,
	rubric moderation.Strategy[*domain.Guide],
) *Service {
	log = log.With("service", "guide")
	return &Service{
		log:      log,
		guides:   guides,
		topics:   topics,
		model:    model,
		tasks:    tasks,
		pipeline: moderation.NewPipeline(log, domain.KindGuide, rubric, scoreSink{guides: guides}),
	}
}

type scoreSink struct {
	guides guideRepo
}

func (s scoreSink) Apply(ctx context.Context, g *domain.Guide, out moderation.Outcome) error {
	if err := s.guides.ApplyScore(ctx, g.Slug, out.Score(), out.Status); err != nil {
		return err
	}
	score := out.Score()
	g.QualityScore = &score
	g.Status = out.Status
	return nil
}

type generatedJSON struct {
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	Steps   []string `json:"steps"`
	Tips    []string `json:"tips"`
}

// Generate checks the topic, asks the text model for a guide, saves it as
// pending and queues it for scoring.
func (s *Service) Generate(ctx context.Context, topic string) (*domain.Guide, error) {
	topic = strings.TrimSpace(topic)
	if utf8.RuneCountInString(topic) > maxTopicRunes {
		return nil, domain.NewValidationError("topic", "max 200 characters")
	}

	verdict := s.topics.CheckGuideTopic(ctx, topic)
	if !verdict.Valid {
		return nil, domain.NewValidationError("topic", verdict.Reason)
	}

	reply, err := s.model.Complete(ctx, llm.Request{
		System:    generateSystemPrompt,
		Prompt:    "Write a guide about: " + topic,
		MaxTokens: generateMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("guide.Generate: %w: %v", domain.ErrUpstream, err)
	}

	var g generatedJSON
	if err := llm.DecodeJSON(reply, &g); err != nil {
		return nil, fmt.Errorf("guide.Generate: %w: %v", domain.ErrUpstream, err)
	}

	title := strings.TrimSpace(g.Title)
	steps := nonEmpty(g.Steps)
	if domain.Slugify(title) == "" || len(steps) == 0 {
		return nil, fmt.Errorf("guide.Generate: %w: incomplete guide", domain.ErrUpstream)
	}

	slug, err := s.uniqueSlug(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("guide.Generate: %w", err)
	}

	created, err := s.guides.Create(ctx, &domain.Guide{
		Slug:    slug,
		Topic:   topic,
		Title:   title,
		Summary: strings.TrimSpace(g.Summary),
		Steps:   steps,
		Tips:    nonEmpty(g.Tips),
		Status:  domain.StatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("guide.Generate: create: %w", err)
	}

	s.log.InfoContext(ctx, "guide generated", slog.String("slug", created.Slug))

	if err := s.tasks.Enqueue(ctx, domain.TaskScoreGuide, created.Slug); err != nil {
		s.log.WarnContext(ctx, "enqueue failed", slog.String("slug", created.Slug), slog.String("error", err.Error()))
	}
	return created, nil
}

// Get returns a guide by slug.
func (s *Service) Get(ctx context.Context, slug string) (*domain.Guide, error) {
	if slug == "" {
		return nil, domain.NewValidationError("slug", "required")
	}
	return s.guides.GetBySlug(ctx, slug)
}

// List returns guides, optionally filtered by status.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Guide, error) {
	if filter.Status != nil && !filter.Status.ValidFor(domain.KindGuide) {
		return nil, domain.NewValidationError("status", "invalid for guides")
	}
	if filter.Limit <= 0 {
		filter.Limit = DefaultLimit
	}
	filter.Limit = min(filter.Limit, MaxLimit)
	filter.Offset = max(filter.Offset, 0)
	return s.guides.List(ctx, filter)
}

// Score runs the guide through the moderation pipeline.
func (s *Service) Score(ctx context.Context, slug string) (*domain.Guide, moderation.Outcome, error) {
	g, err := s.Get(ctx, slug)
	if err != nil {
		return nil, moderation.Outcome{}, err
	}
	out, err := s.pipeline.Run(ctx, g)
	if err != nil {
		return nil, moderation.Outcome{}, fmt.Errorf("guide.Score: %w", err)
	}
	return g, out, nil
}

// HandleScoreTask is the background handler for guide scoring.
func (s *Service) HandleScoreTask(ctx context.Context, slug string) error {
	_, _, err := s.Score(ctx, slug)
	return err
}

// SetStatus overrides the moderation status.
func (s *Service) SetStatus(ctx context.Context, slug string, status domain.ContentStatus) error {
	if slug == "" {
		return domain.NewValidationError("slug", "required")
	}
	if !status.ValidFor(domain.KindGuide) {
		return domain.NewValidationError("status", "invalid for guides")
	}
	if err := s.guides.SetStatus(ctx, slug, status); err != nil {
		return fmt.Errorf("guide.SetStatus: %w", err)
	}
	return nil
}

func (s *Service) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := domain.Slugify(title)
	candidate := base
	for range 5 {
		exists, err := s.guides.SlugExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = base + "-" + uuid.NewString()[:6]
	}
	return "", fmt.Errorf("slug %q: %w", base, domain.ErrAlreadyExists)
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}
