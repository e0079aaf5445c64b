package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/forkful-backend/internal/config"
	"github.com/heartmarshall/forkful-backend/internal/domain"
	"github.com/heartmarshall/forkful-backend/internal/llm"
)

// ReasonUnparsable is stored alongside the neutral score when the model
// reply could not be used.
const ReasonUnparsable = "unable to parse"

const recipeRubric = `You are a senior recipe editor. Rate the recipe from 0 to 10.
Consider: ingredient list completeness, method clarity and order, plausible quantities and timings,
nutrition plausibility, and whether a home cook could follow it.
Reply with ONLY a JSON object: {"score": <number 0-10>, "reasoning": "<one or two sentences>"}.`

const guideRubric = `You are a senior cooking instructor. Rate the cooking guide from 0 to 10.
Consider: technical accuracy, food safety, step clarity, usefulness of tips, and beginner friendliness.
Reply with ONLY a JSON object: {"score": <number 0-10>, "reasoning": "<one or two sentences>"}.`

type scoreJSON struct {
	Score     *float64 `json:"score"`
	Reasoning string   `json:"reasoning"`
}

// TextRubric scores text content with one model call. Failures degrade to
// the neutral score instead of erroring.
type TextRubric[T Item] struct {
	log    *slog.Logger
	model  completer
	system string
	render func(T) string
	cfg    config.ModerationConfig
}

// NewRecipeRubric creates the recipe strategy.
func NewRecipeRubric(log *slog.Logger, model completer, cfg config.ModerationConfig) *TextRubric[*domain.Recipe] {
	return &TextRubric[*domain.Recipe]{
		log:    log.With("strategy", "recipe"),
		model:  model,
		system: recipeRubric,
		render: renderRecipe,
		cfg:    cfg,
	}
}

// NewGuideRubric creates the guide strategy.
func NewGuideRubric(log *slog.Logger, model completer, cfg config.ModerationConfig) *TextRubric[*domain.Guide] {
	return &TextRubric[*domain.Guide]{
		log:    log.With("strategy", "guide"),
		model:  model,
		system: guideRubric,
		render: renderGuide,
		cfg:    cfg,
	}
}

// Assess implements Strategy.
func (r *TextRubric[T]) Assess(ctx context.Context, item T) (domain.Assessment, error) {
	neutral := domain.Assessment{ScoreResult: domain.ScoreResult{Score: r.cfg.NeutralScore, Reasoning: ReasonUnparsable}}

	reply, err := r.model.Complete(ctx, llm.Request{System: r.system, Prompt: r.render(item), MaxTokens: 400})
	if err != nil {
		r.log.WarnContext(ctx, "scoring call failed, using neutral score", slog.String("error", err.Error()))
		return neutral, nil
	}

	var s scoreJSON
	if err := llm.DecodeJSON(reply, &s); err != nil || s.Score == nil {
		r.log.WarnContext(ctx, "unparsable scoring reply, using neutral score")
		return neutral, nil
	}

	return domain.Assessment{ScoreResult: domain.ScoreResult{Score: *s.Score, Reasoning: strings.TrimSpace(s.Reasoning)}}, nil
}

// Decide implements Strategy. Low scores keep the item pending.
func (r *TextRubric[T]) Decide(a domain.Assessment) domain.ContentStatus {
	if a.Score >= r.cfg.QualityThreshold {
		return domain.StatusFeatured
	}
	return domain.StatusPending
}

func renderRecipe(rc *domain.Recipe) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", rc.Title)
	if rc.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", rc.Description)
	}
	fmt.Fprintf(&b, "Servings: %d, prep %d min, cook %d min\n", rc.Servings, rc.PrepMinutes, rc.CookMinutes)
	b.WriteString("Ingredients:\n")
	for _, ing := range rc.Ingredients {
		fmt.Fprintf(&b, "- %s\n", ing)
	}
	b.WriteString("Method:\n")
	for i, step := range rc.Method {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}
	n := rc.Nutrition
	fmt.Fprintf(&b, "Nutrition per serving: %.0f kcal, protein %.1fg, carbs %.1fg, fat %.1fg\n",
		n.Calories, n.Protein, n.Carbs, n.Fat)
	return b.String()
}

func renderGuide(g *domain.Guide) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\nTitle: %s\n", g.Topic, g.Title)
	if g.Summary != "" {
		fmt.Fprintf(&b, "Summary: %s\n", g.Summary)
	}
	b.WriteString("Steps:\n")
	for i, step := range g.Steps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}
	if len(g.Tips) > 0 {
		b.WriteString("Tips:\n")
		for _, tip := range g.Tips {
			fmt.Fprintf(&b, "- %s\n", tip)
		}
	}
	return b.String()
}
