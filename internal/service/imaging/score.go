package imaging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/forkful-backend/internal/domain"
	"github.com/heartmarshall/forkful-backend/internal/llm"
)

const imageRubric = `You are a food photography editor. Rate the image from 0 to 10 as the hero photo of a recipe.
Criteria: presentation, lighting, correct representation of the named dish, appetite appeal.
Reply with ONLY a JSON object: {"score": <number 0-10>, "reasoning": "<one sentence>"}.`

type imageScoreJSON struct {
	Score *float64 `json:"score"`
}

// scoreImage rates one generated image. Unscorable images get the neutral
// score so a usable picture is never discarded for a bad reply.
func (s *Service) scoreImage(ctx context.Context, r *domain.Recipe, data []byte, mediaType string) float64 {
	reply, err := s.vision.Complete(ctx, llm.Request{
		System:    imageRubric,
		Prompt:    fmt.Sprintf("Dish: %s", r.Title),
		Images:    []llm.Image{{MediaType: mediaType, Data: data}},
		MaxTokens: 200,
	})
	if err != nil {
		s.log.WarnContext(ctx, "image scoring failed, using neutral score",
			slog.String("slug", r.Slug),
			slog.String("error", err.Error()),
		)
		return s.cfg.NeutralScore
	}

	var out imageScoreJSON
	if err := llm.DecodeJSON(reply, &out); err != nil || out.Score == nil {
		s.log.WarnContext(ctx, "unparsable image score, using neutral score", slog.String("slug", r.Slug))
		return s.cfg.NeutralScore
	}
	return domain.ClampScore(*out.Score)
}

func buildImagePrompt(r *domain.Recipe) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Professional food photograph of %s", r.Title)
	if r.Description != "" {
		fmt.Fprintf(&b, ", %s", strings.TrimSuffix(r.Description, "."))
	}
	if len(r.Ingredients) > 0 {
		n := min(len(r.Ingredients), 5)
		fmt.Fprintf(&b, ". Key ingredients: %s", strings.Join(r.Ingredients[:n], ", "))
	}
	b.WriteString(". Plated on a simple table, soft natural light, shallow depth of field, appetizing, no text or watermarks.")
	return b.String()
}
