package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/forkful-backend/internal/config"
	"github.com/heartmarshall/forkful-backend/internal/domain"
	"github.com/heartmarshall/forkful-backend/internal/llm"
	"github.com/heartmarshall/forkful-backend/internal/photoinspect"
)

// Confidence assigned to metadata fingerprints found without a model call.
const (
	generatorFingerprintConfidence = 99
	stockFingerprintConfidence     = 95
)

const photoQualityRubric = `You review photos that home cooks upload for a recipe.
Rate the photo from 0 to 10 for: the food is clearly visible, focus and lighting, plating,
and whether it plausibly shows the named dish. Decide whether the photo shows food at all.
Reply with ONLY a JSON object: {"score": <number 0-10>, "is_food": <true|false>, "reasoning": "<one sentence>"}.`

const photoAuthenticityRubric = `You detect whether a food photo is a genuine photograph taken by a person,
an AI-generated image, or a professional stock photo.
Look for: implausible textures, warped utensils or hands, inconsistent lighting, watermarks, studio stock styling.
Reply with ONLY a JSON object: {"classification": "real" | "likely_ai" | "stock", "confidence": <integer 0-100>}.`

// PhotoSubject is a photo together with its image bytes.
type PhotoSubject struct {
	Photo     *domain.Photo
	Data      []byte
	MediaType string
	Format    string
}

// ModerationStatus implements Item.
func (s PhotoSubject) ModerationStatus() domain.ContentStatus { return s.Photo.Status }

type photoQualityJSON struct {
	Score     *float64 `json:"score"`
	IsFood    bool     `json:"is_food"`
	Reasoning string   `json:"reasoning"`
}

type authenticityJSON struct {
	Classification string  `json:"classification"`
	Confidence     float64 `json:"confidence"`
}

// PhotoStrategy runs quality scoring and authenticity classification
// concurrently. Photo decisions cannot default, so any failure is returned.
type PhotoStrategy struct {
	log   *slog.Logger
	model completer
	cfg   config.ModerationConfig
}

// NewPhotoStrategy creates the photo strategy. model must accept images.
func NewPhotoStrategy(log *slog.Logger, model completer, cfg config.ModerationConfig) *PhotoStrategy {
	return &PhotoStrategy{
		log:   log.With("strategy", "photo"),
		model: model,
		cfg:   cfg,
	}
}

// Assess implements Strategy.
func (s *PhotoStrategy) Assess(ctx context.Context, subj PhotoSubject) (domain.Assessment, error) {
	var (
		quality photoQualityJSON
		auth    domain.Authenticity
		conf    int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		q, err := s.scoreQuality(gctx, subj)
		quality = q
		return err
	})
	g.Go(func() error {
		a, c, err := s.classifyAuthenticity(gctx, subj)
		auth, conf = a, c
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Assessment{}, err
	}

	reasoning := strings.TrimSpace(quality.Reasoning)
	return domain.Assessment{
		ScoreResult:            domain.ScoreResult{Score: *quality.Score, Reasoning: reasoning},
		IsFood:                 quality.IsFood,
		Authenticity:           auth,
		AuthenticityConfidence: conf,
	}, nil
}

// Decide implements Strategy. A confident AI verdict overrides quality.
func (s *PhotoStrategy) Decide(a domain.Assessment) domain.ContentStatus {
	if a.Authenticity == domain.AuthenticityLikelyAI && a.AuthenticityConfidence > s.cfg.AuthenticityConfidence {
		return domain.StatusFlagged
	}
	if a.IsFood && a.Score >= s.cfg.PhotoApprovalThreshold {
		return domain.StatusApproved
	}
	return domain.StatusRejected
}

func (s *PhotoStrategy) scoreQuality(ctx context.Context, subj PhotoSubject) (photoQualityJSON, error) {
	prompt := fmt.Sprintf("Recipe: %s", subj.Photo.RecipeSlug)
	reply, err := s.model.Complete(ctx, llm.Request{
		System:    photoQualityRubric,
		Prompt:    prompt,
		Images:    []llm.Image{{MediaType: subj.MediaType, Data: subj.Data}},
		MaxTokens: 300,
	})
	if err != nil {
		return photoQualityJSON{}, fmt.Errorf("quality: %w: %w", domain.ErrUpstream, err)
	}

	var q photoQualityJSON
	if err := llm.DecodeJSON(reply, &q); err != nil {
		return photoQualityJSON{}, fmt.Errorf("quality: %w: %w", domain.ErrUpstream, err)
	}
	if q.Score == nil {
		return photoQualityJSON{}, fmt.Errorf("quality: %w: reply has no score", domain.ErrUpstream)
	}
	return q, nil
}

func (s *PhotoStrategy) classifyAuthenticity(ctx context.Context, subj PhotoSubject) (domain.Authenticity, int, error) {
	prov := photoinspect.Inspect(subj.Data, subj.Format)
	switch {
	case prov.IsAIGenerated():
		s.log.InfoContext(ctx, "ai generator fingerprint found",
			slog.String("photo_id", subj.Photo.ID.String()),
			slog.String("generator", prov.Generator),
		)
		return domain.AuthenticityLikelyAI, generatorFingerprintConfidence, nil
	case prov.IsStock():
		return domain.AuthenticityStock, stockFingerprintConfidence, nil
	}

	reply, err := s.model.Complete(ctx, llm.Request{
		System:    photoAuthenticityRubric,
		Prompt:    "Classify this photo.",
		Images:    []llm.Image{{MediaType: subj.MediaType, Data: subj.Data}},
		MaxTokens: 100,
	})
	if err != nil {
		return "", 0, fmt.Errorf("authenticity: %w: %w", domain.ErrUpstream, err)
	}

	var a authenticityJSON
	if err := llm.DecodeJSON(reply, &a); err != nil {
		return "", 0, fmt.Errorf("authenticity: %w: %w", domain.ErrUpstream, err)
	}
	class := domain.Authenticity(strings.ToLower(strings.TrimSpace(a.Classification)))
	if !class.IsValid() {
		return "", 0, fmt.Errorf("authenticity: %w: unknown classification %q", domain.ErrUpstream, a.Classification)
	}
	return class, clampConfidence(a.Confidence), nil
}

// clampConfidence rounds up so a fractional confidence above an integer
// threshold stays above it.
func clampConfidence(c float64) int {
	switch {
	case math.IsNaN(c) || c < 0:
		return 0
	case c > 100:
		return 100
	}
	return int(math.Ceil(c))
}
