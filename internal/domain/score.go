package domain

import "math"

const (
	MinScore = 0.0
	MaxScore = 10.0
)

// ScoreResult is a model rating. Only Score is persisted.
type ScoreResult struct {
	Score     float64
	Reasoning string
}

// Assessment is everything a moderation strategy learned about one item.
// Photo-only fields are zero for text content.
type Assessment struct {
	ScoreResult
	IsFood                 bool
	Authenticity           Authenticity
	AuthenticityConfidence int
}

// ClampScore bounds a raw model score to [0,10] and rounds it to one decimal.
// NaN maps to MinScore.
func ClampScore(raw float64) float64 {
	if math.IsNaN(raw) {
		return MinScore
	}
	v := math.Max(MinScore, math.Min(MaxScore, raw))
	return math.Round(v*10) / 10
}

// ValidationVerdict gates generation. Reason is set when Valid is false and
// optionally when the model supplied one.
type ValidationVerdict struct {
	Valid  bool
	Reason string
}
