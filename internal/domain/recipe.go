package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Nutrition ranges accepted for stored recipes.
const (
	MaxCalories = 5000
	MaxMacro    = 500
)

// Nutrition holds per-serving nutrition facts.
type Nutrition struct {
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
}

// Clamp bounds calories to [0,5000] and each macro to [0,500] grams.
func (n Nutrition) Clamp() Nutrition {
	return Nutrition{
		Calories: clampRange(n.Calories, MaxCalories),
		Protein:  clampRange(n.Protein, MaxMacro),
		Carbs:    clampRange(n.Carbs, MaxMacro),
		Fat:      clampRange(n.Fat, MaxMacro),
	}
}

func clampRange(v, hi float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return math.Round(v*10) / 10
}

// Recipe is a curated, community or AI-generated recipe.
type Recipe struct {
	ID           uuid.UUID
	Slug         string
	Title        string
	Description  string
	Ingredients  []string
	Method       []string
	Servings     int
	PrepMinutes  int
	CookMinutes  int
	Nutrition    Nutrition
	ImageURL     *string
	ImageIsAI    bool
	ImageScore   *float64
	Source       RecipeSource
	Status       ContentStatus
	QualityScore *float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ListFilter contains filtering/pagination parameters for content listings.
type ListFilter struct {
	Status *ContentStatus
	Limit  int
	Offset int
}

// ModerationStatus returns the current lifecycle state.
func (r *Recipe) ModerationStatus() ContentStatus { return r.Status }
