package importer

import (
	"strings"

	"github.com/heartmarshall/forkful-backend/internal/domain"
)

// Map converts a validated curated recipe into a featured domain recipe.
// Nutrition is clamped like every other stored recipe.
func Map(r CuratedRecipe) *domain.Recipe {
	title := strings.TrimSpace(r.Title)
	slug := r.Slug
	if slug == "" {
		slug = domain.Slugify(title)
	}

	rec := &domain.Recipe{
		Slug:        slug,
		Title:       title,
		Description: strings.TrimSpace(r.Description),
		Ingredients: nonEmpty(r.Ingredients),
		Method:      nonEmpty(r.Method),
		Servings:    r.Servings,
		PrepMinutes: r.PrepMinutes,
		CookMinutes: r.CookMinutes,
		Nutrition: domain.Nutrition{
			Calories: r.Nutrition.Calories,
			Protein:  r.Nutrition.Protein,
			Carbs:    r.Nutrition.Carbs,
			Fat:      r.Nutrition.Fat,
		}.Clamp(),
		Source: domain.SourceCurated,
		Status: domain.StatusFeatured,
	}
	if u := strings.TrimSpace(r.ImageURL); u != "" {
		rec.ImageURL = &u
	}
	return rec
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
