package importer

import (
	"fmt"
	"strings"

	"github.com/heartmarshall/forkful-backend/internal/domain"
)

// Validate checks that a curated recipe has the fields a stored recipe
// needs.
func Validate(r CuratedRecipe) error {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return fmt.Errorf("title is empty")
	}
	slug := r.Slug
	if slug == "" {
		slug = domain.Slugify(title)
	}
	if slug == "" || slug != domain.Slugify(slug) {
		return fmt.Errorf("recipe %q has invalid slug %q", title, slug)
	}
	if len(nonEmpty(r.Ingredients)) == 0 {
		return fmt.Errorf("recipe %q has no ingredients", title)
	}
	if len(nonEmpty(r.Method)) == 0 {
		return fmt.Errorf("recipe %q has no method", title)
	}
	if r.Servings < 0 || r.PrepMinutes < 0 || r.CookMinutes < 0 {
		return fmt.Errorf("recipe %q has negative servings or times", title)
	}
	return nil
}
