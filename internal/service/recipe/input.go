package recipe

import (
	"strings"
	"unicode/utf8"

	"github.com/heartmarshall/forkful-backend/internal/domain"
)

const (
	maxQueryLen      = 200
	maxTerms         = 30
	maxTermLen       = 80
	maxTitleLen      = 120
	maxDescLen       = 1000
	maxLines         = 60
	maxLineLen       = 500
	maxServings      = 50
	maxMinutes       = 24 * 60
	maxDietaryLabels = 10
)

// GenerateInput holds the parameters for generating a recipe. Query is a
// free-text search that may name a dish or list ingredients.
type GenerateInput struct {
	Query       string
	Ingredients []string
	Essentials  []string
	Dietary     []string
}

// Validate checks all fields and collects all errors.
func (i GenerateInput) Validate() error {
	var errs []domain.FieldError

	query := strings.TrimSpace(i.Query)
	if query == "" && len(nonEmpty(i.Ingredients)) == 0 {
		errs = append(errs, domain.FieldError{Field: "query", Message: "query or ingredients required"})
	}
	if utf8.RuneCountInString(query) > maxQueryLen {
		errs = append(errs, domain.FieldError{Field: "query", Message: "max 200 characters"})
	}
	errs = append(errs, checkTerms("ingredients", i.Ingredients)...)
	errs = append(errs, checkTerms("essentials", i.Essentials)...)
	if len(i.Dietary) > maxDietaryLabels {
		errs = append(errs, domain.FieldError{Field: "dietary", Message: "max 10 labels"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// SubmitInput holds a community recipe submission.
type SubmitInput struct {
	Title       string
	Description string
	Ingredients []string
	Method      []string
	Servings    int
	PrepMinutes int
	CookMinutes int
	Nutrition   domain.Nutrition
}

// Validate checks all fields and collects all errors.
func (i SubmitInput) Validate() error {
	var errs []domain.FieldError

	title := strings.TrimSpace(i.Title)
	if title == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		errs = append(errs, domain.FieldError{Field: "title", Message: "max 120 characters"})
	}
	if domain.Slugify(title) == "" && title != "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "must contain letters or digits"})
	}
	if utf8.RuneCountInString(i.Description) > maxDescLen {
		errs = append(errs, domain.FieldError{Field: "description", Message: "max 1000 characters"})
	}
	errs = append(errs, checkLines("ingredients", i.Ingredients)...)
	errs = append(errs, checkLines("method", i.Method)...)
	if i.Servings < 0 || i.Servings > maxServings {
		errs = append(errs, domain.FieldError{Field: "servings", Message: "must be between 0 and 50"})
	}
	if i.PrepMinutes < 0 || i.PrepMinutes > maxMinutes {
		errs = append(errs, domain.FieldError{Field: "prep_minutes", Message: "must be between 0 and 1440"})
	}
	if i.CookMinutes < 0 || i.CookMinutes > maxMinutes {
		errs = append(errs, domain.FieldError{Field: "cook_minutes", Message: "must be between 0 and 1440"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func checkTerms(field string, terms []string) []domain.FieldError {
	var errs []domain.FieldError
	if len(terms) > maxTerms {
		errs = append(errs, domain.FieldError{Field: field, Message: "max 30 items"})
	}
	for _, t := range terms {
		if utf8.RuneCountInString(strings.TrimSpace(t)) > maxTermLen {
			errs = append(errs, domain.FieldError{Field: field, Message: "each item max 80 characters"})
			break
		}
	}
	return errs
}

func checkLines(field string, lines []string) []domain.FieldError {
	var errs []domain.FieldError
	clean := nonEmpty(lines)
	if len(clean) == 0 {
		errs = append(errs, domain.FieldError{Field: field, Message: "required"})
	}
	if len(clean) > maxLines {
		errs = append(errs, domain.FieldError{Field: field, Message: "max 60 lines"})
	}
	for _, l := range clean {
		if utf8.RuneCountInString(l) > maxLineLen {
			errs = append(errs, domain.FieldError{Field: field, Message: "each line max 500 characters"})
			break
		}
	}
	return errs
}

// nonEmpty returns trimmed, non-empty entries.
func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}
