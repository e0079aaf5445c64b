// Package classify labels free-text search queries as a dish name or an
// ingredient list.
package classify

import (
	"strings"

	"github.com/heartmarshall/forkful-backend/internal/domain"
	"github.com/heartmarshall/forkful-backend/internal/vocab"
)

// Fraction of recognized ingredient tokens (in tenths) that makes a
// three-or-more word query an ingredient list.
const ingredientShareTenths = 7

// Classify returns the routing label for query. Rules are checked in order
// and the first match wins.
func Classify(query string) domain.ClassificationLabel {
	if strings.Contains(query, ",") {
		return domain.LabelIngredients
	}

	lower := domain.NormalizeText(query)
	tokens := strings.Fields(lower)
	if len(tokens) == 1 {
		return domain.LabelDish
	}

	for _, tok := range tokens {
		if vocab.IsConnective(tok) {
			return domain.LabelDish
		}
	}
	if vocab.ContainsDishNoun(lower) || vocab.ContainsFamousDish(lower) {
		return domain.LabelDish
	}

	if len(tokens) >= 3 {
		known := 0
		for _, tok := range tokens {
			if vocab.IsCommonIngredient(tok) {
				known++
			}
		}
		if known*10 >= len(tokens)*ingredientShareTenths {
			return domain.LabelIngredients
		}
	}

	// Short ambiguous phrases read as dish names. Empty input has no
	// tokens and falls through to ingredients.
	if len(tokens) >= 1 && len(tokens) <= 3 {
		return domain.LabelDish
	}
	return domain.LabelIngredients
}

// SplitTerms breaks an ingredient query into normalized terms. Commas
// separate terms when present, otherwise every word is a term.
func SplitTerms(query string) []string {
	var parts []string
	if strings.Contains(query, ",") {
		parts = strings.Split(query, ",")
	} else {
		parts = strings.Fields(query)
	}

	terms := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := domain.NormalizeText(p); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}
