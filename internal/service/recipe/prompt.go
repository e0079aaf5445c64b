package recipe

import (
	"fmt"
	"strings"
)

const generateSystemPrompt = `You are a professional recipe developer for a home-cooking website.
Write one complete, realistic recipe. Use metric and common household measures.
Reply with ONLY a JSON object of this shape:
{"title": "...", "description": "...", "ingredients": ["quantity + ingredient", ...],
 "method": ["step", ...], "servings": <int>, "prep_minutes": <int>, "cook_minutes": <int>,
 "nutrition": {"calories": <kcal per serving>, "protein": <g>, "carbs": <g>, "fat": <g>}}`

func buildGeneratePrompt(dish string, ingredients, essentials, dietary []string) string {
	var b strings.Builder

	if dish != "" {
		fmt.Fprintf(&b, "Write a recipe for: %s\n", dish)
		if len(ingredients) > 0 {
			fmt.Fprintf(&b, "Try to use: %s\n", strings.Join(ingredients, ", "))
		}
	} else {
		b.WriteString("Write a recipe that uses these ingredients:\n")
		for _, ing := range ingredients {
			fmt.Fprintf(&b, "- %s\n", ing)
		}
		b.WriteString("You may add common pantry staples.\n")
	}

	if len(essentials) > 0 {
		fmt.Fprintf(&b, "The recipe must include: %s\n", strings.Join(essentials, ", "))
	}
	if len(dietary) > 0 {
		fmt.Fprintf(&b, "Dietary requirements: %s\n", strings.Join(dietary, ", "))
	}

	return b.String()
}
