package domain

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a public remark on a recipe.
type Comment struct {
	ID         uuid.UUID
	RecipeSlug string
	Author     string
	Body       string
	ClientIP   string
	CreatedAt  time.Time
}
