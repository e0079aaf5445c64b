package domain

import (
	"time"

	"github.com/google/uuid"
)

// Photo is a user-submitted picture of a cooked recipe.
type Photo struct {
	ID                     uuid.UUID
	RecipeSlug             string
	URL                    string
	BlobName               string
	Submitter              string
	PerceptualHash         uint64
	Status                 ContentStatus
	QualityScore           *float64
	Authenticity           *Authenticity
	AuthenticityConfidence *int
	Reasoning              *string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}
