package domain

import (
	"time"

	"github.com/google/uuid"
)

// Guide is an AI-generated cooking technique guide.
type Guide struct {
	ID           uuid.UUID
	Slug         string
	Topic        string
	Title        string
	Summary      string
	Steps        []string
	Tips         []string
	Status       ContentStatus
	QualityScore *float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ModerationStatus returns the current lifecycle state.
func (g *Guide) ModerationStatus() ContentStatus { return g.Status }
