package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskKind identifies a background enrichment job.
type TaskKind string

const (
	TaskScoreRecipe         TaskKind = "score_recipe"
	TaskGenerateRecipeImage TaskKind = "generate_recipe_image"
	TaskScoreGuide          TaskKind = "score_guide"
)

func (k TaskKind) IsValid() bool {
	switch k {
	case TaskScoreRecipe, TaskGenerateRecipeImage, TaskScoreGuide:
		return true
	}
	return false
}

// TaskStatus represents the processing state of a queued task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusFailed     TaskStatus = "failed"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusProcessing, TaskStatusDone, TaskStatusFailed:
		return true
	}
	return false
}

// EnrichmentTask is a durable unit of background work keyed by its subject
// (a recipe or guide slug).
type EnrichmentTask struct {
	ID           uuid.UUID
	Kind         TaskKind
	SubjectKey   string
	Status       TaskStatus
	Attempts     int
	ErrorMessage *string
	CreatedAt    time.Time
	ProcessedAt  *time.Time
}

// TaskStats holds aggregate counts by status.
type TaskStats struct {
	Pending    int
	Processing int
	Done       int
	Failed     int
	Total      int
}
