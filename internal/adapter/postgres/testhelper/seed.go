//go:build integration

package testhelper

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/forkful-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedRecipe inserts a pending AI recipe with a unique slug.
func SeedRecipe(t *testing.T, pool *pgxpool.Pool) domain.Recipe {
	t.Helper()

	suffix := uniqueSuffix()
	r := domain.Recipe{
		Slug:        "test-recipe-" + suffix,
		Title:       "Test recipe " + suffix,
		Ingredients: []string{"1 egg"},
		Method:      []string{"Boil the egg."},
		Servings:    1,
		Source:      domain.SourceAI,
		Status:      domain.StatusPending,
	}

	err := pool.QueryRow(context.Background(),
		`INSERT INTO recipes (slug, title, ingredients, method, servings, source, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		r.Slug, r.Title, r.Ingredients, r.Method, r.Servings, string(r.Source), string(r.Status),
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedRecipe: %v", err)
	}
	return r
}

// SeedTask inserts a pending enrichment task for subject.
func SeedTask(t *testing.T, pool *pgxpool.Pool, kind domain.TaskKind, subject string) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := pool.QueryRow(context.Background(),
		`INSERT INTO enrichment_tasks (kind, subject_key) VALUES ($1, $2) RETURNING id`,
		string(kind), subject,
	).Scan(&id)
	if err != nil {
		t.Fatalf("testhelper: SeedTask: %v", err)
	}
	return id
}
