// Package recipe implements the recipes table repository.
package recipe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/heartmarshall/forkful-backend/internal/adapter/postgres"
	"github.com/heartmarshall/forkful-backend/internal/domain"
)

const table = "recipes"

var columns = []string{
	"id", "slug", "title", "description", "ingredients", "method",
	"servings", "prep_minutes", "cook_minutes",
	"calories", "protein", "carbs", "fat",
	"image_url", "image_is_ai", "image_score",
	"source", "status", "quality_score", "created_at", "updated_at",
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides recipe persistence.
type Repo struct {
	db postgres.Querier
}

// New creates a new recipe repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type row struct {
	ID           uuid.UUID `db:"id"`
	Slug         string    `db:"slug"`
	Title        string    `db:"title"`
	Description  string    `db:"description"`
	Ingredients  []string  `db:"ingredients"`
	Method       []string  `db:"method"`
	Servings     int       `db:"servings"`
	PrepMinutes  int       `db:"prep_minutes"`
	CookMinutes  int       `db:"cook_minutes"`
	Calories     float64   `db:"calories"`
	Protein      float64   `db:"protein"`
	Carbs        float64   `db:"carbs"`
	Fat          float64   `db:"fat"`
	ImageURL     *string   `db:"image_url"`
	ImageIsAI    bool      `db:"image_is_ai"`
	ImageScore   *float64  `db:"image_score"`
	Source       string    `db:"source"`
	Status       string    `db:"status"`
	QualityScore *float64  `db:"quality_score"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r row) toDomain() *domain.Recipe {
	return &domain.Recipe{
		ID:          r.ID,
		Slug:        r.Slug,
		Title:       r.Title,
		Description: r.Description,
		Ingredients: r.Ingredients,
		Method:      r.Method,
		Servings:    r.Servings,
		PrepMinutes: r.PrepMinutes,
		CookMinutes: r.CookMinutes,
		Nutrition: domain.Nutrition{
			Calories: r.Calories,
			Protein:  r.Protein,
			Carbs:    r.Carbs,
			Fat:      r.Fat,
		},
		ImageURL:     r.ImageURL,
		ImageIsAI:    r.ImageIsAI,
		ImageScore:   r.ImageScore,
		Source:       domain.RecipeSource(r.Source),
		Status:       domain.ContentStatus(r.Status),
		QualityScore: r.QualityScore,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func insertBuilder(rec *domain.Recipe) squirrel.InsertBuilder {
	n := rec.Nutrition.Clamp()
	return psql.Insert(table).
		Columns(
			"slug", "title", "description", "ingredients", "method",
			"servings", "prep_minutes", "cook_minutes",
			"calories", "protein", "carbs", "fat",
			"image_url", "image_is_ai", "image_score",
			"source", "status", "quality_score",
		).
		Values(
			rec.Slug, rec.Title, rec.Description, nonNil(rec.Ingredients), nonNil(rec.Method),
			rec.Servings, rec.PrepMinutes, rec.CookMinutes,
			n.Calories, n.Protein, n.Carbs, n.Fat,
			rec.ImageURL, rec.ImageIsAI, rec.ImageScore,
			string(rec.Source), string(rec.Status), rec.QualityScore,
		)
}

// Create inserts a recipe and returns the stored row.
func (r *Repo) Create(ctx context.Context, rec *domain.Recipe) (*domain.Recipe, error) {
	sql, args, err := insertBuilder(rec).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("recipe.Create: build query: %w", err)
	}

	var out row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &out, sql, args...); err != nil {
		return nil, postgres.MapError(err, "recipe", rec.Slug)
	}
	return out.toDomain(), nil
}

// CreateIfAbsent inserts a recipe unless its slug is taken. It reports
// whether a row was written.
func (r *Repo) CreateIfAbsent(ctx context.Context, rec *domain.Recipe) (bool, error) {
	sql, args, err := insertBuilder(rec).
		Suffix("ON CONFLICT (slug) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("recipe.CreateIfAbsent: build query: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		return false, postgres.MapError(err, "recipe", rec.Slug)
	}
	return tag.RowsAffected() > 0, nil
}

// GetBySlug returns a recipe by slug.
func (r *Repo) GetBySlug(ctx context.Context, slug string) (*domain.Recipe, error) {
	sql, args, err := psql.Select(columns...).
		From(table).
		Where(squirrel.Eq{"slug": slug}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("recipe.GetBySlug: build query: %w", err)
	}

	var out row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &out, sql, args...); err != nil {
		return nil, postgres.MapError(err, "recipe", slug)
	}
	return out.toDomain(), nil
}

// SlugExists reports whether a recipe with slug is stored.
func (r *Repo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := postgres.QuerierFromCtx(ctx, r.db).
		QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM recipes WHERE slug = $1)`, slug).
		Scan(&exists)
	if err != nil {
		return false, postgres.MapError(err, "recipe", slug)
	}
	return exists, nil
}

// List returns recipes newest first, optionally filtered by status.
func (r *Repo) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Recipe, error) {
	q := psql.Select(columns...).
		From(table).
		OrderBy("created_at DESC", "id DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": string(*filter.Status)})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("recipe.List: build query: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("recipe.List: %w", err)
	}

	out := make([]*domain.Recipe, 0, len(rows))
	for _, rw := range rows {
		out = append(out, rw.toDomain())
	}
	return out, nil
}

// ApplyScore stores a quality score and the resulting status.
func (r *Repo) ApplyScore(ctx context.Context, slug string, score float64, status domain.ContentStatus) error {
	return r.update(ctx, slug, map[string]any{
		"quality_score": score,
		"status":        string(status),
	})
}

// SetStatus overrides the moderation status.
func (r *Repo) SetStatus(ctx context.Context, slug string, status domain.ContentStatus) error {
	return r.update(ctx, slug, map[string]any{"status": string(status)})
}

// SetImage replaces the recipe picture.
func (r *Repo) SetImage(ctx context.Context, slug, url string, isAI bool, score *float64) error {
	return r.update(ctx, slug, map[string]any{
		"image_url":   url,
		"image_is_ai": isAI,
		"image_score": score,
	})
}

func (r *Repo) update(ctx context.Context, slug string, set map[string]any) error {
	sql, args, err := psql.Update(table).
		SetMap(set).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"slug": slug}).
		ToSql()
	if err != nil {
		return fmt.Errorf("recipe.update: build query: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "recipe", slug)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("recipe %s: %w", slug, domain.ErrNotFound)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
