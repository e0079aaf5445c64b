// Package guide implements the guides table repository.
package guide

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

const table = "guides"

var columns = []string{
	"id", "slug", "topic", "title", "summary", "steps", "tips",
	"status", "quality_score", "created_at", "updated_at",
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides guide persistence.
type Repo struct {
	db postgres.Querier
}

// New creates a new guide repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type row struct {
	ID           uuid.UUID `db:"id"`
	Slug         string    `db:"slug"`
	Topic        string    `db:"topic"`
	Title        string    `db:"title"`
	Summary      string    `db:"summary"`
	Steps        []string  `db:"steps"`
	Tips         []string  `db:"tips"`
	Status       string    `db:"status"`
	QualityScore *float64  `db:"quality_score"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r row) toDomain() *domain.Guide {
	return &domain.Guide{
		ID:           r.ID,
		Slug:         r.Slug,
		Topic:        r.Topic,
		Title:        r.Title,
		Summary:      r.Summary,
		Steps:        r.Steps,
		Tips:         r.Tips,
		Status:       domain.ContentStatus(r.Status),
		QualityScore: r.QualityScore,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// Create inserts a guide and returns the stored row.
func (r *Repo) Create(ctx context.Context, g *domain.Guide) (*domain.Guide, error) {
	steps, tips := g.Steps, g.Tips
	if steps == nil {
		steps = []string{}
	}
	if tips == nil {
		tips = []string{}
	}

	sql, args, err := psql.Insert(table).
		Columns("slug", "topic", "title", "summary", "steps", "tips", "status").
		Values(g.Slug, g.Topic, g.Title, g.Summary, steps, tips, string(g.Status)).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("guide.Create: build query: %w", err)
	}

	var out row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &out, sql, args...); err != nil {
		return nil, postgres.MapError(err, "guide", g.Slug)
	}
	return out.toDomain(), nil
}

// GetBySlug returns a guide by slug.
func (r *Repo) GetBySlug(ctx context.Context, slug string) (*domain.Guide, error) {
	sql, args, err := psql.Select(columns...).
		From(table).
		Where(squirrel.Eq{"slug": slug}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("guide.GetBySlug: build query: %w", err)
	}

	var out row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &out, sql, args...); err != nil {
		return nil, postgres.MapError(err, "guide", slug)
	}
	return out.toDomain(), nil
}

// SlugExists reports whether a guide with slug is stored.
func (r *Repo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := postgres.QuerierFromCtx(ctx, r.db).
		QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM guides WHERE slug = $1)`, slug).
		Scan(&exists)
	if err != nil {
		return false, postgres.MapError(err, "guide", slug)
	}
	return exists, nil
}

// List returns guides newest first, optionally filtered by status.
func (r *Repo) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Guide, error) {
	q := psql.Select(columns...).
		From(table).
		OrderBy("created_at DESC", "id DESC")
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": string(*filter.Status)})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("guide.List: build query: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("guide.List: %w", err)
	}

	out := make([]*domain.Guide, 0, len(rows))
	for _, rw := range rows {
		out = append(out, rw.toDomain())
	}
	return out, nil
}

// ApplyScore stores a quality score and the resulting status.
func (r *Repo) ApplyScore(ctx context.Context, slug string, score float64, status domain.ContentStatus) error {
	return r.update(ctx, slug, map[string]any{"quality_score": score, "status": string(status)})
}

// SetStatus overrides the moderation status.
func (r *Repo) SetStatus(ctx context.Context, slug string, status domain.ContentStatus) error {
	return r.update(ctx, slug, map[string]any{"status": string(status)})
}

func (r *Repo) update(ctx context.Context, slug string, set map[string]any) error {
	sql, args, err := psql.Update(table).
		SetMap(set).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"slug": slug}).
		ToSql()
	if err != nil {
		return fmt.Errorf("guide.update: build query: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "guide", slug)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("guide %s: %w", slug, domain.ErrNotFound)
	}
	return nil
}
