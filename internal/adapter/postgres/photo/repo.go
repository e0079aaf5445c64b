// Package photo implements the photos table repository.
package photo

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

const table = "photos"

var columns = []string{
	"id", "recipe_slug", "url", "blob_name", "submitter", "perceptual_hash",
	"status", "quality_score", "authenticity", "authenticity_confidence", "reasoning",
	"created_at", "updated_at",
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides photo persistence.
type Repo struct {
	db postgres.Querier
}

// New creates a new photo repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// perceptual_hash is stored as BIGINT; the bit pattern is preserved.
type row struct {
	ID                     uuid.UUID `db:"id"`
	RecipeSlug             string    `db:"recipe_slug"`
	URL                    string    `db:"url"`
	BlobName               string    `db:"blob_name"`
	Submitter              string    `db:"submitter"`
	PerceptualHash         int64     `db:"perceptual_hash"`
	Status                 string    `db:"status"`
	QualityScore           *float64  `db:"quality_score"`
	Authenticity           *string   `db:"authenticity"`
	AuthenticityConfidence *int      `db:"authenticity_confidence"`
	Reasoning              *string   `db:"reasoning"`
	CreatedAt              time.Time `db:"created_at"`
	UpdatedAt              time.Time `db:"updated_at"`
}

func (r row) toDomain() *domain.Photo {
	p := &domain.Photo{
		ID:                     r.ID,
		RecipeSlug:             r.RecipeSlug,
		URL:                    r.URL,
		BlobName:               r.BlobName,
		Submitter:              r.Submitter,
		PerceptualHash:         uint64(r.PerceptualHash),
		Status:                 domain.ContentStatus(r.Status),
		QualityScore:           r.QualityScore,
		AuthenticityConfidence: r.AuthenticityConfidence,
		Reasoning:              r.Reasoning,
		CreatedAt:              r.CreatedAt,
		UpdatedAt:              r.UpdatedAt,
	}
	if r.Authenticity != nil {
		a := domain.Authenticity(*r.Authenticity)
		p.Authenticity = &a
	}
	return p
}

// Create inserts a photo and returns the stored row.
func (r *Repo) Create(ctx context.Context, p *domain.Photo) (*domain.Photo, error) {
	sql, args, err := psql.Insert(table).
		Columns("recipe_slug", "url", "blob_name", "submitter", "perceptual_hash", "status").
		Values(p.RecipeSlug, p.URL, p.BlobName, p.Submitter, int64(p.PerceptualHash), string(p.Status)).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("photo.Create: build query: %w", err)
	}

	var out row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &out, sql, args...); err != nil {
		return nil, postgres.MapError(err, "photo for recipe", p.RecipeSlug)
	}
	return out.toDomain(), nil
}

// GetByID returns a photo by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Photo, error) {
	sql, args, err := psql.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("photo.GetByID: build query: %w", err)
	}

	var out row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &out, sql, args...); err != nil {
		return nil, postgres.MapError(err, "photo", id.String())
	}
	return out.toDomain(), nil
}

// ListByStatus returns photos newest first, optionally filtered by status.
func (r *Repo) ListByStatus(ctx context.Context, filter domain.ListFilter) ([]*domain.Photo, error) {
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
		return nil, fmt.Errorf("photo.ListByStatus: build query: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("photo.ListByStatus: %w", err)
	}

	out := make([]*domain.Photo, 0, len(rows))
	for _, rw := range rows {
		out = append(out, rw.toDomain())
	}
	return out, nil
}

// HashesByRecipe returns the perceptual hashes of every photo already
// stored for a recipe, rejected ones included.
func (r *Repo) HashesByRecipe(ctx context.Context, slug string) ([]uint64, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.db).
		Query(ctx, `SELECT perceptual_hash FROM photos WHERE recipe_slug = $1`, slug)
	if err != nil {
		return nil, fmt.Errorf("photo.HashesByRecipe: %w", err)
	}
	defer rows.Close()

	var out []uint64
	for rows.Next() {
		var h int64
		if err := rows.Scan(&h); err != nil {
			return nil, fmt.Errorf("photo.HashesByRecipe: scan: %w", err)
		}
		out = append(out, uint64(h))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("photo.HashesByRecipe: %w", err)
	}
	return out, nil
}

// ApplyAssessment stores the moderation assessment and resulting status.
func (r *Repo) ApplyAssessment(ctx context.Context, id uuid.UUID, a domain.Assessment, status domain.ContentStatus) error {
	set := map[string]any{
		"quality_score": a.Score,
		"status":        string(status),
		"reasoning":     nullable(a.Reasoning),
	}
	if a.Authenticity != "" {
		set["authenticity"] = string(a.Authenticity)
		set["authenticity_confidence"] = a.AuthenticityConfidence
	}
	return r.update(ctx, id, set)
}

// SetStatus overrides the moderation status.
func (r *Repo) SetStatus(ctx context.Context, id uuid.UUID, status domain.ContentStatus) error {
	return r.update(ctx, id, map[string]any{"status": string(status)})
}

func (r *Repo) update(ctx context.Context, id uuid.UUID, set map[string]any) error {
	sql, args, err := psql.Update(table).
		SetMap(set).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("photo.update: build query: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "photo", id.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("photo %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
