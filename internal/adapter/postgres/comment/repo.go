// Package comment implements the comments table repository.
package comment

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/heartmarshall/forkful-backend/internal/adapter/postgres"
	"github.com/heartmarshall/forkful-backend/internal/domain"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides comment persistence.
type Repo struct {
	db postgres.Querier
}

// New creates a new comment repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type row struct {
	ID         uuid.UUID `db:"id"`
	RecipeSlug string    `db:"recipe_slug"`
	Author     string    `db:"author"`
	Body       string    `db:"body"`
	ClientIP   string    `db:"client_ip"`
	CreatedAt  time.Time `db:"created_at"`
}

func (r row) toDomain() *domain.Comment {
	return &domain.Comment{
		ID:         r.ID,
		RecipeSlug: r.RecipeSlug,
		Author:     r.Author,
		Body:       r.Body,
		ClientIP:   r.ClientIP,
		CreatedAt:  r.CreatedAt,
	}
}

// Create inserts a comment and returns the stored row.
func (r *Repo) Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error) {
	sql, args, err := psql.Insert("comments").
		Columns("recipe_slug", "author", "body", "client_ip").
		Values(c.RecipeSlug, c.Author, c.Body, c.ClientIP).
		Suffix("RETURNING id, recipe_slug, author, body, client_ip, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("comment.Create: build query: %w", err)
	}

	var out row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &out, sql, args...); err != nil {
		return nil, postgres.MapError(err, "comment on recipe", c.RecipeSlug)
	}
	return out.toDomain(), nil
}

// ListByRecipe returns the comments of a recipe newest first.
func (r *Repo) ListByRecipe(ctx context.Context, slug string, limit, offset int) ([]*domain.Comment, error) {
	q := psql.Select("id", "recipe_slug", "author", "body", "client_ip", "created_at").
		From("comments").
		Where(squirrel.Eq{"recipe_slug": slug}).
		OrderBy("created_at DESC", "id DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	if offset > 0 {
		q = q.Offset(uint64(offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("comment.ListByRecipe: build query: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("comment.ListByRecipe: %w", err)
	}

	out := make([]*domain.Comment, 0, len(rows))
	for _, rw := range rows {
		out = append(out, rw.toDomain())
	}
	return out, nil
}
