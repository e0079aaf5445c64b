// Package enrichment implements the durable enrichment task queue using PostgreSQL.
package enrichment

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

const taskColumns = "id, kind, subject_key, status, attempts, error_message, created_at, processed_at"

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides enrichment queue persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new enrichment queue repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type taskRow struct {
	ID           uuid.UUID  `db:"id"`
	Kind         string     `db:"kind"`
	SubjectKey   string     `db:"subject_key"`
	Status       string     `db:"status"`
	Attempts     int        `db:"attempts"`
	ErrorMessage *string    `db:"error_message"`
	CreatedAt    time.Time  `db:"created_at"`
	ProcessedAt  *time.Time `db:"processed_at"`
}

// Enqueue adds a task. A pending or processing task for the same subject
// absorbs the request.
func (r *Repo) Enqueue(ctx context.Context, kind domain.TaskKind, subjectKey string) error {
	const q = `
		INSERT INTO enrichment_tasks (kind, subject_key)
		VALUES ($1, $2)
		ON CONFLICT (kind, subject_key) WHERE status IN ('pending', 'processing') DO NOTHING`

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, q, string(kind), subjectKey); err != nil {
		return fmt.Errorf("enrichment.Enqueue: %w", err)
	}
	return nil
}

// ClaimBatch claims up to limit pending tasks, oldest first, and counts
// the attempt. Concurrent workers never claim the same row.
func (r *Repo) ClaimBatch(ctx context.Context, limit int) ([]domain.EnrichmentTask, error) {
	const q = `
		UPDATE enrichment_tasks
		SET status = 'processing', attempts = attempts + 1
		WHERE id IN (
			SELECT id FROM enrichment_tasks
			WHERE status = 'pending'
			ORDER BY created_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + taskColumns

	var rows []taskRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, q, limit); err != nil {
		return nil, fmt.Errorf("enrichment.ClaimBatch: %w", err)
	}
	return toDomainTasks(rows), nil
}

// MarkDone marks a task as successfully processed.
func (r *Repo) MarkDone(ctx context.Context, id uuid.UUID) error {
	const q = `
		UPDATE enrichment_tasks
		SET status = 'done', error_message = NULL, processed_at = now()
		WHERE id = $1`

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, q, id); err != nil {
		return fmt.Errorf("enrichment.MarkDone: %w", err)
	}
	return nil
}

// MarkFailed marks a task as failed with error message.
func (r *Repo) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	const q = `
		UPDATE enrichment_tasks
		SET status = 'failed', error_message = $2, processed_at = now()
		WHERE id = $1`

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, q, id, errMsg); err != nil {
		return fmt.Errorf("enrichment.MarkFailed: %w", err)
	}
	return nil
}

// GetStats returns aggregate counts by status.
func (r *Repo) GetStats(ctx context.Context) (domain.TaskStats, error) {
	const q = `
		SELECT
			count(*) FILTER (WHERE status = 'pending')    AS pending,
			count(*) FILTER (WHERE status = 'processing') AS processing,
			count(*) FILTER (WHERE status = 'done')       AS done,
			count(*) FILTER (WHERE status = 'failed')     AS failed,
			count(*)                                      AS total
		FROM enrichment_tasks`

	var s domain.TaskStats
	err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, q).
		Scan(&s.Pending, &s.Processing, &s.Done, &s.Failed, &s.Total)
	if err != nil {
		return domain.TaskStats{}, fmt.Errorf("enrichment.GetStats: %w", err)
	}
	return s, nil
}

// List returns tasks newest first. An empty status lists every task.
func (r *Repo) List(ctx context.Context, status domain.TaskStatus, limit, offset int) ([]domain.EnrichmentTask, error) {
	b := psql.Select(taskColumns).
		From("enrichment_tasks").
		OrderBy("created_at DESC")
	if status != "" {
		b = b.Where(squirrel.Eq{"status": string(status)})
	}
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	if offset > 0 {
		b = b.Offset(uint64(offset))
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("enrichment.List: build query: %w", err)
	}

	var rows []taskRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("enrichment.List: %w", err)
	}
	return toDomainTasks(rows), nil
}

// RetryAllFailed resets all failed tasks to pending.
func (r *Repo) RetryAllFailed(ctx context.Context) (int, error) {
	const q = `
		UPDATE enrichment_tasks
		SET status = 'pending', error_message = NULL, processed_at = NULL
		WHERE status = 'failed'
		  AND NOT EXISTS (
			SELECT 1 FROM enrichment_tasks o
			WHERE o.kind = enrichment_tasks.kind
			  AND o.subject_key = enrichment_tasks.subject_key
			  AND o.status IN ('pending', 'processing')
		  )`

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("enrichment.RetryAllFailed: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// ResetProcessing resets all processing tasks back to pending (stuck after
// a crash).
func (r *Repo) ResetProcessing(ctx context.Context) (int, error) {
	const q = `UPDATE enrichment_tasks SET status = 'pending' WHERE status = 'processing'`

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("enrichment.ResetProcessing: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func toDomainTasks(rows []taskRow) []domain.EnrichmentTask {
	tasks := make([]domain.EnrichmentTask, len(rows))
	for i, row := range rows {
		tasks[i] = domain.EnrichmentTask{
			ID:           row.ID,
			Kind:         domain.TaskKind(row.Kind),
			SubjectKey:   row.SubjectKey,
			Status:       domain.TaskStatus(row.Status),
			Attempts:     row.Attempts,
			ErrorMessage: row.ErrorMessage,
			CreatedAt:    row.CreatedAt,
			ProcessedAt:  row.ProcessedAt,
		}
	}
	return tasks
}
