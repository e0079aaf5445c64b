package comment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/forkful-backend/internal/domain"
)

var commentColumns = []string{"id", "recipe_slug", "author", "body", "client_ip", "created_at"}

func TestRepo_Create(t *testing.T) {
	id := uuid.New()
	now := time.Now()

	tests := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface)
		wantErr error
	}{
		{
			name: "success",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO comments \(recipe_slug,author,body,client_ip\) VALUES \(\$1,\$2,\$3,\$4\) RETURNING`).
					WithArgs("shakshuka", "ana", "Lovely", "10.0.0.1").
					WillReturnRows(pgxmock.NewRows(commentColumns).
						AddRow(id, "shakshuka", "ana", "Lovely", "10.0.0.1", now))
			},
		},
		{
			name: "recipe deleted meanwhile",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO comments (.+) RETURNING`).
					WithArgs("shakshuka", "ana", "Lovely", "10.0.0.1").
					WillReturnError(&pgconn.PgError{Code: "23503"})
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()
			tt.setup(mock)

			got, err := New(mock).Create(context.Background(), &domain.Comment{
				RecipeSlug: "shakshuka",
				Author:     "ana",
				Body:       "Lovely",
				ClientIP:   "10.0.0.1",
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, id, got.ID)
			assert.Equal(t, now, got.CreatedAt)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepo_ListByRecipe(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM comments WHERE recipe_slug = \$1 ORDER BY created_at DESC, id DESC LIMIT 50 OFFSET 5`).
		WithArgs("shakshuka").
		WillReturnRows(pgxmock.NewRows(commentColumns).
			AddRow(uuid.New(), "shakshuka", "bo", "Second", "", now).
			AddRow(uuid.New(), "shakshuka", "ana", "First", "", now.Add(-time.Hour)))

	got, err := New(mock).ListByRecipe(context.Background(), "shakshuka", 50, 5)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Second", got[0].Body)
	assert.NoError(t, mock.ExpectationsWereMet())
}
