package project

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_GetOwned(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Owned", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "user_id", "name", "created_at"}).
			AddRow(5, 1, "Living Room", time.Now())

		mock.ExpectQuery(`(?s)SELECT .* FROM projects`).
			WithArgs(5, 1).
			WillReturnRows(rows)

		p, err := repo.GetOwned(ctx, 5, 1)
		require.NoError(t, err)
		assert.Equal(t, "Living Room", p.Name)
	})

	t.Run("NotOwned", func(t *testing.T) {
		mock.ExpectQuery(`(?s)SELECT .* FROM projects`).
			WithArgs(5, 9).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetOwned(ctx, 5, 9)
		assert.ErrorIs(t, err, ErrProjectNotFound)
	})
}

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "name", "created_at"}).
		AddRow(6, 1, "Office", time.Now())

	mock.ExpectQuery(`(?s)INSERT INTO projects.*RETURNING`).
		WithArgs(1, "Office").
		WillReturnRows(rows)

	p, err := repo.Create(context.Background(), 1, "Office")
	require.NoError(t, err)
	assert.Equal(t, uint(6), p.ID)
}

func TestRepository_ListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "name", "created_at"}).
		AddRow(6, 1, "Office", time.Now()).
		AddRow(5, 1, "Living Room", time.Now().Add(-time.Hour))

	mock.ExpectQuery(`(?s)SELECT .* FROM projects`).
		WithArgs(1).
		WillReturnRows(rows)

	projects, err := repo.ListByUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "Office", projects[0].Name)
}
