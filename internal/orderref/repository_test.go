package orderref

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_AddToBasket(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "product_id", "user_id", "project_id", "created_at"}).
			AddRow(1, 4, 1, nil, time.Now())

		mock.ExpectQuery(`(?s)INSERT INTO order_references.*RETURNING`).
			WithArgs(1, 4).
			WillReturnRows(rows)

		ref, err := repo.AddToBasket(ctx, 1, 4)
		require.NoError(t, err)
		assert.Equal(t, uint(1), ref.ID)
		assert.Nil(t, ref.ProjectID)
	})

	t.Run("DuplicateLine", func(t *testing.T) {
		mock.ExpectQuery(`(?s)INSERT INTO order_references.*RETURNING`).
			WithArgs(1, 4).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "order_references_basket_key"})

		_, err := repo.AddToBasket(ctx, 1, 4)
		assert.ErrorIs(t, err, ErrAlreadyInBasket)
	})
}

func TestRepository_RemoveFromBasket(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM order_references`).
			WithArgs(2, 1).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.RemoveFromBasket(ctx, 2, 1))
	})

	t.Run("AttachedOrMissing", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM order_references`).
			WithArgs(2, 1).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.RemoveFromBasket(ctx, 2, 1)
		assert.ErrorIs(t, err, ErrReferenceNotFound)
	})
}

func TestRepository_GetBasketLine(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "product_id", "user_id", "project_id", "created_at"}).
			AddRow(2, 4, 1, nil, time.Now())

		mock.ExpectQuery(`(?s)SELECT .* FROM order_references`).
			WithArgs(2, 1).
			WillReturnRows(rows)

		ref, err := repo.GetBasketLine(ctx, 2, 1)
		require.NoError(t, err)
		assert.Equal(t, uint(4), ref.ProductID)
	})

	t.Run("OtherUsersLine", func(t *testing.T) {
		mock.ExpectQuery(`(?s)SELECT .* FROM order_references`).
			WithArgs(2, 9).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetBasketLine(ctx, 2, 9)
		assert.ErrorIs(t, err, ErrReferenceNotFound)
	})
}

func TestResolveDuplicates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()

	t.Run("MergesAttachedProducts", func(t *testing.T) {
		// Basket line 2 duplicates attached reference 8; line 3 survives.
		mock.ExpectQuery(`(?s)SELECT basket.id, attached.id.*FROM order_references basket`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "id"}).AddRow(2, 8))
		mock.ExpectExec(`(?s)DELETE FROM order_references.*project_id IS NULL`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		result, err := ResolveDuplicates(ctx, db, 1, 5, []uint{2, 3})
		require.NoError(t, err)

		require.Len(t, result.SameOrderRef, 1)
		assert.Equal(t, uint(8), result.SameOrderRef[0].OrderRefID)
		assert.Equal(t, uint(2), result.SameOrderRef[0].ForID)
		assert.Equal(t, []uint{3}, result.FilteredOrderRef)
	})

	t.Run("NothingToMerge", func(t *testing.T) {
		mock.ExpectQuery(`(?s)SELECT basket.id, attached.id.*FROM order_references basket`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "id"}))

		result, err := ResolveDuplicates(ctx, db, 1, 5, []uint{2, 3})
		require.NoError(t, err)
		assert.Empty(t, result.SameOrderRef)
		assert.Equal(t, []uint{2, 3}, result.FilteredOrderRef)
	})
}

func TestAttachToProject(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`(?s)UPDATE order_references.*SET project_id`).
			WillReturnResult(sqlmock.NewResult(0, 2))

		assert.NoError(t, AttachToProject(ctx, db, 1, 5, []uint{2, 3}))
	})

	t.Run("ForeignOrAttachedLine", func(t *testing.T) {
		mock.ExpectExec(`(?s)UPDATE order_references.*SET project_id`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := AttachToProject(ctx, db, 1, 5, []uint{2, 3})
		assert.ErrorIs(t, err, ErrReferenceNotFound)
	})

	t.Run("NoIDs", func(t *testing.T) {
		assert.NoError(t, AttachToProject(ctx, db, 1, 5, nil))
	})
}
