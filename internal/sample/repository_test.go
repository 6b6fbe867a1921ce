package sample

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_RequestExtension(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("GuardMatches", func(t *testing.T) {
		mock.ExpectExec(`(?s)UPDATE sample_orders.*SET request_to_extend_return_date`).
			WithArgs("1", "SKAAAAAA-4BBB", 1, "3", "0").
			WillReturnResult(sqlmock.NewResult(0, 1))

		affected, err := repo.RequestExtension(ctx, "SKAAAAAA-4BBB", 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)
	})

	t.Run("GuardMisses", func(t *testing.T) {
		mock.ExpectExec(`(?s)UPDATE sample_orders.*SET request_to_extend_return_date`).
			WithArgs("1", "SKAAAAAA-4BBB", 1, "3", "0").
			WillReturnResult(sqlmock.NewResult(0, 0))

		affected, err := repo.RequestExtension(ctx, "SKAAAAAA-4BBB", 1)
		require.NoError(t, err)
		assert.Zero(t, affected)
	})
}

func TestRepository_ApproveExtensionTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	detail := &Detail{SampleOrder: SampleOrder{ID: "SKAAAAAA-4BBB", UserID: 1, ExtendRequest: ExtendRequested}}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`(?s)UPDATE sample_orders.*estimated_return_date`).
			WithArgs("2", 7, "SKAAAAAA-4BBB", "1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO notifications`).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.ApproveExtensionTx(ctx, detail, 7))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NothingPending", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`(?s)UPDATE sample_orders.*estimated_return_date`).
			WithArgs("2", 7, "SKAAAAAA-4BBB", "1").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.ApproveExtensionTx(ctx, detail, 7)
		assert.ErrorIs(t, err, ErrNoExtensionPending)
	})
}

func TestRepository_RejectExtensionTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	detail := &Detail{SampleOrder: SampleOrder{ID: "SKAAAAAA-4BBB", UserID: 1, ExtendRequest: ExtendRequested}}

	mock.ExpectBegin()
	mock.ExpectExec(`(?s)UPDATE sample_orders.*SET request_to_extend_return_date`).
		WithArgs("3", "SKAAAAAA-4BBB", "1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO notifications`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	assert.NoError(t, repo.RejectExtensionTx(ctx, detail))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatusTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	detail := &Detail{
		SampleOrder: SampleOrder{ID: "SKAAAAAA-4BBB", UserID: 1, Status: StatusOutForDelivery},
		UserEmail:   "buyer@example.com",
	}

	t.Run("WithEmail", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`(?s)UPDATE sample_orders SET status`).
			WithArgs("3", "SKAAAAAA-4BBB", "2").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO notifications`).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(`INSERT INTO email_outbox`).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		email := &StatusEmail{Template: "sample_delivered", Subject: "Delivered", Data: map[string]any{"OrderID": detail.ID}}
		assert.NoError(t, repo.UpdateStatusTx(ctx, detail, StatusDelivered, email))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ConcurrentMove", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`(?s)UPDATE sample_orders SET status`).
			WithArgs("3", "SKAAAAAA-4BBB", "2").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.UpdateStatusTx(ctx, detail, StatusDelivered, nil)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}
