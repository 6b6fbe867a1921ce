package outbox

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnqueueTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO email_outbox`).
		WithArgs("order_quoted", "buyer@example.com", "Quote ready", []byte(`{"Amount":"500.00"}`)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = EnqueueTx(context.Background(), db, "order_quoted", "buyer@example.com", "Quote ready",
		map[string]any{"Amount": "500.00"})
	assert.NoError(t, err)
}

func TestRepository_ClaimPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "template", "to_email", "subject", "data", "status", "attempts", "next_attempt_at", "created_at",
	}).AddRow(
		1, "order_quoted", "buyer@example.com", "Quote ready",
		[]byte(`{"Amount":"500.00"}`), "sending", 0, time.Now(), time.Now(),
	)

	mock.ExpectQuery(`(?s)UPDATE email_outbox SET status = 'sending'.*FOR UPDATE SKIP LOCKED.*RETURNING`).
		WithArgs(20).
		WillReturnRows(rows)

	msgs, err := repo.ClaimPending(context.Background(), 20)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "order_quoted", msgs[0].Template)
	assert.Equal(t, "500.00", msgs[0].Data["Amount"])
}

func TestRepository_MarkFailed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("RequeuesWithBackoff", func(t *testing.T) {
		mock.ExpectExec(`(?s)UPDATE email_outbox.*SET status = 'pending'`).
			WithArgs(1, 2, "4m0s").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.MarkFailed(ctx, 1, 2))
	})

	t.Run("GivesUpAfterMaxAttempts", func(t *testing.T) {
		mock.ExpectExec(`UPDATE email_outbox SET status = 'failed'`).
			WithArgs(1, 5).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.MarkFailed(ctx, 1, 5))
	})
}

func TestRepository_MarkSent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectExec(`UPDATE email_outbox SET status = 'sent'`).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.MarkSent(context.Background(), 1))
}
