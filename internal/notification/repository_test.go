package notification

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_Insert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectExec(`INSERT INTO notifications`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Insert(context.Background(), Notification{
		To: []uint{1, 9}, Message: "Order placed", URL: "/orders/AAAA1111",
	})
	assert.NoError(t, err)
}

func TestRepository_ListForUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	rows := sqlmock.NewRows([]string{"id", "recipients", "message", "url", "is_read", "created_at"}).
		AddRow(1, "{1,9}", "Order placed", "/orders/AAAA1111", false, time.Now())

	mock.ExpectQuery(`(?s)SELECT .* FROM notifications`).
		WithArgs(1, 50).
		WillReturnRows(rows)

	out, err := repo.ListForUser(context.Background(), 1, 0)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, []uint{1, 9}, out[0].To)
	assert.False(t, out[0].IsRead)
}

func TestRepository_MarkRead(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectExec(`(?s)UPDATE notifications.*SET is_read`).
		WithArgs(1, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.MarkRead(context.Background(), 1, 2))
}
