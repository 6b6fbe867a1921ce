package user

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_FindByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "email", "password", "role", "verification", "created_at"}).
			AddRow(1, "buyer@example.com", "hashed", "user", "verified", time.Now())

		mock.ExpectQuery(`(?s)SELECT .* FROM users`).
			WithArgs("buyer@example.com").
			WillReturnRows(rows)

		u, err := repo.FindByEmail(ctx, "buyer@example.com")
		require.NoError(t, err)
		assert.Equal(t, VerificationVerified, u.Verification)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`(?s)SELECT .* FROM users`).
			WithArgs("ghost@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindByEmail(ctx, "ghost@example.com")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestRepository_GetShippingAddress(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("NoneOnFile", func(t *testing.T) {
		mock.ExpectQuery(`(?s)SELECT .* FROM user_shipping_addresses`).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		addr, err := repo.GetShippingAddress(ctx, 1)
		require.NoError(t, err)
		assert.Nil(t, addr)
	})

	t.Run("Found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{
			"id", "user_id", "name", "phone", "address_line1", "address_line2", "city", "postal_code", "country",
		}).AddRow(2, 1, "Buyer", "0812", "Jl. Kemang 12", nil, "Jakarta", "12730", "ID")

		mock.ExpectQuery(`(?s)SELECT .* FROM user_shipping_addresses`).
			WithArgs(1).
			WillReturnRows(rows)

		addr, err := repo.GetShippingAddress(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, addr)
		assert.Equal(t, "Jakarta", addr.City)
		assert.Nil(t, addr.Address2)
	})
}

func TestRepository_AdminIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT id FROM users WHERE role = 'admin'`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9).AddRow(12))

	ids, err := repo.AdminIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []uint{9, 12}, ids)
}
