package user

import (
	"context"
	"database/sql"
	"errors"

	"aqsit-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, email, password string, role Role) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uint) (User, error)
	SetVerification(ctx context.Context, id uint, status VerificationStatus) error
	AdminIDs(ctx context.Context) ([]uint, error)
	GetShippingAddress(ctx context.Context, userID uint) (*ShippingAddress, error)
	UpsertShippingAddress(ctx context.Context, addr *ShippingAddress) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, email, password string, role Role) (User, error) {
	log := logger.FromCtx(ctx)

	var u User
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (email, password, role, verification)
		VALUES ($1, $2, $3, 'pending')
		RETURNING id, email, password, role, verification, created_at
	`, email, password, role).
		Scan(&u.ID, &u.Email, &u.Password, &u.Role, &u.Verification, &u.CreatedAt)

	if err != nil {
		log.Error("db: failed to insert user",
			zap.String("email", email),
			zap.Error(err),
		)
	}

	return u, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, password, role, verification, created_at
		FROM users
		WHERE email = $1
	`, email).
		Scan(&u.ID, &u.Email, &u.Password, &u.Role, &u.Verification, &u.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrUserNotFound
	}
	return u, err
}

func (r *repository) GetByID(ctx context.Context, id uint) (User, error) {
	var u User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, password, role, verification, created_at
		FROM users
		WHERE id = $1
	`, id).
		Scan(&u.ID, &u.Email, &u.Password, &u.Role, &u.Verification, &u.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrUserNotFound
	}
	return u, err
}

func (r *repository) SetVerification(ctx context.Context, id uint, status VerificationStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET verification = $1 WHERE id = $2
	`, status, id)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *repository) AdminIDs(ctx context.Context) ([]uint, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM users WHERE role = 'admin'`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uint
	for rows.Next() {
		var id uint
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *repository) GetShippingAddress(ctx context.Context, userID uint) (*ShippingAddress, error) {
	var a ShippingAddress
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, phone, address_line1, address_line2, city, postal_code, country
		FROM user_shipping_addresses
		WHERE user_id = $1
	`, userID).
		Scan(&a.ID, &a.UserID, &a.Name, &a.Phone, &a.Address1, &a.Address2, &a.City, &a.Postal, &a.Country)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) UpsertShippingAddress(ctx context.Context, addr *ShippingAddress) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_shipping_addresses (
			user_id, name, phone, address_line1, address_line2, city, postal_code, country
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			address_line1 = EXCLUDED.address_line1,
			address_line2 = EXCLUDED.address_line2,
			city = EXCLUDED.city,
			postal_code = EXCLUDED.postal_code,
			country = EXCLUDED.country
	`, addr.UserID, addr.Name, addr.Phone, addr.Address1, addr.Address2, addr.City, addr.Postal, addr.Country)

	return err
}
