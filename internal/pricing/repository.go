package pricing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"aqsit-be/internal/apperrors"
	"aqsit-be/internal/mailer"
	"aqsit-be/internal/notification"
	"aqsit-be/internal/outbox"
)

type Repository interface {
	Create(ctx context.Context, userID, productID uint, quantity int) (*Request, error)
	GetDetail(ctx context.Context, id uint) (*Detail, error)
	ListByUser(ctx context.Context, userID uint) ([]*Request, error)
	ListPending(ctx context.Context) ([]*Detail, error)
	CompleteTx(ctx context.Context, d *Detail, price float64) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// Create relies on the partial unique index over pending rows: a
// second pending ask for the same (user, product) fails there.
func (r *repository) Create(ctx context.Context, userID, productID uint, quantity int) (*Request, error) {
	var req Request
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO pricing_requests (product_id, user_id, quantity, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, product_id, user_id, quantity, price, status, created_at
	`, productID, userID, quantity, StatusPending).
		Scan(&req.ID, &req.ProductID, &req.UserID, &req.Quantity, &req.Price, &req.Status, &req.CreatedAt)

	if err != nil {
		if apperrors.IsUniqueViolation(err, "pricing_requests_pending_key") {
			return nil, ErrAlreadyAsked
		}
		return nil, apperrors.Rewrite(err)
	}
	return &req, nil
}

const detailQuery = `
	SELECT r.id, r.product_id, r.user_id, r.quantity, r.price, r.status, r.created_at,
	       u.email, p.name
	FROM pricing_requests r
	JOIN users u ON u.id = r.user_id
	JOIN products p ON p.id = r.product_id
`

func (r *repository) GetDetail(ctx context.Context, id uint) (*Detail, error) {
	var d Detail
	err := r.db.QueryRowContext(ctx, detailQuery+` WHERE r.id = $1`, id).
		Scan(&d.ID, &d.ProductID, &d.UserID, &d.Quantity, &d.Price, &d.Status, &d.CreatedAt,
			&d.UserEmail, &d.ProductName)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uint) ([]*Request, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, user_id, quantity, price, status, created_at
		FROM pricing_requests
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Request
	for rows.Next() {
		var req Request
		if err := rows.Scan(&req.ID, &req.ProductID, &req.UserID, &req.Quantity,
			&req.Price, &req.Status, &req.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &req)
	}
	return out, rows.Err()
}

func (r *repository) ListPending(ctx context.Context) ([]*Detail, error) {
	rows, err := r.db.QueryContext(ctx, detailQuery+`
		WHERE r.status = '0'
		ORDER BY r.created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Detail
	for rows.Next() {
		var d Detail
		if err := rows.Scan(&d.ID, &d.ProductID, &d.UserID, &d.Quantity, &d.Price, &d.Status, &d.CreatedAt,
			&d.UserEmail, &d.ProductName); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

// CompleteTx sets price and status, with the quote email and the user
// notification queued in the same transaction.
func (r *repository) CompleteTx(ctx context.Context, d *Detail, price float64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE pricing_requests
		SET price = $1, status = $2
		WHERE id = $3 AND status = $4
	`, price, StatusCompleted, d.ID, StatusPending)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrRequestNotFound
	}

	msg := fmt.Sprintf("Pricing for %s is ready: %.2f", d.ProductName, price)
	if err := notification.InsertTx(ctx, tx, notification.Notification{
		To: []uint{d.UserID}, Message: msg, URL: fmt.Sprintf("/pricing/%d", d.ID),
	}); err != nil {
		return err
	}

	err = outbox.EnqueueTx(ctx, tx, mailer.TemplatePricingQuote, d.UserEmail,
		fmt.Sprintf("Pricing for %s", d.ProductName),
		map[string]any{
			"ProductName": d.ProductName,
			"Quantity":    d.Quantity,
			"Price":       fmt.Sprintf("%.2f", price),
		})
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
