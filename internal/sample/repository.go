package sample

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"aqsit-be/internal/logger"
	"aqsit-be/internal/mailer"
	"aqsit-be/internal/notification"
	"aqsit-be/internal/outbox"

	"go.uber.org/zap"
)

type CreateParams struct {
	OrderID           string
	MoodboardID       uint
	MoodboardName     string
	UserID            uint
	UserEmail         string
	EstimatedDelivery time.Time
	EstimatedReturn   time.Time
	ProductIDs        []uint
	EmailProducts     []map[string]any
	AdminIDs          []uint
	AdminEmail        string
}

type StatusEmail struct {
	Template string
	Subject  string
	Data     map[string]any
}

type Repository interface {
	CreateTx(ctx context.Context, p CreateParams) (*SampleOrder, error)
	GetDetail(ctx context.Context, orderID string) (*Detail, error)
	LatestByUser(ctx context.Context, userID uint) (*SampleOrder, error)
	ListByUser(ctx context.Context, userID uint) ([]*SampleOrder, error)
	ProductIDs(ctx context.Context, orderID string) ([]uint, error)
	UpdateStatusTx(ctx context.Context, d *Detail, target Status, email *StatusEmail) error
	RequestExtension(ctx context.Context, orderID string, userID uint) (int64, error)
	ApproveExtensionTx(ctx context.Context, d *Detail, extensionDays int) error
	RejectExtensionTx(ctx context.Context, d *Detail) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// CreateTx inserts the order header and bulk-inserts its product rows
// in one transaction, together with the notifications and admin email.
func (r *repository) CreateTx(ctx context.Context, p CreateParams) (*SampleOrder, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateTx"),
		zap.String("order_id", p.OrderID),
		zap.Int("product_count", len(p.ProductIDs)),
	)

	log.Debug("starting sample-order transaction")

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	var o SampleOrder
	err = tx.QueryRowContext(ctx, `
		INSERT INTO sample_orders (
			id, moodboard_id, user_id, request_to_extend_return_date,
			estimated_delivery_date, estimated_return_date, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, moodboard_id, user_id, request_to_extend_return_date,
		          estimated_delivery_date, estimated_return_date, status, created_at
	`, p.OrderID, p.MoodboardID, p.UserID, ExtendNone,
		p.EstimatedDelivery, p.EstimatedReturn, StatusProcessing).
		Scan(&o.ID, &o.MoodboardID, &o.UserID, &o.ExtendRequest,
			&o.EstimatedDelivery, &o.EstimatedReturn, &o.Status, &o.CreatedAt)
	if err != nil {
		return nil, err
	}

	for i, productID := range p.ProductIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO sample_order_products (sample_order_id, product_id)
			VALUES ($1, $2)
		`, p.OrderID, productID); err != nil {
			log.Error("failed to insert sample order product",
				zap.Int("index", i),
				zap.Uint("product_id", productID),
				zap.Error(err),
			)
			return nil, err
		}
	}

	url := "/samples/" + p.OrderID
	if err := notification.InsertTx(ctx, tx, notification.Notification{
		To:      []uint{p.UserID},
		Message: fmt.Sprintf("Your sample order %s is being processed", p.OrderID),
		URL:     url,
	}); err != nil {
		return nil, err
	}

	if len(p.AdminIDs) > 0 {
		if err := notification.InsertTx(ctx, tx, notification.Notification{
			To:      p.AdminIDs,
			Message: fmt.Sprintf("New sample order %s placed by %s", p.OrderID, p.UserEmail),
			URL:     url,
		}); err != nil {
			return nil, err
		}
	}

	if p.AdminEmail != "" {
		err = outbox.EnqueueTx(ctx, tx, mailer.TemplateSampleCreatedAdmin, p.AdminEmail,
			fmt.Sprintf("New sample order %s", p.OrderID),
			map[string]any{
				"OrderID":       p.OrderID,
				"UserEmail":     p.UserEmail,
				"MoodboardName": p.MoodboardName,
				"Products":      p.EmailProducts,
				"DeliveryDate":  p.EstimatedDelivery.Format("02 Jan 2006"),
			})
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit sample-order transaction", zap.Error(err))
		return nil, err
	}

	committed = true
	log.Info("sample order created")

	return &o, nil
}

const detailQuery = `
	SELECT s.id, s.moodboard_id, s.user_id, s.request_to_extend_return_date,
	       s.estimated_delivery_date, s.estimated_return_date, s.status, s.created_at,
	       u.email,
	       (SELECT COUNT(*) FROM sample_order_products sp WHERE sp.sample_order_id = s.id),
	       COALESCE(a.address_line1, ''), COALESCE(a.city, ''), COALESCE(a.postal_code, '')
	FROM sample_orders s
	JOIN users u ON u.id = s.user_id
	LEFT JOIN user_shipping_addresses a ON a.user_id = s.user_id
	WHERE s.id = $1
`

func (r *repository) GetDetail(ctx context.Context, orderID string) (*Detail, error) {
	var d Detail
	err := r.db.QueryRowContext(ctx, detailQuery, orderID).
		Scan(&d.ID, &d.MoodboardID, &d.UserID, &d.ExtendRequest,
			&d.EstimatedDelivery, &d.EstimatedReturn, &d.Status, &d.CreatedAt,
			&d.UserEmail, &d.ItemCount, &d.AddressLine, &d.City, &d.Postal)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// LatestByUser returns the most recent order or nil, used for the
// one-order-per-week check.
func (r *repository) LatestByUser(ctx context.Context, userID uint) (*SampleOrder, error) {
	var o SampleOrder
	err := r.db.QueryRowContext(ctx, `
		SELECT id, moodboard_id, user_id, request_to_extend_return_date,
		       estimated_delivery_date, estimated_return_date, status, created_at
		FROM sample_orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, userID).
		Scan(&o.ID, &o.MoodboardID, &o.UserID, &o.ExtendRequest,
			&o.EstimatedDelivery, &o.EstimatedReturn, &o.Status, &o.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uint) ([]*SampleOrder, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, moodboard_id, user_id, request_to_extend_return_date,
		       estimated_delivery_date, estimated_return_date, status, created_at
		FROM sample_orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*SampleOrder
	for rows.Next() {
		var o SampleOrder
		if err := rows.Scan(&o.ID, &o.MoodboardID, &o.UserID, &o.ExtendRequest,
			&o.EstimatedDelivery, &o.EstimatedReturn, &o.Status, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &o)
	}
	return out, rows.Err()
}

func (r *repository) ProductIDs(ctx context.Context, orderID string) ([]uint, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id FROM sample_order_products
		WHERE sample_order_id = $1
		ORDER BY product_id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []uint
	for rows.Next() {
		var id uint
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// UpdateStatusTx moves the order to target with a WHERE guard on the
// prior status, queueing the user notification and, when email is
// non-nil, the template email.
func (r *repository) UpdateStatusTx(ctx context.Context, d *Detail, target Status, email *StatusEmail) error {
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
		UPDATE sample_orders SET status = $1
		WHERE id = $2 AND status = $3
	`, target, d.ID, d.Status)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrOrderNotFound
	}

	if err := notification.InsertTx(ctx, tx, notification.Notification{
		To:      []uint{d.UserID},
		Message: fmt.Sprintf("Your sample order %s is now %s", d.ID, target.Name()),
		URL:     "/samples/" + d.ID,
	}); err != nil {
		return err
	}

	if email != nil {
		if err := outbox.EnqueueTx(ctx, tx, email.Template, d.UserEmail, email.Subject, email.Data); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// RequestExtension flips none -> requested, but only while delivered.
// The row count tells the caller whether the guard matched.
func (r *repository) RequestExtension(ctx context.Context, orderID string, userID uint) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sample_orders
		SET request_to_extend_return_date = $1
		WHERE id = $2 AND user_id = $3 AND status = $4 AND request_to_extend_return_date = $5
	`, ExtendRequested, orderID, userID, StatusDelivered, ExtendNone)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ApproveExtensionTx flips requested -> approved and pushes the return
// date out. The guard on the requested state is what makes a second
// approval impossible.
func (r *repository) ApproveExtensionTx(ctx context.Context, d *Detail, extensionDays int) error {
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
		UPDATE sample_orders
		SET request_to_extend_return_date = $1,
		    estimated_return_date = estimated_return_date + $2 * INTERVAL '1 day'
		WHERE id = $3 AND request_to_extend_return_date = $4
	`, ExtendApproved, extensionDays, d.ID, ExtendRequested)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNoExtensionPending
	}

	msg := fmt.Sprintf("Your return-date extension for sample order %s was approved", d.ID)
	if err := notification.InsertTx(ctx, tx, notification.Notification{
		To: []uint{d.UserID}, Message: msg, URL: "/samples/" + d.ID,
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// RejectExtensionTx flips requested -> rejected with the apology
// notification.
func (r *repository) RejectExtensionTx(ctx context.Context, d *Detail) error {
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
		UPDATE sample_orders
		SET request_to_extend_return_date = $1
		WHERE id = $2 AND request_to_extend_return_date = $3
	`, ExtendRejected, d.ID, ExtendRequested)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNoExtensionPending
	}

	msg := fmt.Sprintf("We are sorry, your return-date extension for sample order %s could not be approved", d.ID)
	if err := notification.InsertTx(ctx, tx, notification.Notification{
		To: []uint{d.UserID}, Message: msg, URL: "/samples/" + d.ID,
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
