package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"aqsit-be/internal/logger"
	"aqsit-be/internal/mailer"
	"aqsit-be/internal/notification"
	"aqsit-be/internal/orderref"
	"aqsit-be/internal/outbox"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Detail is an order line joined with its owner and product, enough to
// address notifications and emails.
type Detail struct {
	Order
	UserID      uint
	UserEmail   string
	ProductID   uint
	ProductName string
}

type CreateOrderSetParams struct {
	UserID     uint
	UserEmail  string
	ProjectID  uint
	SetID      string
	ETA        time.Time
	Lines      []LineInput
	AdminIDs   []uint
	AdminEmail string
}

type CreateOrderSetResult struct {
	SetID        string
	Orders       []*Order
	SameOrderRef []orderref.Remap
}

type PlaceOrderParams struct {
	OrderID       uint
	TransactionID string
	ActorRole     string
	UserID        uint
	AdminIDs      []uint
}

type Repository interface {
	CreateOrderSetTx(ctx context.Context, p CreateOrderSetParams) (*CreateOrderSetResult, error)
	GetDetail(ctx context.Context, orderID uint) (*Detail, error)
	ListBySet(ctx context.Context, setID string) ([]*Order, error)
	ListByUser(ctx context.Context, userID uint) ([]*Order, error)
	QuoteOrderTx(ctx context.Context, d *Detail, amount float64, perSheet float64) error
	PlaceOrderTx(ctx context.Context, p PlaceOrderParams) error
	MarkDelivered(ctx context.Context, orderID uint) error
	CancelOrders(ctx context.Context, orderIDs []uint) (int64, error)
	ListTransactions(ctx context.Context, orderID uint) ([]*OrderTransaction, error)

	GetBillingAddress(ctx context.Context, setID string) (*Address, error)
	GetShippingAddress(ctx context.Context, setID string) (*Address, error)
	UpsertBillingAddress(ctx context.Context, addr *Address) error
	UpsertShippingAddress(ctx context.Context, addr *Address) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// CreateOrderSetTx runs the whole checkout as one transaction: merge
// duplicate basket lines, attach the survivors to the project, insert
// one order row per line, and queue the notifications and admin email.
func (r *repository) CreateOrderSetTx(ctx context.Context, p CreateOrderSetParams) (*CreateOrderSetResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrderSetTx"),
		zap.String("set_id", p.SetID),
		zap.Int("line_count", len(p.Lines)),
	)

	log.Debug("starting order-set transaction")

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

	// The order_sets primary key is what makes the generated id
	// unique; a collision aborts the tx and the caller retries.
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO order_sets (id, user_id, project_id, eta)
		VALUES ($1, $2, $3, $4)
	`, p.SetID, p.UserID, p.ProjectID, p.ETA); err != nil {
		return nil, err
	}

	refIDs := make([]uint, 0, len(p.Lines))
	for _, line := range p.Lines {
		refIDs = append(refIDs, line.OrderRefID)
	}

	dedup, err := orderref.ResolveDuplicates(ctx, tx, p.UserID, p.ProjectID, refIDs)
	if err != nil {
		return nil, err
	}

	// Re-point lines whose basket entry was merged away.
	remapped := map[uint]uint{}
	for _, m := range dedup.SameOrderRef {
		remapped[m.ForID] = m.OrderRefID
	}

	if err := orderref.AttachToProject(ctx, tx, p.UserID, p.ProjectID, dedup.FilteredOrderRef); err != nil {
		return nil, err
	}

	result := &CreateOrderSetResult{SetID: p.SetID, SameOrderRef: dedup.SameOrderRef}

	for i, line := range p.Lines {
		refID := line.OrderRefID
		if to, ok := remapped[refID]; ok {
			refID = to
		}

		var o Order
		err := tx.QueryRowContext(ctx, `
			INSERT INTO orders (order_set_id, order_ref_id, quantity, unit, special_instructions, status, eta)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, order_set_id, order_ref_id, quantity, unit, special_instructions,
			          quotation_amount, shipping_address_id, status, eta, created_at, updated_at
		`, p.SetID, refID, line.Quantity, line.Unit, line.SpecialInstructions, StatusQuoteRequested, p.ETA).
			Scan(&o.ID, &o.OrderSetID, &o.OrderRefID, &o.Quantity, &o.Unit, &o.SpecialInstructions,
				&o.QuotationAmount, &o.ShippingAddressID, &o.Status, &o.ETA, &o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			log.Error("failed to insert order line",
				zap.Int("line_index", i),
				zap.Uint("order_ref_id", refID),
				zap.Error(err),
			)
			return nil, err
		}

		result.Orders = append(result.Orders, &o)
	}

	// Product names for the admin email.
	lines, err := r.emailLines(ctx, tx, p.SetID)
	if err != nil {
		return nil, err
	}

	url := "/orders/" + p.SetID
	msg := fmt.Sprintf("Your order %s has been placed and is awaiting a quote", p.SetID)
	if err := notification.InsertTx(ctx, tx, notification.Notification{
		To: []uint{p.UserID}, Message: msg, URL: url,
	}); err != nil {
		return nil, err
	}

	if len(p.AdminIDs) > 0 {
		adminMsg := fmt.Sprintf("New order %s placed by %s", p.SetID, p.UserEmail)
		if err := notification.InsertTx(ctx, tx, notification.Notification{
			To: p.AdminIDs, Message: adminMsg, URL: url,
		}); err != nil {
			return nil, err
		}
	}

	if p.AdminEmail != "" {
		err = outbox.EnqueueTx(ctx, tx, mailer.TemplateOrderCreatedAdmin, p.AdminEmail,
			fmt.Sprintf("New order %s", p.SetID),
			map[string]any{
				"OrderSetID": p.SetID,
				"UserEmail":  p.UserEmail,
				"Lines":      lines,
				"ETA":        p.ETA.Format("02 Jan 2006"),
			})
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit order-set transaction", zap.Error(err))
		return nil, err
	}

	committed = true
	log.Info("order-set created",
		zap.Int("orders", len(result.Orders)),
		zap.Int("merged_lines", len(result.SameOrderRef)),
	)

	return result, nil
}

func (r *repository) emailLines(ctx context.Context, q orderref.Querier, setID string) ([]map[string]any, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT p.name, o.quantity, o.unit
		FROM orders o
		JOIN order_references ref ON ref.id = o.order_ref_id
		JOIN products p ON p.id = ref.product_id
		WHERE o.order_set_id = $1
	`, setID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []map[string]any
	for rows.Next() {
		var name, unit string
		var qty int
		if err := rows.Scan(&name, &qty, &unit); err != nil {
			return nil, err
		}
		out = append(out, map[string]any{"ProductName": name, "Quantity": qty, "Unit": unit})
	}
	return out, rows.Err()
}

const detailQuery = `
	SELECT o.id, o.order_set_id, o.order_ref_id, o.quantity, o.unit, o.special_instructions,
	       o.quotation_amount, o.shipping_address_id, o.status, o.eta, o.created_at, o.updated_at,
	       u.id, u.email, p.id, p.name
	FROM orders o
	JOIN order_references ref ON ref.id = o.order_ref_id
	JOIN users u ON u.id = ref.user_id
	JOIN products p ON p.id = ref.product_id
	WHERE o.id = $1
`

func (r *repository) GetDetail(ctx context.Context, orderID uint) (*Detail, error) {
	var d Detail
	err := r.db.QueryRowContext(ctx, detailQuery, orderID).
		Scan(&d.Order.ID, &d.OrderSetID, &d.OrderRefID, &d.Quantity, &d.Unit, &d.SpecialInstructions,
			&d.QuotationAmount, &d.ShippingAddressID, &d.Status, &d.ETA, &d.CreatedAt, &d.UpdatedAt,
			&d.UserID, &d.UserEmail, &d.ProductID, &d.ProductName)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) ListBySet(ctx context.Context, setID string) ([]*Order, error) {
	return r.list(ctx, `WHERE o.order_set_id = $1 ORDER BY o.id`, setID)
}

func (r *repository) ListByUser(ctx context.Context, userID uint) ([]*Order, error) {
	return r.list(ctx, `
		JOIN order_references ref ON ref.id = o.order_ref_id
		WHERE ref.user_id = $1
		ORDER BY o.created_at DESC`, userID)
}

func (r *repository) list(ctx context.Context, tail string, arg any) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT o.id, o.order_set_id, o.order_ref_id, o.quantity, o.unit, o.special_instructions,
		       o.quotation_amount, o.shipping_address_id, o.status, o.eta, o.created_at, o.updated_at
		FROM orders o
	`+tail, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.OrderSetID, &o.OrderRefID, &o.Quantity, &o.Unit, &o.SpecialInstructions,
			&o.QuotationAmount, &o.ShippingAddressID, &o.Status, &o.ETA, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &o)
	}
	return out, rows.Err()
}

// QuoteOrderTx attaches the quotation and moves 1 -> 2. The WHERE
// guard makes the transition race-safe; a concurrent move surfaces as
// ErrOrderNotFound.
func (r *repository) QuoteOrderTx(ctx context.Context, d *Detail, amount, perSheet float64) error {
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
		UPDATE orders
		SET quotation_amount = $1, status = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`, amount, StatusQuoted, d.Order.ID, StatusQuoteRequested)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrOrderNotFound
	}

	msg := fmt.Sprintf("Your order %s has been quoted at %.2f", d.OrderSetID, amount)
	if err := notification.InsertTx(ctx, tx, notification.Notification{
		To: []uint{d.UserID}, Message: msg, URL: "/orders/" + d.OrderSetID,
	}); err != nil {
		return err
	}

	err = outbox.EnqueueTx(ctx, tx, mailer.TemplateOrderQuoted, d.UserEmail,
		fmt.Sprintf("Quote ready for order %s", d.OrderSetID),
		map[string]any{
			"OrderID":         d.Order.ID,
			"ProductName":     d.ProductName,
			"QuotationAmount": fmt.Sprintf("%.2f", amount),
			"Quantity":        d.Quantity,
			"Unit":            d.Unit,
			"PerSheet":        fmt.Sprintf("%.2f", perSheet),
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

// PlaceOrderTx records the payment reference and moves 2 -> 3, with
// the duplicate-structured notifications to user and admins.
func (r *repository) PlaceOrderTx(ctx context.Context, p PlaceOrderParams) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "PlaceOrderTx"),
		zap.Uint("order_id", p.OrderID),
	)

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
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, StatusProcessing, p.OrderID, StatusQuoted)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrOrderNotFound
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO order_transactions (order_id, transaction_id, actor_role)
		VALUES ($1, $2, $3)
	`, p.OrderID, p.TransactionID, p.ActorRole); err != nil {
		log.Error("failed to insert order transaction", zap.Error(err))
		return err
	}

	url := fmt.Sprintf("/orders/lines/%d", p.OrderID)
	placed := fmt.Sprintf("Order %d has been placed", p.OrderID)
	txAdded := fmt.Sprintf("Transaction %s added for order %d", p.TransactionID, p.OrderID)

	recipients := [][]uint{{p.UserID}, p.AdminIDs}
	for _, to := range recipients {
		if len(to) == 0 {
			continue
		}
		for _, msg := range []string{placed, txAdded} {
			if err := notification.InsertTx(ctx, tx, notification.Notification{
				To: to, Message: msg, URL: url,
			}); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	log.Info("order placed", zap.String("transaction_id", p.TransactionID))
	return nil
}

func (r *repository) MarkDelivered(ctx context.Context, orderID uint) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, StatusDelivered, orderID, StatusProcessing)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// CancelOrders is the bulk administrative override: every live order in
// the list moves to cancelled.
func (r *repository) CancelOrders(ctx context.Context, orderIDs []uint) (int64, error) {
	ids := make(pq.Int64Array, 0, len(orderIDs))
	for _, id := range orderIDs {
		ids = append(ids, int64(id))
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE id = ANY($2) AND status <> $1
	`, StatusCancelled, ids)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repository) ListTransactions(ctx context.Context, orderID uint) ([]*OrderTransaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, transaction_id, actor_role, created_at
		FROM order_transactions
		WHERE order_id = $1
		ORDER BY created_at
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*OrderTransaction
	for rows.Next() {
		var t OrderTransaction
		if err := rows.Scan(&t.ID, &t.OrderID, &t.TransactionID, &t.ActorRole, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

func (r *repository) GetBillingAddress(ctx context.Context, setID string) (*Address, error) {
	return r.getAddress(ctx, "order_billing_addresses", setID)
}

func (r *repository) GetShippingAddress(ctx context.Context, setID string) (*Address, error) {
	return r.getAddress(ctx, "order_shipping_addresses", setID)
}

func (r *repository) getAddress(ctx context.Context, table, setID string) (*Address, error) {
	var a Address
	err := r.db.QueryRowContext(ctx, `
		SELECT id, order_set_id, name, phone, address_line1, address_line2, city, postal_code, country
		FROM `+table+`
		WHERE order_set_id = $1
	`, setID).
		Scan(&a.ID, &a.OrderSetID, &a.Name, &a.Phone, &a.Address1, &a.Address2, &a.City, &a.Postal, &a.Country)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) UpsertBillingAddress(ctx context.Context, addr *Address) error {
	return r.upsertAddress(ctx, "order_billing_addresses", addr)
}

func (r *repository) UpsertShippingAddress(ctx context.Context, addr *Address) error {
	return r.upsertAddress(ctx, "order_shipping_addresses", addr)
}

// upsertAddress is idempotent keyed by order-set id: insert fresh or
// overwrite field-by-field.
func (r *repository) upsertAddress(ctx context.Context, table string, addr *Address) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO `+table+` (
			order_set_id, name, phone, address_line1, address_line2, city, postal_code, country
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (order_set_id) DO UPDATE SET
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			address_line1 = EXCLUDED.address_line1,
			address_line2 = EXCLUDED.address_line2,
			city = EXCLUDED.city,
			postal_code = EXCLUDED.postal_code,
			country = EXCLUDED.country
	`, addr.OrderSetID, addr.Name, addr.Phone, addr.Address1, addr.Address2, addr.City, addr.Postal, addr.Country)

	return err
}
