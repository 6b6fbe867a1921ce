package notification

import (
	"context"
	"database/sql"

	"aqsit-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Execer is satisfied by both *sql.DB and *sql.Tx, so notification rows
// can be written inside the transaction of the primary mutation.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const insertQuery = `
	INSERT INTO notifications (recipients, message, url, is_read)
	VALUES ($1, $2, $3, false)
`

// InsertTx writes one notification using the caller's transaction.
func InsertTx(ctx context.Context, ex Execer, n Notification) error {
	_, err := ex.ExecContext(ctx, insertQuery, pq.Array(n.To), n.Message, n.URL)
	return err
}

type Repository interface {
	Insert(ctx context.Context, n Notification) error
	ListForUser(ctx context.Context, userID uint, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, id, userID uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, n Notification) error {
	if err := InsertTx(ctx, r.db, n); err != nil {
		logger.FromCtx(ctx).Error("failed to insert notification",
			zap.String("message", n.Message),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (r *repository) ListForUser(ctx context.Context, userID uint, limit int) ([]Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, recipients, message, url, is_read, created_at
		FROM notifications
		WHERE $1 = ANY(recipients)
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		var recipients pq.Int64Array
		if err := rows.Scan(&n.ID, &recipients, &n.Message, &n.URL, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		for _, id := range recipients {
			n.To = append(n.To, uint(id))
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *repository) MarkRead(ctx context.Context, id, userID uint) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE notifications
		SET is_read = true
		WHERE id = $1 AND $2 = ANY(recipients)
	`, id, userID)
	return err
}
