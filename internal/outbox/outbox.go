package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusSending Status = "sending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
)

const maxAttempts = 5

// Message is one email queued for delivery. Rows are written in the
// same transaction as the mutation that triggered them and drained by
// the worker, so a crash after commit never loses the email.
type Message struct {
	ID            uint
	Template      string
	ToEmail       string
	Subject       string
	Data          map[string]any
	Status        Status
	Attempts      int
	NextAttemptAt time.Time
	CreatedAt     time.Time
}

// Execer is satisfied by both *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// EnqueueTx queues one email using the caller's transaction.
func EnqueueTx(ctx context.Context, ex Execer, template, toEmail, subject string, data map[string]any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	_, err = ex.ExecContext(ctx, `
		INSERT INTO email_outbox (template, to_email, subject, data, status, attempts, next_attempt_at)
		VALUES ($1, $2, $3, $4, 'pending', 0, NOW())
	`, template, toEmail, subject, payload)
	return err
}

type Repository interface {
	ClaimPending(ctx context.Context, limit int) ([]Message, error)
	MarkSent(ctx context.Context, id uint) error
	MarkFailed(ctx context.Context, id uint, attempts int) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// ClaimPending moves a batch of due messages to 'sending' so
// concurrent workers never double-send.
func (r *repository) ClaimPending(ctx context.Context, limit int) ([]Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		UPDATE email_outbox SET status = 'sending'
		WHERE id IN (
			SELECT id FROM email_outbox
			WHERE status = 'pending' AND next_attempt_at <= NOW()
			ORDER BY created_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, template, to_email, subject, data, status, attempts, next_attempt_at, created_at
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		var payload []byte
		if err := rows.Scan(&m.ID, &m.Template, &m.ToEmail, &m.Subject, &payload,
			&m.Status, &m.Attempts, &m.NextAttemptAt, &m.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, &m.Data); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *repository) MarkSent(ctx context.Context, id uint) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE email_outbox SET status = 'sent', sent_at = NOW() WHERE id = $1
	`, id)
	return err
}

// MarkFailed records the attempt and schedules a retry with backoff,
// or gives up after maxAttempts.
func (r *repository) MarkFailed(ctx context.Context, id uint, attempts int) error {
	if attempts >= maxAttempts {
		_, err := r.db.ExecContext(ctx, `
			UPDATE email_outbox SET status = 'failed', attempts = $2 WHERE id = $1
		`, id, attempts)
		return err
	}

	backoff := time.Duration(attempts*attempts) * time.Minute
	_, err := r.db.ExecContext(ctx, `
		UPDATE email_outbox
		SET status = 'pending', attempts = $2, next_attempt_at = NOW() + $3::interval
		WHERE id = $1
	`, id, attempts, backoff.String())
	return err
}
