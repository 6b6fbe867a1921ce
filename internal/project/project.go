package project

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var ErrProjectNotFound = errors.New("no project found")

type Project struct {
	ID        uint
	UserID    uint
	Name      string
	CreatedAt time.Time
}

type Repository interface {
	GetOwned(ctx context.Context, id, userID uint) (*Project, error)
	Create(ctx context.Context, userID uint, name string) (*Project, error)
	ListByUser(ctx context.Context, userID uint) ([]*Project, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// GetOwned returns the project only when it belongs to userID.
func (r *repository) GetOwned(ctx context.Context, id, userID uint) (*Project, error) {
	var p Project
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, created_at
		FROM projects
		WHERE id = $1 AND user_id = $2
	`, id, userID).
		Scan(&p.ID, &p.UserID, &p.Name, &p.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) Create(ctx context.Context, userID uint, name string) (*Project, error) {
	var p Project
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO projects (user_id, name)
		VALUES ($1, $2)
		RETURNING id, user_id, name, created_at
	`, userID, name).
		Scan(&p.ID, &p.UserID, &p.Name, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uint) ([]*Project, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, created_at
		FROM projects
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}
