package product

import (
	"context"
	"database/sql"
	"errors"
)

var ErrProductNotFound = errors.New("no product found")

type Product struct {
	ID         uint
	Name       string
	CategoryID uint
	Category   string
}

type Repository interface {
	GetByID(ctx context.Context, id uint) (*Product, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*Product, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Product, error) {
	var p Product
	err := r.db.QueryRowContext(ctx, `
		SELECT p.id, p.name, p.category_id, c.name
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1
	`, id).
		Scan(&p.ID, &p.Name, &p.CategoryID, &p.Category)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetByIDs(ctx context.Context, ids []uint) ([]*Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.category_id, c.name
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = ANY($1)
	`, int64Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.CategoryID, &p.Category); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}
