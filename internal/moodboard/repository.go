package moodboard

import (
	"context"
	"database/sql"
	"errors"

	"aqsit-be/internal/logger"

	"go.uber.org/zap"
)

var ErrMoodboardNotFound = errors.New("no moodboard found")

type Repository interface {
	GetOwned(ctx context.Context, id, userID uint) (*Moodboard, error)
	ProductsByCategory(ctx context.Context, moodboardID uint) ([]CategoryProducts, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOwned(ctx context.Context, id, userID uint) (*Moodboard, error) {
	var m Moodboard
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, created_at
		FROM moodboards
		WHERE id = $1 AND user_id = $2
	`, id, userID).
		Scan(&m.ID, &m.UserID, &m.Name, &m.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMoodboardNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ProductsByCategory returns the moodboard's distinct products grouped
// by category, with that category's sampling caps attached.
func (r *repository) ProductsByCategory(ctx context.Context, moodboardID uint) ([]CategoryProducts, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Moodboard"),
		zap.String("method", "ProductsByCategory"),
		zap.Uint("moodboard_id", moodboardID),
	)

	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.name, p.id, c.max_single_cat_products, c.max_multiple_cat_products
		FROM moodboard_products mp
		JOIN products p ON p.id = mp.product_id
		JOIN categories c ON c.id = p.category_id
		WHERE mp.moodboard_id = $1
		ORDER BY c.id, p.id
	`, moodboardID)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var out []CategoryProducts
	seen := map[uint]map[uint]bool{}

	for rows.Next() {
		var catID, prodID uint
		var catName string
		var maxSingle, maxMultiple int
		if err := rows.Scan(&catID, &catName, &prodID, &maxSingle, &maxMultiple); err != nil {
			return nil, err
		}

		if seen[catID] == nil {
			seen[catID] = map[uint]bool{}
			out = append(out, CategoryProducts{
				CategoryID:             catID,
				CategoryName:           catName,
				MaxSingleCatProducts:   maxSingle,
				MaxMultipleCatProducts: maxMultiple,
			})
		}
		if seen[catID][prodID] {
			continue
		}
		seen[catID][prodID] = true

		for i := range out {
			if out[i].CategoryID == catID {
				out[i].ProductIDs = append(out[i].ProductIDs, prodID)
				break
			}
		}
	}
	return out, rows.Err()
}
