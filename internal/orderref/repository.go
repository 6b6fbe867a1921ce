package orderref

import (
	"context"
	"database/sql"
	"errors"

	"aqsit-be/internal/apperrors"
	"aqsit-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Querier is satisfied by both *sql.DB and *sql.Tx, so deduplication
// can run inside the order-set creation transaction.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type Repository interface {
	AddToBasket(ctx context.Context, userID, productID uint) (*OrderReference, error)
	RemoveFromBasket(ctx context.Context, id, userID uint) error
	ListBasket(ctx context.Context, userID uint) ([]*OrderReference, error)
	GetBasketLine(ctx context.Context, id, userID uint) (*OrderReference, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) AddToBasket(ctx context.Context, userID, productID uint) (*OrderReference, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "OrderReference"),
		zap.Uint("user_id", userID),
		zap.Uint("product_id", productID),
	)

	var ref OrderReference
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO order_references (user_id, product_id)
		VALUES ($1, $2)
		RETURNING id, product_id, user_id, project_id, created_at
	`, userID, productID).
		Scan(&ref.ID, &ref.ProductID, &ref.UserID, &ref.ProjectID, &ref.CreatedAt)

	if err != nil {
		if apperrors.IsUniqueViolation(err, "order_references_basket_key") {
			return nil, ErrAlreadyInBasket
		}
		log.Error("failed to add basket line", zap.Error(err))
		return nil, apperrors.Rewrite(err)
	}

	return &ref, nil
}

func (r *repository) RemoveFromBasket(ctx context.Context, id, userID uint) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM order_references
		WHERE id = $1 AND user_id = $2 AND project_id IS NULL
	`, id, userID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrReferenceNotFound
	}
	return nil
}

func (r *repository) ListBasket(ctx context.Context, userID uint) ([]*OrderReference, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, user_id, project_id, created_at
		FROM order_references
		WHERE user_id = $1 AND project_id IS NULL
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*OrderReference
	for rows.Next() {
		var ref OrderReference
		if err := rows.Scan(&ref.ID, &ref.ProductID, &ref.UserID, &ref.ProjectID, &ref.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &ref)
	}
	return out, rows.Err()
}

func (r *repository) GetBasketLine(ctx context.Context, id, userID uint) (*OrderReference, error) {
	var ref OrderReference
	err := r.db.QueryRowContext(ctx, `
		SELECT id, product_id, user_id, project_id, created_at
		FROM order_references
		WHERE id = $1 AND user_id = $2
	`, id, userID).
		Scan(&ref.ID, &ref.ProductID, &ref.UserID, &ref.ProjectID, &ref.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReferenceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

// ResolveDuplicates merges the basket lines the caller intends to
// attach against references already attached to the same project.
// For every basket line whose product is already attached for this
// (user, project), the line is deleted and remapped to the attached
// reference; surviving ids come back in FilteredOrderRef. Runs on the
// caller's transaction so delete and attach commit together.
func ResolveDuplicates(ctx context.Context, q Querier, userID, projectID uint, refIDs []uint) (*DedupResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("helper", "ResolveDuplicates"),
		zap.Uint("user_id", userID),
		zap.Uint("project_id", projectID),
	)

	ids := make(pq.Int64Array, 0, len(refIDs))
	for _, id := range refIDs {
		ids = append(ids, int64(id))
	}

	// Basket lines whose product already has an attached reference on
	// the target project.
	rows, err := q.QueryContext(ctx, `
		SELECT basket.id, attached.id
		FROM order_references basket
		JOIN order_references attached
		  ON attached.user_id = basket.user_id
		 AND attached.product_id = basket.product_id
		 AND attached.project_id = $1
		WHERE basket.id = ANY($2)
		  AND basket.user_id = $3
		  AND basket.project_id IS NULL
	`, projectID, ids, userID)
	if err != nil {
		log.Error("dedup lookup failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	result := &DedupResult{}
	redundant := map[uint]bool{}

	for rows.Next() {
		var forID, attachedID uint
		if err := rows.Scan(&forID, &attachedID); err != nil {
			return nil, err
		}
		redundant[forID] = true
		result.SameOrderRef = append(result.SameOrderRef, Remap{
			OrderRefID: attachedID,
			ForID:      forID,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(redundant) > 0 {
		dupIDs := make(pq.Int64Array, 0, len(redundant))
		for id := range redundant {
			dupIDs = append(dupIDs, int64(id))
		}
		if _, err := q.ExecContext(ctx, `
			DELETE FROM order_references
			WHERE id = ANY($1) AND project_id IS NULL
		`, dupIDs); err != nil {
			log.Error("failed to delete redundant basket lines", zap.Error(err))
			return nil, err
		}
		log.Info("merged duplicate basket lines", zap.Int("count", len(redundant)))
	}

	for _, id := range refIDs {
		if !redundant[id] {
			result.FilteredOrderRef = append(result.FilteredOrderRef, id)
		}
	}

	return result, nil
}

// AttachToProject stamps the surviving basket lines with the project.
// Runs on the caller's transaction, after ResolveDuplicates.
func AttachToProject(ctx context.Context, q Querier, userID, projectID uint, refIDs []uint) error {
	if len(refIDs) == 0 {
		return nil
	}

	ids := make(pq.Int64Array, 0, len(refIDs))
	for _, id := range refIDs {
		ids = append(ids, int64(id))
	}

	res, err := q.ExecContext(ctx, `
		UPDATE order_references
		SET project_id = $1
		WHERE id = ANY($2) AND user_id = $3 AND project_id IS NULL
	`, projectID, ids, userID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected != int64(len(refIDs)) {
		return ErrReferenceNotFound
	}
	return nil
}
