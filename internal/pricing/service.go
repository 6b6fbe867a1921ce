package pricing

import (
	"context"

	"aqsit-be/internal/apperrors"
	"aqsit-be/internal/product"
	"aqsit-be/internal/utils"
)

type Service interface {
	AskForPricing(ctx context.Context, productID uint, quantity int) (*Request, error)
	SendPricing(ctx context.Context, requestID uint, price float64) error
	ListMyRequests(ctx context.Context) ([]*Request, error)
	ListPending(ctx context.Context) ([]*Detail, error)
}

type service struct {
	repo     Repository
	products product.Repository
}

func NewService(repo Repository, products product.Repository) Service {
	return &service{repo: repo, products: products}
}

// AskForPricing creates a pending request unless one already exists
// for the same (user, product).
func (s *service) AskForPricing(ctx context.Context, productID uint, quantity int) (*Request, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if quantity <= 0 {
		return nil, apperrors.Precondition("quantity must be greater than zero")
	}

	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, userID, productID, quantity)
}

// SendPricing is the admin answer: price set, status completed, quote
// emailed.
func (s *service) SendPricing(ctx context.Context, requestID uint, price float64) error {
	if price <= 0 {
		return apperrors.Precondition("price must be greater than zero")
	}

	d, err := s.repo.GetDetail(ctx, requestID)
	if err != nil {
		return err
	}
	if d.Status != StatusPending {
		return apperrors.Precondition("pricing request already completed")
	}

	return s.repo.CompleteTx(ctx, d, price)
}

func (s *service) ListMyRequests(ctx context.Context) ([]*Request, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) ListPending(ctx context.Context) ([]*Detail, error) {
	return s.repo.ListPending(ctx)
}
