package pricing

import (
	"context"
	"testing"

	"aqsit-be/internal/apperrors"
	"aqsit-be/internal/product"
	"aqsit-be/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, userID, productID uint, quantity int) (*Request, error) {
	args := m.Called(ctx, userID, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Request), args.Error(1)
}

func (m *MockRepository) GetDetail(ctx context.Context, id uint) (*Detail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Detail), args.Error(1)
}

func (m *MockRepository) ListByUser(ctx context.Context, userID uint) ([]*Request, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Request), args.Error(1)
}

func (m *MockRepository) ListPending(ctx context.Context) ([]*Detail, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Detail), args.Error(1)
}

func (m *MockRepository) CompleteTx(ctx context.Context, d *Detail, price float64) error {
	return m.Called(ctx, d, price).Error(0)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uint) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) GetByIDs(ctx context.Context, ids []uint) ([]*product.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*product.Product), args.Error(1)
}

func userCtx() context.Context {
	return utils.SetUserContext(context.Background(), 1, "buyer@example.com", "user", true)
}

func TestService_AskForPricing(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		products := new(MockProductRepository)
		svc := NewService(repo, products)
		ctx := userCtx()

		products.On("GetByID", ctx, uint(4)).Return(&product.Product{ID: 4, Name: "Linen"}, nil)
		repo.On("Create", ctx, uint(1), uint(4), 100).
			Return(&Request{ID: 10, ProductID: 4, UserID: 1, Quantity: 100, Status: StatusPending}, nil)

		req, err := svc.AskForPricing(ctx, 4, 100)
		require.NoError(t, err)
		assert.Equal(t, StatusPending, req.Status)
	})

	t.Run("DuplicatePending", func(t *testing.T) {
		repo := new(MockRepository)
		products := new(MockProductRepository)
		svc := NewService(repo, products)
		ctx := userCtx()

		products.On("GetByID", ctx, uint(4)).Return(&product.Product{ID: 4}, nil)
		repo.On("Create", ctx, uint(1), uint(4), 100).Return(nil, ErrAlreadyAsked)

		_, err := svc.AskForPricing(ctx, 4, 100)
		assert.ErrorIs(t, err, ErrAlreadyAsked)
		assert.EqualError(t, err, "already asked for pricing")
	})

	t.Run("UnknownProduct", func(t *testing.T) {
		repo := new(MockRepository)
		products := new(MockProductRepository)
		svc := NewService(repo, products)
		ctx := userCtx()

		products.On("GetByID", ctx, uint(99)).Return(nil, product.ErrProductNotFound)

		_, err := svc.AskForPricing(ctx, 99, 100)
		assert.ErrorIs(t, err, product.ErrProductNotFound)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("ZeroQuantity", func(t *testing.T) {
		svc := NewService(new(MockRepository), new(MockProductRepository))

		_, err := svc.AskForPricing(userCtx(), 4, 0)
		assert.True(t, apperrors.IsPrecondition(err))
	})

	t.Run("Anonymous", func(t *testing.T) {
		svc := NewService(new(MockRepository), new(MockProductRepository))

		_, err := svc.AskForPricing(context.Background(), 4, 100)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestService_SendPricing(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockProductRepository))

		d := &Detail{Request: Request{ID: 10, Status: StatusPending}, UserEmail: "buyer@example.com", ProductName: "Linen"}
		repo.On("GetDetail", ctx, uint(10)).Return(d, nil)
		repo.On("CompleteTx", ctx, d, 250.0).Return(nil)

		assert.NoError(t, svc.SendPricing(ctx, 10, 250))
	})

	t.Run("AlreadyCompleted", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockProductRepository))

		repo.On("GetDetail", ctx, uint(10)).Return(
			&Detail{Request: Request{ID: 10, Status: StatusCompleted}}, nil)

		err := svc.SendPricing(ctx, 10, 250)
		assert.True(t, apperrors.IsPrecondition(err))
		repo.AssertNotCalled(t, "CompleteTx")
	})

	t.Run("NonPositivePrice", func(t *testing.T) {
		svc := NewService(new(MockRepository), new(MockProductRepository))

		err := svc.SendPricing(ctx, 10, 0)
		assert.True(t, apperrors.IsPrecondition(err))
	})

	t.Run("NotFound", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockProductRepository))

		repo.On("GetDetail", ctx, uint(99)).Return(nil, ErrRequestNotFound)

		err := svc.SendPricing(ctx, 99, 250)
		assert.ErrorIs(t, err, ErrRequestNotFound)
	})
}
