package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Insert(ctx context.Context, n Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockRepository) ListForUser(ctx context.Context, userID uint, limit int) ([]Notification, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Notification), args.Error(1)
}

func (m *MockRepository) MarkRead(ctx context.Context, id, userID uint) error {
	return m.Called(ctx, id, userID).Error(0)
}

type MockAdminLister struct {
	mock.Mock
}

func (m *MockAdminLister) AdminIDs(ctx context.Context) ([]uint, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func TestService_NotifyUser(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, new(MockAdminLister))
	ctx := context.Background()

	repo.On("Insert", ctx, mock.MatchedBy(func(n Notification) bool {
		return len(n.To) == 1 && n.To[0] == 1 && n.Message == "Your account has been verified"
	})).Return(nil)

	svc.NotifyUser(ctx, 1, "Your account has been verified", "/me")
	repo.AssertExpectations(t)
}

func TestService_NotifyAdmins(t *testing.T) {
	ctx := context.Background()

	t.Run("FansOutToAllAdmins", func(t *testing.T) {
		repo := new(MockRepository)
		admins := new(MockAdminLister)
		svc := NewService(repo, admins)

		admins.On("AdminIDs", ctx).Return([]uint{9, 12}, nil)
		repo.On("Insert", ctx, mock.MatchedBy(func(n Notification) bool {
			return assert.ObjectsAreEqual([]uint{9, 12}, n.To)
		})).Return(nil)

		svc.NotifyAdmins(ctx, "New pricing request from buyer@example.com", "/pricing/10")
		repo.AssertExpectations(t)
	})

	t.Run("NoAdmins", func(t *testing.T) {
		repo := new(MockRepository)
		admins := new(MockAdminLister)
		svc := NewService(repo, admins)

		admins.On("AdminIDs", ctx).Return([]uint{}, nil)

		svc.NotifyAdmins(ctx, "message", "/url")
		repo.AssertNotCalled(t, "Insert")
	})

	t.Run("ListerFailureSwallowed", func(t *testing.T) {
		repo := new(MockRepository)
		admins := new(MockAdminLister)
		svc := NewService(repo, admins)

		admins.On("AdminIDs", ctx).Return(nil, errors.New("db down"))

		svc.NotifyAdmins(ctx, "message", "/url")
		repo.AssertNotCalled(t, "Insert")
	})
}
