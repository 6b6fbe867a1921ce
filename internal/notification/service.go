package notification

import (
	"context"

	"aqsit-be/internal/logger"

	"go.uber.org/zap"
)

// AdminLister resolves the admin account ids used for fan-out.
type AdminLister interface {
	AdminIDs(ctx context.Context) ([]uint, error)
}

type Service interface {
	NotifyUser(ctx context.Context, userID uint, message, url string)
	NotifyAdmins(ctx context.Context, message, url string)
	ListForUser(ctx context.Context, userID uint, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, id, userID uint) error
}

type service struct {
	repo   Repository
	admins AdminLister
}

func NewService(repo Repository, admins AdminLister) Service {
	return &service{repo: repo, admins: admins}
}

// NotifyUser is best effort: a failed insert is logged, never surfaced.
func (s *service) NotifyUser(ctx context.Context, userID uint, message, url string) {
	_ = s.repo.Insert(ctx, Notification{To: []uint{userID}, Message: message, URL: url})
}

func (s *service) NotifyAdmins(ctx context.Context, message, url string) {
	ids, err := s.admins.AdminIDs(ctx)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to list admins for notification", zap.Error(err))
		return
	}
	if len(ids) == 0 {
		return
	}
	_ = s.repo.Insert(ctx, Notification{To: ids, Message: message, URL: url})
}

func (s *service) ListForUser(ctx context.Context, userID uint, limit int) ([]Notification, error) {
	return s.repo.ListForUser(ctx, userID, limit)
}

func (s *service) MarkRead(ctx context.Context, id, userID uint) error {
	return s.repo.MarkRead(ctx, id, userID)
}
