package user

import (
	"context"
	"fmt"
	"strings"

	"aqsit-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Register(ctx context.Context, email, password string) (string, User, error)
	Login(ctx context.Context, email, password string) (string, User, error)
	GetByID(ctx context.Context, id uint) (User, error)
	Verify(ctx context.Context, userID uint, status VerificationStatus) error
	AdminIDs(ctx context.Context) ([]uint, error)
	ShippingAddress(ctx context.Context, userID uint) (*ShippingAddress, error)
	SaveShippingAddress(ctx context.Context, addr *ShippingAddress) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, email, password string) (string, User, error) {
	log := logger.FromCtx(ctx)

	hashed, err := HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return "", User{}, err
	}

	u, err := s.repo.Create(ctx, email, hashed, RoleUser)
	if err != nil {
		log.Error("failed to create user", zap.String("email", email), zap.Error(err))
		if strings.Contains(err.Error(), "users_email_key") {
			return "", User{}, ErrEmailExists
		}
		return "", User{}, err
	}

	token, err := GenerateJWT(u)
	if err != nil {
		log.Error("failed to generate jwt", zap.String("user_id", fmt.Sprint(u.ID)), zap.Error(err))
		return "", User{}, err
	}

	log.Info("register service completed",
		zap.String("user_id", fmt.Sprint(u.ID)),
		zap.String("email", email),
	)

	return token, u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, User, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", User{}, ErrInvalidCredentials
	}

	if !CheckPasswordHash(password, u.Password) {
		return "", User{}, ErrInvalidCredentials
	}

	token, err := GenerateJWT(u)
	return token, u, err
}

func (s *service) GetByID(ctx context.Context, id uint) (User, error) {
	return s.repo.GetByID(ctx, id)
}

// Verify is the admin action that moves a user through the verification
// lifecycle. Orders and sample orders require a verified account.
func (s *service) Verify(ctx context.Context, userID uint, status VerificationStatus) error {
	if status != VerificationVerified && status != VerificationRejected {
		return fmt.Errorf("invalid verification status: %s", status)
	}
	return s.repo.SetVerification(ctx, userID, status)
}

func (s *service) AdminIDs(ctx context.Context) ([]uint, error) {
	return s.repo.AdminIDs(ctx)
}

func (s *service) ShippingAddress(ctx context.Context, userID uint) (*ShippingAddress, error) {
	return s.repo.GetShippingAddress(ctx, userID)
}

func (s *service) SaveShippingAddress(ctx context.Context, addr *ShippingAddress) error {
	return s.repo.UpsertShippingAddress(ctx, addr)
}
