package sample

import (
	"context"
	"fmt"
	"strings"
	"time"

	"aqsit-be/internal/apperrors"
	"aqsit-be/internal/logger"
	"aqsit-be/internal/mailer"
	"aqsit-be/internal/moodboard"
	"aqsit-be/internal/product"
	"aqsit-be/internal/user"
	"aqsit-be/internal/utils"

	"go.uber.org/zap"
)

const (
	minProducts   = 5
	cooldownDays  = 7
	deliveryDays  = 4
	returnDays    = 11
	extensionDays = 7

	idMaxAttempts = 5
)

type Service interface {
	CreateSampleOrder(ctx context.Context, moodboardID uint) (*SampleOrder, error)
	UpdateStatus(ctx context.Context, orderID string, target Status) error
	RequestExtension(ctx context.Context, orderID string) error
	ApproveExtension(ctx context.Context, orderID string) error
	RejectExtension(ctx context.Context, orderID string) error
	ListMyOrders(ctx context.Context) ([]*SampleOrder, error)
	GetDetail(ctx context.Context, orderID string) (*Detail, error)
}

type service struct {
	repo       Repository
	users      user.Service
	moodboards moodboard.Repository
	products   product.Repository
	adminEmail string
}

func NewService(repo Repository, users user.Service, moodboards moodboard.Repository, products product.Repository, adminEmail string) Service {
	return &service{
		repo:       repo,
		users:      users,
		moodboards: moodboards,
		products:   products,
		adminEmail: adminEmail,
	}
}

// CreateSampleOrder runs every eligibility check, then creates the
// shipment header and product rows in one transaction.
func (s *service) CreateSampleOrder(ctx context.Context, moodboardID uint) (*SampleOrder, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateSampleOrder"),
		zap.Uint("moodboard_id", moodboardID),
	)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	mb, err := s.moodboards.GetOwned(ctx, moodboardID, userID)
	if err != nil {
		return nil, err
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Verification != user.VerificationVerified {
		return nil, ErrUserNotVerified
	}

	addr, err := s.users.ShippingAddress(ctx, userID)
	if err != nil {
		return nil, err
	}
	if addr == nil {
		return nil, ErrNoShippingAddress
	}

	latest, err := s.repo.LatestByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if latest != nil && time.Since(latest.CreatedAt) < cooldownDays*24*time.Hour {
		return nil, ErrOrderTooSoon
	}

	cats, err := s.moodboards.ProductsByCategory(ctx, moodboardID)
	if err != nil {
		return nil, err
	}

	var productIDs []uint
	for _, cat := range cats {
		productIDs = append(productIDs, cat.ProductIDs...)
	}
	if len(productIDs) < minProducts {
		return nil, ErrTooFewProducts
	}

	// Per-category quota: the cap depends on whether the moodboard
	// spans one category or several. All violations are collected and
	// reported together.
	var violations []string
	for _, cat := range cats {
		limit := cat.MaxMultipleCatProducts
		if len(cats) == 1 {
			limit = cat.MaxSingleCatProducts
		}
		if len(cat.ProductIDs) > limit {
			violations = append(violations, fmt.Sprintf(
				"category %s allows at most %d sample products", cat.CategoryName, limit))
		}
	}
	if len(violations) > 0 {
		return nil, apperrors.Precondition("%s", strings.Join(violations, "; "))
	}

	emailProducts, err := s.emailProducts(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	adminIDs, err := s.users.AdminIDs(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	params := CreateParams{
		MoodboardID:       moodboardID,
		MoodboardName:     mb.Name,
		UserID:            userID,
		UserEmail:         u.Email,
		EstimatedDelivery: now.AddDate(0, 0, deliveryDays),
		EstimatedReturn:   now.AddDate(0, 0, returnDays),
		ProductIDs:        productIDs,
		EmailProducts:     emailProducts,
		AdminIDs:          adminIDs,
		AdminEmail:        s.adminEmail,
	}

	// The primary key makes the generated id unique; a collision
	// aborts the tx and we retry with a fresh id.
	var created *SampleOrder
	for attempt := 0; attempt < idMaxAttempts; attempt++ {
		params.OrderID = utils.GenerateSampleOrderID()
		created, err = s.repo.CreateTx(ctx, params)
		if err == nil {
			return created, nil
		}
		if !apperrors.IsUniqueViolation(err, "sample_orders_pkey") {
			return nil, apperrors.Rewrite(err)
		}
		log.Warn("sample order id collision, retrying", zap.Int("attempt", attempt+1))
	}

	return nil, apperrors.Rewrite(err)
}

func (s *service) emailProducts(ctx context.Context, ids []uint) ([]map[string]any, error) {
	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(products))
	for _, p := range products {
		out = append(out, map[string]any{"Name": p.Name, "Category": p.Category})
	}
	return out, nil
}

// UpdateStatus is the admin delivery-state transition. Moving to out
// for delivery or delivered emails the user with the enriched template.
func (s *service) UpdateStatus(ctx context.Context, orderID string, target Status) error {
	d, err := s.repo.GetDetail(ctx, orderID)
	if err != nil {
		return err
	}
	if err := d.Status.CheckTransition(target); err != nil {
		return apperrors.Precondition("%s", err.Error())
	}

	var email *StatusEmail
	switch target {
	case StatusOutForDelivery:
		email = &StatusEmail{
			Template: mailer.TemplateSampleOutForDelivery,
			Subject:  "Your samples are on the way",
			Data: map[string]any{
				"OrderID":      d.ID,
				"ItemCount":    d.ItemCount,
				"AddressLine":  d.AddressLine,
				"City":         d.City,
				"Postal":       d.Postal,
				"DeliveryDate": d.EstimatedDelivery.Format("02 Jan 2006"),
			},
		}
	case StatusDelivered:
		email = &StatusEmail{
			Template: mailer.TemplateSampleDelivered,
			Subject:  "Your samples have been delivered",
			Data: map[string]any{
				"OrderID":      d.ID,
				"ItemCount":    d.ItemCount,
				"DeliveryDate": time.Now().Format("02 Jan 2006"),
				"ReturnDate":   d.EstimatedReturn.Format("02 Jan 2006"),
			},
		}
	}

	return s.repo.UpdateStatusTx(ctx, d, target, email)
}

// RequestExtension is the user's ask: only while delivered, and only
// when no extension has been requested this lifecycle.
func (s *service) RequestExtension(ctx context.Context, orderID string) error {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}

	d, err := s.repo.GetDetail(ctx, orderID)
	if err != nil {
		return err
	}
	if d.UserID != userID {
		return ErrUnauthorized
	}
	if d.Status != StatusDelivered {
		return ErrExtensionNotInDelivered
	}
	if d.ExtendRequest != ExtendNone {
		return ErrExtensionPending
	}

	affected, err := s.repo.RequestExtension(ctx, orderID, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		// Raced with another request or an admin decision.
		return ErrExtensionPending
	}
	return nil
}

// ApproveExtension pushes the return date out by a week, once.
func (s *service) ApproveExtension(ctx context.Context, orderID string) error {
	d, err := s.repo.GetDetail(ctx, orderID)
	if err != nil {
		return err
	}
	if d.ExtendRequest == ExtendApproved {
		return ErrExtendedOnce
	}
	if d.ExtendRequest != ExtendRequested {
		return ErrNoExtensionPending
	}
	return s.repo.ApproveExtensionTx(ctx, d, extensionDays)
}

func (s *service) RejectExtension(ctx context.Context, orderID string) error {
	d, err := s.repo.GetDetail(ctx, orderID)
	if err != nil {
		return err
	}
	if d.ExtendRequest != ExtendRequested {
		return ErrNoExtensionPending
	}
	return s.repo.RejectExtensionTx(ctx, d)
}

func (s *service) ListMyOrders(ctx context.Context) ([]*SampleOrder, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) GetDetail(ctx context.Context, orderID string) (*Detail, error) {
	d, err := s.repo.GetDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}

	userID, _ := utils.GetUserIDFromContext(ctx)
	if !utils.IsAdmin(ctx) && d.UserID != userID {
		return nil, ErrUnauthorized
	}

	d.ProductIDs, err = s.repo.ProductIDs(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return d, nil
}
