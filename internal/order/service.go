package order

import (
	"context"
	"time"

	"aqsit-be/internal/apperrors"
	"aqsit-be/internal/logger"
	"aqsit-be/internal/project"
	"aqsit-be/internal/user"
	"aqsit-be/internal/utils"

	"go.uber.org/zap"
)

const (
	etaDays          = 7
	setIDMaxAttempts = 5
)

type Service interface {
	CreateOrderSet(ctx context.Context, projectID uint, lines []LineInput) (*CreateOrderSetResult, error)
	QuoteOrder(ctx context.Context, orderID uint, amount float64) error
	PlaceOrder(ctx context.Context, orderID uint, transactionID string) ([]string, error)
	MarkDelivered(ctx context.Context, orderID uint) error
	CancelOrders(ctx context.Context, orderIDs []uint) (int64, error)

	ListMyOrders(ctx context.Context) ([]*Order, error)
	ListSetOrders(ctx context.Context, setID string) ([]*Order, error)
	GetDetail(ctx context.Context, orderID uint) (*Detail, error)
	ListTransactions(ctx context.Context, orderID uint) ([]*OrderTransaction, error)

	SetShippingAddress(ctx context.Context, addr *Address) error
	SetBillingAddress(ctx context.Context, addr *Address) error
	BillingSameAsShipping(ctx context.Context, setID string) error
}

type service struct {
	repo       Repository
	users      user.Service
	projects   project.Repository
	adminEmail string
}

func NewService(repo Repository, users user.Service, projects project.Repository, adminEmail string) Service {
	return &service{
		repo:       repo,
		users:      users,
		projects:   projects,
		adminEmail: adminEmail,
	}
}

// CreateOrderSet is the checkout: dedup the basket against the target
// project and create one order row per surviving line, all sharing one
// set id and ETA.
func (s *service) CreateOrderSet(ctx context.Context, projectID uint, lines []LineInput) (*CreateOrderSetResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateOrderSet"),
		zap.Uint("project_id", projectID),
		zap.Int("line_count", len(lines)),
	)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	if len(lines) == 0 {
		return nil, ErrNoLines
	}
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, apperrors.Precondition("quantity must be greater than zero")
		}
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Verification != user.VerificationVerified {
		return nil, ErrUserNotVerified
	}

	if _, err := s.projects.GetOwned(ctx, projectID, userID); err != nil {
		return nil, err
	}

	adminIDs, err := s.users.AdminIDs(ctx)
	if err != nil {
		return nil, err
	}

	eta := time.Now().AddDate(0, 0, etaDays)

	// The set id is unique by index; a collision shows up as a unique
	// violation and we retry with a fresh id.
	var result *CreateOrderSetResult
	for attempt := 0; attempt < setIDMaxAttempts; attempt++ {
		result, err = s.repo.CreateOrderSetTx(ctx, CreateOrderSetParams{
			UserID:     userID,
			UserEmail:  u.Email,
			ProjectID:  projectID,
			SetID:      utils.GenerateOrderSetID(),
			ETA:        eta,
			Lines:      lines,
			AdminIDs:   adminIDs,
			AdminEmail: s.adminEmail,
		})
		if err == nil {
			return result, nil
		}
		if !apperrors.IsUniqueViolation(err, "order_sets_pkey") {
			return nil, apperrors.Rewrite(err)
		}
		log.Warn("order-set id collision, retrying", zap.Int("attempt", attempt+1))
	}

	return nil, apperrors.Rewrite(err)
}

// QuoteOrder is the admin pricing step, 1 -> 2. The priced-quote email
// carries the computed per-unit price.
func (s *service) QuoteOrder(ctx context.Context, orderID uint, amount float64) error {
	if amount <= 0 {
		return apperrors.Precondition("quotation amount must be greater than zero")
	}

	d, err := s.repo.GetDetail(ctx, orderID)
	if err != nil {
		return err
	}
	if err := d.Status.CheckTransition(StatusQuoted); err != nil {
		return apperrors.Precondition("%s", err.Error())
	}

	perSheet := amount
	if d.Quantity > 0 {
		perSheet = amount / float64(d.Quantity)
	}

	return s.repo.QuoteOrderTx(ctx, d, amount, perSheet)
}

// PlaceOrder records a payment reference and moves 2 -> 3. A missing
// billing address is reported as a warning, not a failure.
func (s *service) PlaceOrder(ctx context.Context, orderID uint, transactionID string) ([]string, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if transactionID == "" {
		return nil, apperrors.Precondition("transaction id is required")
	}

	d, err := s.repo.GetDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}

	isAdmin := utils.IsAdmin(ctx)
	if !isAdmin && d.UserID != userID {
		return nil, ErrUnauthorized
	}

	if err := d.Status.CheckTransition(StatusProcessing); err != nil {
		return nil, apperrors.Precondition("%s", err.Error())
	}

	var warnings []string
	billing, err := s.repo.GetBillingAddress(ctx, d.OrderSetID)
	if err != nil {
		return nil, err
	}
	if billing == nil {
		warnings = append(warnings, "no billing address on file for this order")
	}

	role := string(user.RoleUser)
	if isAdmin {
		role = string(user.RoleAdmin)
	}

	adminIDs, err := s.users.AdminIDs(ctx)
	if err != nil {
		return nil, err
	}

	err = s.repo.PlaceOrderTx(ctx, PlaceOrderParams{
		OrderID:       orderID,
		TransactionID: transactionID,
		ActorRole:     role,
		UserID:        d.UserID,
		AdminIDs:      adminIDs,
	})
	if err != nil {
		return nil, err
	}

	return warnings, nil
}

func (s *service) MarkDelivered(ctx context.Context, orderID uint) error {
	d, err := s.repo.GetDetail(ctx, orderID)
	if err != nil {
		return err
	}
	if err := d.Status.CheckTransition(StatusDelivered); err != nil {
		return apperrors.Precondition("%s", err.Error())
	}
	return s.repo.MarkDelivered(ctx, orderID)
}

func (s *service) CancelOrders(ctx context.Context, orderIDs []uint) (int64, error) {
	if len(orderIDs) == 0 {
		return 0, apperrors.Precondition("no orders to cancel")
	}
	return s.repo.CancelOrders(ctx, orderIDs)
}

func (s *service) ListMyOrders(ctx context.Context) ([]*Order, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	return s.repo.ListByUser(ctx, userID)
}

// ListSetOrders returns every line sharing one checkout's set id. All
// lines of a set belong to one user, so ownership is checked against
// the first line.
func (s *service) ListSetOrders(ctx context.Context, setID string) ([]*Order, error) {
	orders, err := s.repo.ListBySet(ctx, setID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, ErrOrderNotFound
	}

	if !utils.IsAdmin(ctx) {
		d, err := s.repo.GetDetail(ctx, orders[0].ID)
		if err != nil {
			return nil, err
		}
		userID, _ := utils.GetUserIDFromContext(ctx)
		if d.UserID != userID {
			return nil, ErrUnauthorized
		}
	}
	return orders, nil
}

func (s *service) GetDetail(ctx context.Context, orderID uint) (*Detail, error) {
	d, err := s.repo.GetDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}

	userID, _ := utils.GetUserIDFromContext(ctx)
	if !utils.IsAdmin(ctx) && d.UserID != userID {
		return nil, ErrUnauthorized
	}
	return d, nil
}

func (s *service) ListTransactions(ctx context.Context, orderID uint) ([]*OrderTransaction, error) {
	if _, err := s.GetDetail(ctx, orderID); err != nil {
		return nil, err
	}
	return s.repo.ListTransactions(ctx, orderID)
}

func (s *service) SetShippingAddress(ctx context.Context, addr *Address) error {
	return s.repo.UpsertShippingAddress(ctx, addr)
}

func (s *service) SetBillingAddress(ctx context.Context, addr *Address) error {
	return s.repo.UpsertBillingAddress(ctx, addr)
}

// BillingSameAsShipping copies the shipping snapshot onto the billing
// row, inserting fresh or overwriting field-by-field.
func (s *service) BillingSameAsShipping(ctx context.Context, setID string) error {
	shipping, err := s.repo.GetShippingAddress(ctx, setID)
	if err != nil {
		return err
	}
	if shipping == nil {
		return apperrors.Precondition("no shipping address found for this order")
	}

	billing := *shipping
	billing.ID = 0
	return s.repo.UpsertBillingAddress(ctx, &billing)
}
