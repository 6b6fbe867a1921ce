package sample

import "errors"

var (
	ErrOrderNotFound           = errors.New("sample order not found")
	ErrTooFewProducts          = errors.New("a sample order must contain at least 5 products")
	ErrUserNotVerified         = errors.New("account is not verified")
	ErrNoShippingAddress       = errors.New("no shipping address on file")
	ErrOrderTooSoon            = errors.New("only one sample order may be placed per week")
	ErrExtensionPending        = errors.New("already requested extension")
	ErrExtensionNotInDelivered = errors.New("extension can only be requested once samples are delivered")
	ErrExtendedOnce            = errors.New("can't extend more than once")
	ErrNoExtensionPending      = errors.New("no pending extension request")
	ErrUnauthorized            = errors.New("unauthorized")
)
