package order

import "errors"

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrUserNotVerified = errors.New("account is not verified")
	ErrNoLines         = errors.New("order must contain at least one product")
	ErrUnauthorized    = errors.New("unauthorized")
)
