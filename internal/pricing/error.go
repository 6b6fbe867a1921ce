package pricing

import "errors"

var (
	ErrAlreadyAsked    = errors.New("already asked for pricing")
	ErrRequestNotFound = errors.New("pricing request not found")
	ErrUnauthorized    = errors.New("unauthorized")
)
