package orderref

import "errors"

var (
	ErrReferenceNotFound = errors.New("no product found")
	ErrAlreadyInBasket   = errors.New("product already in basket")
)
