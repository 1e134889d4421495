package domain

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidState  = errors.New("invalid state")
	ErrPaymentFailed = errors.New("payment failed")
	ErrValidation    = errors.New("validation failed")
)
