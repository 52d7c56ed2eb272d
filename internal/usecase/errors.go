package usecase

import "errors"

var (
	ErrNotFound                = errors.New("not found")
	ErrDuplicate               = errors.New("duplicate idempotency key")
	ErrInvalidQty              = errors.New("qty must be positive")
	ErrInvalidVerificationCode = errors.New("invalid verification code")
)
