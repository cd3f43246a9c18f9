package domain

import "errors"

var (
	// Transaction errors
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrDuplicateTransaction = errors.New("transaction already exists")

	// Input errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidFilter    = errors.New("invalid type filter")
	ErrInvalidType      = errors.New("invalid transaction type")
)
