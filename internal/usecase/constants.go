package usecase

import "time"

const (
	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// PublishTimeout bounds how long a mutation waits to hand off its event
	PublishTimeout = 2 * time.Second
)

// Operation names used for metrics labels.
const (
	OperationList   = "list"
	OperationGet    = "get"
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// Operation results used for metrics labels.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)
