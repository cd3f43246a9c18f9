package usecase

import (
	"context"
	"time"

	"github.com/iho/gotracker/internal/domain"
)

// TransactionRepository defines data access for transactions.
type TransactionRepository interface {
	List(ctx context.Context) ([]*domain.Transaction, error)
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error)
	Update(ctx context.Context, id string, patch domain.TransactionPatch) (*domain.Transaction, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// EventPublisher hands events to whatever delivers them.
type EventPublisher interface {
	Publish(ctx context.Context, event *domain.Event) error
}

// MetricsRecorder records use case level metrics.
type MetricsRecorder interface {
	RecordOperation(operation, result string)
	RecordAmount(transactionType domain.TransactionType, amount float64)
	RecordValidationFailure()
	SetStoredTransactions(n int)
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
