package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gotracker/internal/domain"
)

// TransactionUseCase handles transaction business logic.
type TransactionUseCase struct {
	repo      TransactionRepository
	idGen     IDGenerator
	publisher EventPublisher
	metrics   MetricsRecorder
	logger    zerolog.Logger
	now       func() time.Time
	strict    bool
}

// TransactionUseCaseConfig holds the dependencies of TransactionUseCase.
// Publisher and Metrics are optional.
type TransactionUseCaseConfig struct {
	Repository  TransactionRepository
	IDGenerator IDGenerator
	Publisher   EventPublisher
	Metrics     MetricsRecorder
	Logger      zerolog.Logger
	Now         func() time.Time

	// StrictValidation rejects records that fail form validation or whose
	// type disagrees with the sign of the amount.
	StrictValidation bool
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(cfg TransactionUseCaseConfig) *TransactionUseCase {
	if cfg.Publisher == nil {
		cfg.Publisher = noopPublisher{}
	}
	if cfg.Metrics == nil {
		cfg.Metrics = noopMetrics{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &TransactionUseCase{
		repo:      cfg.Repository,
		idGen:     cfg.IDGenerator,
		publisher: cfg.Publisher,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
		now:       cfg.Now,
		strict:    cfg.StrictValidation,
	}
}

// CreateTransactionInput represents input for creating a transaction.
// Zero-valued ID, Type and CreatedAt are filled in by the use case.
type CreateTransactionInput struct {
	CreatedAt time.Time
	ID        string
	Title     string
	Category  string
	Type      domain.TransactionType
	Amount    decimal.Decimal
}

// ListTransactions returns every transaction in creation order.
func (uc *TransactionUseCase) ListTransactions(ctx context.Context) ([]*domain.Transaction, error) {
	list, err := uc.repo.List(ctx)
	uc.record(OperationList, err)
	return list, err
}

// GetTransaction retrieves a transaction by ID.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	t, err := uc.repo.GetByID(ctx, id)
	uc.record(OperationGet, err)
	return t, err
}

// CreateTransaction stores a new transaction.
func (uc *TransactionUseCase) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error) {
	t := &domain.Transaction{
		ID:        input.ID,
		Title:     input.Title,
		Amount:    input.Amount,
		Category:  input.Category,
		Type:      input.Type,
		CreatedAt: input.CreatedAt,
	}

	if t.ID == "" {
		t.ID = uc.idGen.Generate()
	}
	if t.Type == "" {
		t.Type = domain.TypeForAmount(t.Amount)
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = uc.now().UTC()
	}

	if uc.strict {
		if err := t.Validate(); err != nil {
			uc.metrics.RecordValidationFailure()
			uc.record(OperationCreate, err)
			return nil, err
		}
	}

	created, err := uc.repo.Create(ctx, t)
	uc.record(OperationCreate, err)
	if err != nil {
		return nil, err
	}

	uc.metrics.RecordAmount(created.Type, created.Amount.Abs().InexactFloat64())
	uc.refreshCount(ctx)
	uc.publish(ctx, domain.EventTypeTransactionCreated, created)

	return created, nil
}

// UpdateTransaction merges patch into the transaction with the given ID.
func (uc *TransactionUseCase) UpdateTransaction(ctx context.Context, id string, patch domain.TransactionPatch) (*domain.Transaction, error) {
	if uc.strict {
		existing, err := uc.repo.GetByID(ctx, id)
		if err != nil {
			uc.record(OperationUpdate, err)
			return nil, err
		}

		candidate := existing.Clone()
		patch.Apply(candidate)
		if err := candidate.Validate(); err != nil {
			uc.metrics.RecordValidationFailure()
			uc.record(OperationUpdate, err)
			return nil, err
		}
	}

	updated, err := uc.repo.Update(ctx, id, patch)
	uc.record(OperationUpdate, err)
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, domain.EventTypeTransactionUpdated, updated)

	return updated, nil
}

// DeleteTransaction removes the transaction with the given ID.
func (uc *TransactionUseCase) DeleteTransaction(ctx context.Context, id string) error {
	err := uc.repo.Delete(ctx, id)
	uc.record(OperationDelete, err)
	if err != nil {
		return err
	}

	uc.refreshCount(ctx)
	uc.publish(ctx, domain.EventTypeTransactionDeleted, &domain.Transaction{ID: id})

	return nil
}

// Summarize computes totals over the transactions matching state.
func (uc *TransactionUseCase) Summarize(ctx context.Context, state domain.FilterState) (domain.Summary, error) {
	list, err := uc.repo.List(ctx)
	uc.record(OperationList, err)
	if err != nil {
		return domain.Summary{}, err
	}

	return domain.Summarize(domain.Filter(list, state)), nil
}

func (uc *TransactionUseCase) record(operation string, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	uc.metrics.RecordOperation(operation, result)
}

func (uc *TransactionUseCase) refreshCount(ctx context.Context) {
	n, err := uc.repo.Count(ctx)
	if err != nil {
		uc.logger.Warn().Err(err).Msg("failed to count transactions")
		return
	}
	uc.metrics.SetStoredTransactions(n)
}

// publish hands the event off after the store confirmed the mutation.
// A failed hand-off is logged; the mutation itself already succeeded.
func (uc *TransactionUseCase) publish(ctx context.Context, eventType string, t *domain.Transaction) {
	ctx, cancel := context.WithTimeout(ctx, PublishTimeout)
	defer cancel()

	event := domain.NewTransactionEvent(uc.idGen.Generate(), eventType, t, uc.now().UTC())
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn().
			Err(err).
			Str("event_type", eventType).
			Str("transaction_id", t.ID).
			Msg("failed to publish event")
	}
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, *domain.Event) error { return nil }

type noopMetrics struct{}

func (noopMetrics) RecordOperation(string, string) {}
func (noopMetrics) RecordAmount(domain.TransactionType, float64) {}
func (noopMetrics) RecordValidationFailure() {}
func (noopMetrics) SetStoredTransactions(int) {}
