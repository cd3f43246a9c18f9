package memory

import (
	"context"
	"sync"

	"github.com/iho/gotracker/internal/domain"
)

// TransactionRepository implements usecase.TransactionRepository in memory.
// Every method is atomic with respect to the others; callers receive
// copies and never alias stored records.
type TransactionRepository struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*domain.Transaction
}

// NewTransactionRepository creates an empty TransactionRepository.
func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{
		byID: make(map[string]*domain.Transaction),
	}
}

// NewTransactionRepositoryWith seeds the repository with list in order.
func NewTransactionRepositoryWith(list []*domain.Transaction) (*TransactionRepository, error) {
	r := NewTransactionRepository()
	for _, t := range list {
		if _, err := r.Create(context.Background(), t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// List returns every transaction in creation order.
func (r *TransactionRepository) List(_ context.Context) ([]*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Transaction, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id].Clone())
	}
	return out, nil
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(_ context.Context, id string) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return t.Clone(), nil
}

// Create appends a transaction. IDs are unique.
func (r *TransactionRepository) Create(_ context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[transaction.ID]; ok {
		return nil, domain.ErrDuplicateTransaction
	}

	stored := transaction.Clone()
	r.byID[stored.ID] = stored
	r.order = append(r.order, stored.ID)

	return stored.Clone(), nil
}

// Update merges patch into the stored transaction. Position is kept.
func (r *TransactionRepository) Update(_ context.Context, id string, patch domain.TransactionPatch) (*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}

	patch.Apply(t)
	return t.Clone(), nil
}

// Delete removes a transaction by ID.
func (r *TransactionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return domain.ErrTransactionNotFound
	}

	delete(r.byID, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Count returns the number of stored transactions.
func (r *TransactionRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order), nil
}
