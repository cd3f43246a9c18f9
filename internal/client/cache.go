package client

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gotracker/internal/domain"
)

// Status is the load state of a Cache.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// API is the part of APIClient the cache needs.
type API interface {
	List(ctx context.Context) ([]*domain.Transaction, error)
	Create(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error)
	Update(ctx context.Context, id string, patch domain.TransactionPatch) (*domain.Transaction, error)
	Delete(ctx context.Context, id string) error
}

// IDGenerator generates ids for new records.
type IDGenerator interface {
	Generate() string
}

// FormInput is what a user enters to create or edit a transaction.
// Amount is an unsigned magnitude; Expense decides the sign.
type FormInput struct {
	Title    string
	Amount   string
	Category string
	Expense  bool
}

// CacheConfig holds the dependencies of Cache.
type CacheConfig struct {
	API         API
	IDGenerator IDGenerator
	Now         func() time.Time
}

// Cache is the client side mirror of the store plus the current filter.
// It changes only after the API confirms an operation.
type Cache struct {
	mu     sync.RWMutex
	api    API
	idGen  IDGenerator
	now    func() time.Time
	list   []*domain.Transaction
	status Status
	err    string
	filter domain.FilterState
}

// NewCache creates an idle, empty cache.
func NewCache(cfg CacheConfig) *Cache {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Cache{
		api:    cfg.API,
		idGen:  cfg.IDGenerator,
		now:    cfg.Now,
		status: StatusIdle,
		filter: domain.FilterState{Type: domain.FilterAll},
	}
}

// Load replaces the list with the server's, newest first.
func (c *Cache) Load(ctx context.Context) error {
	c.mu.Lock()
	c.status = StatusLoading
	c.mu.Unlock()

	list, err := c.api.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.status = StatusFailed
		c.err = err.Error()
		return err
	}

	reversed := make([]*domain.Transaction, len(list))
	for i, t := range list {
		reversed[len(list)-1-i] = t
	}
	c.list = reversed
	c.status = StatusSucceeded
	c.err = ""
	return nil
}

// Create validates the form, sends a new record and prepends the stored copy.
func (c *Cache) Create(ctx context.Context, in FormInput) (*domain.Transaction, error) {
	amount, err := parseForm(in)
	if err != nil {
		return nil, err
	}

	category := in.Category
	if category == "" {
		category = domain.CategoryOther
	}

	created, err := c.api.Create(ctx, &domain.Transaction{
		ID:        c.idGen.Generate(),
		Title:     strings.TrimSpace(in.Title),
		Amount:    amount,
		Category:  category,
		Type:      domain.TypeForAmount(amount),
		CreatedAt: c.now().UTC(),
	})
	if err != nil {
		c.fail(err)
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.list = append([]*domain.Transaction{created}, c.list...)
	return created, nil
}

// Update validates the form, sends it as a patch and replaces the cached
// record in place. An empty Category leaves the category unchanged.
func (c *Cache) Update(ctx context.Context, id string, in FormInput) (*domain.Transaction, error) {
	amount, err := parseForm(in)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	txType := domain.TypeForAmount(amount)
	patch := domain.TransactionPatch{
		Title:  &title,
		Amount: &amount,
		Type:   &txType,
	}
	if in.Category != "" {
		patch.Category = &in.Category
	}

	updated, err := c.api.Update(ctx, id, patch)
	if err != nil {
		c.fail(err)
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i, t := range c.list {
		if t.ID == updated.ID {
			c.list[i] = updated
			break
		}
	}
	return updated, nil
}

// Delete removes a record on the server, then from the cache.
func (c *Cache) Delete(ctx context.Context, id string) error {
	if err := c.api.Delete(ctx, id); err != nil {
		c.fail(err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i, t := range c.list {
		if t.ID == id {
			c.list = append(c.list[:i:i], c.list[i+1:]...)
			break
		}
	}
	return nil
}

// SetTypeFilter sets the income/expense filter.
func (c *Cache) SetTypeFilter(f domain.TypeFilter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter.Type = f
}

// SetCategoryFilter sets the category filter; empty means none.
func (c *Cache) SetCategoryFilter(category string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter.Category = category
}

// SetSearchQuery sets the title search.
func (c *Cache) SetSearchQuery(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter.Search = q
}

// FilterState returns the current filter.
func (c *Cache) FilterState() domain.FilterState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filter
}

// Filtered returns the cached records matching the current filter.
func (c *Cache) Filtered() []*domain.Transaction {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return domain.Filter(c.list, c.filter)
}

// Summary returns totals over the whole cached list, ignoring the filter.
func (c *Cache) Summary() domain.Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return domain.Summarize(c.list)
}

// List returns the cached records, newest first.
func (c *Cache) List() []*domain.Transaction {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*domain.Transaction(nil), c.list...)
}

// Status returns the load state.
func (c *Cache) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// Err returns the last failure message, or "".
func (c *Cache) Err() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

func (c *Cache) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err.Error()
}

// parseForm validates in and returns the signed amount.
func parseForm(in FormInput) (decimal.Decimal, error) {
	if err := domain.ValidateInput(in.Title, in.Amount).Err(); err != nil {
		return decimal.Decimal{}, err
	}

	magnitude := decimal.RequireFromString(strings.TrimSpace(in.Amount)).Abs()
	if in.Expense {
		return magnitude.Neg(), nil
	}
	return magnitude, nil
}
