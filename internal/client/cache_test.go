package client

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gotracker/internal/domain"
)

type stubAPI struct {
	listFn   func(ctx context.Context) ([]*domain.Transaction, error)
	createFn func(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error)
	updateFn func(ctx context.Context, id string, patch domain.TransactionPatch) (*domain.Transaction, error)
	deleteFn func(ctx context.Context, id string) error
	calls    int
}

func (s *stubAPI) List(ctx context.Context) ([]*domain.Transaction, error) {
	s.calls++
	return s.listFn(ctx)
}

func (s *stubAPI) Create(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error) {
	s.calls++
	return s.createFn(ctx, t)
}

func (s *stubAPI) Update(ctx context.Context, id string, patch domain.TransactionPatch) (*domain.Transaction, error) {
	s.calls++
	return s.updateFn(ctx, id, patch)
}

func (s *stubAPI) Delete(ctx context.Context, id string) error {
	s.calls++
	return s.deleteFn(ctx, id)
}

type seqIDs struct{ n int }

func (g *seqIDs) Generate() string {
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

var clock = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestCache(api API) *Cache {
	return NewCache(CacheConfig{
		API:         api,
		IDGenerator: &seqIDs{},
		Now:         func() time.Time { return clock },
	})
}

func tx(id, title, amount string) *domain.Transaction {
	a := decimal.RequireFromString(amount)
	return &domain.Transaction{ID: id, Title: title, Amount: a, Category: "food", Type: domain.TypeForAmount(a)}
}

func TestCache_LoadReversesList(t *testing.T) {
	api := &stubAPI{listFn: func(ctx context.Context) ([]*domain.Transaction, error) {
		return []*domain.Transaction{tx("a", "Old", "1"), tx("b", "Mid", "2"), tx("c", "New", "3")}, nil
	}}
	c := newTestCache(api)
	require.Equal(t, StatusIdle, c.Status())

	require.NoError(t, c.Load(context.Background()))

	assert.Equal(t, StatusSucceeded, c.Status())
	list := c.List()
	require.Len(t, list, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{list[0].ID, list[1].ID, list[2].ID})
}

func TestCache_LoadFailure(t *testing.T) {
	api := &stubAPI{listFn: func(ctx context.Context) ([]*domain.Transaction, error) {
		return nil, fmt.Errorf("%w: connection refused", ErrNetworkFailure)
	}}
	c := newTestCache(api)

	err := c.Load(context.Background())

	assert.ErrorIs(t, err, ErrNetworkFailure)
	assert.Equal(t, StatusFailed, c.Status())
	assert.Contains(t, c.Err(), "connection refused")
	assert.Empty(t, c.List())
}

func TestCache_LoadStatusDuringRequest(t *testing.T) {
	var c *Cache
	var during Status
	api := &stubAPI{listFn: func(ctx context.Context) ([]*domain.Transaction, error) {
		during = c.Status()
		return nil, nil
	}}
	c = newTestCache(api)

	require.NoError(t, c.Load(context.Background()))
	assert.Equal(t, StatusLoading, during)
}

func TestCache_CreateSignsAndPrepends(t *testing.T) {
	var sent *domain.Transaction
	api := &stubAPI{
		createFn: func(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error) {
			sent = t
			return t, nil
		},
	}
	c := newTestCache(api)

	_, err := c.Create(context.Background(), FormInput{Title: " Salary ", Amount: "1000", Category: "salary"})
	require.NoError(t, err)
	created, err := c.Create(context.Background(), FormInput{Title: "Coffee", Amount: "4.5", Category: "food", Expense: true})
	require.NoError(t, err)

	assert.Equal(t, "-4.5", sent.Amount.String())
	assert.Equal(t, domain.TypeExpense, sent.Type)
	assert.Equal(t, "id-2", sent.ID)
	assert.True(t, sent.CreatedAt.Equal(clock))
	assert.Equal(t, created, c.List()[0])
	assert.Equal(t, "Salary", c.List()[1].Title)

	s := c.Summary()
	assert.Equal(t, "1000", s.Income.String())
	assert.Equal(t, "4.5", s.Expenses.String())
	assert.Equal(t, "995.5", s.Balance.String())
}

func TestCache_CreateNegativeInputUsesToggle(t *testing.T) {
	var sent *domain.Transaction
	api := &stubAPI{createFn: func(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error) {
		sent = t
		return t, nil
	}}
	c := newTestCache(api)

	_, err := c.Create(context.Background(), FormInput{Title: "Refund", Amount: "-20"})
	require.NoError(t, err)
	assert.Equal(t, "20", sent.Amount.String())
	assert.Equal(t, domain.TypeIncome, sent.Type)
	assert.Equal(t, domain.CategoryOther, sent.Category)
}

func TestCache_CreateValidationFailureSkipsNetwork(t *testing.T) {
	api := &stubAPI{}
	c := newTestCache(api)

	_, err := c.Create(context.Background(), FormInput{Title: "A", Amount: "5"})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{domain.FieldTitle: "Title must be at least 2 characters"}, verr.Fields)
	assert.Equal(t, 0, api.calls)
	assert.Empty(t, c.List())
}

func TestCache_CreateFailureLeavesListUnchanged(t *testing.T) {
	api := &stubAPI{createFn: func(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error) {
		return nil, ErrNetworkFailure
	}}
	c := newTestCache(api)

	_, err := c.Create(context.Background(), FormInput{Title: "Coffee", Amount: "3", Expense: true})

	assert.ErrorIs(t, err, ErrNetworkFailure)
	assert.Empty(t, c.List())
	assert.NotEmpty(t, c.Err())
}

func TestCache_UpdateReplacesInPlace(t *testing.T) {
	var gotPatch domain.TransactionPatch
	api := &stubAPI{
		listFn: func(ctx context.Context) ([]*domain.Transaction, error) {
			return []*domain.Transaction{tx("a", "Salary", "1000"), tx("b", "Coffee", "-4.5")}, nil
		},
		updateFn: func(ctx context.Context, id string, patch domain.TransactionPatch) (*domain.Transaction, error) {
			gotPatch = patch
			t := tx(id, *patch.Title, patch.Amount.String())
			return t, nil
		},
	}
	c := newTestCache(api)
	require.NoError(t, c.Load(context.Background()))

	_, err := c.Update(context.Background(), "b", FormInput{Title: "Latte", Amount: "5", Expense: true})
	require.NoError(t, err)

	assert.Nil(t, gotPatch.Category)
	assert.Equal(t, domain.TypeExpense, *gotPatch.Type)
	list := c.List()
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, "Latte", list[0].Title)
	assert.Equal(t, "a", list[1].ID)
}

func TestCache_UpdateNotFound(t *testing.T) {
	api := &stubAPI{updateFn: func(ctx context.Context, id string, patch domain.TransactionPatch) (*domain.Transaction, error) {
		return nil, &APIError{StatusCode: 404, Message: "failed to update transaction"}
	}}
	c := newTestCache(api)

	_, err := c.Update(context.Background(), "missing", FormInput{Title: "Latte", Amount: "5"})
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestCache_UpdateOfUncachedIDIsNoop(t *testing.T) {
	api := &stubAPI{updateFn: func(ctx context.Context, id string, patch domain.TransactionPatch) (*domain.Transaction, error) {
		return tx(id, "Ghost", "1"), nil
	}}
	c := newTestCache(api)

	_, err := c.Update(context.Background(), "ghost", FormInput{Title: "Ghost", Amount: "1"})
	require.NoError(t, err)
	assert.Empty(t, c.List())
}

func TestCache_Delete(t *testing.T) {
	deleted := map[string]bool{}
	api := &stubAPI{
		listFn: func(ctx context.Context) ([]*domain.Transaction, error) {
			return []*domain.Transaction{tx("a", "One", "1"), tx("b", "Two", "2")}, nil
		},
		deleteFn: func(ctx context.Context, id string) error {
			if id == "gone" {
				return &APIError{StatusCode: 404}
			}
			deleted[id] = true
			return nil
		},
	}
	c := newTestCache(api)
	require.NoError(t, c.Load(context.Background()))
	before := c.List()

	require.NoError(t, c.Delete(context.Background(), "a"))
	assert.True(t, deleted["a"])
	require.Len(t, c.List(), 1)
	assert.Equal(t, "b", c.List()[0].ID)
	assert.Len(t, before, 2, "earlier snapshots must not change")

	err := c.Delete(context.Background(), "gone")
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
	assert.Len(t, c.List(), 1)
}

func TestCache_FilteredUsesFilterState(t *testing.T) {
	api := &stubAPI{listFn: func(ctx context.Context) ([]*domain.Transaction, error) {
		rent := tx("r", "Rent", "-700")
		rent.Category = "rent"
		return []*domain.Transaction{tx("s", "Salary", "1000"), tx("c", "Coffee", "-4.5"), rent}, nil
	}}
	c := newTestCache(api)
	require.NoError(t, c.Load(context.Background()))

	assert.Len(t, c.Filtered(), 3)

	c.SetTypeFilter(domain.FilterExpense)
	assert.Len(t, c.Filtered(), 2)

	c.SetCategoryFilter("food")
	got := c.Filtered()
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].ID)

	c.SetCategoryFilter("")
	c.SetSearchQuery("RE")
	got = c.Filtered()
	require.Len(t, got, 1)
	assert.Equal(t, "r", got[0].ID)

	// totals ignore the filter
	assert.Equal(t, 3, c.Summary().Count)
	assert.Equal(t, domain.FilterState{Type: domain.FilterExpense, Search: "RE"}, c.FilterState())
}

func TestAPIError_Unwrap(t *testing.T) {
	assert.ErrorIs(t, &APIError{StatusCode: 404}, domain.ErrTransactionNotFound)
	assert.ErrorIs(t, &APIError{StatusCode: 409}, domain.ErrDuplicateTransaction)
	assert.False(t, errors.Is(&APIError{StatusCode: 500}, domain.ErrTransactionNotFound))
}
