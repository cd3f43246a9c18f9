package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gotracker/internal/domain"
)

func newTx(id, title, amount string) *domain.Transaction {
	a := decimal.RequireFromString(amount)
	return &domain.Transaction{
		ID:        id,
		Title:     title,
		Amount:    a,
		Category:  "food",
		Type:      domain.TypeForAmount(a),
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestTransactionRepository_CreateAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository()

	for i, id := range []string{"a", "b", "c"} {
		if _, err := repo.Create(ctx, newTx(id, fmt.Sprintf("t%d", i), "10")); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(list))
	}
	for i, want := range []string{"a", "b", "c"} {
		if list[i].ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, list[i].ID)
		}
	}
}

func TestTransactionRepository_CreateDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository()

	if _, err := repo.Create(ctx, newTx("a", "first", "1")); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := repo.Create(ctx, newTx("a", "second", "2"))
	if !errors.Is(err, domain.ErrDuplicateTransaction) {
		t.Fatalf("expected ErrDuplicateTransaction, got %v", err)
	}

	got, _ := repo.GetByID(ctx, "a")
	if got.Title != "first" {
		t.Errorf("duplicate create overwrote record: %q", got.Title)
	}
}

func TestTransactionRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository()

	input := newTx("a", "Coffee", "-4.5")
	created, _ := repo.Create(ctx, input)

	input.Title = "mutated input"
	created.Title = "mutated result"

	list, _ := repo.List(ctx)
	list[0].Title = "mutated list"

	got, err := repo.GetByID(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Coffee" {
		t.Errorf("stored record was aliased, title=%q", got.Title)
	}
}

func TestTransactionRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo, err := NewTransactionRepositoryWith([]*domain.Transaction{
		newTx("a", "Salary", "1000"),
		newTx("b", "Coffee", "-4.5"),
		newTx("c", "Rent", "-700"),
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	title := "Espresso"
	amount := decimal.RequireFromString("-3")
	updated, err := repo.Update(ctx, "b", domain.TransactionPatch{Title: &title, Amount: &amount})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Espresso" || !updated.Amount.Equal(amount) {
		t.Errorf("unexpected update result: %+v", updated)
	}
	if updated.Category != "food" {
		t.Errorf("untouched field changed: %q", updated.Category)
	}

	list, _ := repo.List(ctx)
	if list[1].ID != "b" || list[1].Title != "Espresso" {
		t.Errorf("update moved or lost the record: %+v", list[1])
	}
}

func TestTransactionRepository_UpdateNotFound(t *testing.T) {
	ctx := context.Background()
	repo, _ := NewTransactionRepositoryWith([]*domain.Transaction{newTx("a", "Salary", "1000")})

	title := "x"
	_, err := repo.Update(ctx, "missing", domain.TransactionPatch{Title: &title})
	if !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}

	list, _ := repo.List(ctx)
	if len(list) != 1 || list[0].Title != "Salary" {
		t.Errorf("store changed after failed update: %+v", list)
	}
}

func TestTransactionRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo, _ := NewTransactionRepositoryWith([]*domain.Transaction{
		newTx("a", "Salary", "1000"),
		newTx("b", "Coffee", "-4.5"),
		newTx("c", "Rent", "-700"),
	})

	if err := repo.Delete(ctx, "b"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	list, _ := repo.List(ctx)
	if len(list) != 2 || list[0].ID != "a" || list[1].ID != "c" {
		t.Errorf("unexpected list after delete: %+v", list)
	}

	if err := repo.Delete(ctx, "b"); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("expected ErrTransactionNotFound on second delete, got %v", err)
	}

	n, _ := repo.Count(ctx)
	if n != 2 {
		t.Errorf("expected count 2, got %d", n)
	}
}

func TestTransactionRepository_Concurrent(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("id-%d", i)
			if _, err := repo.Create(ctx, newTx(id, "Concurrent", "1")); err != nil {
				t.Errorf("create %s: %v", id, err)
			}
			_, _ = repo.List(ctx)
		}(i)
	}
	wg.Wait()

	n, _ := repo.Count(ctx)
	if n != 50 {
		t.Errorf("expected 50 transactions, got %d", n)
	}
}
