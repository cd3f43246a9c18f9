package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType tags a transaction as money in or money out.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// ParseTransactionType validates a wire value.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case TypeIncome, TypeExpense:
		return TransactionType(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
}

// TypeForAmount derives the type from the sign of amount.
// Zero counts as income, matching how the form toggles are resolved.
func TypeForAmount(amount decimal.Decimal) TransactionType {
	if amount.IsNegative() {
		return TypeExpense
	}
	return TypeIncome
}

// Transaction is a single income or expense ledger entry.
type Transaction struct {
	CreatedAt time.Time
	ID        string
	Title     string
	Category  string
	Type      TransactionType
	Amount    decimal.Decimal
}

// Clone returns a copy that shares no state with t.
func (t *Transaction) Clone() *Transaction {
	c := *t
	return &c
}

// Validate checks a stored record against the form rules and the
// type/sign invariant.
func (t *Transaction) Validate() error {
	if err := ValidateInput(t.Title, t.Amount.String()).Err(); err != nil {
		return err
	}
	if t.Type != TypeForAmount(t.Amount) {
		return NewValidationError(map[string]string{
			FieldType: fmt.Sprintf("Type %q does not match the sign of the amount", t.Type),
		})
	}
	return nil
}

// TransactionPatch is a partial update. Nil fields are left untouched.
type TransactionPatch struct {
	Title    *string
	Amount   *decimal.Decimal
	Category *string
	Type     *TransactionType
}

// IsEmpty reports whether the patch changes nothing.
func (p TransactionPatch) IsEmpty() bool {
	return p.Title == nil && p.Amount == nil && p.Category == nil && p.Type == nil
}

// Apply merges the patch into t. ID and CreatedAt are never touched.
// A new amount without an explicit type re-derives the type.
func (p TransactionPatch) Apply(t *Transaction) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
		if p.Type == nil {
			t.Type = TypeForAmount(t.Amount)
		}
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
}
