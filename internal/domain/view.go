package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TypeFilter selects transactions by direction.
type TypeFilter string

const (
	FilterAll     TypeFilter = "ALL"
	FilterIncome  TypeFilter = "INCOME"
	FilterExpense TypeFilter = "EXPENSE"
)

// ParseTypeFilter parses a filter value case-insensitively. Empty means ALL.
func ParseTypeFilter(s string) (TypeFilter, error) {
	switch TypeFilter(strings.ToUpper(strings.TrimSpace(s))) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterIncome:
		return FilterIncome, nil
	case FilterExpense:
		return FilterExpense, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFilter, s)
	}
}

// Matches reports whether a transaction of type t passes the filter.
func (f TypeFilter) Matches(t TransactionType) bool {
	switch f {
	case FilterIncome:
		return t == TypeIncome
	case FilterExpense:
		return t == TypeExpense
	default:
		return true
	}
}

// FilterState is the filter/search selection applied to a list.
// Empty Category means no category filter; empty Search matches every title.
type FilterState struct {
	Type     TypeFilter
	Category string
	Search   string
}

// Matches reports whether t passes every criterion of the state.
func (s FilterState) Matches(t *Transaction) bool {
	if !s.Type.Matches(t.Type) {
		return false
	}
	if s.Category != "" && t.Category != s.Category {
		return false
	}
	if s.Search != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(s.Search)) {
		return false
	}
	return true
}

// Filter returns the transactions matching state, preserving input order.
func Filter(list []*Transaction, state FilterState) []*Transaction {
	out := make([]*Transaction, 0, len(list))
	for _, t := range list {
		if state.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// TotalIncome sums the amounts of income transactions.
func TotalIncome(list []*Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range list {
		if t.Type == TypeIncome {
			sum = sum.Add(t.Amount)
		}
	}
	return sum
}

// TotalExpenses sums the absolute amounts of expense transactions.
func TotalExpenses(list []*Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range list {
		if t.Type == TypeExpense {
			sum = sum.Add(t.Amount.Abs())
		}
	}
	return sum
}

// Balance sums every amount; income and expenses cancel by sign.
func Balance(list []*Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range list {
		sum = sum.Add(t.Amount)
	}
	return sum
}

// Summary holds the aggregate totals of a list.
type Summary struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Balance  decimal.Decimal
	Count    int
}

// Summarize computes every total of list in one call.
func Summarize(list []*Transaction) Summary {
	return Summary{
		Income:   TotalIncome(list),
		Expenses: TotalExpenses(list),
		Balance:  Balance(list),
		Count:    len(list),
	}
}
