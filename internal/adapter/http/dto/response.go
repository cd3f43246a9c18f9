package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gotracker/internal/domain"
)

func init() {
	// amounts travel as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	CreatedAt time.Time       `json:"createdAt"`
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Category  string          `json:"category"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
}

// TransactionFromDomain converts domain transaction to response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:        t.ID,
		Title:     t.Title,
		Amount:    t.Amount,
		Category:  t.Category,
		Type:      string(t.Type),
		CreatedAt: t.CreatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(list []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(list))
	for i, t := range list {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// ToDomain converts a response back into a domain transaction.
// An unknown type is derived from the amount.
func (r *TransactionResponse) ToDomain() *domain.Transaction {
	t, err := domain.ParseTransactionType(r.Type)
	if err != nil {
		t = domain.TypeForAmount(r.Amount)
	}
	return &domain.Transaction{
		ID:        r.ID,
		Title:     r.Title,
		Amount:    r.Amount,
		Category:  r.Category,
		Type:      t,
		CreatedAt: r.CreatedAt,
	}
}

// CategoryResponse represents a catalog entry.
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// CategoriesFromDomain converts the catalog to responses.
func CategoriesFromDomain(categories []domain.Category) []CategoryResponse {
	result := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		result[i] = CategoryResponse{ID: c.ID, Name: c.Name, Icon: c.Icon}
	}
	return result
}

// SummaryResponse represents aggregate totals.
type SummaryResponse struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"balance"`
	Count    int             `json:"count"`
}

// SummaryFromDomain converts a domain summary to response.
func SummaryFromDomain(s domain.Summary) *SummaryResponse {
	return &SummaryResponse{
		Income:   s.Income,
		Expenses: s.Expenses,
		Balance:  s.Balance,
		Count:    s.Count,
	}
}

// ToDomain converts a summary response back into a domain summary.
func (r *SummaryResponse) ToDomain() domain.Summary {
	return domain.Summary{
		Income:   r.Income,
		Expenses: r.Expenses,
		Balance:  r.Balance,
		Count:    r.Count,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Fields  map[string]string `json:"fields,omitempty"`
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
}
