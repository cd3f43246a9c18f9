package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gotracker/internal/domain"
	"github.com/iho/gotracker/internal/usecase"
)

// CreateTransactionRequest represents a request to create a transaction.
// ID, Type and CreatedAt are optional; the server fills in missing ones.
type CreateTransactionRequest struct {
	CreatedAt *time.Time      `json:"createdAt,omitempty"`
	ID        string          `json:"id,omitempty"`
	Title     string          `json:"title"`
	Category  string          `json:"category"`
	Type      string          `json:"type,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransactionRequest) ToUseCaseInput() (usecase.CreateTransactionInput, error) {
	input := usecase.CreateTransactionInput{
		ID:       r.ID,
		Title:    r.Title,
		Amount:   r.Amount,
		Category: r.Category,
	}

	if r.Type != "" {
		t, err := domain.ParseTransactionType(r.Type)
		if err != nil {
			return usecase.CreateTransactionInput{}, err
		}
		input.Type = t
	}
	if r.CreatedAt != nil {
		input.CreatedAt = r.CreatedAt.UTC()
	}

	return input, nil
}

// CreateTransactionRequestFromDomain builds the full payload the client sends.
func CreateTransactionRequestFromDomain(t *domain.Transaction) *CreateTransactionRequest {
	createdAt := t.CreatedAt
	return &CreateTransactionRequest{
		ID:        t.ID,
		Title:     t.Title,
		Amount:    t.Amount,
		Category:  t.Category,
		Type:      string(t.Type),
		CreatedAt: &createdAt,
	}
}

// PatchTransactionRequest represents a partial update. Absent fields are kept.
type PatchTransactionRequest struct {
	Title    *string          `json:"title,omitempty"`
	Amount   *decimal.Decimal `json:"amount,omitempty"`
	Category *string          `json:"category,omitempty"`
	Type     *string          `json:"type,omitempty"`
}

// ToPatch converts to a domain patch.
func (r *PatchTransactionRequest) ToPatch() (domain.TransactionPatch, error) {
	patch := domain.TransactionPatch{
		Title:    r.Title,
		Amount:   r.Amount,
		Category: r.Category,
	}

	if r.Type != nil {
		t, err := domain.ParseTransactionType(*r.Type)
		if err != nil {
			return domain.TransactionPatch{}, err
		}
		patch.Type = &t
	}

	return patch, nil
}

// PatchTransactionRequestFromPatch is the inverse of ToPatch.
func PatchTransactionRequestFromPatch(p domain.TransactionPatch) *PatchTransactionRequest {
	req := &PatchTransactionRequest{
		Title:    p.Title,
		Amount:   p.Amount,
		Category: p.Category,
	}
	if p.Type != nil {
		s := string(*p.Type)
		req.Type = &s
	}
	return req
}

// SummaryQuery holds the filter query parameters of GET /summary.
type SummaryQuery struct {
	Type     string
	Category string
	Search   string
}

// ToFilterState converts the query to a view filter.
func (q SummaryQuery) ToFilterState() (domain.FilterState, error) {
	typeFilter, err := domain.ParseTypeFilter(q.Type)
	if err != nil {
		return domain.FilterState{}, err
	}
	return domain.FilterState{
		Type:     typeFilter,
		Category: q.Category,
		Search:   q.Search,
	}, nil
}
