package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iho/gotracker/internal/adapter/http/dto"
	"github.com/iho/gotracker/internal/domain"
)

// ErrNetworkFailure wraps every transport level failure.
var ErrNetworkFailure = errors.New("network failure")

// DefaultTimeout is used when NewAPIClient gets a nil *http.Client.
const DefaultTimeout = 10 * time.Second

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("server returned %d: %s: %s", e.StatusCode, e.Message, e.Details)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps well known status codes back to domain errors.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return domain.ErrTransactionNotFound
	case http.StatusConflict:
		return domain.ErrDuplicateTransaction
	default:
		return nil
	}
}

// APIClient talks to the transaction service over HTTP.
type APIClient struct {
	baseURL string
	http    *http.Client
}

// NewAPIClient creates a client for the service at baseURL.
func NewAPIClient(baseURL string, httpClient *http.Client) *APIClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// List returns every stored transaction, oldest first.
func (c *APIClient) List(ctx context.Context) ([]*domain.Transaction, error) {
	var resp []*dto.TransactionResponse
	if err := c.do(ctx, http.MethodGet, "/transactions", nil, &resp); err != nil {
		return nil, err
	}

	list := make([]*domain.Transaction, len(resp))
	for i, r := range resp {
		list[i] = r.ToDomain()
	}
	return list, nil
}

// Get returns one transaction.
func (c *APIClient) Get(ctx context.Context, id string) (*domain.Transaction, error) {
	var resp dto.TransactionResponse
	if err := c.do(ctx, http.MethodGet, "/transactions/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return resp.ToDomain(), nil
}

// Create sends the full record and returns what the server stored.
func (c *APIClient) Create(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error) {
	var resp dto.TransactionResponse
	if err := c.do(ctx, http.MethodPost, "/transactions", dto.CreateTransactionRequestFromDomain(t), &resp); err != nil {
		return nil, err
	}
	return resp.ToDomain(), nil
}

// Update sends a partial update and returns the merged record.
func (c *APIClient) Update(ctx context.Context, id string, patch domain.TransactionPatch) (*domain.Transaction, error) {
	var resp dto.TransactionResponse
	body := dto.PatchTransactionRequestFromPatch(patch)
	if err := c.do(ctx, http.MethodPatch, "/transactions/"+url.PathEscape(id), body, &resp); err != nil {
		return nil, err
	}
	return resp.ToDomain(), nil
}

// Delete removes a transaction.
func (c *APIClient) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/transactions/"+url.PathEscape(id), nil, nil)
}

// Categories returns the server's category catalog.
func (c *APIClient) Categories(ctx context.Context) ([]domain.Category, error) {
	var resp []dto.CategoryResponse
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &resp); err != nil {
		return nil, err
	}

	out := make([]domain.Category, len(resp))
	for i, r := range resp {
		out[i] = domain.Category{ID: r.ID, Name: r.Name, Icon: r.Icon}
	}
	return out, nil
}

// Summary asks the server for totals over the filtered list.
func (c *APIClient) Summary(ctx context.Context, state domain.FilterState) (domain.Summary, error) {
	q := url.Values{}
	if state.Type != "" {
		q.Set("type", string(state.Type))
	}
	if state.Category != "" {
		q.Set("category", state.Category)
	}
	if state.Search != "" {
		q.Set("q", state.Search)
	}

	path := "/summary"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp dto.SummaryResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return domain.Summary{}, err
	}
	return resp.ToDomain(), nil
}

func (c *APIClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrNetworkFailure, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrNetworkFailure, err)
	}
	return nil
}

// decodeError turns an error response into an error. Field level
// validation messages come back as *domain.ValidationError.
func decodeError(resp *http.Response) error {
	var body dto.ErrorResponse
	_ = json.NewDecoder(resp.Body).Decode(&body)

	if resp.StatusCode == http.StatusBadRequest && len(body.Fields) > 0 {
		return domain.NewValidationError(body.Fields)
	}

	msg := body.Error
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    msg,
		Details:    body.Message,
	}
}
