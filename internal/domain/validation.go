package domain

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Field names used as keys in validation results.
const (
	FieldTitle  = "title"
	FieldAmount = "amount"
	FieldType   = "type"
)

// Validation constants
const (
	MinTitleLength = 2
	MaxTitleLength = 50
)

// ValidationResult is the outcome of checking form input.
// An empty Errors map means the input is valid.
type ValidationResult struct {
	Errors map[string]string
	Valid  bool
}

// Err returns a *ValidationError for an invalid result, nil otherwise.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return NewValidationError(r.Errors)
}

// ValidationError carries per-field messages and unwraps to ErrValidationFailed.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError creates a ValidationError from field messages.
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s: %s", ErrValidationFailed, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// ValidateInput checks a candidate title and unsigned amount as entered in a form.
// Title and amount are checked independently and every violation is reported.
func ValidateInput(title, amount string) ValidationResult {
	errs := make(map[string]string)

	if msg := validateTitle(title); msg != "" {
		errs[FieldTitle] = msg
	}
	if msg := validateAmount(amount); msg != "" {
		errs[FieldAmount] = msg
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

func validateTitle(title string) string {
	title = strings.TrimSpace(title)
	n := utf8.RuneCountInString(title)

	switch {
	case n == 0:
		return "Title is required"
	case n < MinTitleLength:
		return fmt.Sprintf("Title must be at least %d characters", MinTitleLength)
	case n > MaxTitleLength:
		return fmt.Sprintf("Title must be less than %d characters", MaxTitleLength)
	}
	return ""
}

func validateAmount(amount string) string {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return "Amount is required"
	}

	value, err := decimal.NewFromString(amount)
	if err != nil {
		return "Amount must be a valid number"
	}
	if value.IsZero() {
		return "Amount cannot be zero"
	}
	return ""
}
