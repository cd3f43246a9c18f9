package domain

import "time"

// Event types
const (
	EventTypeTransactionCreated = "transaction.created"
	EventTypeTransactionUpdated = "transaction.updated"
	EventTypeTransactionDeleted = "transaction.deleted"
)

// AggregateTypeTransaction is the aggregate every event currently refers to.
const AggregateTypeTransaction = "transaction"

// Event is a notification emitted after a confirmed store mutation.
type Event struct {
	OccurredAt    time.Time
	Payload       map[string]any
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
}

// NewTransactionEvent builds an event describing t.
func NewTransactionEvent(id, eventType string, t *Transaction, at time.Time) *Event {
	payload := map[string]any{
		"transaction_id": t.ID,
	}
	if eventType != EventTypeTransactionDeleted {
		payload["title"] = t.Title
		payload["amount"] = t.Amount.String()
		payload["category"] = t.Category
		payload["type"] = string(t.Type)
	}

	return &Event{
		ID:            id,
		AggregateID:   t.ID,
		AggregateType: AggregateTypeTransaction,
		EventType:     eventType,
		Payload:       payload,
		OccurredAt:    at,
	}
}
