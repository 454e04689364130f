package domain

import (
	"context"
	"time"
)

type EventType string

const (
	EventInvoiceCreated       EventType = "INVOICE_CREATED"
	EventInvoiceStatusChanged EventType = "INVOICE_STATUS_CHANGED"
)

// Event is transient: it exists only for the lifetime of a publish call and
// the handler invocations it fans out to. Nothing is persisted or replayed.
type Event struct {
	Type    EventType
	Payload any
}

// EventBus decouples the code that commits a domain mutation from the side
// effects it triggers. Publish must return without waiting for handlers to
// finish; delivery is at-most-once and lost if the process dies first.
type EventBus interface {
	Publish(ctx context.Context, e Event)
}

// InvoiceCreatedPayload carries enough denormalized context for handlers to
// act without re-reading the invoice.
type InvoiceCreatedPayload struct {
	InvoiceID     string
	InvoiceNumber string
	UserID        string
	CustomerID    string
	Total         float64
	Date          time.Time
	Status        string
}

type InvoiceStatusChangedPayload struct {
	InvoiceID     string
	InvoiceNumber string
	UserID        string
	Status        string
}
