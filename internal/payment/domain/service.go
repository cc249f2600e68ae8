package domain

import (
	"context"
	"errors"
)

var (
	ErrInvalidSignature      = errors.New("invalid_webhook_signature")
	ErrEventIgnored          = errors.New("event_type_ignored")
	ErrEventAlreadyProcessed = errors.New("event_already_processed")
	ErrEmptyPayload          = errors.New("empty_webhook_payload")
)

// IngestResult reports what a webhook ingestion did.
type IngestResult struct {
	EventID   string
	EventType PaymentEventType
	Duplicate bool
}

// Service ingests provider webhook events and applies their effects to
// bookings, refunds, and the ledger. Ingestion is idempotent: replaying
// an event the platform has already processed is a no-op.
type Service interface {
	IngestWebhook(ctx context.Context, payload []byte, signature string) (*IngestResult, error)
}
