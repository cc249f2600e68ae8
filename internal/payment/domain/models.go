package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// PaymentEventType is the normalized event kind after provider parsing.
type PaymentEventType string

const (
	EventPaymentSucceeded PaymentEventType = "payment.succeeded"
	EventChargeRefunded   PaymentEventType = "charge.refunded"
)

// PaymentEvent is a provider webhook event normalized into platform terms.
// Amounts are minor units as delivered by the provider.
type PaymentEvent struct {
	ProviderEventID string
	Type            PaymentEventType
	PaymentIntentID string
	RefundID        string
	Amount          int64
	Currency        string
	OccurredAt      time.Time
	Raw             map[string]any
}

// EventRecordStatus tracks webhook event processing.
type EventRecordStatus string

const (
	EventRecordStatusReceived  EventRecordStatus = "received"
	EventRecordStatusProcessed EventRecordStatus = "processed"
	EventRecordStatusFailed    EventRecordStatus = "failed"
)

// EventRecord persists every received webhook event exactly once. The
// unique index on (provider, provider_event_id) is what makes ingestion
// idempotent under provider retries.
type EventRecord struct {
	ID              snowflake.ID      `gorm:"primaryKey"`
	Provider        string            `gorm:"type:text;not null;uniqueIndex:idx_provider_event"`
	ProviderEventID string            `gorm:"type:text;not null;uniqueIndex:idx_provider_event"`
	EventType       string            `gorm:"type:text;not null;index"`
	Status          EventRecordStatus `gorm:"type:text;not null;index"`
	Payload         datatypes.JSONMap `gorm:"type:jsonb"`
	ErrorMessage    *string           `gorm:"type:text"`
	CreatedAt       time.Time         `gorm:"not null"`
	ProcessedAt     *time.Time
}

// TableName sets the database table name.
func (EventRecord) TableName() string { return "payment_events" }
