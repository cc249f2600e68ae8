package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	// InsertEvent stores the event record. It returns
	// ErrEventAlreadyProcessed when the (provider, provider_event_id)
	// pair already exists.
	InsertEvent(ctx context.Context, db *gorm.DB, record *EventRecord) error
	MarkProcessed(ctx context.Context, db *gorm.DB, record *EventRecord, at time.Time) error
	MarkFailed(ctx context.Context, db *gorm.DB, record *EventRecord, at time.Time, cause error) error
}
