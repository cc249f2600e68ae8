package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// CancellationUpdate carries the fields written when a booking is
// cancelled.
type CancellationUpdate struct {
	Reason        string
	CancelledAt   time.Time
	PaymentStatus PaymentStatus
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, booking *Booking) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Booking, error)
	LockByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Booking, error)
	FindByPaymentIntent(ctx context.Context, db *gorm.DB, paymentIntentID string) (*Booking, error)
	MarkCancelled(ctx context.Context, db *gorm.DB, id snowflake.ID, update CancellationUpdate) error
	MarkPaid(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
