package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"

	billingdomain "github.com/HWellness/Hive-Wellness-Portal-sub013/internal/billing/domain"
)

var (
	ErrBookingNotFound    = errors.New("booking_not_found")
	ErrAlreadyCancelled   = errors.New("booking_already_cancelled")
	ErrNotCancellable     = errors.New("booking_not_cancellable")
	ErrInvalidBooking     = errors.New("invalid_booking")
	ErrMissingPaymentLink = errors.New("booking_missing_payment_intent")
)

// CreateBookingRequest captures a new session booking.
type CreateBookingRequest struct {
	ClientID           snowflake.ID
	TherapistID        snowflake.ID
	TherapistAccountID string
	SessionStart       time.Time
	DurationMinutes    int
	SessionFee         decimal.Decimal
	Currency           string
	PaymentIntentID    string
}

// CancelRequest asks for a booking to be cancelled with a reason. The
// timing bucket is derived from the session start, never supplied.
type CancelRequest struct {
	BookingID snowflake.ID
	Reason    billingdomain.CancellationReason
	ActorType string
	ActorID   string
}

// CancelResult reports the policy decision and executed side effects.
type CancelResult struct {
	BookingID    snowflake.ID
	Timing       billingdomain.CancellationTiming
	RefundPolicy billingdomain.RefundPolicy
	Outcome      billingdomain.Outcome
	RefundID     string
	ReversalID   string
}

// Service manages bookings and their cancellation flow.
type Service interface {
	Create(ctx context.Context, req CreateBookingRequest) (*Booking, error)
	Get(ctx context.Context, id snowflake.ID) (*Booking, error)
	Cancel(ctx context.Context, req CancelRequest) (*CancelResult, error)
}
