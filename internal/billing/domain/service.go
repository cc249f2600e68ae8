package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// ExecuteRequest asks the billing service to execute a cancellation against
// the payment processor. SessionFee is in major units.
type ExecuteRequest struct {
	PaymentIntentID    string
	TherapistAccountID string
	SessionFee         decimal.Decimal
	Reason             CancellationReason
	Timing             CancellationTiming
	RefundPolicy       RefundPolicy
}

// ExecuteResult is the computed outcome plus the processor identifiers for
// whatever side effects were actually executed. RefundID and ReversalID are
// empty when the corresponding amount was zero.
type ExecuteResult struct {
	Outcome
	RefundID     string
	RefundStatus string
	ReversalID   string
}

// Service executes cancellations: it validates the payment state, computes
// the policy outcome, and instructs the processor. It performs no database
// writes; persistence is the caller's responsibility.
type Service interface {
	ExecuteCancellation(ctx context.Context, req ExecuteRequest) (*ExecuteResult, error)
}
