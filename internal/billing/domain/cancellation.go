package domain

import (
	"github.com/shopspring/decimal"
)

// CancellationReason is who initiated the cancellation, or a no-show.
type CancellationReason string

const (
	ReasonClientCancelled    CancellationReason = "client_cancelled"
	ReasonTherapistCancelled CancellationReason = "therapist_cancelled"
	ReasonMutualCancellation CancellationReason = "mutual_cancellation"
	ReasonNoShow             CancellationReason = "no_show"
)

// Valid reports whether the reason is one of the closed set.
func (r CancellationReason) Valid() bool {
	switch r {
	case ReasonClientCancelled, ReasonTherapistCancelled, ReasonMutualCancellation, ReasonNoShow:
		return true
	}
	return false
}

// CancellationTiming classifies when the cancellation happened relative to
// the session start.
type CancellationTiming string

const (
	TimingBefore24h  CancellationTiming = "before_24h"
	TimingWithin24h  CancellationTiming = "within_24h"
	TimingAfterStart CancellationTiming = "after_start"
)

// Valid reports whether the timing is one of the closed set.
func (t CancellationTiming) Valid() bool {
	switch t {
	case TimingBefore24h, TimingWithin24h, TimingAfterStart:
		return true
	}
	return false
}

// RefundPolicy is an advisory label derived from the reason. Amounts are
// always recomputed from reason and timing; this label is never trusted.
type RefundPolicy string

const (
	PolicyFullRefund    RefundPolicy = "full_refund"
	PolicyPartialRefund RefundPolicy = "partial_refund"
	PolicyNoRefund      RefundPolicy = "no_refund"
)

// Outcome is the money split produced by the cancellation policy. All
// amounts are major units in the session's currency and never negative.
type Outcome struct {
	ClientRefund       decimal.Decimal
	TherapistDeduction decimal.Decimal
	CancellationFee    decimal.Decimal
	PlatformFee        decimal.Decimal
}

// ClassifyTiming buckets the hours remaining until session start:
// more than 24 hours out, inside the 24-hour window, or past the start.
func ClassifyTiming(hoursUntilSession float64) CancellationTiming {
	switch {
	case hoursUntilSession > 24:
		return TimingBefore24h
	case hoursUntilSession > 0:
		return TimingWithin24h
	default:
		return TimingAfterStart
	}
}

// RefundPolicyFor derives the advisory refund policy label for a reason.
func RefundPolicyFor(reason CancellationReason) RefundPolicy {
	switch reason {
	case ReasonTherapistCancelled:
		return PolicyFullRefund
	case ReasonNoShow:
		return PolicyNoRefund
	default:
		return PolicyPartialRefund
	}
}

// ComputeOutcome maps a session fee, cancellation reason, and timing to the
// refund/fee split. Branches are evaluated in precedence order:
//
//  1. Therapist cancellations refund the client in full regardless of
//     timing; funds have not been transferred to the therapist yet.
//  2. Cancellations inside the 24-hour window or after the session start
//     retain the whole fee as a cancellation fee, kept by the platform.
//  3. Everything else refunds the client in full.
//
// The therapist deduction is zero in every branch today; the execution path
// for a nonzero deduction is kept alive for a deduct-after-payout policy.
func ComputeOutcome(sessionFee decimal.Decimal, reason CancellationReason, timing CancellationTiming) (Outcome, error) {
	if !sessionFee.IsPositive() {
		return Outcome{}, ErrInvalidSessionFee
	}
	if !reason.Valid() {
		return Outcome{}, ErrInvalidCancellationReason
	}
	if !timing.Valid() {
		return Outcome{}, ErrInvalidCancellationTiming
	}

	zero := decimal.Zero
	switch {
	case reason == ReasonTherapistCancelled:
		return Outcome{
			ClientRefund:       sessionFee,
			TherapistDeduction: zero,
			CancellationFee:    zero,
			PlatformFee:        zero,
		}, nil
	case timing == TimingWithin24h || timing == TimingAfterStart:
		return Outcome{
			ClientRefund:       zero,
			TherapistDeduction: zero,
			CancellationFee:    sessionFee,
			PlatformFee:        sessionFee,
		}, nil
	default:
		return Outcome{
			ClientRefund:       sessionFee,
			TherapistDeduction: zero,
			CancellationFee:    zero,
			PlatformFee:        zero,
		}, nil
	}
}

// RefundReasonCode maps a cancellation reason to the processor's refund
// reason code. No-shows map to "fraudulent", which is the platform's
// established (if debatable) convention.
func RefundReasonCode(reason CancellationReason) string {
	if reason == ReasonNoShow {
		return "fraudulent"
	}
	return "requested_by_customer"
}
