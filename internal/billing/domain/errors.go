package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSessionFee         = errors.New("invalid_session_fee")
	ErrInvalidCancellationReason = errors.New("invalid_cancellation_reason")
	ErrInvalidCancellationTiming = errors.New("invalid_cancellation_timing")
	ErrInvalidPaymentIntent      = errors.New("invalid_payment_intent")
	ErrPaymentNotCompleted       = errors.New("payment_not_completed")
)

// ProcessingError wraps a processor-level failure during cancellation
// execution. It is not retried; the caller must not mark the booking
// cancelled when it sees one.
type ProcessingError struct {
	Stage string
	Err   error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("cancellation processing failed at %s: %v", e.Stage, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }
