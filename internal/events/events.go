// Package events is a transactional outbox for platform events that
// downstream consumers (notifications, analytics) pick up later.
package events

// Platform event types.
const (
	EventBookingCancelled = "booking.cancelled"
	EventPaymentSettled   = "payment.settled"
	EventRefundSettled    = "refund.settled"
	EventPayoutRequested  = "payout.requested"
)
