package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EarningsSummary reports a therapist's balance at the payment
// processor. Amounts are major units.
type EarningsSummary struct {
	AccountID      string
	Available      decimal.Decimal
	Pending        decimal.Decimal
	Currency       string
	PayoutsEnabled bool
}

// InstantPayoutRequest asks for an instant payout of Amount from the
// therapist's available balance. Amount is major units, gross of fee.
type InstantPayoutRequest struct {
	AccountID string
	Amount    decimal.Decimal
	ActorID   string
}

// InstantPayoutResult reports the executed payout. Net is what lands in
// the therapist's bank account after the instant payout fee.
type InstantPayoutResult struct {
	PayoutID string
	Amount   decimal.Decimal
	Fee      decimal.Decimal
	Net      decimal.Decimal
	Currency string
	Status   string
}

// PayoutInfo is a past payout on the therapist's account.
type PayoutInfo struct {
	ID          string
	Amount      decimal.Decimal
	Currency    string
	Status      string
	Method      string
	ArrivalDate time.Time
	CreatedAt   time.Time
}
