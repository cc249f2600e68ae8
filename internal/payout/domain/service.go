package domain

import (
	"context"
	"errors"
)

var (
	ErrInvalidAccount      = errors.New("invalid_account")
	ErrInvalidPayoutAmount = errors.New("invalid_payout_amount")
	ErrBelowMinimumPayout  = errors.New("below_minimum_payout")
	ErrInsufficientBalance = errors.New("insufficient_balance")
	ErrPayoutsDisabled     = errors.New("payouts_disabled")
)

// Service exposes therapist earnings and payouts.
type Service interface {
	EarningsSummary(ctx context.Context, accountID string) (*EarningsSummary, error)
	RequestInstantPayout(ctx context.Context, req InstantPayoutRequest) (*InstantPayoutResult, error)
	ListPayouts(ctx context.Context, accountID string, limit int) ([]PayoutInfo, error)
}
