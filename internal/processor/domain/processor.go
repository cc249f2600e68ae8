package domain

import (
	"context"
	"errors"
)

// Processor is the payment-processor capability consumed by billing and
// payouts. Implementations must honour context cancellation; amounts cross
// this boundary in minor currency units.
type Processor interface {
	RetrievePaymentIntent(ctx context.Context, id string) (*PaymentIntent, error)
	CreateRefund(ctx context.Context, in CreateRefundInput) (*Refund, error)
	RetrieveRefund(ctx context.Context, id string) (*Refund, error)
	ListTransfers(ctx context.Context, destinationAccountID string, limit int) ([]Transfer, error)
	CreateTransferReversal(ctx context.Context, in CreateReversalInput) (*TransferReversal, error)
	RetrieveBalance(ctx context.Context, accountID string) (*Balance, error)
	RetrieveAccount(ctx context.Context, accountID string) (*Account, error)
	ListPayouts(ctx context.Context, accountID string, limit int) ([]Payout, error)
	CreatePayout(ctx context.Context, in CreatePayoutInput) (*Payout, error)
}

var (
	ErrNotConfigured = errors.New("processor_not_configured")
	ErrInvalidAmount = errors.New("processor_invalid_amount")
)
