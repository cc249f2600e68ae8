package domain

import "time"

// PaymentIntentStatus mirrors the processor's payment intent lifecycle.
type PaymentIntentStatus string

const (
	PaymentIntentStatusRequiresPayment PaymentIntentStatus = "requires_payment_method"
	PaymentIntentStatusProcessing      PaymentIntentStatus = "processing"
	PaymentIntentStatusSucceeded       PaymentIntentStatus = "succeeded"
	PaymentIntentStatusCanceled        PaymentIntentStatus = "canceled"
)

// RefundStatus mirrors the processor's refund lifecycle.
type RefundStatus string

const (
	RefundStatusPending   RefundStatus = "pending"
	RefundStatusSucceeded RefundStatus = "succeeded"
	RefundStatusFailed    RefundStatus = "failed"
	RefundStatusCanceled  RefundStatus = "canceled"
)

// PaymentIntent is the processor's record of a captured client charge.
type PaymentIntent struct {
	ID             string
	Status         PaymentIntentStatus
	AmountMinor    int64
	Currency       string
	LatestChargeID string
	Metadata       map[string]string
}

// Refund is a processor-side refund against a payment intent.
type Refund struct {
	ID              string
	PaymentIntentID string
	AmountMinor     int64
	Status          RefundStatus
}

// Transfer is a movement of platform funds to a connected account.
type Transfer struct {
	ID                   string
	AmountMinor          int64
	AmountReversedMinor  int64
	DestinationAccountID string
	SourceChargeID       string
	Reversed             bool
	Metadata             map[string]string
}

// TransferReversal is a partial or full clawback of a prior transfer.
type TransferReversal struct {
	ID          string
	TransferID  string
	AmountMinor int64
}

// Balance is a connected account's available and pending funds.
type Balance struct {
	AvailableMinor int64
	PendingMinor   int64
	Currency       string
}

// Account is a connected therapist account.
type Account struct {
	ID              string
	PayoutsEnabled  bool
	DefaultCurrency string
}

// Payout is a movement from a connected account to its bank account.
type Payout struct {
	ID          string
	AmountMinor int64
	Currency    string
	Status      string
	Method      string
	ArrivalDate time.Time
	CreatedAt   time.Time
}

// CreateRefundInput describes a refund to execute.
type CreateRefundInput struct {
	PaymentIntentID string
	AmountMinor     int64
	ReasonCode      string
	Metadata        map[string]string
	IdempotencyKey  string
}

// CreateReversalInput describes a transfer reversal to execute.
type CreateReversalInput struct {
	TransferID     string
	AmountMinor    int64
	Metadata       map[string]string
	IdempotencyKey string
}

// CreatePayoutInput describes a payout to execute on a connected account.
type CreatePayoutInput struct {
	AccountID      string
	AmountMinor    int64
	Currency       string
	Instant        bool
	Metadata       map[string]string
	IdempotencyKey string
}
