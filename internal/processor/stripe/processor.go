// Package stripe implements the processor contract against the Stripe API.
package stripe

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	stripeapi "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"go.uber.org/zap"

	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/observability/tracing"
	processordomain "github.com/HWellness/Hive-Wellness-Portal-sub013/internal/processor/domain"
)

const defaultCallTimeout = 15 * time.Second

// Config configures the Stripe client.
type Config struct {
	SecretKey   string
	CallTimeout time.Duration
}

// Processor calls Stripe with per-call timeouts. Creation calls carry
// idempotency keys so a retried request cannot double-refund.
type Processor struct {
	api     *client.API
	timeout time.Duration
	log     *zap.Logger
}

// New builds a Stripe-backed processor.
func New(cfg Config, log *zap.Logger) (*Processor, error) {
	if cfg.SecretKey == "" {
		return nil, processordomain.ErrNotConfigured
	}
	timeout := cfg.CallTimeout
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	httpClient := tracing.WrapHTTPClient(&http.Client{Timeout: timeout})
	api := &client.API{}
	api.Init(cfg.SecretKey, stripeapi.NewBackends(httpClient))
	return &Processor{
		api:     api,
		timeout: timeout,
		log:     log.Named("processor.stripe"),
	}, nil
}

func (p *Processor) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, p.timeout)
}

// RetrievePaymentIntent fetches a payment intent by ID.
func (p *Processor) RetrievePaymentIntent(ctx context.Context, id string) (*processordomain.PaymentIntent, error) {
	cctx, cancel := p.callContext(ctx)
	defer cancel()

	params := &stripeapi.PaymentIntentParams{}
	params.Context = cctx

	pi, err := p.api.PaymentIntents.Get(id, params)
	if err != nil {
		return nil, err
	}

	out := &processordomain.PaymentIntent{
		ID:          pi.ID,
		Status:      processordomain.PaymentIntentStatus(pi.Status),
		AmountMinor: pi.Amount,
		Currency:    string(pi.Currency),
		Metadata:    pi.Metadata,
	}
	if pi.LatestCharge != nil {
		out.LatestChargeID = pi.LatestCharge.ID
	}
	return out, nil
}

// CreateRefund issues a refund against the original payment.
func (p *Processor) CreateRefund(ctx context.Context, in processordomain.CreateRefundInput) (*processordomain.Refund, error) {
	if in.AmountMinor <= 0 {
		return nil, processordomain.ErrInvalidAmount
	}

	cctx, cancel := p.callContext(ctx)
	defer cancel()

	params := &stripeapi.RefundParams{
		PaymentIntent: stripeapi.String(in.PaymentIntentID),
		Amount:        stripeapi.Int64(in.AmountMinor),
	}
	params.Context = cctx
	if in.ReasonCode != "" {
		params.Reason = stripeapi.String(in.ReasonCode)
	}
	for key, value := range in.Metadata {
		params.AddMetadata(key, value)
	}
	params.SetIdempotencyKey(idempotencyKey(in.IdempotencyKey))

	refund, err := p.api.Refunds.New(params)
	if err != nil {
		return nil, err
	}
	return mapRefund(refund), nil
}

// RetrieveRefund fetches a refund by ID.
func (p *Processor) RetrieveRefund(ctx context.Context, id string) (*processordomain.Refund, error) {
	cctx, cancel := p.callContext(ctx)
	defer cancel()

	params := &stripeapi.RefundParams{}
	params.Context = cctx

	refund, err := p.api.Refunds.Get(id, params)
	if err != nil {
		return nil, err
	}
	return mapRefund(refund), nil
}

// ListTransfers returns the most recent transfers to a connected account.
func (p *Processor) ListTransfers(ctx context.Context, destinationAccountID string, limit int) ([]processordomain.Transfer, error) {
	cctx, cancel := p.callContext(ctx)
	defer cancel()

	params := &stripeapi.TransferListParams{
		Destination: stripeapi.String(destinationAccountID),
	}
	params.Context = cctx
	if limit > 0 {
		params.Limit = stripeapi.Int64(int64(limit))
	}

	var transfers []processordomain.Transfer
	iter := p.api.Transfers.List(params)
	for iter.Next() {
		t := iter.Transfer()
		entry := processordomain.Transfer{
			ID:                  t.ID,
			AmountMinor:         t.Amount,
			AmountReversedMinor: t.AmountReversed,
			Reversed:            t.Reversed,
			Metadata:            t.Metadata,
		}
		if t.Destination != nil {
			entry.DestinationAccountID = t.Destination.ID
		}
		if t.SourceTransaction != nil {
			entry.SourceChargeID = t.SourceTransaction.ID
		}
		transfers = append(transfers, entry)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return transfers, nil
}

// CreateTransferReversal claws back part of a prior transfer.
func (p *Processor) CreateTransferReversal(ctx context.Context, in processordomain.CreateReversalInput) (*processordomain.TransferReversal, error) {
	if in.AmountMinor <= 0 {
		return nil, processordomain.ErrInvalidAmount
	}

	cctx, cancel := p.callContext(ctx)
	defer cancel()

	params := &stripeapi.TransferReversalParams{
		ID:     stripeapi.String(in.TransferID),
		Amount: stripeapi.Int64(in.AmountMinor),
	}
	params.Context = cctx
	for key, value := range in.Metadata {
		params.AddMetadata(key, value)
	}
	params.SetIdempotencyKey(idempotencyKey(in.IdempotencyKey))

	reversal, err := p.api.TransferReversals.New(params)
	if err != nil {
		return nil, err
	}
	out := &processordomain.TransferReversal{
		ID:          reversal.ID,
		AmountMinor: reversal.Amount,
	}
	if reversal.Transfer != nil {
		out.TransferID = reversal.Transfer.ID
	}
	return out, nil
}

// RetrieveBalance fetches a connected account's balance.
func (p *Processor) RetrieveBalance(ctx context.Context, accountID string) (*processordomain.Balance, error) {
	cctx, cancel := p.callContext(ctx)
	defer cancel()

	params := &stripeapi.BalanceParams{}
	params.Context = cctx
	params.SetStripeAccount(accountID)

	balance, err := p.api.Balance.Get(params)
	if err != nil {
		return nil, err
	}

	out := &processordomain.Balance{}
	for _, available := range balance.Available {
		out.AvailableMinor += available.Amount
		if out.Currency == "" {
			out.Currency = string(available.Currency)
		}
	}
	for _, pending := range balance.Pending {
		out.PendingMinor += pending.Amount
	}
	return out, nil
}

// RetrieveAccount fetches a connected account.
func (p *Processor) RetrieveAccount(ctx context.Context, accountID string) (*processordomain.Account, error) {
	cctx, cancel := p.callContext(ctx)
	defer cancel()

	params := &stripeapi.AccountParams{}
	params.Context = cctx

	account, err := p.api.Accounts.GetByID(accountID, params)
	if err != nil {
		return nil, err
	}
	return &processordomain.Account{
		ID:              account.ID,
		PayoutsEnabled:  account.PayoutsEnabled,
		DefaultCurrency: string(account.DefaultCurrency),
	}, nil
}

// ListPayouts returns the most recent payouts on a connected account.
func (p *Processor) ListPayouts(ctx context.Context, accountID string, limit int) ([]processordomain.Payout, error) {
	cctx, cancel := p.callContext(ctx)
	defer cancel()

	params := &stripeapi.PayoutListParams{}
	params.Context = cctx
	params.SetStripeAccount(accountID)
	if limit > 0 {
		params.Limit = stripeapi.Int64(int64(limit))
	}

	var payouts []processordomain.Payout
	iter := p.api.Payouts.List(params)
	for iter.Next() {
		payouts = append(payouts, mapPayout(iter.Payout()))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return payouts, nil
}

// CreatePayout initiates a payout on a connected account.
func (p *Processor) CreatePayout(ctx context.Context, in processordomain.CreatePayoutInput) (*processordomain.Payout, error) {
	if in.AmountMinor <= 0 {
		return nil, processordomain.ErrInvalidAmount
	}

	cctx, cancel := p.callContext(ctx)
	defer cancel()

	params := &stripeapi.PayoutParams{
		Amount:   stripeapi.Int64(in.AmountMinor),
		Currency: stripeapi.String(in.Currency),
	}
	params.Context = cctx
	params.SetStripeAccount(in.AccountID)
	if in.Instant {
		params.Method = stripeapi.String("instant")
	}
	for key, value := range in.Metadata {
		params.AddMetadata(key, value)
	}
	params.SetIdempotencyKey(idempotencyKey(in.IdempotencyKey))

	payout, err := p.api.Payouts.New(params)
	if err != nil {
		return nil, err
	}
	out := mapPayout(payout)
	return &out, nil
}

func mapRefund(refund *stripeapi.Refund) *processordomain.Refund {
	out := &processordomain.Refund{
		ID:          refund.ID,
		AmountMinor: refund.Amount,
		Status:      processordomain.RefundStatus(refund.Status),
	}
	if refund.PaymentIntent != nil {
		out.PaymentIntentID = refund.PaymentIntent.ID
	}
	return out
}

func mapPayout(payout *stripeapi.Payout) processordomain.Payout {
	return processordomain.Payout{
		ID:          payout.ID,
		AmountMinor: payout.Amount,
		Currency:    string(payout.Currency),
		Status:      string(payout.Status),
		Method:      string(payout.Method),
		ArrivalDate: time.Unix(payout.ArrivalDate, 0).UTC(),
		CreatedAt:   time.Unix(payout.Created, 0).UTC(),
	}
}

func idempotencyKey(key string) string {
	if key != "" {
		return key
	}
	return uuid.NewString()
}
