package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	billingdomain "github.com/HWellness/Hive-Wellness-Portal-sub013/internal/billing/domain"
	processordomain "github.com/HWellness/Hive-Wellness-Portal-sub013/internal/processor/domain"
)

type fakeProcessor struct {
	intent       *processordomain.PaymentIntent
	intentErr    error
	refundErr    error
	transfers    []processordomain.Transfer
	transfersErr error
	reversalErr  error

	retrieveCalls int
	refundCalls   int
	listCalls     int
	reversalCalls int

	lastRefund   processordomain.CreateRefundInput
	lastReversal processordomain.CreateReversalInput
}

func (f *fakeProcessor) RetrievePaymentIntent(ctx context.Context, id string) (*processordomain.PaymentIntent, error) {
	f.retrieveCalls++
	if f.intentErr != nil {
		return nil, f.intentErr
	}
	return f.intent, nil
}

func (f *fakeProcessor) CreateRefund(ctx context.Context, in processordomain.CreateRefundInput) (*processordomain.Refund, error) {
	f.refundCalls++
	f.lastRefund = in
	if f.refundErr != nil {
		return nil, f.refundErr
	}
	return &processordomain.Refund{
		ID:              "re_1",
		PaymentIntentID: in.PaymentIntentID,
		AmountMinor:     in.AmountMinor,
		Status:          processordomain.RefundStatusSucceeded,
	}, nil
}

func (f *fakeProcessor) RetrieveRefund(ctx context.Context, id string) (*processordomain.Refund, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeProcessor) ListTransfers(ctx context.Context, destinationAccountID string, limit int) ([]processordomain.Transfer, error) {
	f.listCalls++
	if f.transfersErr != nil {
		return nil, f.transfersErr
	}
	return f.transfers, nil
}

func (f *fakeProcessor) CreateTransferReversal(ctx context.Context, in processordomain.CreateReversalInput) (*processordomain.TransferReversal, error) {
	f.reversalCalls++
	f.lastReversal = in
	if f.reversalErr != nil {
		return nil, f.reversalErr
	}
	return &processordomain.TransferReversal{ID: "trr_1", TransferID: in.TransferID, AmountMinor: in.AmountMinor}, nil
}

func (f *fakeProcessor) RetrieveBalance(ctx context.Context, accountID string) (*processordomain.Balance, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeProcessor) RetrieveAccount(ctx context.Context, accountID string) (*processordomain.Account, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeProcessor) ListPayouts(ctx context.Context, accountID string, limit int) ([]processordomain.Payout, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeProcessor) CreatePayout(ctx context.Context, in processordomain.CreatePayoutInput) (*processordomain.Payout, error) {
	return nil, errors.New("not implemented")
}

func succeededIntent() *processordomain.PaymentIntent {
	return &processordomain.PaymentIntent{
		ID:             "pi_1",
		Status:         processordomain.PaymentIntentStatusSucceeded,
		AmountMinor:    10000,
		Currency:       "gbp",
		LatestChargeID: "ch_1",
	}
}

func newTestService(processor processordomain.Processor) billingdomain.Service {
	return &Service{log: zap.NewNop(), processor: processor}
}

func TestExecuteCancellationFullRefund(t *testing.T) {
	fake := &fakeProcessor{intent: succeededIntent()}
	svc := newTestService(fake)

	result, err := svc.ExecuteCancellation(context.Background(), billingdomain.ExecuteRequest{
		PaymentIntentID:    "pi_1",
		TherapistAccountID: "acct_1",
		SessionFee:         decimal.NewFromInt(100),
		Reason:             billingdomain.ReasonTherapistCancelled,
		Timing:             billingdomain.TimingWithin24h,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RefundID != "re_1" {
		t.Fatalf("expected refund id re_1, got %q", result.RefundID)
	}
	if fake.refundCalls != 1 {
		t.Fatalf("expected 1 refund call, got %d", fake.refundCalls)
	}
	if fake.lastRefund.AmountMinor != 10000 {
		t.Fatalf("expected refund of 10000 pence, got %d", fake.lastRefund.AmountMinor)
	}
	if fake.lastRefund.ReasonCode != "requested_by_customer" {
		t.Fatalf("expected requested_by_customer, got %q", fake.lastRefund.ReasonCode)
	}
	if fake.lastRefund.Metadata["cancellation_reason"] != "therapist_cancelled" {
		t.Fatalf("expected reason metadata, got %v", fake.lastRefund.Metadata)
	}
	if fake.lastRefund.IdempotencyKey == "" {
		t.Fatalf("expected idempotency key on refund creation")
	}
	if fake.listCalls != 0 || fake.reversalCalls != 0 {
		t.Fatalf("expected no transfer calls for zero deduction, got list=%d reversal=%d", fake.listCalls, fake.reversalCalls)
	}
}

func TestExecuteCancellationNoRefundInsideWindow(t *testing.T) {
	fake := &fakeProcessor{intent: succeededIntent()}
	svc := newTestService(fake)

	result, err := svc.ExecuteCancellation(context.Background(), billingdomain.ExecuteRequest{
		PaymentIntentID:    "pi_1",
		TherapistAccountID: "acct_1",
		SessionFee:         decimal.NewFromInt(100),
		Reason:             billingdomain.ReasonClientCancelled,
		Timing:             billingdomain.TimingWithin24h,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RefundID != "" {
		t.Fatalf("expected no refund id, got %q", result.RefundID)
	}
	if !result.CancellationFee.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected fee of 100, got %s", result.CancellationFee)
	}
	if fake.refundCalls != 0 {
		t.Fatalf("expected zero refund calls for zero amount, got %d", fake.refundCalls)
	}
	if fake.reversalCalls != 0 {
		t.Fatalf("expected zero reversal calls for zero amount, got %d", fake.reversalCalls)
	}
}

func TestExecuteCancellationRejectsIncompletePayment(t *testing.T) {
	fake := &fakeProcessor{intent: &processordomain.PaymentIntent{
		ID:     "pi_1",
		Status: processordomain.PaymentIntentStatusProcessing,
	}}
	svc := newTestService(fake)

	_, err := svc.ExecuteCancellation(context.Background(), billingdomain.ExecuteRequest{
		PaymentIntentID: "pi_1",
		SessionFee:      decimal.NewFromInt(100),
		Reason:          billingdomain.ReasonClientCancelled,
		Timing:          billingdomain.TimingBefore24h,
	})
	if !errors.Is(err, billingdomain.ErrPaymentNotCompleted) {
		t.Fatalf("expected ErrPaymentNotCompleted, got %v", err)
	}
	if fake.refundCalls != 0 {
		t.Fatalf("expected no refund attempt, got %d calls", fake.refundCalls)
	}
}

func TestExecuteCancellationWrapsProcessorFailure(t *testing.T) {
	upstream := errors.New("card already refunded")
	fake := &fakeProcessor{intent: succeededIntent(), refundErr: upstream}
	svc := newTestService(fake)

	_, err := svc.ExecuteCancellation(context.Background(), billingdomain.ExecuteRequest{
		PaymentIntentID: "pi_1",
		SessionFee:      decimal.NewFromInt(100),
		Reason:          billingdomain.ReasonClientCancelled,
		Timing:          billingdomain.TimingBefore24h,
	})

	var procErr *billingdomain.ProcessingError
	if !errors.As(err, &procErr) {
		t.Fatalf("expected ProcessingError, got %v", err)
	}
	if procErr.Stage != "create_refund" {
		t.Fatalf("expected stage create_refund, got %q", procErr.Stage)
	}
	if !errors.Is(err, upstream) {
		t.Fatalf("expected wrapped upstream error")
	}
}

func TestExecuteCancellationRequiresPaymentIntent(t *testing.T) {
	svc := newTestService(&fakeProcessor{})
	_, err := svc.ExecuteCancellation(context.Background(), billingdomain.ExecuteRequest{
		SessionFee: decimal.NewFromInt(100),
		Reason:     billingdomain.ReasonClientCancelled,
		Timing:     billingdomain.TimingBefore24h,
	})
	if !errors.Is(err, billingdomain.ErrInvalidPaymentIntent) {
		t.Fatalf("expected ErrInvalidPaymentIntent, got %v", err)
	}
}
