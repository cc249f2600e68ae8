package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"

	billingdomain "github.com/HWellness/Hive-Wellness-Portal-sub013/internal/billing/domain"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/money"
	processordomain "github.com/HWellness/Hive-Wellness-Portal-sub013/internal/processor/domain"
)

// transferLookupLimit bounds the scan for the transfer backing a deduction.
const transferLookupLimit = 100

type Params struct {
	fx.In

	Log       *zap.Logger
	Processor processordomain.Processor
}

// Service executes cancellations against the payment processor.
type Service struct {
	log       *zap.Logger
	processor processordomain.Processor
}

func NewService(p Params) billingdomain.Service {
	return &Service{
		log:       p.Log.Named("billing.service"),
		processor: p.Processor,
	}
}

// ExecuteCancellation validates the payment, computes the policy outcome,
// and issues the refund and/or transfer reversal. Amounts of zero produce
// no processor call. Processor failures are wrapped and not retried.
func (s *Service) ExecuteCancellation(ctx context.Context, req billingdomain.ExecuteRequest) (*billingdomain.ExecuteResult, error) {
	if strings.TrimSpace(req.PaymentIntentID) == "" {
		return nil, billingdomain.ErrInvalidPaymentIntent
	}

	intent, err := s.processor.RetrievePaymentIntent(ctx, req.PaymentIntentID)
	if err != nil {
		return nil, &billingdomain.ProcessingError{Stage: "retrieve_payment_intent", Err: err}
	}
	if intent.Status != processordomain.PaymentIntentStatusSucceeded {
		return nil, billingdomain.ErrPaymentNotCompleted
	}

	outcome, err := billingdomain.ComputeOutcome(req.SessionFee, req.Reason, req.Timing)
	if err != nil {
		return nil, err
	}

	result := &billingdomain.ExecuteResult{Outcome: outcome}

	if outcome.ClientRefund.IsPositive() {
		refund, err := s.processor.CreateRefund(ctx, processordomain.CreateRefundInput{
			PaymentIntentID: intent.ID,
			AmountMinor:     money.ToMinorUnits(outcome.ClientRefund),
			ReasonCode:      billingdomain.RefundReasonCode(req.Reason),
			Metadata: map[string]string{
				"cancellation_reason": string(req.Reason),
				"original_fee":        req.SessionFee.StringFixed(2),
			},
			IdempotencyKey: "cancel-refund-" + intent.ID,
		})
		if err != nil {
			return nil, &billingdomain.ProcessingError{Stage: "create_refund", Err: err}
		}
		result.RefundID = refund.ID
		result.RefundStatus = string(refund.Status)
	}

	if outcome.TherapistDeduction.IsPositive() {
		reversalID, err := s.reverseTransfer(ctx, req.TherapistAccountID, intent, outcome.TherapistDeduction)
		if err != nil {
			return nil, err
		}
		result.ReversalID = reversalID
	}

	return result, nil
}

// reverseTransfer locates the transfer correlated to the payment and claws
// back the deduction. A missing transfer means there are no transferred
// funds to reverse, so the deduction is skipped.
func (s *Service) reverseTransfer(ctx context.Context, accountID string, intent *processordomain.PaymentIntent, deduction decimal.Decimal) (string, error) {
	transfers, err := s.processor.ListTransfers(ctx, accountID, transferLookupLimit)
	if err != nil {
		return "", &billingdomain.ProcessingError{Stage: "list_transfers", Err: err}
	}

	transfer := matchTransfer(transfers, intent)
	if transfer == nil {
		s.log.Warn("no transfer found for therapist deduction",
			zap.String("payment_intent_id", intent.ID),
			zap.String("account_id", accountID),
		)
		return "", nil
	}

	reversal, err := s.processor.CreateTransferReversal(ctx, processordomain.CreateReversalInput{
		TransferID:     transfer.ID,
		AmountMinor:    money.ToMinorUnits(deduction),
		Metadata:       map[string]string{"reason": "cancellation_fee"},
		IdempotencyKey: "cancel-reversal-" + transfer.ID,
	})
	if err != nil {
		return "", &billingdomain.ProcessingError{Stage: "create_transfer_reversal", Err: err}
	}
	return reversal.ID, nil
}

func matchTransfer(transfers []processordomain.Transfer, intent *processordomain.PaymentIntent) *processordomain.Transfer {
	for i := range transfers {
		t := &transfers[i]
		if t.Metadata["payment_intent_id"] == intent.ID {
			return t
		}
		if intent.LatestChargeID != "" && t.SourceChargeID == intent.LatestChargeID {
			return t
		}
	}
	return nil
}
