package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	auditdomain "github.com/HWellness/Hive-Wellness-Portal-sub013/internal/audit/domain"
	billingdomain "github.com/HWellness/Hive-Wellness-Portal-sub013/internal/billing/domain"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/booking/domain"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/clock"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/events"
	ledgerdomain "github.com/HWellness/Hive-Wellness-Portal-sub013/internal/ledger/domain"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/money"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	Billing billingdomain.Service
	Ledger  ledgerdomain.Service
	Audit   auditdomain.Service
	Outbox  *events.Outbox `optional:"true"`
}

// Service owns the booking lifecycle, including the cancellation flow
// that drives refunds and ledger postings.
type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	billing billingdomain.Service
	ledger  ledgerdomain.Service
	audit   auditdomain.Service
	outbox  *events.Outbox
}

func NewService(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("booking.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		billing: p.Billing,
		ledger:  p.Ledger,
		audit:   p.Audit,
		outbox:  p.Outbox,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateBookingRequest) (*domain.Booking, error) {
	if req.ClientID == 0 || req.TherapistID == 0 {
		return nil, domain.ErrInvalidBooking
	}
	if req.SessionStart.IsZero() || !req.SessionFee.IsPositive() {
		return nil, domain.ErrInvalidBooking
	}

	currency := strings.ToLower(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = money.DefaultCurrency
	}
	duration := req.DurationMinutes
	if duration <= 0 {
		duration = 50
	}

	now := s.clock.Now()
	booking := &domain.Booking{
		ID:                 s.genID.Generate(),
		ClientID:           req.ClientID,
		TherapistID:        req.TherapistID,
		TherapistAccountID: strings.TrimSpace(req.TherapistAccountID),
		SessionStart:       req.SessionStart.UTC(),
		DurationMinutes:    duration,
		SessionFee:         req.SessionFee.Round(2),
		Currency:           currency,
		Status:             domain.BookingStatusPending,
		PaymentIntentID:    strings.TrimSpace(req.PaymentIntentID),
		PaymentStatus:      domain.PaymentStatusPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Insert(ctx, s.db, booking); err != nil {
		s.log.Error("insert booking", zap.Error(err))
		return nil, err
	}
	return booking, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*domain.Booking, error) {
	return s.repo.FindByID(ctx, s.db, id)
}

// Cancel runs the full cancellation flow:
//
//  1. Lock the booking and validate it is cancellable.
//  2. Classify the timing from the clock and execute the policy outcome
//     against the payment processor. The processor call runs outside any
//     transaction so a slow provider never holds row locks.
//  3. Re-lock, mark the booking cancelled, persist the refund record, and
//     post the ledger entries in one transaction.
//
// The processor operations are idempotent (keyed on the payment intent),
// so a crash between steps 2 and 3 is safe to retry.
func (s *Service) Cancel(ctx context.Context, req domain.CancelRequest) (*domain.CancelResult, error) {
	if !req.Reason.Valid() {
		return nil, billingdomain.ErrInvalidCancellationReason
	}

	var booking *domain.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := s.repo.LockByID(ctx, tx, req.BookingID)
		if err != nil {
			return err
		}
		if found.Status == domain.BookingStatusCancelled {
			return domain.ErrAlreadyCancelled
		}
		if found.Status == domain.BookingStatusCompleted {
			return domain.ErrNotCancellable
		}
		if found.PaymentIntentID == "" {
			return domain.ErrMissingPaymentLink
		}
		booking = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	hoursUntil := booking.SessionStart.Sub(now).Hours()
	timing := billingdomain.ClassifyTiming(hoursUntil)
	policy := billingdomain.RefundPolicyFor(req.Reason)

	result, err := s.billing.ExecuteCancellation(ctx, billingdomain.ExecuteRequest{
		PaymentIntentID:    booking.PaymentIntentID,
		TherapistAccountID: booking.TherapistAccountID,
		SessionFee:         booking.SessionFee,
		Reason:             req.Reason,
		Timing:             timing,
		RefundPolicy:       policy,
	})
	if err != nil {
		s.log.Error("execute cancellation",
			zap.Int64("booking_id", booking.ID.Int64()),
			zap.String("reason", string(req.Reason)),
			zap.Error(err),
		)
		return nil, err
	}

	refundRecord := s.buildRefundRecord(booking, req.Reason, result, now)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := s.repo.LockByID(ctx, tx, booking.ID)
		if err != nil {
			return err
		}
		if locked.Status == domain.BookingStatusCancelled {
			return domain.ErrAlreadyCancelled
		}

		paymentStatus := domain.PaymentStatusSucceeded
		if result.ClientRefund.IsPositive() {
			paymentStatus = domain.PaymentStatusRefunded
		}
		if err := s.repo.MarkCancelled(ctx, tx, booking.ID, domain.CancellationUpdate{
			Reason:        string(req.Reason),
			CancelledAt:   now,
			PaymentStatus: paymentStatus,
		}); err != nil {
			return err
		}

		if refundRecord != nil {
			if err := tx.Create(refundRecord).Error; err != nil {
				return err
			}
		}

		if s.outbox != nil {
			if err := s.outbox.PublishTx(ctx, tx, events.Event{
				Type:      events.EventBookingCancelled,
				DedupeKey: "booking_cancelled:" + booking.ID.String(),
				Payload: map[string]any{
					"booking_id":       booking.ID.String(),
					"reason":           string(req.Reason),
					"timing":           string(timing),
					"client_refund":    result.ClientRefund.StringFixed(2),
					"cancellation_fee": result.CancellationFee.StringFixed(2),
				},
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.postCancellationEntries(ctx, booking, result, now)

	actorID := req.ActorID
	s.recordAudit(ctx, req, booking, timing, result, &actorID)

	return &domain.CancelResult{
		BookingID:    booking.ID,
		Timing:       timing,
		RefundPolicy: policy,
		Outcome:      result.Outcome,
		RefundID:     result.RefundID,
		ReversalID:   result.ReversalID,
	}, nil
}

func (s *Service) buildRefundRecord(
	booking *domain.Booking,
	reason billingdomain.CancellationReason,
	result *billingdomain.ExecuteResult,
	now time.Time,
) *billingdomain.RefundRecord {
	if result.RefundID == "" {
		return nil
	}

	status := billingdomain.RefundRecordStatusPending
	if result.RefundStatus == "succeeded" {
		status = billingdomain.RefundRecordStatusSucceeded
	}
	record := &billingdomain.RefundRecord{
		ID:               s.genID.Generate(),
		BookingID:        booking.ID,
		PaymentIntentID:  booking.PaymentIntentID,
		ProviderRefundID: result.RefundID,
		Amount:           result.ClientRefund,
		CancellationFee:  result.CancellationFee,
		Currency:         booking.Currency,
		Reason:           string(reason),
		Status:           status,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if result.ReversalID != "" {
		reversal := result.ReversalID
		record.ReversalID = &reversal
	}
	return record
}

// postCancellationEntries writes the double-entry postings for the
// cancellation. Ledger failures are logged, not returned: the money has
// already moved at the processor and the reconcile worker re-derives
// ledger state from refund rows.
func (s *Service) postCancellationEntries(
	ctx context.Context,
	booking *domain.Booking,
	result *billingdomain.ExecuteResult,
	now time.Time,
) {
	if result.ClientRefund.IsPositive() {
		s.postEntry(ctx, ledgerdomain.SourceTypeRefund, booking.ID, booking.Currency, now,
			result.ClientRefund,
			ledgerdomain.AccountCodeDeferredSessionRevenue,
			ledgerdomain.AccountCodeCashClearing,
		)
	}
	if result.CancellationFee.IsPositive() {
		s.postEntry(ctx, ledgerdomain.SourceTypeCancellationFee, booking.ID, booking.Currency, now,
			result.CancellationFee,
			ledgerdomain.AccountCodeDeferredSessionRevenue,
			ledgerdomain.AccountCodeCancellationRevenue,
		)
	}
	if result.TherapistDeduction.IsPositive() {
		s.postEntry(ctx, ledgerdomain.SourceTypeTransferReversal, booking.ID, booking.Currency, now,
			result.TherapistDeduction,
			ledgerdomain.AccountCodeCashClearing,
			ledgerdomain.AccountCodeTherapistPayable,
		)
	}
}

func (s *Service) postEntry(
	ctx context.Context,
	sourceType string,
	sourceID snowflake.ID,
	currency string,
	occurredAt time.Time,
	amount decimal.Decimal,
	debitCode, creditCode string,
) {
	debitID, err := s.ledger.EnsureAccount(ctx, debitCode, accountName(debitCode))
	if err != nil {
		s.log.Error("ensure ledger account", zap.String("code", debitCode), zap.Error(err))
		return
	}
	creditID, err := s.ledger.EnsureAccount(ctx, creditCode, accountName(creditCode))
	if err != nil {
		s.log.Error("ensure ledger account", zap.String("code", creditCode), zap.Error(err))
		return
	}

	minor := money.ToMinorUnits(amount)
	err = s.ledger.CreateEntry(ctx, sourceType, sourceID, currency, occurredAt, []ledgerdomain.LedgerEntryLine{
		{AccountID: debitID, Direction: ledgerdomain.LedgerEntryDirectionDebit, Amount: minor},
		{AccountID: creditID, Direction: ledgerdomain.LedgerEntryDirectionCredit, Amount: minor},
	})
	if err != nil {
		s.log.Error("create ledger entry",
			zap.String("source_type", sourceType),
			zap.Int64("source_id", sourceID.Int64()),
			zap.Error(err),
		)
	}
}

func accountName(code string) string {
	switch code {
	case ledgerdomain.AccountCodeCashClearing:
		return "Cash Clearing"
	case ledgerdomain.AccountCodeDeferredSessionRevenue:
		return "Deferred Session Revenue"
	case ledgerdomain.AccountCodeCancellationRevenue:
		return "Cancellation Revenue"
	case ledgerdomain.AccountCodeTherapistPayable:
		return "Therapist Payable"
	}
	return code
}

func (s *Service) recordAudit(
	ctx context.Context,
	req domain.CancelRequest,
	booking *domain.Booking,
	timing billingdomain.CancellationTiming,
	result *billingdomain.ExecuteResult,
	actorID *string,
) {
	actorType := auditdomain.ActorType(req.ActorType)
	if actorType == "" {
		actorType = auditdomain.ActorTypeSystem
	}
	targetID := booking.ID.String()
	_ = s.audit.AuditLog(ctx, actorType, actorID, "booking.cancelled", "booking", &targetID, map[string]any{
		"reason":           string(req.Reason),
		"timing":           string(timing),
		"client_refund":    result.ClientRefund.StringFixed(2),
		"cancellation_fee": result.CancellationFee.StringFixed(2),
		"refund_id":        result.RefundID,
		"reversal_id":      result.ReversalID,
	})
}
