package service

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	auditdomain "github.com/HWellness/Hive-Wellness-Portal-sub013/internal/audit/domain"
	billingdomain "github.com/HWellness/Hive-Wellness-Portal-sub013/internal/billing/domain"
	bookingdomain "github.com/HWellness/Hive-Wellness-Portal-sub013/internal/booking/domain"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/clock"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/events"
	ledgerdomain "github.com/HWellness/Hive-Wellness-Portal-sub013/internal/ledger/domain"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/money"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/payment/domain"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Adapter  domain.WebhookAdapter
	Repo     domain.Repository
	Bookings bookingdomain.Repository
	Ledger   ledgerdomain.Service
	Audit    auditdomain.Service
	Outbox   *events.Outbox `optional:"true"`
}

// Service ingests payment provider webhooks idempotently and settles
// their effects against bookings, refund records, and the ledger.
type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	adapter  domain.WebhookAdapter
	repo     domain.Repository
	bookings bookingdomain.Repository
	ledger   ledgerdomain.Service
	audit    auditdomain.Service
	outbox   *events.Outbox
}

func NewService(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("payment.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		adapter:  p.Adapter,
		repo:     p.Repo,
		bookings: p.Bookings,
		ledger:   p.Ledger,
		audit:    p.Audit,
		outbox:   p.Outbox,
	}
}

func (s *Service) IngestWebhook(ctx context.Context, payload []byte, signature string) (*domain.IngestResult, error) {
	if len(payload) == 0 {
		return nil, domain.ErrEmptyPayload
	}

	event, err := s.adapter.ParseWebhook(payload, signature)
	if err != nil {
		if !errors.Is(err, domain.ErrEventIgnored) {
			s.log.Warn("webhook rejected", zap.Error(err))
		}
		return nil, err
	}

	record := &domain.EventRecord{
		ID:              s.genID.Generate(),
		Provider:        s.adapter.Provider(),
		ProviderEventID: event.ProviderEventID,
		EventType:       string(event.Type),
		Status:          domain.EventRecordStatusReceived,
		Payload:         datatypes.JSONMap(event.Raw),
		CreatedAt:       s.clock.Now(),
	}
	if record.Payload == nil {
		record.Payload = datatypes.JSONMap{}
	}

	if err := s.repo.InsertEvent(ctx, s.db, record); err != nil {
		if errors.Is(err, domain.ErrEventAlreadyProcessed) {
			s.log.Info("duplicate webhook event skipped",
				zap.String("event_id", event.ProviderEventID),
			)
			return &domain.IngestResult{
				EventID:   event.ProviderEventID,
				EventType: event.Type,
				Duplicate: true,
			}, nil
		}
		return nil, err
	}

	if err := s.apply(ctx, event); err != nil {
		if markErr := s.repo.MarkFailed(ctx, s.db, record, s.clock.Now(), err); markErr != nil {
			s.log.Error("mark event failed", zap.Error(markErr))
		}
		return nil, err
	}

	if err := s.repo.MarkProcessed(ctx, s.db, record, s.clock.Now()); err != nil {
		return nil, err
	}
	return &domain.IngestResult{
		EventID:   event.ProviderEventID,
		EventType: event.Type,
	}, nil
}

func (s *Service) apply(ctx context.Context, event *domain.PaymentEvent) error {
	switch event.Type {
	case domain.EventPaymentSucceeded:
		return s.settlePayment(ctx, event)
	case domain.EventChargeRefunded:
		return s.settleRefund(ctx, event)
	}
	return domain.ErrEventIgnored
}

// settlePayment confirms the booking behind a succeeded payment and
// posts the cash receipt to the ledger.
func (s *Service) settlePayment(ctx context.Context, event *domain.PaymentEvent) error {
	booking, err := s.bookings.FindByPaymentIntent(ctx, s.db, event.PaymentIntentID)
	if err != nil {
		if errors.Is(err, bookingdomain.ErrBookingNotFound) {
			s.log.Warn("payment event for unknown booking",
				zap.String("payment_intent_id", event.PaymentIntentID),
			)
			return nil
		}
		return err
	}
	if booking.PaymentStatus == bookingdomain.PaymentStatusSucceeded {
		return nil
	}

	if err := s.bookings.MarkPaid(ctx, s.db, booking.ID); err != nil {
		return err
	}

	s.postEntry(ctx, ledgerdomain.SourceTypePaymentEvent, booking.ID, booking.Currency, event.OccurredAt,
		event.Amount,
		ledgerdomain.AccountCodeCashClearing,
		ledgerdomain.AccountCodeDeferredSessionRevenue,
	)

	targetID := booking.ID.String()
	_ = s.audit.AuditLog(ctx, auditdomain.ActorTypeSystem, nil, "payment.received", "booking", &targetID, map[string]any{
		"payment_intent_id": event.PaymentIntentID,
		"amount_minor":      event.Amount,
		"currency":          event.Currency,
	})

	if s.outbox != nil {
		if err := s.outbox.Publish(ctx, events.Event{
			Type:      events.EventPaymentSettled,
			DedupeKey: "payment_settled:" + event.PaymentIntentID,
			Payload: map[string]any{
				"booking_id":        booking.ID.String(),
				"payment_intent_id": event.PaymentIntentID,
				"amount_minor":      event.Amount,
			},
		}); err != nil {
			s.log.Warn("publish payment settled event", zap.Error(err))
		}
	}
	return nil
}

// settleRefund finalizes pending refund rows once the provider confirms
// the refund landed.
func (s *Service) settleRefund(ctx context.Context, event *domain.PaymentEvent) error {
	now := s.clock.Now()
	query := s.db.WithContext(ctx).
		Model(&billingdomain.RefundRecord{}).
		Where("status = ?", billingdomain.RefundRecordStatusPending)
	if event.RefundID != "" {
		query = query.Where("provider_refund_id = ?", event.RefundID)
	} else {
		query = query.Where("payment_intent_id = ?", event.PaymentIntentID)
	}

	result := query.Updates(map[string]any{
		"status":     billingdomain.RefundRecordStatusSucceeded,
		"updated_at": now,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		s.log.Info("refund event matched no pending refund rows",
			zap.String("refund_id", event.RefundID),
			zap.String("payment_intent_id", event.PaymentIntentID),
		)
		return nil
	}

	targetID := event.RefundID
	if targetID == "" {
		targetID = event.PaymentIntentID
	}
	_ = s.audit.AuditLog(ctx, auditdomain.ActorTypeSystem, nil, "payment.refunded", "refund", &targetID, map[string]any{
		"payment_intent_id": event.PaymentIntentID,
		"amount_minor":      event.Amount,
		"currency":          event.Currency,
	})

	if s.outbox != nil {
		if err := s.outbox.Publish(ctx, events.Event{
			Type:      events.EventRefundSettled,
			DedupeKey: "refund_settled:" + targetID,
			Payload: map[string]any{
				"refund_id":         event.RefundID,
				"payment_intent_id": event.PaymentIntentID,
				"amount_minor":      event.Amount,
			},
		}); err != nil {
			s.log.Warn("publish refund settled event", zap.Error(err))
		}
	}
	return nil
}

func (s *Service) postEntry(
	ctx context.Context,
	sourceType string,
	sourceID snowflake.ID,
	currency string,
	occurredAt time.Time,
	amountMinor int64,
	debitCode, creditCode string,
) {
	if amountMinor <= 0 {
		return
	}
	if currency == "" {
		currency = money.DefaultCurrency
	}
	if occurredAt.IsZero() {
		occurredAt = s.clock.Now()
	}

	debitID, err := s.ledger.EnsureAccount(ctx, debitCode, debitCode)
	if err != nil {
		s.log.Error("ensure ledger account", zap.String("code", debitCode), zap.Error(err))
		return
	}
	creditID, err := s.ledger.EnsureAccount(ctx, creditCode, creditCode)
	if err != nil {
		s.log.Error("ensure ledger account", zap.String("code", creditCode), zap.Error(err))
		return
	}
	err = s.ledger.CreateEntry(ctx, sourceType, sourceID, currency, occurredAt, []ledgerdomain.LedgerEntryLine{
		{AccountID: debitID, Direction: ledgerdomain.LedgerEntryDirectionDebit, Amount: amountMinor},
		{AccountID: creditID, Direction: ledgerdomain.LedgerEntryDirectionCredit, Amount: amountMinor},
	})
	if err != nil {
		s.log.Error("create ledger entry",
			zap.String("source_type", sourceType),
			zap.Error(err),
		)
	}
}
