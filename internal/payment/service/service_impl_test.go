package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	auditdomain "github.com/HWellness/Hive-Wellness-Portal-sub013/internal/audit/domain"
	billingdomain "github.com/HWellness/Hive-Wellness-Portal-sub013/internal/billing/domain"
	bookingdomain "github.com/HWellness/Hive-Wellness-Portal-sub013/internal/booking/domain"
	bookingrepo "github.com/HWellness/Hive-Wellness-Portal-sub013/internal/booking/repository"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/clock"
	ledgerdomain "github.com/HWellness/Hive-Wellness-Portal-sub013/internal/ledger/domain"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/payment/domain"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/payment/repository"
)

type fakeAdapter struct {
	event *domain.PaymentEvent
	err   error
}

func (f *fakeAdapter) Provider() string { return "stripe" }

func (f *fakeAdapter) ParseWebhook(_ []byte, _ string) (*domain.PaymentEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

type fakeLedger struct {
	entries []string
}

func (f *fakeLedger) EnsureAccount(_ context.Context, code string, _ string) (snowflake.ID, error) {
	return snowflake.ID(int64(len(code))), nil
}

func (f *fakeLedger) CreateEntry(_ context.Context, sourceType string, _ snowflake.ID, _ string, _ time.Time, _ []ledgerdomain.LedgerEntryLine) error {
	f.entries = append(f.entries, sourceType)
	return nil
}

type fakeAudit struct{ actions []string }

func (f *fakeAudit) AuditLog(_ context.Context, _ auditdomain.ActorType, _ *string, action string, _ string, _ *string, _ map[string]any) error {
	f.actions = append(f.actions, action)
	return nil
}

func (f *fakeAudit) List(_ context.Context, _ auditdomain.ListFilter) ([]*auditdomain.AuditLog, error) {
	return nil, nil
}

var testDBSeq int

func newTestService(t *testing.T, adapter domain.WebhookAdapter) (*Service, *gorm.DB, *fakeLedger, *fakeAudit) {
	t.Helper()
	testDBSeq++
	dsn := fmt.Sprintf("file:payment_svc_%d?mode=memory&cache=shared", testDBSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&bookingdomain.Booking{}, &billingdomain.RefundRecord{}, &domain.EventRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	node, err := snowflake.NewNode(2)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	ledger := &fakeLedger{}
	audit := &fakeAudit{}
	svc := &Service{
		db:       db,
		log:      zap.NewNop(),
		genID:    node,
		clock:    clock.Fixed{At: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)},
		adapter:  adapter,
		repo:     repository.Provide(),
		bookings: bookingrepo.Provide(),
		ledger:   ledger,
		audit:    audit,
	}
	return svc, db, ledger, audit
}

func seedBooking(t *testing.T, db *gorm.DB, node *snowflake.Node, paymentIntentID string) *bookingdomain.Booking {
	t.Helper()
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	booking := &bookingdomain.Booking{
		ID:                 node.Generate(),
		ClientID:           node.Generate(),
		TherapistID:        node.Generate(),
		TherapistAccountID: "acct_test_1",
		SessionStart:       now.Add(72 * time.Hour),
		DurationMinutes:    50,
		SessionFee:         decimal.RequireFromString("80.00"),
		Currency:           "gbp",
		Status:             bookingdomain.BookingStatusPending,
		PaymentIntentID:    paymentIntentID,
		PaymentStatus:      bookingdomain.PaymentStatusPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := db.Create(booking).Error; err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return booking
}

func TestIngestPaymentSucceededConfirmsBooking(t *testing.T) {
	adapter := &fakeAdapter{event: &domain.PaymentEvent{
		ProviderEventID: "evt_1",
		Type:            domain.EventPaymentSucceeded,
		PaymentIntentID: "pi_1",
		Amount:          8000,
		Currency:        "gbp",
		OccurredAt:      time.Date(2026, 3, 1, 9, 59, 0, 0, time.UTC),
	}}
	svc, db, ledger, audit := newTestService(t, adapter)
	booking := seedBooking(t, db, svc.genID, "pi_1")

	result, err := svc.IngestWebhook(context.Background(), []byte(`{}`), "sig")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if result.Duplicate {
		t.Fatalf("expected first delivery, got duplicate")
	}

	var stored bookingdomain.Booking
	if err := db.First(&stored, "id = ?", booking.ID).Error; err != nil {
		t.Fatalf("load booking: %v", err)
	}
	if stored.Status != bookingdomain.BookingStatusConfirmed {
		t.Fatalf("status = %s, want confirmed", stored.Status)
	}
	if stored.PaymentStatus != bookingdomain.PaymentStatusSucceeded {
		t.Fatalf("payment status = %s, want succeeded", stored.PaymentStatus)
	}

	if len(ledger.entries) != 1 || ledger.entries[0] != ledgerdomain.SourceTypePaymentEvent {
		t.Fatalf("ledger entries = %v", ledger.entries)
	}
	if len(audit.actions) != 1 || audit.actions[0] != "payment.received" {
		t.Fatalf("audit actions = %v", audit.actions)
	}

	var record domain.EventRecord
	if err := db.First(&record, "provider_event_id = ?", "evt_1").Error; err != nil {
		t.Fatalf("load event record: %v", err)
	}
	if record.Status != domain.EventRecordStatusProcessed {
		t.Fatalf("event status = %s, want processed", record.Status)
	}
}

func TestIngestDuplicateEventIsNoOp(t *testing.T) {
	adapter := &fakeAdapter{event: &domain.PaymentEvent{
		ProviderEventID: "evt_dup",
		Type:            domain.EventPaymentSucceeded,
		PaymentIntentID: "pi_dup",
		Amount:          8000,
		Currency:        "gbp",
	}}
	svc, db, ledger, _ := newTestService(t, adapter)
	seedBooking(t, db, svc.genID, "pi_dup")

	if _, err := svc.IngestWebhook(context.Background(), []byte(`{}`), "sig"); err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	result, err := svc.IngestWebhook(context.Background(), []byte(`{}`), "sig")
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	if !result.Duplicate {
		t.Fatalf("expected duplicate result")
	}
	if len(ledger.entries) != 1 {
		t.Fatalf("ledger entries = %d, want 1 (no double settle)", len(ledger.entries))
	}
}

func TestIngestChargeRefundedSettlesRefundRows(t *testing.T) {
	adapter := &fakeAdapter{event: &domain.PaymentEvent{
		ProviderEventID: "evt_ref",
		Type:            domain.EventChargeRefunded,
		PaymentIntentID: "pi_ref",
		RefundID:        "re_ref",
		Amount:          8000,
		Currency:        "gbp",
	}}
	svc, db, _, audit := newTestService(t, adapter)
	booking := seedBooking(t, db, svc.genID, "pi_ref")

	refund := &billingdomain.RefundRecord{
		ID:               svc.genID.Generate(),
		BookingID:        booking.ID,
		PaymentIntentID:  "pi_ref",
		ProviderRefundID: "re_ref",
		Amount:           decimal.RequireFromString("80.00"),
		CancellationFee:  decimal.Zero,
		Currency:         "gbp",
		Reason:           "client_cancelled",
		Status:           billingdomain.RefundRecordStatusPending,
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}
	if err := db.Create(refund).Error; err != nil {
		t.Fatalf("seed refund: %v", err)
	}

	if _, err := svc.IngestWebhook(context.Background(), []byte(`{}`), "sig"); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	var stored billingdomain.RefundRecord
	if err := db.First(&stored, "id = ?", refund.ID).Error; err != nil {
		t.Fatalf("load refund: %v", err)
	}
	if stored.Status != billingdomain.RefundRecordStatusSucceeded {
		t.Fatalf("refund status = %s, want succeeded", stored.Status)
	}
	if len(audit.actions) != 1 || audit.actions[0] != "payment.refunded" {
		t.Fatalf("audit actions = %v", audit.actions)
	}
}

func TestIngestInvalidSignatureRejected(t *testing.T) {
	adapter := &fakeAdapter{err: domain.ErrInvalidSignature}
	svc, _, _, _ := newTestService(t, adapter)

	_, err := svc.IngestWebhook(context.Background(), []byte(`{}`), "bad")
	if !errors.Is(err, domain.ErrInvalidSignature) {
		t.Fatalf("err = %v, want invalid_webhook_signature", err)
	}
}

func TestIngestIgnoredEventType(t *testing.T) {
	adapter := &fakeAdapter{err: domain.ErrEventIgnored}
	svc, _, _, _ := newTestService(t, adapter)

	_, err := svc.IngestWebhook(context.Background(), []byte(`{}`), "sig")
	if !errors.Is(err, domain.ErrEventIgnored) {
		t.Fatalf("err = %v, want event_type_ignored", err)
	}
}

func TestIngestEmptyPayloadRejected(t *testing.T) {
	svc, _, _, _ := newTestService(t, &fakeAdapter{})

	_, err := svc.IngestWebhook(context.Background(), nil, "sig")
	if !errors.Is(err, domain.ErrEmptyPayload) {
		t.Fatalf("err = %v, want empty_webhook_payload", err)
	}
}
