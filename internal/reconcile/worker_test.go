package reconcile

import (
	"testing"
	"time"

	billingdomain "github.com/HWellness/Hive-Wellness-Portal-sub013/internal/billing/domain"
	processordomain "github.com/HWellness/Hive-Wellness-Portal-sub013/internal/processor/domain"
)

func TestSettleRefundSucceeded(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	record := &billingdomain.RefundRecord{Status: billingdomain.RefundRecordStatusPending}
	refund := &processordomain.Refund{Status: processordomain.RefundStatusSucceeded}

	update, result := SettleRefund(record, refund, now)
	if result != "succeeded" {
		t.Fatalf("result = %q, want succeeded", result)
	}
	if update["status"] != billingdomain.RefundRecordStatusSucceeded {
		t.Fatalf("status update = %v", update["status"])
	}
}

func TestSettleRefundFailedRecordsMessage(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	record := &billingdomain.RefundRecord{Status: billingdomain.RefundRecordStatusPending}
	refund := &processordomain.Refund{Status: processordomain.RefundStatusFailed}

	update, result := SettleRefund(record, refund, now)
	if result != "failed" {
		t.Fatalf("result = %q, want failed", result)
	}
	if update["status"] != billingdomain.RefundRecordStatusFailed {
		t.Fatalf("status update = %v", update["status"])
	}
	msg, ok := update["error_message"].(*string)
	if !ok || msg == nil || *msg == "" {
		t.Fatalf("expected error message, got %v", update["error_message"])
	}
}

func TestSettleRefundStillPending(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	record := &billingdomain.RefundRecord{Status: billingdomain.RefundRecordStatusPending}
	refund := &processordomain.Refund{Status: processordomain.RefundStatusPending}

	update, result := SettleRefund(record, refund, now)
	if update != nil {
		t.Fatalf("expected no update for in-flight refund, got %v", update)
	}
	if result != "pending" {
		t.Fatalf("result = %q, want pending", result)
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	if cfg.BatchSize != 25 {
		t.Fatalf("batch size = %d, want 25", cfg.BatchSize)
	}
	if cfg.PollInterval != 30*time.Second {
		t.Fatalf("poll interval = %s, want 30s", cfg.PollInterval)
	}

	cfg = Config{BatchSize: 5, PollInterval: time.Second}.withDefaults()
	if cfg.BatchSize != 5 || cfg.PollInterval != time.Second {
		t.Fatalf("explicit config overridden: %+v", cfg)
	}
}
