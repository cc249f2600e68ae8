package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func fee(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestTherapistCancelledRefundsInFullRegardlessOfTiming(t *testing.T) {
	for _, timing := range []CancellationTiming{TimingBefore24h, TimingWithin24h, TimingAfterStart} {
		outcome, err := ComputeOutcome(fee("100"), ReasonTherapistCancelled, timing)
		if err != nil {
			t.Fatalf("timing %s: unexpected error %v", timing, err)
		}
		if !outcome.ClientRefund.Equal(fee("100")) {
			t.Fatalf("timing %s: expected full refund, got %s", timing, outcome.ClientRefund)
		}
		if !outcome.CancellationFee.IsZero() || !outcome.PlatformFee.IsZero() || !outcome.TherapistDeduction.IsZero() {
			t.Fatalf("timing %s: expected zero fees and deduction, got %+v", timing, outcome)
		}
	}
}

func TestLateCancellationRetainsFullFee(t *testing.T) {
	for _, reason := range []CancellationReason{ReasonClientCancelled, ReasonMutualCancellation} {
		for _, timing := range []CancellationTiming{TimingWithin24h, TimingAfterStart} {
			outcome, err := ComputeOutcome(fee("100"), reason, timing)
			if err != nil {
				t.Fatalf("%s/%s: unexpected error %v", reason, timing, err)
			}
			if !outcome.ClientRefund.IsZero() {
				t.Fatalf("%s/%s: expected zero refund, got %s", reason, timing, outcome.ClientRefund)
			}
			if !outcome.CancellationFee.Equal(fee("100")) || !outcome.PlatformFee.Equal(fee("100")) {
				t.Fatalf("%s/%s: expected full fee retained, got %+v", reason, timing, outcome)
			}
		}
	}
}

func TestEarlyCancellationRefundsInFull(t *testing.T) {
	for _, reason := range []CancellationReason{ReasonClientCancelled, ReasonMutualCancellation} {
		outcome, err := ComputeOutcome(fee("100"), reason, TimingBefore24h)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", reason, err)
		}
		if !outcome.ClientRefund.Equal(fee("100")) || !outcome.CancellationFee.IsZero() {
			t.Fatalf("%s: expected full refund with no fee, got %+v", reason, outcome)
		}
	}
}

func TestFeeFullyAccountedFor(t *testing.T) {
	fees := []string{"45.50", "80", "123.75"}
	reasons := []CancellationReason{ReasonClientCancelled, ReasonMutualCancellation, ReasonNoShow}
	timings := []CancellationTiming{TimingBefore24h, TimingWithin24h, TimingAfterStart}

	for _, f := range fees {
		for _, reason := range reasons {
			for _, timing := range timings {
				outcome, err := ComputeOutcome(fee(f), reason, timing)
				if err != nil {
					t.Fatalf("%s/%s/%s: unexpected error %v", f, reason, timing, err)
				}
				total := outcome.ClientRefund.Add(outcome.CancellationFee)
				if !total.Equal(fee(f)) {
					t.Fatalf("%s/%s/%s: refund %s + fee %s != session fee", f, reason, timing, outcome.ClientRefund, outcome.CancellationFee)
				}
				if outcome.ClientRefund.IsNegative() || outcome.ClientRefund.GreaterThan(fee(f)) {
					t.Fatalf("%s/%s/%s: refund %s out of range", f, reason, timing, outcome.ClientRefund)
				}
			}
		}
	}
}

func TestComputeOutcomeRejectsInvalidInputs(t *testing.T) {
	if _, err := ComputeOutcome(decimal.Zero, ReasonClientCancelled, TimingBefore24h); err != ErrInvalidSessionFee {
		t.Fatalf("expected ErrInvalidSessionFee, got %v", err)
	}
	if _, err := ComputeOutcome(fee("-5"), ReasonClientCancelled, TimingBefore24h); err != ErrInvalidSessionFee {
		t.Fatalf("expected ErrInvalidSessionFee, got %v", err)
	}
	if _, err := ComputeOutcome(fee("10"), CancellationReason("whim"), TimingBefore24h); err != ErrInvalidCancellationReason {
		t.Fatalf("expected ErrInvalidCancellationReason, got %v", err)
	}
	if _, err := ComputeOutcome(fee("10"), ReasonClientCancelled, CancellationTiming("soonish")); err != ErrInvalidCancellationTiming {
		t.Fatalf("expected ErrInvalidCancellationTiming, got %v", err)
	}
}

func TestClassifyTiming(t *testing.T) {
	cases := []struct {
		hours float64
		want  CancellationTiming
	}{
		{25, TimingBefore24h},
		{24, TimingWithin24h},
		{0.01, TimingWithin24h},
		{0, TimingAfterStart},
		{-1, TimingAfterStart},
	}
	for _, tc := range cases {
		if got := ClassifyTiming(tc.hours); got != tc.want {
			t.Fatalf("ClassifyTiming(%v): expected %s, got %s", tc.hours, tc.want, got)
		}
	}
}

func TestRefundPolicyFor(t *testing.T) {
	cases := map[CancellationReason]RefundPolicy{
		ReasonTherapistCancelled: PolicyFullRefund,
		ReasonNoShow:             PolicyNoRefund,
		ReasonClientCancelled:    PolicyPartialRefund,
		ReasonMutualCancellation: PolicyPartialRefund,
	}
	for reason, want := range cases {
		if got := RefundPolicyFor(reason); got != want {
			t.Fatalf("RefundPolicyFor(%s): expected %s, got %s", reason, want, got)
		}
	}
}

func TestRefundReasonCode(t *testing.T) {
	if got := RefundReasonCode(ReasonNoShow); got != "fraudulent" {
		t.Fatalf("expected fraudulent, got %s", got)
	}
	for _, reason := range []CancellationReason{ReasonClientCancelled, ReasonTherapistCancelled, ReasonMutualCancellation} {
		if got := RefundReasonCode(reason); got != "requested_by_customer" {
			t.Fatalf("%s: expected requested_by_customer, got %s", reason, got)
		}
	}
}
