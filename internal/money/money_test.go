package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestToMinorUnits(t *testing.T) {
	cases := []struct {
		amount string
		want   int64
	}{
		{"100", 10000},
		{"99.99", 9999},
		{"0.50", 50},
		{"12.345", 1235},
		{"0", 0},
	}
	for _, tc := range cases {
		got := ToMinorUnits(decimal.RequireFromString(tc.amount))
		if got != tc.want {
			t.Fatalf("ToMinorUnits(%s): expected %d, got %d", tc.amount, tc.want, got)
		}
	}
}

func TestFromMinorUnits(t *testing.T) {
	got := FromMinorUnits(10050)
	want := decimal.RequireFromString("100.50")
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestInstantPayoutFeeCapped(t *testing.T) {
	got := InstantPayoutFee(decimal.NewFromInt(1000))
	want := decimal.RequireFromString("10.00")
	if !got.Equal(want) {
		t.Fatalf("expected fee %s, got %s", want, got)
	}
}

func TestInstantPayoutFeeFloored(t *testing.T) {
	got := InstantPayoutFee(decimal.NewFromInt(10))
	want := decimal.RequireFromString("0.50")
	if !got.Equal(want) {
		t.Fatalf("expected fee %s, got %s", want, got)
	}
}

func TestInstantPayoutFeePercentage(t *testing.T) {
	got := InstantPayoutFee(decimal.NewFromInt(500))
	want := decimal.RequireFromString("5.00")
	if !got.Equal(want) {
		t.Fatalf("expected fee %s, got %s", want, got)
	}
}
