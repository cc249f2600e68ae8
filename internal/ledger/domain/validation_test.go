package domain

import "testing"

func TestValidateBalancedAcceptsBalancedLines(t *testing.T) {
	lines := []LedgerEntryLine{
		{AccountID: 1, Direction: LedgerEntryDirectionDebit, Amount: 10000},
		{AccountID: 2, Direction: LedgerEntryDirectionCredit, Amount: 10000},
	}
	if err := ValidateBalanced(lines); err != nil {
		t.Fatalf("expected balanced entry, got %v", err)
	}
}

func TestValidateBalancedRejectsUnbalancedLines(t *testing.T) {
	lines := []LedgerEntryLine{
		{AccountID: 1, Direction: LedgerEntryDirectionDebit, Amount: 10000},
		{AccountID: 2, Direction: LedgerEntryDirectionCredit, Amount: 9999},
	}
	if err := ValidateBalanced(lines); err != ErrUnbalancedEntry {
		t.Fatalf("expected ErrUnbalancedEntry, got %v", err)
	}
}

func TestValidateBalancedRejectsSingleLine(t *testing.T) {
	lines := []LedgerEntryLine{
		{AccountID: 1, Direction: LedgerEntryDirectionDebit, Amount: 10000},
	}
	if err := ValidateBalanced(lines); err != ErrInvalidEntryLines {
		t.Fatalf("expected ErrInvalidEntryLines, got %v", err)
	}
}

func TestValidateBalancedRejectsNegativeAmount(t *testing.T) {
	lines := []LedgerEntryLine{
		{AccountID: 1, Direction: LedgerEntryDirectionDebit, Amount: -1},
		{AccountID: 2, Direction: LedgerEntryDirectionCredit, Amount: -1},
	}
	if err := ValidateBalanced(lines); err != ErrInvalidLineAmount {
		t.Fatalf("expected ErrInvalidLineAmount, got %v", err)
	}
}

func TestValidateBalancedRejectsUnknownDirection(t *testing.T) {
	lines := []LedgerEntryLine{
		{AccountID: 1, Direction: "sideways", Amount: 100},
		{AccountID: 2, Direction: LedgerEntryDirectionCredit, Amount: 100},
	}
	if err := ValidateBalanced(lines); err != ErrInvalidLineDirection {
		t.Fatalf("expected ErrInvalidLineDirection, got %v", err)
	}
}
