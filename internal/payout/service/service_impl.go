package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"

	auditdomain "github.com/HWellness/Hive-Wellness-Portal-sub013/internal/audit/domain"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/cache"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/clock"
	ledgerdomain "github.com/HWellness/Hive-Wellness-Portal-sub013/internal/ledger/domain"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/money"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/payout/domain"
	processordomain "github.com/HWellness/Hive-Wellness-Portal-sub013/internal/processor/domain"
)

const (
	accountCacheTTL   = 5 * time.Minute
	defaultListLimit  = 20
	maxListLimit      = 100
	payoutDescription = "instant payout"
)

type Params struct {
	fx.In

	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Processor processordomain.Processor
	Ledger    ledgerdomain.Service
	Audit     auditdomain.Service
}

// Service exposes therapist earnings and instant payouts on top of the
// payment processor's connected accounts.
type Service struct {
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	processor processordomain.Processor
	ledger    ledgerdomain.Service
	audit     auditdomain.Service

	// accounts caches processor account lookups; payouts-enabled state
	// changes rarely and the earnings page hits it on every load.
	accounts cache.Cache[string, *processordomain.Account]
}

func NewService(p Params) domain.Service {
	return &Service{
		log:       p.Log.Named("payout.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		processor: p.Processor,
		ledger:    p.Ledger,
		audit:     p.Audit,
		accounts:  cache.NewTTLCache[string, *processordomain.Account](),
	}
}

func (s *Service) EarningsSummary(ctx context.Context, accountID string) (*domain.EarningsSummary, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return nil, domain.ErrInvalidAccount
	}

	account, err := s.lookupAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	balance, err := s.processor.RetrieveBalance(ctx, accountID)
	if err != nil {
		return nil, err
	}

	currency := balance.Currency
	if currency == "" {
		currency = account.DefaultCurrency
	}
	if currency == "" {
		currency = money.DefaultCurrency
	}
	return &domain.EarningsSummary{
		AccountID:      accountID,
		Available:      money.FromMinorUnits(balance.AvailableMinor),
		Pending:        money.FromMinorUnits(balance.PendingMinor),
		Currency:       currency,
		PayoutsEnabled: account.PayoutsEnabled,
	}, nil
}

// RequestInstantPayout pays out Amount from the therapist's available
// balance. The instant payout fee is deducted from the amount, so the
// payout created at the processor is the net.
func (s *Service) RequestInstantPayout(ctx context.Context, req domain.InstantPayoutRequest) (*domain.InstantPayoutResult, error) {
	accountID := strings.TrimSpace(req.AccountID)
	if accountID == "" {
		return nil, domain.ErrInvalidAccount
	}
	if !req.Amount.IsPositive() {
		return nil, domain.ErrInvalidPayoutAmount
	}
	if req.Amount.LessThan(money.MinimumPayout) {
		return nil, domain.ErrBelowMinimumPayout
	}

	account, err := s.lookupAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !account.PayoutsEnabled {
		return nil, domain.ErrPayoutsDisabled
	}

	balance, err := s.processor.RetrieveBalance(ctx, accountID)
	if err != nil {
		return nil, err
	}
	amount := req.Amount.Round(2)
	if money.ToMinorUnits(amount) > balance.AvailableMinor {
		return nil, domain.ErrInsufficientBalance
	}

	fee := money.InstantPayoutFee(amount)
	net := amount.Sub(fee)
	if !net.IsPositive() {
		return nil, domain.ErrInvalidPayoutAmount
	}

	currency := balance.Currency
	if currency == "" {
		currency = money.DefaultCurrency
	}

	payout, err := s.processor.CreatePayout(ctx, processordomain.CreatePayoutInput{
		AccountID:   accountID,
		AmountMinor: money.ToMinorUnits(net),
		Currency:    currency,
		Instant:     true,
		Metadata: map[string]string{
			"description":  payoutDescription,
			"gross_amount": amount.StringFixed(2),
			"fee":          fee.StringFixed(2),
		},
	})
	if err != nil {
		s.log.Error("create instant payout",
			zap.String("account_id", accountID),
			zap.Error(err),
		)
		return nil, err
	}

	s.postPayoutEntry(ctx, currency, net)

	actorID := req.ActorID
	targetID := payout.ID
	_ = s.audit.AuditLog(ctx, auditdomain.ActorTypeTherapist, &actorID, "payout.requested", "payout", &targetID, map[string]any{
		"account_id": accountID,
		"amount":     amount.StringFixed(2),
		"fee":        fee.StringFixed(2),
		"net":        net.StringFixed(2),
		"currency":   currency,
	})

	return &domain.InstantPayoutResult{
		PayoutID: payout.ID,
		Amount:   amount,
		Fee:      fee,
		Net:      net,
		Currency: currency,
		Status:   payout.Status,
	}, nil
}

func (s *Service) ListPayouts(ctx context.Context, accountID string, limit int) ([]domain.PayoutInfo, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return nil, domain.ErrInvalidAccount
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	payouts, err := s.processor.ListPayouts(ctx, accountID, limit)
	if err != nil {
		return nil, err
	}

	out := make([]domain.PayoutInfo, 0, len(payouts))
	for _, p := range payouts {
		out = append(out, domain.PayoutInfo{
			ID:          p.ID,
			Amount:      money.FromMinorUnits(p.AmountMinor),
			Currency:    p.Currency,
			Status:      p.Status,
			Method:      p.Method,
			ArrivalDate: p.ArrivalDate,
			CreatedAt:   p.CreatedAt,
		})
	}
	return out, nil
}

func (s *Service) lookupAccount(ctx context.Context, accountID string) (*processordomain.Account, error) {
	if account, ok := s.accounts.Get(accountID); ok {
		return account, nil
	}
	account, err := s.processor.RetrieveAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	s.accounts.Set(accountID, account, accountCacheTTL)
	return account, nil
}

// postPayoutEntry records the payout in the ledger. Failures are logged
// only; the processor already executed the payout.
func (s *Service) postPayoutEntry(ctx context.Context, currency string, net decimal.Decimal) {
	debitID, err := s.ledger.EnsureAccount(ctx, ledgerdomain.AccountCodeTherapistPayable, "Therapist Payable")
	if err != nil {
		s.log.Error("ensure ledger account", zap.Error(err))
		return
	}
	creditID, err := s.ledger.EnsureAccount(ctx, ledgerdomain.AccountCodeCashClearing, "Cash Clearing")
	if err != nil {
		s.log.Error("ensure ledger account", zap.Error(err))
		return
	}
	minor := money.ToMinorUnits(net)
	err = s.ledger.CreateEntry(ctx, ledgerdomain.SourceTypePayout, s.genID.Generate(), currency, s.clock.Now(), []ledgerdomain.LedgerEntryLine{
		{AccountID: debitID, Direction: ledgerdomain.LedgerEntryDirectionDebit, Amount: minor},
		{AccountID: creditID, Direction: ledgerdomain.LedgerEntryDirectionCredit, Amount: minor},
	})
	if err != nil {
		s.log.Error("create payout ledger entry", zap.Error(err))
	}
}
