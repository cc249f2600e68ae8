package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	ledgerdomain "github.com/HWellness/Hive-Wellness-Portal-sub013/internal/ledger/domain"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

// Service writes balanced double-entry ledger postings.
type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
}

func NewService(p Params) ledgerdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("ledger.service"),
		genID: p.GenID,
	}
}

// EnsureAccount returns the account ID for a code, creating the account on
// first use.
func (s *Service) EnsureAccount(ctx context.Context, code string, name string) (snowflake.ID, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return 0, ledgerdomain.ErrInvalidAccount
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, ledgerdomain.ErrInvalidAccount
	}

	var account ledgerdomain.LedgerAccount
	err := s.db.WithContext(ctx).First(&account, "code = ?", code).Error
	if err == nil {
		return account.ID, nil
	}
	if err != gorm.ErrRecordNotFound {
		return 0, err
	}

	account = ledgerdomain.LedgerAccount{
		ID:        s.genID.Generate(),
		Code:      code,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&account).Error; err != nil {
		return 0, err
	}
	return account.ID, nil
}

// CreateEntry validates and persists a balanced entry with its lines in one
// transaction.
func (s *Service) CreateEntry(
	ctx context.Context,
	sourceType string,
	sourceID snowflake.ID,
	currency string,
	occurredAt time.Time,
	lines []ledgerdomain.LedgerEntryLine,
) error {
	if strings.TrimSpace(sourceType) == "" {
		return ledgerdomain.ErrInvalidSourceType
	}
	if sourceID == 0 {
		return ledgerdomain.ErrInvalidSourceID
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return ledgerdomain.ErrInvalidCurrency
	}
	if occurredAt.IsZero() {
		return ledgerdomain.ErrInvalidOccurredAt
	}
	if err := ledgerdomain.ValidateBalanced(lines); err != nil {
		return err
	}
	for _, line := range lines {
		if line.AccountID == 0 {
			return ledgerdomain.ErrInvalidAccount
		}
	}

	now := time.Now().UTC()
	entry := ledgerdomain.LedgerEntry{
		ID:         s.genID.Generate(),
		SourceType: sourceType,
		SourceID:   sourceID,
		Currency:   currency,
		OccurredAt: occurredAt.UTC(),
		CreatedAt:  now,
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Create(&entry).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].ID = s.genID.Generate()
			lines[i].LedgerEntryID = entry.ID
			lines[i].CreatedAt = now
			if err := tx.WithContext(ctx).Create(&lines[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
