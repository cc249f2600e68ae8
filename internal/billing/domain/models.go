package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// RefundRecordStatus tracks a refund row until the processor settles it.
type RefundRecordStatus string

const (
	RefundRecordStatusPending   RefundRecordStatus = "pending"
	RefundRecordStatusSucceeded RefundRecordStatus = "succeeded"
	RefundRecordStatusFailed    RefundRecordStatus = "failed"
)

// RefundRecord persists an executed cancellation refund for audit and
// reconciliation. Amounts are major units.
type RefundRecord struct {
	ID               snowflake.ID       `gorm:"primaryKey"`
	BookingID        snowflake.ID       `gorm:"not null;index"`
	PaymentIntentID  string             `gorm:"type:text;not null;index"`
	ProviderRefundID string             `gorm:"type:text;not null;uniqueIndex"`
	ReversalID       *string            `gorm:"type:text"`
	Amount           decimal.Decimal    `gorm:"type:numeric(10,2);not null"`
	CancellationFee  decimal.Decimal    `gorm:"type:numeric(10,2);not null"`
	Currency         string             `gorm:"type:text;not null"`
	Reason           string             `gorm:"type:text;not null"`
	Status           RefundRecordStatus `gorm:"type:text;not null;index"`
	ErrorMessage     *string            `gorm:"type:text"`
	CreatedAt        time.Time          `gorm:"not null"`
	UpdatedAt        time.Time          `gorm:"not null"`
}

// TableName sets the database table name.
func (RefundRecord) TableName() string { return "refunds" }
