package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// BookingStatus is the booking lifecycle state.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// PaymentStatus tracks the client charge backing a booking.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// Booking is a scheduled therapy session. SessionFee is major units.
type Booking struct {
	ID                 snowflake.ID    `gorm:"primaryKey"`
	ClientID           snowflake.ID    `gorm:"not null;index"`
	TherapistID        snowflake.ID    `gorm:"not null;index"`
	TherapistAccountID string          `gorm:"type:text;not null"`
	SessionStart       time.Time       `gorm:"not null;index"`
	DurationMinutes    int             `gorm:"not null"`
	SessionFee         decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Currency           string          `gorm:"type:text;not null"`
	Status             BookingStatus   `gorm:"type:text;not null;index"`
	PaymentIntentID    string          `gorm:"type:text;index"`
	PaymentStatus      PaymentStatus   `gorm:"type:text;not null"`
	CancellationReason *string         `gorm:"type:text"`
	CancelledAt        *time.Time
	CreatedAt          time.Time `gorm:"not null"`
	UpdatedAt          time.Time `gorm:"not null"`
}

// TableName sets the database table name.
func (Booking) TableName() string { return "bookings" }
