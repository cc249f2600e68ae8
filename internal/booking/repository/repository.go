package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/booking/domain"
)

type repository struct{}

func Provide() domain.Repository {
	return &repository{}
}

func (r *repository) Insert(ctx context.Context, db *gorm.DB, booking *domain.Booking) error {
	return db.WithContext(ctx).Create(booking).Error
}

func (r *repository) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Booking, error) {
	var booking domain.Booking
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

// LockByID reads the booking FOR UPDATE so concurrent cancellations
// serialize on the row. SQLite has no row locks; its single-writer
// transactions give the same effect.
func (r *repository) LockByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Booking, error) {
	tx := db.WithContext(ctx)
	if db.Dialector.Name() == "postgres" {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var booking domain.Booking
	err := tx.Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) FindByPaymentIntent(ctx context.Context, db *gorm.DB, paymentIntentID string) (*domain.Booking, error) {
	var booking domain.Booking
	err := db.WithContext(ctx).
		Where("payment_intent_id = ?", paymentIntentID).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) MarkCancelled(ctx context.Context, db *gorm.DB, id snowflake.ID, update domain.CancellationUpdate) error {
	return db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ? AND status <> ?", id, domain.BookingStatusCancelled).
		Updates(map[string]any{
			"status":              domain.BookingStatusCancelled,
			"cancellation_reason": update.Reason,
			"cancelled_at":        update.CancelledAt,
			"payment_status":      update.PaymentStatus,
			"updated_at":          time.Now().UTC(),
		}).Error
}

func (r *repository) MarkPaid(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":         domain.BookingStatusConfirmed,
			"payment_status": domain.PaymentStatusSucceeded,
			"updated_at":     time.Now().UTC(),
		}).Error
}
