package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/payment/domain"
)

type repository struct{}

func Provide() domain.Repository {
	return &repository{}
}

func (r *repository) InsertEvent(ctx context.Context, db *gorm.DB, record *domain.EventRecord) error {
	err := db.WithContext(ctx).Create(record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			return domain.ErrEventAlreadyProcessed
		}
		return err
	}
	return nil
}

func (r *repository) MarkProcessed(ctx context.Context, db *gorm.DB, record *domain.EventRecord, at time.Time) error {
	return db.WithContext(ctx).
		Model(record).
		Updates(map[string]any{
			"status":       domain.EventRecordStatusProcessed,
			"processed_at": at,
		}).Error
}

func (r *repository) MarkFailed(ctx context.Context, db *gorm.DB, record *domain.EventRecord, at time.Time, cause error) error {
	msg := cause.Error()
	return db.WithContext(ctx).
		Model(record).
		Updates(map[string]any{
			"status":        domain.EventRecordStatusFailed,
			"processed_at":  at,
			"error_message": &msg,
		}).Error
}

// isUniqueViolation covers drivers that do not translate duplicate-key
// errors into gorm.ErrDuplicatedKey.
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
