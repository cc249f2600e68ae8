package reconcile

import (
	"context"
	"errors"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	billingdomain "github.com/HWellness/Hive-Wellness-Portal-sub013/internal/billing/domain"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/clock"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/observability/metrics"
	processordomain "github.com/HWellness/Hive-Wellness-Portal-sub013/internal/processor/domain"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Clock     clock.Clock
	Processor processordomain.Processor
	Metrics   *metrics.ReconcileMetrics `optional:"true"`
	Config    Config                    `optional:"true"`
}

// Worker polls pending refund rows and settles them against the
// processor's view. Webhooks normally settle refunds first; the worker
// is the safety net for dropped or delayed events.
type Worker struct {
	db        *gorm.DB
	log       *zap.Logger
	clock     clock.Clock
	processor processordomain.Processor
	metrics   *metrics.ReconcileMetrics
	cfg       Config
}

func NewWorker(p Params) *Worker {
	cfg := p.Config.withDefaults()
	return &Worker{
		db:        p.DB,
		log:       p.Log.Named("reconcile.worker"),
		clock:     p.Clock,
		processor: p.Processor,
		metrics:   p.Metrics,
		cfg:       cfg,
	}
}

func (w *Worker) RunForever(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if err := w.RunOnce(ctx); err != nil {
			w.log.Warn("refund reconcile run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (w *Worker) RunOnce(ctx context.Context) error {
	runCtx, cancel := context.WithTimeout(ctx, w.cfg.PollInterval)
	defer cancel()

	w.observeBacklog(runCtx)

	_, err := w.processBatch(runCtx, w.cfg.BatchSize)
	return err
}

func (w *Worker) processBatch(ctx context.Context, limit int) (int, error) {
	if w.db == nil || w.processor == nil {
		return 0, errors.New("reconcile_worker_unavailable")
	}
	if limit <= 0 {
		limit = w.cfg.BatchSize
	}

	processed := 0
	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := w.lockPending(ctx, tx, limit)
		if err != nil {
			return err
		}
		for i := range rows {
			record := &rows[i]
			refund, err := w.processor.RetrieveRefund(ctx, record.ProviderRefundID)
			if err != nil {
				w.log.Warn("retrieve refund",
					zap.String("refund_id", record.ProviderRefundID),
					zap.Error(err),
				)
				w.metrics.IncProcessed("error")
				continue
			}
			update, result := SettleRefund(record, refund, w.clock.Now())
			if update == nil {
				w.metrics.IncProcessed(result)
				continue
			}
			if err := tx.Model(record).Updates(update).Error; err != nil {
				return err
			}
			w.metrics.IncProcessed(result)
			w.metrics.ObserveSettleLag(result, w.clock.Now().Sub(record.CreatedAt))
			processed++
		}
		return nil
	})
	return processed, err
}

// lockPending claims pending refund rows. Postgres gets FOR UPDATE SKIP
// LOCKED so concurrent workers never fight over a batch; other dialects
// fall back to a plain select.
func (w *Worker) lockPending(ctx context.Context, tx *gorm.DB, limit int) ([]billingdomain.RefundRecord, error) {
	var rows []billingdomain.RefundRecord
	if tx.Dialector.Name() == "postgres" {
		err := tx.WithContext(ctx).Raw(
			`SELECT * FROM refunds
			 WHERE status = ?
			 ORDER BY id
			 FOR UPDATE SKIP LOCKED
			 LIMIT ?`,
			billingdomain.RefundRecordStatusPending,
			limit,
		).Scan(&rows).Error
		return rows, err
	}
	err := tx.WithContext(ctx).
		Where("status = ?", billingdomain.RefundRecordStatusPending).
		Order("id").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// SettleRefund maps the processor's refund state onto a pending refund
// row. It returns the column updates to apply, or nil when the refund is
// still in flight, plus the result label for metrics.
func SettleRefund(record *billingdomain.RefundRecord, refund *processordomain.Refund, now time.Time) (map[string]any, string) {
	switch refund.Status {
	case processordomain.RefundStatusSucceeded:
		return map[string]any{
			"status":     billingdomain.RefundRecordStatusSucceeded,
			"updated_at": now,
		}, "succeeded"
	case processordomain.RefundStatusFailed, processordomain.RefundStatusCanceled:
		msg := "refund " + string(refund.Status) + " at provider"
		return map[string]any{
			"status":        billingdomain.RefundRecordStatusFailed,
			"error_message": &msg,
			"updated_at":    now,
		}, "failed"
	default:
		return nil, "pending"
	}
}

func (w *Worker) observeBacklog(ctx context.Context) {
	if w.metrics == nil {
		return
	}
	var count int64
	if err := w.db.WithContext(ctx).
		Model(&billingdomain.RefundRecord{}).
		Where("status = ?", billingdomain.RefundRecordStatusPending).
		Count(&count).Error; err != nil {
		return
	}
	w.metrics.SetBacklog(int(count))

	var oldest billingdomain.RefundRecord
	err := w.db.WithContext(ctx).
		Where("status = ?", billingdomain.RefundRecordStatusPending).
		Order("created_at").
		First(&oldest).Error
	if err != nil {
		w.metrics.SetBacklogOldest(0)
		return
	}
	w.metrics.SetBacklogOldest(w.clock.Now().Sub(oldest.CreatedAt))
}
