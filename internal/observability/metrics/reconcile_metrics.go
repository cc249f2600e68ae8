package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ReconcileMetrics tracks the refund reconciliation worker: how long
// refunds sit pending, how many are waiting, and processing outcomes.
type ReconcileMetrics struct {
	refundSettleLag     *prometheus.HistogramVec
	refundBacklog       prometheus.Gauge
	refundBacklogOldest prometheus.Gauge
	refundsProcessed    *prometheus.CounterVec
}

var (
	reconcileMetricsOnce sync.Once
	reconcileMetrics     *ReconcileMetrics
)

// Reconcile returns the process-wide reconcile metrics, registering
// them on first use.
func Reconcile(cfg Config) *ReconcileMetrics {
	reconcileMetricsOnce.Do(func() {
		reconcileMetrics = newReconcileMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return reconcileMetrics
}

func ResetReconcileMetricsForTest() {
	reconcileMetricsOnce = sync.Once{}
	reconcileMetrics = nil
}

func newReconcileMetrics(registerer prometheus.Registerer, cfg Config) *ReconcileMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "hive-portal"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}

	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	refundSettleLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "portal_refund_settle_lag_seconds",
			Help: "Time between refund creation and provider settlement.",
			Buckets: []float64{
				60,    // 1m
				300,   // 5m
				900,   // 15m
				3600,  // 1h
				14400, // 4h
				43200, // 12h
				86400, // 24h
			},
			ConstLabels: constLabels,
		},
		[]string{"result"}, // succeeded | failed
	)

	refundBacklog := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name:        "portal_refund_backlog_total",
			Help:        "Number of refunds awaiting provider settlement.",
			ConstLabels: constLabels,
		},
	)

	refundBacklogOldest := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name:        "portal_refund_backlog_oldest_seconds",
			Help:        "Age of the oldest pending refund.",
			ConstLabels: constLabels,
		},
	)

	refundsProcessed := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "portal_refunds_reconciled_total",
			Help:        "Total refunds reconciled against the provider.",
			ConstLabels: constLabels,
		},
		[]string{"result"}, // succeeded | failed | pending | error
	)

	registerer.MustRegister(
		refundSettleLag,
		refundBacklog,
		refundBacklogOldest,
		refundsProcessed,
	)

	return &ReconcileMetrics{
		refundSettleLag:     refundSettleLag,
		refundBacklog:       refundBacklog,
		refundBacklogOldest: refundBacklogOldest,
		refundsProcessed:    refundsProcessed,
	}
}

func (m *ReconcileMetrics) ObserveSettleLag(result string, lag time.Duration) {
	if m == nil {
		return
	}
	m.refundSettleLag.WithLabelValues(result).Observe(lag.Seconds())
}

func (m *ReconcileMetrics) SetBacklog(value int) {
	if m == nil {
		return
	}
	m.refundBacklog.Set(float64(value))
}

func (m *ReconcileMetrics) SetBacklogOldest(age time.Duration) {
	if m == nil {
		return
	}
	seconds := age.Seconds()
	if seconds < 0 {
		seconds = 0
	}
	m.refundBacklogOldest.Set(seconds)
}

func (m *ReconcileMetrics) IncProcessed(result string) {
	if m == nil {
		return
	}
	m.refundsProcessed.WithLabelValues(result).Inc()
}
