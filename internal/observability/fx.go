package observability

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/config"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/observability/logger"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/observability/metrics"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/observability/tracing"
)

var Module = fx.Module("observability",
	fx.Provide(func(cfg config.Config) (*zap.Logger, error) {
		return logger.New(cfg.Environment)
	}),
	fx.Provide(func(cfg config.Config) tracing.Config {
		return tracing.Config{
			Enabled:          cfg.TracingEnabled,
			ServiceName:      cfg.ServiceName,
			ServiceVersion:   cfg.ServiceVersion,
			Environment:      cfg.Environment,
			ExporterEndpoint: cfg.ExporterEndpoint,
			ExporterProtocol: cfg.ExporterProtocol,
			SamplingRatio:    cfg.SamplingRatio,
		}
	}),
	fx.Invoke(tracing.NewProvider),
	fx.Provide(func(cfg config.Config) metrics.Config {
		return metrics.Config{
			ServiceName: cfg.ServiceName,
			Environment: cfg.Environment,
		}
	}),
	fx.Provide(func(cfg metrics.Config) (*metrics.HTTPMetrics, error) {
		var provider metric.MeterProvider = otel.GetMeterProvider()
		return metrics.NewHTTPMetrics(cfg, provider)
	}),
	fx.Provide(metrics.Reconcile),
)
