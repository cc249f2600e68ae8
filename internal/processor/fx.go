package processor

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/config"
	paymentdomain "github.com/HWellness/Hive-Wellness-Portal-sub013/internal/payment/domain"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/processor/domain"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/processor/stripe"
)

var Module = fx.Module("processor.stripe",
	fx.Provide(func(cfg config.Config, log *zap.Logger) (domain.Processor, error) {
		return stripe.New(stripe.Config{
			SecretKey:   cfg.StripeSecretKey,
			CallTimeout: cfg.ProcessorTimeout,
		}, log)
	}),
	fx.Provide(func(cfg config.Config, log *zap.Logger) paymentdomain.WebhookAdapter {
		return stripe.NewWebhookAdapter(cfg.StripeWebhookSecret, log)
	}),
)
