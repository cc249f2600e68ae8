package billing

import (
	"go.uber.org/fx"

	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/billing/service"
)

var Module = fx.Module("billing.service",
	fx.Provide(service.NewService),
)
