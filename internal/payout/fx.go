package payout

import (
	"go.uber.org/fx"

	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/payout/service"
)

var Module = fx.Module("payout.service",
	fx.Provide(service.NewService),
)
