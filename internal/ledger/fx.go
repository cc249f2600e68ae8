package ledger

import (
	"go.uber.org/fx"

	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/ledger/service"
)

var Module = fx.Module("ledger.service",
	fx.Provide(service.NewService),
)
