package audit

import (
	"go.uber.org/fx"

	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/audit/repository"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/audit/service"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
