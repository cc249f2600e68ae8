package booking

import (
	"go.uber.org/fx"

	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/booking/repository"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/booking/service"
)

var Module = fx.Module("booking.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
