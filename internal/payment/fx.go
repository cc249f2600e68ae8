package payment

import (
	"go.uber.org/fx"

	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/payment/repository"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/payment/service"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
