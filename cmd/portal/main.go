package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/audit"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/billing"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/booking"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/clock"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/config"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/events"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/ledger"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/migration"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/observability"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/payment"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/payout"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/processor"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/reconcile"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/server"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(func() (*snowflake.Node, error) {
			return snowflake.NewNode(1)
		}),
		db.Module,
		fx.Invoke(func(conn *gorm.DB) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return migration.RunMigrations(sqlDB)
		}),
		clock.Module,
		events.Module,
		processor.Module,
		ledger.Module,
		audit.Module,
		billing.Module,
		booking.Module,
		payment.Module,
		payout.Module,
		reconcile.Module,
		server.Module,
	)
	app.Run()
}
