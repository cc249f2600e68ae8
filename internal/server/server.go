package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	auditdomain "github.com/HWellness/Hive-Wellness-Portal-sub013/internal/audit/domain"
	bookingdomain "github.com/HWellness/Hive-Wellness-Portal-sub013/internal/booking/domain"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/config"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/observability/logger"
	"github.com/HWellness/Hive-Wellness-Portal-sub013/internal/observability/metrics"
	paymentdomain "github.com/HWellness/Hive-Wellness-Portal-sub013/internal/payment/domain"
	payoutdomain "github.com/HWellness/Hive-Wellness-Portal-sub013/internal/payout/domain"
)

type Params struct {
	fx.In

	Config     config.Config
	Log        *zap.Logger
	BookingSvc bookingdomain.Service
	PayoutSvc  payoutdomain.Service
	PaymentSvc paymentdomain.Service
	AuditSvc   auditdomain.Service
}

// Server owns the HTTP surface: bookings, payouts, and the payment
// provider webhook.
type Server struct {
	log        *zap.Logger
	bookingSvc bookingdomain.Service
	payoutSvc  payoutdomain.Service
	paymentSvc paymentdomain.Service
	auditSvc   auditdomain.Service
	limiter    *rateLimiter
}

func NewServer(p Params) *Server {
	limit := p.Config.RateLimitPerMinute
	if limit <= 0 {
		limit = 30
	}
	return &Server{
		log:        p.Log.Named("server"),
		bookingSvc: p.BookingSvc,
		payoutSvc:  p.PayoutSvc,
		paymentSvc: p.PaymentSvc,
		auditSvc:   p.AuditSvc,
		limiter:    newRateLimiter(limit, time.Minute),
	}
}

// NewEngine builds the gin engine with the shared middleware stack.
func NewEngine(cfg config.Config, httpMetrics *metrics.HTTPMetrics) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(logger.GinMiddleware(logger.MiddlewareConfig{
		SkipPaths: []string{"/healthz"},
	}))
	if httpMetrics != nil {
		engine.Use(metrics.GinMiddleware(httpMetrics))
	}
	return engine
}

// RegisterRoutes wires the HTTP routes.
func (s *Server) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	{
		api.POST("/bookings", s.CreateBooking)
		api.GET("/bookings/:id", s.GetBooking)
		api.POST("/bookings/:id/cancel", s.rateLimited, s.CancelBooking)

		api.GET("/therapists/:account_id/earnings", s.GetEarnings)
		api.GET("/payouts", s.ListPayouts)
		api.POST("/payouts/instant", s.rateLimited, s.CreateInstantPayout)

		api.GET("/audit-logs", s.ListAuditLogs)

		api.POST("/webhooks/stripe", s.StripeWebhook)
	}
}

// rateLimited throttles money-moving endpoints per client IP.
func (s *Server) rateLimited(c *gin.Context) {
	if !s.limiter.Allow(c.ClientIP()) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": gin.H{
			"code":    "rate_limited",
			"message": "too many requests, slow down",
		}})
		return
	}
	c.Next()
}

// RunHTTP starts the HTTP listener under the fx lifecycle.
func RunHTTP(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, engine *gin.Engine, s *Server) {
	s.RegisterRoutes(engine)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
