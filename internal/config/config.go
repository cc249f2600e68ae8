package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries all runtime configuration, loaded once at startup.
type Config struct {
	Environment string
	HTTPAddr    string
	DatabaseDSN string

	StripeSecretKey     string
	StripeWebhookSecret string
	ProcessorTimeout    time.Duration

	RateLimitPerMinute int

	ServiceName    string
	ServiceVersion string

	TracingEnabled   bool
	ExporterEndpoint string
	ExporterProtocol string
	SamplingRatio    float64
}

// Load reads configuration from the environment. A local .env file is
// honoured when present so development setups match deployed ones.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Environment:         env("PORTAL_ENV", "development"),
		HTTPAddr:            env("HTTP_ADDR", ":8080"),
		DatabaseDSN:         env("DATABASE_DSN", ""),
		StripeSecretKey:     env("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: env("STRIPE_WEBHOOK_SECRET", ""),
		ServiceName:         env("SERVICE_NAME", "hive-portal"),
		ServiceVersion:      env("SERVICE_VERSION", "dev"),
		ExporterEndpoint:    env("OTEL_EXPORTER_ENDPOINT", ""),
		ExporterProtocol:    env("OTEL_EXPORTER_PROTOCOL", "grpc"),
	}

	timeout, err := durationEnv("PROCESSOR_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.ProcessorTimeout = timeout

	limit, err := intEnv("RATE_LIMIT_PER_MINUTE", 30)
	if err != nil {
		return Config{}, err
	}
	cfg.RateLimitPerMinute = limit

	enabled, err := boolEnv("TRACING_ENABLED", false)
	if err != nil {
		return Config{}, err
	}
	cfg.TracingEnabled = enabled

	ratio, err := floatEnv("TRACING_SAMPLING_RATIO", 1.0)
	if err != nil {
		return Config{}, err
	}
	cfg.SamplingRatio = ratio

	if cfg.IsProduction() && cfg.StripeSecretKey == "" {
		return Config{}, fmt.Errorf("STRIPE_SECRET_KEY is required in production")
	}

	return cfg, nil
}

// IsProduction reports whether the service runs in production mode.
func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

func env(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func intEnv(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func floatEnv(key string, fallback float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}
