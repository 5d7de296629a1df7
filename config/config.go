package config

import (
	"autobay/domain/schedule"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	DefaultHTTPAddr         = ":8080"
	DefaultWorkStartHour    = 10
	DefaultWorkEndHour      = 19
	DefaultShopCapacity     = 6
	DefaultHourlyRate       = 85.0
	DefaultServiceIDPrefix  = "SRV"
	DefaultIntakeRateLimit  = 5.0
	DefaultIntakeRateBurst  = 10
	DefaultIdempotencyTTL   = 10 * time.Minute
	DefaultStockMonitorSpec = "@every 1m"
)

type ShopConfig struct {
	HTTPAddr string

	WorkStartHour int
	WorkEndHour   int
	Location      *time.Location

	ShopCapacity    int
	HourlyRate      float64
	ServiceIDPrefix string
	FixturesPath    string

	// IntakeRateLimit is requests per second, zero disables limiting.
	IntakeRateLimit float64
	IntakeRateBurst int
	IdempotencyTTL  time.Duration

	// StockMonitorSpec is a cron spec, empty disables the monitor.
	StockMonitorSpec string

	LogLevel  string
	LogFormat string
}

func DefaultShopConfig() *ShopConfig {
	return &ShopConfig{
		HTTPAddr:         DefaultHTTPAddr,
		WorkStartHour:    DefaultWorkStartHour,
		WorkEndHour:      DefaultWorkEndHour,
		Location:         time.Local,
		ShopCapacity:     DefaultShopCapacity,
		HourlyRate:       DefaultHourlyRate,
		ServiceIDPrefix:  DefaultServiceIDPrefix,
		IntakeRateLimit:  DefaultIntakeRateLimit,
		IntakeRateBurst:  DefaultIntakeRateBurst,
		IdempotencyTTL:   DefaultIdempotencyTTL,
		StockMonitorSpec: DefaultStockMonitorSpec,
		LogLevel:         "info",
		LogFormat:        "text",
	}
}

func (c *ShopConfig) BusinessHours() schedule.BusinessHours {
	return schedule.BusinessHours{StartHour: c.WorkStartHour, EndHour: c.WorkEndHour, Location: c.Location}
}

// ParseShopConfigFromEnv starts from the defaults and applies every variable that is set.
func ParseShopConfigFromEnv() (*ShopConfig, error) {
	c := DefaultShopConfig()
	var err error

	if v := env("HTTP_ADDR"); v != "" {
		c.HTTPAddr = v
	}
	if c.WorkStartHour, err = envInt("WORK_START_HOUR", c.WorkStartHour); err != nil {
		return nil, err
	}
	if c.WorkEndHour, err = envInt("WORK_END_HOUR", c.WorkEndHour); err != nil {
		return nil, err
	}
	if v := env("SHOP_TIMEZONE"); v != "" {
		if c.Location, err = time.LoadLocation(v); err != nil {
			return nil, fmt.Errorf("SHOP_TIMEZONE: %w", err)
		}
	}
	if c.ShopCapacity, err = envInt("SHOP_CAPACITY", c.ShopCapacity); err != nil {
		return nil, err
	}
	if c.HourlyRate, err = envFloat("HOURLY_RATE", c.HourlyRate); err != nil {
		return nil, err
	}
	if v := env("SERVICE_ID_PREFIX"); v != "" {
		c.ServiceIDPrefix = v
	}
	c.FixturesPath = env("SHOP_FIXTURES")
	if c.IntakeRateLimit, err = envFloat("INTAKE_RATE_LIMIT", c.IntakeRateLimit); err != nil {
		return nil, err
	}
	if c.IntakeRateBurst, err = envInt("INTAKE_RATE_BURST", c.IntakeRateBurst); err != nil {
		return nil, err
	}
	if v := env("IDEMPOTENCY_TTL"); v != "" {
		if c.IdempotencyTTL, err = time.ParseDuration(v); err != nil {
			return nil, fmt.Errorf("IDEMPOTENCY_TTL: %w", err)
		}
	}
	if v, found := os.LookupEnv("STOCK_MONITOR_SPEC"); found {
		c.StockMonitorSpec = strings.TrimSpace(v)
	}
	if v := env("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := env("LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *ShopConfig) Validate() error {
	if err := c.BusinessHours().Validate(); err != nil {
		return err
	}
	if c.ShopCapacity <= 0 {
		return fmt.Errorf("shop capacity must be positive, got %d", c.ShopCapacity)
	}
	if c.HourlyRate < 0 {
		return fmt.Errorf("hourly rate must not be negative, got %v", c.HourlyRate)
	}
	if strings.ContainsAny(c.ServiceIDPrefix, "_ /") {
		return fmt.Errorf("service id prefix '%s' must not contain '_', '/' or spaces", c.ServiceIDPrefix)
	}
	if c.IntakeRateLimit < 0 || c.IntakeRateBurst < 0 {
		return fmt.Errorf("intake rate limit must not be negative")
	}
	if c.IntakeRateLimit > 0 && c.IntakeRateBurst == 0 {
		return fmt.Errorf("intake rate burst must be positive when rate limiting is enabled")
	}
	if c.StockMonitorSpec != "" {
		if _, err := cron.ParseStandard(c.StockMonitorSpec); err != nil {
			return fmt.Errorf("STOCK_MONITOR_SPEC: %w", err)
		}
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format '%s'", c.LogFormat)
	}
	return nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func envInt(key string, fallback int) (int, error) {
	v := env(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	v := env(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
