package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Logging  LoggingConfig  `koanf:"logging"`
	Forecast ForecastConfig `koanf:"forecast"`
	Replay   ReplayConfig   `koanf:"replay"`
}

type ServerConfig struct {
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	DSN             string        `koanf:"dsn"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

type ForecastConfig struct {
	// Timezone is the IANA zone used for calendar-day, hour and weekday buckets.
	Timezone           string        `koanf:"timezone"`
	DefaultHorizonDays int           `koanf:"default_horizon_days"`
	MaxHorizonDays     int           `koanf:"max_horizon_days"`
	CacheSize          int           `koanf:"cache_size"`
	CacheTTL           time.Duration `koanf:"cache_ttl"`
}

type ReplayConfig struct {
	// BatchConcurrency bounds how many sessions one batch analytics request
	// computes at once.
	BatchConcurrency int `koanf:"batch_concurrency"`
}

// Location resolves Timezone, falling back to UTC when unset.
func (f ForecastConfig) Location() (*time.Location, error) {
	if f.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(f.Timezone)
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port))
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		errs = append(errs, errors.New("database.dsn (POSTGRES_DSN) is not set"))
	}
	if c.Database.MaxOpenConns < 0 || c.Database.MaxIdleConns < 0 {
		errs = append(errs, errors.New("database connection pool sizes must not be negative"))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format))
	}
	if _, err := c.Forecast.Location(); err != nil {
		errs = append(errs, fmt.Errorf("forecast.timezone: %w", err))
	}
	if c.Forecast.MaxHorizonDays <= 0 {
		errs = append(errs, errors.New("forecast.max_horizon_days must be positive"))
	}
	if c.Forecast.DefaultHorizonDays <= 0 || c.Forecast.DefaultHorizonDays > c.Forecast.MaxHorizonDays {
		errs = append(errs, fmt.Errorf("forecast.default_horizon_days must be in 1..%d", c.Forecast.MaxHorizonDays))
	}
	if c.Forecast.CacheSize < 0 {
		errs = append(errs, errors.New("forecast.cache_size must not be negative"))
	}
	if c.Replay.BatchConcurrency <= 0 {
		errs = append(errs, errors.New("replay.batch_concurrency must be positive"))
	}

	return errors.Join(errs...)
}
