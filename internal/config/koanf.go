package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order; the first existing file wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/temporal-analytics/config.yaml",
}

const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ShutdownTimeout: 5 * time.Second,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    20,
			MaxIdleConns:    10,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Forecast: ForecastConfig{
			Timezone:           "UTC",
			DefaultHorizonDays: 7,
			MaxHorizonDays:     90,
			CacheSize:          256,
			CacheTTL:           time.Minute,
		},
		Replay: ReplayConfig{
			BatchConcurrency: 4,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in that order of precedence, and validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var envMappings = map[string]string{
	"port":                 "server.port",
	"shutdown_timeout":     "server.shutdown_timeout",
	"postgres_dsn":         "database.dsn",
	"db_max_open_conns":    "database.max_open_conns",
	"db_max_idle_conns":    "database.max_idle_conns",
	"db_conn_max_lifetime": "database.conn_max_lifetime",
	"log_level":            "logging.level",
	"log_format":           "logging.format",
	"log_caller":           "logging.caller",
	"forecast_timezone":    "forecast.timezone",
	"forecast_horizon":     "forecast.default_horizon_days",
	"forecast_max_horizon": "forecast.max_horizon_days",
	"forecast_cache_size":  "forecast.cache_size",
	"forecast_cache_ttl":   "forecast.cache_ttl",
	"replay_batch_workers": "replay.batch_concurrency",
}

// envTransformFunc maps known variables to config keys. Anything else returns
// "" and is skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
