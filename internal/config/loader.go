package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "glasspane.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "GLASSPANE_PORT")
	setString(&cfg.Server.CORSOrigin, "GLASSPANE_CORS_ORIGIN")
	setBool(&cfg.Server.AuthEnabled, "GLASSPANE_AUTH_ENABLED")
	setString(&cfg.Postgres.DSN, "DATABASE_URL")
	setInt32(&cfg.Postgres.MaxConns, "GLASSPANE_PG_MAX_CONNS")
	setInt32(&cfg.Postgres.MinConns, "GLASSPANE_PG_MIN_CONNS")
	setDuration(&cfg.Postgres.MaxConnLifetime, "GLASSPANE_PG_MAX_CONN_LIFETIME")
	setDuration(&cfg.Postgres.MaxConnIdleTime, "GLASSPANE_PG_MAX_CONN_IDLE_TIME")
	setDuration(&cfg.Postgres.HealthCheck, "GLASSPANE_PG_HEALTH_CHECK")
	setString(&cfg.NATS.URL, "NATS_URL")
	setString(&cfg.LLM.URL, "GLASSPANE_LLM_URL")
	setString(&cfg.LLM.APIKey, "GLASSPANE_LLM_API_KEY")
	setString(&cfg.LLM.DefaultModel, "GLASSPANE_LLM_MODEL")
	setDuration(&cfg.LLM.StreamTimeout, "GLASSPANE_LLM_STREAM_TIMEOUT")
	setString(&cfg.Logging.Level, "GLASSPANE_LOG_LEVEL")
	setString(&cfg.Logging.Service, "GLASSPANE_LOG_SERVICE")
	setBool(&cfg.Logging.Async, "GLASSPANE_LOG_ASYNC")
	setInt(&cfg.Breaker.MaxFailures, "GLASSPANE_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "GLASSPANE_BREAKER_TIMEOUT")
	setInt64(&cfg.Cache.MaxSizeMB, "GLASSPANE_CACHE_SIZE_MB")
	setDuration(&cfg.Cache.HistoryTTL, "GLASSPANE_CACHE_HISTORY_TTL")
	setString(&cfg.Sanitizer.ReasoningOpenTag, "GLASSPANE_REASONING_OPEN_TAG")
	setString(&cfg.Sanitizer.ReasoningCloseTag, "GLASSPANE_REASONING_CLOSE_TAG")
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.Postgres.DSN == "" {
		return errors.New("postgres.dsn is required")
	}
	if cfg.NATS.URL == "" {
		return errors.New("nats.url is required")
	}
	if cfg.Postgres.MaxConns < 1 {
		return errors.New("postgres.max_conns must be >= 1")
	}
	if cfg.Breaker.MaxFailures < 1 {
		return errors.New("breaker.max_failures must be >= 1")
	}
	if cfg.Sanitizer.ReasoningOpenTag == "" || cfg.Sanitizer.ReasoningCloseTag == "" {
		return errors.New("sanitizer reasoning tags must be non-empty")
	}
	if !strings.HasPrefix(cfg.Sanitizer.ReasoningOpenTag, "<") ||
		!strings.HasPrefix(cfg.Sanitizer.ReasoningCloseTag, "</") {
		return errors.New("sanitizer reasoning tags must be an XML-style tag pair")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(n)
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
