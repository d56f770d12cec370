package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/growthframe/agentcore/internal/domain/action"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "agentcore.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// The YAML file is optional; a missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV.
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
	setString(&cfg.Server.Port, "AGENTCORE_PORT")
	setString(&cfg.Postgres.DSN, "DATABASE_URL")
	setInt32(&cfg.Postgres.MaxConns, "AGENTCORE_PG_MAX_CONNS")
	setInt32(&cfg.Postgres.MinConns, "AGENTCORE_PG_MIN_CONNS")
	setDuration(&cfg.Postgres.MaxConnLifetime, "AGENTCORE_PG_MAX_CONN_LIFETIME")
	setDuration(&cfg.Postgres.MaxConnIdleTime, "AGENTCORE_PG_MAX_CONN_IDLE_TIME")
	setDuration(&cfg.Postgres.HealthCheck, "AGENTCORE_PG_HEALTH_CHECK")
	setString(&cfg.NATS.URL, "NATS_URL")
	setInt64(&cfg.Cache.MaxProfiles, "AGENTCORE_CACHE_MAX_PROFILES")
	setString(&cfg.Logging.Level, "AGENTCORE_LOG_LEVEL")
	setString(&cfg.Logging.Service, "AGENTCORE_LOG_SERVICE")
	setInt(&cfg.Budget.MaxTokens, "AGENTCORE_BUDGET_MAX_TOKENS")
	setInt(&cfg.Budget.MaxCalls, "AGENTCORE_BUDGET_MAX_CALLS")
	setDuration(&cfg.Budget.Window, "AGENTCORE_BUDGET_WINDOW")
	setInt(&cfg.Budget.TokensPerAction, "AGENTCORE_BUDGET_TOKENS_PER_ACTION")
	setInt(&cfg.Pipeline.MaxActions, "AGENTCORE_PIPELINE_MAX_ACTIONS")
	setDuration(&cfg.Pipeline.EngineTimeout, "AGENTCORE_PIPELINE_ENGINE_TIMEOUT")
	setStringSlice(&cfg.Pipeline.ApprovalRequired, "AGENTCORE_PIPELINE_APPROVAL_REQUIRED")
	setFloat64(&cfg.Pipeline.InsightConfidence, "AGENTCORE_PIPELINE_INSIGHT_CONFIDENCE")
	setFloat64(&cfg.Pipeline.SatisfactionThreshold, "AGENTCORE_PIPELINE_SATISFACTION_THRESHOLD")
	setInt(&cfg.Breaker.MaxFailures, "AGENTCORE_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "AGENTCORE_BREAKER_TIMEOUT")
	setString(&cfg.OTel.Endpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")

	if v := os.Getenv("AGENTCORE_PIPELINE_MIN_PRIORITY"); v != "" {
		cfg.Pipeline.MinPriority = action.Priority(v)
	}
}

// validate rejects configurations the core cannot run with.
func validate(cfg *Config) error {
	if cfg.Pipeline.MaxActions <= 0 {
		return errors.New("pipeline.max_actions must be positive")
	}
	if cfg.Pipeline.MinPriority.Rank() == 0 {
		return fmt.Errorf("pipeline.min_priority %q is not a valid priority", cfg.Pipeline.MinPriority)
	}
	if cfg.Pipeline.EngineTimeout <= 0 {
		return errors.New("pipeline.engine_timeout must be positive")
	}
	if cfg.Pipeline.InsightConfidence < 0 || cfg.Pipeline.InsightConfidence > 1 {
		return errors.New("pipeline.insight_confidence must be in [0,1]")
	}
	if cfg.Budget.MaxTokens <= 0 || cfg.Budget.MaxCalls <= 0 {
		return errors.New("budget limits must be positive")
	}
	if cfg.Budget.Window <= 0 {
		return errors.New("budget.window must be positive")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		*dst = parts
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

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
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
