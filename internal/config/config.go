package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config captures runtime configuration sourced from environment variables.
type Config struct {
	Environment string
	HTTPPort    string

	// Persistence selects the rule repository backend: "sqlite" or "file".
	Persistence  string
	DatabasePath string
	RulesPath    string

	CycleInterval    time.Duration
	TrendInterval    time.Duration
	OptimizeInterval time.Duration
	DispatchTimeout  time.Duration
}

// Load reads env vars and falls back to defaults so the engine can boot with
// zero configuration.
func Load() (Config, error) {
	cfg := Config{
		Environment:      getEnv("MOIRAI_ENV", "development"),
		HTTPPort:         getEnv("MOIRAI_HTTP_PORT", "8080"),
		Persistence:      getEnv("MOIRAI_PERSISTENCE", "sqlite"),
		DatabasePath:     getEnv("MOIRAI_DB_PATH", filepath.Join("data", "moirai.db")),
		RulesPath:        getEnv("MOIRAI_RULES_PATH", filepath.Join("data", "rules.json")),
		CycleInterval:    getDuration("MOIRAI_CYCLE_INTERVAL", 30*time.Second),
		TrendInterval:    getDuration("MOIRAI_TREND_INTERVAL", 5*time.Minute),
		OptimizeInterval: getDuration("MOIRAI_OPTIMIZE_INTERVAL", time.Hour),
		DispatchTimeout:  getDuration("MOIRAI_DISPATCH_TIMEOUT", 30*time.Second),
	}

	if cfg.Persistence != "sqlite" && cfg.Persistence != "file" {
		return Config{}, fmt.Errorf("unknown persistence backend %q", cfg.Persistence)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure data directory: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
