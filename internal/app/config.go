package app

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "geonotes/core/config"
	coredatabase "geonotes/core/database"
)

// BotConfig holds the bot's own tunables.
type BotConfig struct {
	// DefaultListSize is the /list page size before the user changes it.
	DefaultListSize int `yaml:"default_list_size" envconfig:"BOT_DEFAULT_LIST_SIZE"`
	// DefaultRadiusMeters is the proximity search radius before the user changes it.
	DefaultRadiusMeters float64 `yaml:"default_radius_m" envconfig:"BOT_DEFAULT_RADIUS_M"`
	// SessionTTLMinutes expires abandoned conversations; 0 keeps them forever.
	SessionTTLMinutes int `yaml:"session_ttl_minutes" envconfig:"BOT_SESSION_TTL_MINUTES"`
}

// MetricsConfig controls the Prometheus listener.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" envconfig:"METRICS_ENABLED"`
	Addr    string `yaml:"addr" envconfig:"METRICS_ADDR"`
}

// Config aggregates the core sections with the bot's own ones.
type Config struct {
	Core     coreconfig.Config   `yaml:",inline"`
	Database coredatabase.Config `yaml:"database"`
	Metrics  MetricsConfig       `yaml:"metrics"`
	Bot      BotConfig           `yaml:"bot"`
}

// CoreConfig exposes the embedded core section for the shared runner.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Core
}

// Load reads the composed configuration from YAML plus environment overrides.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}
	normalize(&cfg)
	return &cfg, nil
}

func normalize(cfg *Config) {
	if cfg.Bot.DefaultListSize <= 0 {
		cfg.Bot.DefaultListSize = 10
	}
	if cfg.Bot.DefaultRadiusMeters <= 0 {
		cfg.Bot.DefaultRadiusMeters = 500
	}
	if cfg.Bot.SessionTTLMinutes < 0 {
		cfg.Bot.SessionTTLMinutes = 0
	}
	if cfg.Metrics.Enabled && cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = ":9090"
	}
}
