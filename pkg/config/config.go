package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config is the dirtyfx runtime configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
	UI      UIConfig      `yaml:"ui"`
}

// StorageConfig locates the customer database.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig controls the structured logger. An empty File discards logs
// in interactive mode, because stdout belongs to the screen.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// MetricsConfig controls the Prometheus endpoint. An empty Listen disables it.
type MetricsConfig struct {
	Listen string `yaml:"listen"`
}

// TracingConfig controls span export.
type TracingConfig struct {
	Enabled bool   `yaml:"enabled"`
	File    string `yaml:"file"`
}

// UIConfig controls the terminal front end.
type UIConfig struct {
	TickRate time.Duration `yaml:"tick_rate"`
	Plain    bool          `yaml:"plain"`
}

const (
	defaultStoragePath = "~/.dirtyfx/customers.db"
	defaultTickRate    = 250 * time.Millisecond
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{Path: defaultStoragePath},
		Logging: LoggingConfig{Level: "info"},
		UI:      UIConfig{TickRate: defaultTickRate},
	}
}

// Load loads configuration from default locations with proper precedence:
// defaults, ~/.dirtyfx/config.yaml, ./.dirtyfx/config.yaml, then DIRTYFX_*
// environment variables.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	if home != "" {
		userConfigPath := filepath.Join(home, ".dirtyfx", "config.yaml")
		if err := loadAndMerge(cfg, userConfigPath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("loading user config: %w", err)
		}
	}

	projectConfigPath := filepath.Join(".", ".dirtyfx", "config.yaml")
	if err := loadAndMerge(cfg, projectConfigPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file path.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := loadAndMerge(cfg, path); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DIRTYFX_DB"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("DIRTYFX_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("DIRTYFX_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
	if v := os.Getenv("DIRTYFX_METRICS_LISTEN"); v != "" {
		cfg.Metrics.Listen = v
	}
	if val, ok := envBool("DIRTYFX_TRACING"); ok {
		cfg.Tracing.Enabled = val
	}
	if v := os.Getenv("DIRTYFX_TRACE_FILE"); v != "" {
		cfg.Tracing.File = v
	}
	if v := os.Getenv("DIRTYFX_TICK_RATE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.UI.TickRate = d
		}
	}
	if val, ok := envBool("DIRTYFX_PLAIN"); ok {
		cfg.UI.Plain = val
	}
}

func envBool(key string) (bool, bool) {
	val := os.Getenv(key)
	if val == "" {
		return false, false
	}
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", c.Logging.Level)
	}
	if c.UI.TickRate < 0 {
		return fmt.Errorf("invalid ui tick rate: %s (must not be negative)", c.UI.TickRate)
	}
	if strings.TrimSpace(c.Storage.Path) == "" {
		return fmt.Errorf("storage path is required")
	}
	return nil
}
