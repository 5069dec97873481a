package docfill

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config carries engine-wide settings.
type Config struct {
	// LogLevel sets logger verbosity: debug, info, warn, error, off.
	LogLevel string

	// StrictMode turns unresolved references into fatal errors instead of
	// leaving tokens visible in the output.
	StrictMode bool

	// MaxImageBytes caps the size of image files accepted for embedding.
	// Zero disables the cap.
	MaxImageBytes int64
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:      "warn",
		StrictMode:    false,
		MaxImageBytes: 64 << 20,
	}
}

// ConfigFromEnvironment builds a config from DOCFILL_* environment
// variables, falling back to defaults for anything unset.
func ConfigFromEnvironment() *Config {
	cfg := DefaultConfig()
	if v := os.Getenv("DOCFILL_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("DOCFILL_STRICT_MODE"); v != "" {
		cfg.StrictMode = parseBool(v)
	}
	if v := os.Getenv("DOCFILL_MAX_IMAGE_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.MaxImageBytes = n
		}
	}
	return cfg
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error", "off", "none":
	default:
		return fmt.Errorf("invalid log level: %q", c.LogLevel)
	}
	if c.MaxImageBytes < 0 {
		return fmt.Errorf("max image bytes must not be negative: %d", c.MaxImageBytes)
	}
	return nil
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}

var (
	globalConfig   *Config
	globalConfigMu sync.RWMutex
)

// GetGlobalConfig returns a copy of the process-wide configuration,
// initializing it from the environment on first use.
func GetGlobalConfig() *Config {
	globalConfigMu.RLock()
	if globalConfig != nil {
		cfg := *globalConfig
		globalConfigMu.RUnlock()
		return &cfg
	}
	globalConfigMu.RUnlock()

	globalConfigMu.Lock()
	if globalConfig == nil {
		globalConfig = ConfigFromEnvironment()
	}
	cfg := *globalConfig
	globalConfigMu.Unlock()
	return &cfg
}

// SetGlobalConfig replaces the process-wide configuration and applies its
// log level to the global logger.
func SetGlobalConfig(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	globalConfigMu.Lock()
	copied := *cfg
	globalConfig = &copied
	globalConfigMu.Unlock()

	UpdateLoggerFromConfig(cfg)
	return nil
}
