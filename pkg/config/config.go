package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gridclip/pkg/errors"

	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"

	DefaultOrigin = "default"
	// DefaultMaxValueBytes mirrors the per-origin budget browsers give
	// localStorage.
	DefaultMaxValueBytes = 5 * 1024 * 1024
)

// Config holds the complete gridclip configuration
type Config struct {
	Store     StoreConfig     `yaml:"store" json:"store"`
	Clipboard ClipboardConfig `yaml:"clipboard" json:"clipboard"`
	LogLevel  string          `yaml:"log_level" json:"log_level"`
}

// StoreConfig selects and scopes the side-channel store that carries rich
// clipboard data.
type StoreConfig struct {
	Driver        string `yaml:"driver" json:"driver"`
	Path          string `yaml:"path" json:"path"`
	Origin        string `yaml:"origin" json:"origin"`
	MaxValueBytes int    `yaml:"max_value_bytes" json:"max_value_bytes"`
}

type ClipboardConfig struct {
	RichFormats bool `yaml:"rich_formats" json:"rich_formats"`
	ReadSystem  bool `yaml:"read_system" json:"read_system"`
}

// Default returns the configuration used when no file or environment
// variable says otherwise.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Driver:        DriverSQLite,
			Path:          DefaultStorePath(),
			Origin:        DefaultOrigin,
			MaxValueBytes: DefaultMaxValueBytes,
		},
		Clipboard: ClipboardConfig{
			RichFormats: true,
			ReadSystem:  true,
		},
		LogLevel: "info",
	}
}

// Load loads the configuration from the user config directory
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, errors.NewWithError(errors.ExitCodeConfig, "failed to get config path", err)
	}
	return loadFromPath(configPath)
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "gridclip", "config.yaml"), nil
}

// DefaultStorePath returns where the sqlite store lives unless configured.
func DefaultStorePath() string {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}
	return filepath.Join(cacheDir, "gridclip", "clipboard.db")
}

// Save saves the configuration to file
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}
	return saveToPath(configPath, cfg)
}

func saveToPath(configPath string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return errors.NewWithError(errors.ExitCodeFileOperation, "failed to create config directory", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.NewWithError(errors.ExitCodeConfig, "failed to marshal config", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return errors.NewWithError(errors.ExitCodeFileOperation, "failed to write config file", err)
	}

	return nil
}

// setters maps the dotted keys accepted by 'gridclip config set'.
var setters = map[string]func(*Config, string) error{
	"store.driver": func(c *Config, v string) error {
		c.Store.Driver = v
		return nil
	},
	"store.path": func(c *Config, v string) error {
		c.Store.Path = v
		return nil
	},
	"store.origin": func(c *Config, v string) error {
		c.Store.Origin = v
		return nil
	},
	"store.max_value_bytes": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("max_value_bytes must be an integer: %w", err)
		}
		c.Store.MaxValueBytes = n
		return nil
	},
	"clipboard.rich_formats": func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("rich_formats must be true or false: %w", err)
		}
		c.Clipboard.RichFormats = b
		return nil
	},
	"clipboard.read_system": func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("read_system must be true or false: %w", err)
		}
		c.Clipboard.ReadSystem = b
		return nil
	},
	"log_level": func(c *Config, v string) error {
		c.LogLevel = v
		return nil
	},
}

// Keys returns the keys SetValue understands, sorted.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SetValue assigns a single dotted key and validates the result.
func (c *Config) SetValue(key, value string) error {
	set, ok := setters[key]
	if !ok {
		return errors.NewWithSuggestion(errors.ExitCodeConfig,
			fmt.Sprintf("unknown config key '%s'", key),
			"Valid keys:\n  - "+strings.Join(Keys(), "\n  - "))
	}
	if err := set(c, value); err != nil {
		return errors.NewWithError(errors.ExitCodeConfig, fmt.Sprintf("invalid value for %s", key), err)
	}
	return validateConfig(c)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func loadFromPath(configPath string) (*Config, error) {
	cfg := Default()

	if err := loadConfigFile(configPath, cfg); err != nil {
		return nil, err
	}

	applyEnvironmentOverrides(cfg)

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadConfigFile reads and parses the config file from the given path.
// Keys absent from the file keep the values already in cfg.
func loadConfigFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); err != nil {
		// File doesn't exist, that's okay - defaults and env vars apply
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.NewWithError(errors.ExitCodeFileOperation, "failed to read config file", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.NewWithError(errors.ExitCodeConfig, "failed to parse config file", err)
	}

	return nil
}

// applyEnvironmentOverrides applies environment variable overrides to the config
func applyEnvironmentOverrides(cfg *Config) {
	cfg.Store.Driver = getEnv("GRIDCLIP_STORE_DRIVER", cfg.Store.Driver)
	cfg.Store.Path = getEnv("GRIDCLIP_STORE_PATH", cfg.Store.Path)
	cfg.Store.Origin = getEnv("GRIDCLIP_ORIGIN", cfg.Store.Origin)
	cfg.Store.MaxValueBytes = getEnvInt("GRIDCLIP_MAX_VALUE_BYTES", cfg.Store.MaxValueBytes)
	cfg.LogLevel = getEnv("GRIDCLIP_LOG_LEVEL", cfg.LogLevel)
}

// validateConfig ensures the configuration can be used to open a store
func validateConfig(cfg *Config) error {
	switch cfg.Store.Driver {
	case DriverSQLite:
		if cfg.Store.Path == "" {
			return errors.ConfigError("store path not configured. Set store.path in the config file or GRIDCLIP_STORE_PATH")
		}
	case DriverMemory:
	default:
		return errors.ConfigError(fmt.Sprintf("unknown store driver '%s' (expected %s or %s)", cfg.Store.Driver, DriverSQLite, DriverMemory))
	}
	if cfg.Store.Origin == "" {
		return errors.ConfigError("store origin must not be empty")
	}
	if cfg.Store.MaxValueBytes < 0 {
		return errors.ConfigError("store max_value_bytes must not be negative")
	}
	return nil
}
