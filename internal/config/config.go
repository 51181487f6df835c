package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"

	"rocketgrip/internal/catalog"
)

// ErrInvalidPolicy is returned when the policy key is neither merge nor cancel
var ErrInvalidPolicy = errors.New("invalid superseded-fetch policy")

// ErrInvalidLogLevel is returned when log.level is not a logrus level name
var ErrInvalidLogLevel = errors.New("invalid log level")

// Duration is a time.Duration stored as a string such as "750ms"
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Config represents the application configuration
type Config struct {
	Version     int         `toml:"version"`
	Endpoint    string      `toml:"endpoint"`
	Debounce    Duration    `toml:"debounce"`
	Policy      string      `toml:"policy"`       // "merge" or "cancel"
	HTTPTimeout Duration    `toml:"http_timeout"` // 0 means no timeout
	Log         LogSettings `toml:"log"`
	UISettings  UISettings  `toml:"ui"`
}

// LogSettings controls where and how much the app logs
type LogSettings struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	CardWidth int `toml:"card_width"`
}

// Validate checks values the rest of the app relies on
func (c *Config) Validate() error {
	if c.Policy != "merge" && c.Policy != "cancel" {
		return fmt.Errorf("%w: %q", ErrInvalidPolicy, c.Policy)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("debounce must not be negative: %s", time.Duration(c.Debounce))
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("http_timeout must not be negative: %s", time.Duration(c.HTTPTimeout))
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Log.Level)
	}
	if c.UISettings.CardWidth < 0 {
		return fmt.Errorf("ui.card_width must not be negative: %d", c.UISettings.CardWidth)
	}
	return nil
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	LoadOrCreate() (*Config, bool, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	filePath string
}

// NewConfigService creates a config service using the default location
func NewConfigService() ConfigService {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}

	return &configService{
		filePath: filepath.Join(configDir, "rocketgrip", "config.toml"),
	}
}

// NewConfigServiceAt creates a config service bound to path
func NewConfigServiceAt(path string) ConfigService {
	return &configService{filePath: path}
}

// Path returns the file the service loads from and saves to
func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from file, falling back to defaults when
// the file doesn't exist
func (cs *configService) Load() (*Config, error) {
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return cs.LoadFromPath(cs.filePath)
}

// LoadOrCreate loads the configuration, writing the defaults to the
// service path first when no file exists. It reports whether it wrote one.
func (cs *configService) LoadOrCreate() (*Config, bool, error) {
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := cs.Save(cfg); err != nil {
			return cfg, false, err
		}
		return cfg, true, nil
	}
	cfg, err := cs.Load()
	return cfg, false, err
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	return cs.SaveToPath(config, cs.filePath)
}

// LoadFromPath loads configuration from a specific path. Keys missing
// from the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		Endpoint: catalog.DefaultEndpoint,
		Debounce: Duration(750 * time.Millisecond),
		Policy:   "merge",
		Log: LogSettings{
			File:  "rocketgrip.log",
			Level: "info",
		},
		UISettings: UISettings{
			CardWidth: 36,
		},
	}
}
