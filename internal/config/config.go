package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.coldcutz.net/mococli/internal/daterange"
	"gopkg.in/yaml.v3"
)

const (
	AppDir     = "mococli"
	ConfigFile = "config.yaml"
	DBFile     = "mococli.db"
	EnvConfig  = "MOCOCLI_CONFIG"

	BackendMoco  = "moco"
	BackendLocal = "local"

	DefaultDailyTargetHours = 8.0
)

// Config is the persisted client configuration. It is read once per command and passed
// around by value; only login writes a new one.
type Config struct {
	Backend          string      `yaml:"backend"`
	Moco             MocoConfig  `yaml:"moco,omitempty"`
	Local            LocalConfig `yaml:"local,omitempty"`
	WeekStart        string      `yaml:"week_start,omitempty"`
	DailyTargetHours float64     `yaml:"daily_target_hours,omitempty"`
}

// MocoConfig holds the credentials of the Moco account.
type MocoConfig struct {
	Company   string `yaml:"company,omitempty"`
	APIKey    string `yaml:"api_key,omitempty"`
	BotAPIKey string `yaml:"bot_api_key,omitempty"`
	UserID    *int64 `yaml:"user_id,omitempty"`
}

// LocalConfig configures the SQLite backend.
type LocalConfig struct {
	DBPath string `yaml:"db_path,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Backend:          BackendMoco,
		WeekStart:        "monday",
		DailyTargetHours: DefaultDailyTargetHours,
	}
}

// Dir returns the directory holding the config file and the local database.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(base, AppDir), nil
}

// Path returns the config file path. The MOCOCLI_CONFIG environment variable overrides it.
func Path() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFile), nil
}

// DefaultDBPath returns the local database path next to the config file.
func DefaultDBPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DBFile), nil
}

// Load reads the config at path. A missing file yields Default().
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg to path, readable by the owner only since it holds API keys.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks the enumerated fields.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendMoco, BackendLocal:
	default:
		return fmt.Errorf("unknown backend %q in config (expected %q or %q)", c.Backend, BackendMoco, BackendLocal)
	}
	if _, err := daterange.ParseWeekday(c.WeekStart); err != nil {
		return fmt.Errorf("invalid week_start in config: %w", err)
	}
	if c.DailyTargetHours < 0 || c.DailyTargetHours > 24 {
		return fmt.Errorf("daily_target_hours must be between 0 and 24, got %v", c.DailyTargetHours)
	}
	return nil
}

// FirstDayOfWeek returns the configured week start, Monday by default.
func (c Config) FirstDayOfWeek() time.Weekday {
	d, err := daterange.ParseWeekday(c.WeekStart)
	if err != nil {
		return time.Monday
	}
	return d
}

// MocoLoggedIn reports whether the Moco credentials needed for activity requests are present.
func (c Config) MocoLoggedIn() bool {
	return c.Moco.Company != "" && c.Moco.APIKey != "" && c.Moco.UserID != nil
}

// LocalDBPath returns the configured database path or the default one.
func (c Config) LocalDBPath() (string, error) {
	if c.Local.DBPath != "" {
		return c.Local.DBPath, nil
	}
	return DefaultDBPath()
}
