package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Supported database drivers.
const (
	DriverSQLite3 = "sqlite3" // mattn/go-sqlite3 (cgo)
	DriverSQLite  = "sqlite"  // modernc.org/sqlite (pure Go)
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	UI       UIConfig
	Log      LogConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path   string
	Driver string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DateFormat      string `mapstructure:"date_format"`
	Timezone        string
	SnackbarSeconds int `mapstructure:"snackbar_seconds"`
}

// LogConfig holds log file settings.
type LogConfig struct {
	Level string
	File  string
}

// Load reads configuration from file and env. Env var overrides use prefix TRACKMYSLEEP_.
func Load() (Config, error) {
	return LoadFile(os.Getenv("TRACKMYSLEEP_CONFIG"))
}

// LoadFile is Load with an explicit config file. An empty path falls back to
// the default config directory; a missing file is not an error.
func LoadFile(cfgPath string) (Config, error) {
	v := viper.New()

	home := os.Getenv("HOME")
	v.SetDefault("database.path", filepath.Join(home, ".local", "share", "trackmysleep", "trackmysleep.db"))
	v.SetDefault("database.driver", DriverSQLite3)
	v.SetDefault("ui.date_format", "Monday Jan-02-2006 Time: 15:04")
	v.SetDefault("ui.timezone", "")
	v.SetDefault("ui.snackbar_seconds", 3)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(home, ".local", "state", "trackmysleep", "trackmysleep.log"))

	v.SetConfigType("toml")

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "trackmysleep"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("TRACKMYSLEEP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// a missing config file is fine; defaults and env still apply
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings the app cannot run with.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite3, DriverSQLite:
	default:
		return fmt.Errorf("config: unknown database driver %q (want %q or %q)", c.Database.Driver, DriverSQLite3, DriverSQLite)
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("config: database path is empty")
	}
	if c.UI.SnackbarSeconds < 0 {
		return fmt.Errorf("config: ui.snackbar_seconds must not be negative")
	}
	return nil
}

// Path returns the config file Save writes to.
func Path() string {
	if p := os.Getenv("TRACKMYSLEEP_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "trackmysleep", "config.toml")
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	return SaveFile(Path(), cfg)
}

// SaveFile writes cfg as TOML to path.
func SaveFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("database.driver", cfg.Database.Driver)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("ui.timezone", cfg.UI.Timezone)
	v.Set("ui.snackbar_seconds", cfg.UI.SnackbarSeconds)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
