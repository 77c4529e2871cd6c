package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. CRAMKIT_LOG_LEVEL.
const EnvPrefix = "CRAMKIT"

// Config holds all configuration for the application.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Review   ReviewConfig   `mapstructure:"review"`
	Reminder ReminderConfig `mapstructure:"reminder"`
}

// DatabaseConfig selects the store backend.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // sqlite or postgres
	DSN    string `mapstructure:"dsn"`    // empty means the default SQLite path
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
}

// ReviewConfig holds session sizes.
type ReviewConfig struct {
	Limit     int `mapstructure:"limit"`
	WeakLimit int `mapstructure:"weak_limit"`
}

// ReminderConfig holds the due-item reminder schedule.
type ReminderConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "")

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")

	v.SetDefault("review.limit", 20)
	v.SetDefault("review.weak_limit", 20)

	v.SetDefault("reminder.interval", time.Hour)
}

// Load reads configuration into v from, in increasing priority: defaults,
// the config file, a .env file in the working directory, environment
// variables and any flags already bound to v. An empty configFile searches
// for cramkit.yaml in the working directory and the user config directory.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("cramkit")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "cramkit"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("config: database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}
	if c.Database.Driver == "postgres" && c.Database.DSN == "" {
		return errors.New("config: database.dsn is required for postgres")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Review.Limit <= 0 || c.Review.WeakLimit <= 0 {
		return errors.New("config: review limits must be positive")
	}
	if c.Reminder.Interval <= 0 {
		return errors.New("config: reminder.interval must be positive")
	}
	return nil
}
