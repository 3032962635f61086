package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrUnknownPlatform             = errors.New("unknown platform")
)

const (
	PlatformTelegram = "telegram"
	PlatformDiscord  = "discord"
	PlatformBoth     = "both"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string    `mapstructure:"env"`      // current application environment (local, dev, production)
	Platform         string    `mapstructure:"platform"` // telegram, discord or both
	TelegramAPIToken string    `mapstructure:"-"`        // Telegram API token loaded from environment
	DiscordToken     string    `mapstructure:"-"`        // Discord bot token loaded from environment
	Admins           []string  `mapstructure:"admins"`   // user ids allowed to reload the catalog
	Catalog          Catalog   `mapstructure:"catalog"`
	Session          Session   `mapstructure:"session"`
	Help             Help      `mapstructure:"help"`
	DB               DB        `mapstructure:"database"`
	Log              Log       `mapstructure:"log"`
	Metrics          Metrics   `mapstructure:"metrics"`
	RateLimit        RateLimit `mapstructure:"rate_limit"`
}

// Catalog configures where quiz, test and game definitions come from.
type Catalog struct {
	Path           string `mapstructure:"path"`            // YAML file; empty uses the embedded catalog
	Watch          bool   `mapstructure:"watch"`           // reload when the file changes
	ReloadSchedule string `mapstructure:"reload_schedule"` // cron spec; empty disables
}

// Session bounds how long interactive sessions wait for the player.
type Session struct {
	AnswerTimeout   time.Duration `mapstructure:"answer_timeout"`    // zero waits forever
	HelpIdleTimeout time.Duration `mapstructure:"help_idle_timeout"` // paginator idle time
	HistoryLimit    int           `mapstructure:"history_limit"`     // results kept and shown per user
}

// Help configures help page packing.
type Help struct {
	CommandsPerPage int `mapstructure:"commands_per_page"`
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int32         `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
}

// Enabled reports whether results should be stored in PostgreSQL.
func (db DB) Enabled() bool {
	return db.URL != ""
}

// Log configures file output next to the console.
type Log struct {
	File       string `mapstructure:"file"` // empty disables file output
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// Metrics configures the Prometheus endpoint.
type Metrics struct {
	Addr string `mapstructure:"addr"` // empty disables the endpoint
}

// RateLimit throttles outbound messages per platform.
type RateLimit struct {
	PerSecond float64 `mapstructure:"per_second"`
	Burst     int     `mapstructure:"burst"`
}

// UsesTelegram reports whether the Telegram adapter should run.
func (c *Config) UsesTelegram() bool {
	return c.Platform == PlatformTelegram || c.Platform == PlatformBoth
}

// UsesDiscord reports whether the Discord adapter should run.
func (c *Config) UsesDiscord() bool {
	return c.Platform == PlatformDiscord || c.Platform == PlatformBoth
}

// Load reads configuration from config files, an optional .env file and environment variables.
func Load() (*Config, error) {
	// Populate the environment from .env when present.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("platform", PlatformTelegram)
	v.SetDefault("admins", []string{})
	v.SetDefault("catalog.path", "")
	v.SetDefault("catalog.watch", true)
	v.SetDefault("catalog.reload_schedule", "")
	v.SetDefault("session.answer_timeout", "5m")
	v.SetDefault("session.help_idle_timeout", "120s")
	v.SetDefault("session.history_limit", 10)
	v.SetDefault("help.commands_per_page", 10)
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("database.connect_timeout", "5s")
	v.SetDefault("log.file", "logs/bot.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("metrics.addr", "")
	v.SetDefault("rate_limit.per_second", 5)
	v.SetDefault("rate_limit.burst", 5)

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("discord_token", "DISCORD_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	cfg.DiscordToken = v.GetString("discord_token")
	cfg.DB.URL = v.GetString("database_url")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Platform {
	case PlatformTelegram, PlatformDiscord, PlatformBoth:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPlatform, c.Platform)
	}

	if c.UsesTelegram() && c.TelegramAPIToken == "" {
		return fmt.Errorf("%w: TELEGRAM_API_TOKEN", ErrMissingEnvironmentVariables)
	}
	if c.UsesDiscord() && c.DiscordToken == "" {
		return fmt.Errorf("%w: DISCORD_TOKEN", ErrMissingEnvironmentVariables)
	}

	return nil
}
