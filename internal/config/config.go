package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/aliskhannn/quranlingo-bot/internal/domain/entities"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrUnknownStorageDriver        = errors.New("unknown storage driver")
	ErrInvalidTimezone             = errors.New("invalid timezone")
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env            string    `mapstructure:"env"`             // current application environment (local, dev, production etc)
	Timezone       string    `mapstructure:"timezone"`        // zone that defines calendar days for streaks
	CurriculumPath string    `mapstructure:"curriculum_path"` // path to the levels/lessons JSON file
	Storage        Storage   `mapstructure:"storage"`
	DB             DB        `mapstructure:"database"`
	Redis          Redis     `mapstructure:"redis"`
	SQLite         SQLite    `mapstructure:"sqlite"`
	Telegram       Telegram  `mapstructure:"telegram"`
	HTTP           HTTP      `mapstructure:"http"`
	Rewards        Rewards   `mapstructure:"rewards"`
	Quiz           Quiz      `mapstructure:"quiz"`
	Reminders      Reminders `mapstructure:"reminders"`

	location *time.Location
}

// Storage selects where progress documents are kept.
type Storage struct {
	Driver string `mapstructure:"driver"` // postgres, redis, sqlite or memory
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

type Redis struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type SQLite struct {
	Path string `mapstructure:"path"`
}

type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	APIToken string `mapstructure:"-"` // loaded from TELEGRAM_API_TOKEN
}

type HTTP struct {
	Addr            string        `mapstructure:"addr"` // empty disables the API
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Rewards is the XP paid for activities other than lessons.
type Rewards struct {
	ReviewKnownXP        int `mapstructure:"review_known_xp"`
	ReviewSessionBonusXP int `mapstructure:"review_session_bonus_xp"`
	FlashcardXP          int `mapstructure:"flashcard_xp"`
}

type Quiz struct {
	Seed int64 `mapstructure:"seed"` // 0 seeds from the clock
}

type Reminders struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"` // cron spec evaluated in Timezone
}

// Location returns the parsed Timezone.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// Load reads configuration from .env, config files and environment variables.
func Load() (*Config, error) {
	// A missing .env file is fine; real environment variables win.
	_ = godotenv.Load()

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("timezone", "UTC")
	v.SetDefault("curriculum_path", "assets/data/curriculum.json")
	v.SetDefault("storage.driver", DriverPostgres)
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "quranlingo:")
	v.SetDefault("sqlite.path", "data/quranlingo.db")
	v.SetDefault("telegram.enabled", true)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", "10s")
	v.SetDefault("http.write_timeout", "10s")
	v.SetDefault("http.shutdown_timeout", "5s")
	v.SetDefault("rewards.review_known_xp", 1)
	v.SetDefault("rewards.review_session_bonus_xp", 5)
	v.SetDefault("rewards.flashcard_xp", 5)
	v.SetDefault("quiz.seed", 0)
	v.SetDefault("reminders.enabled", true)
	v.SetDefault("reminders.schedule", "0 9 * * *")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
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
	cfg.Telegram.APIToken = v.GetString("telegram_api_token")
	cfg.DB.URL = v.GetString("database_url")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	loc, err := entities.ParseTimezoneLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimezone, c.Timezone)
	}
	c.location = loc

	switch c.Storage.Driver {
	case DriverPostgres:
		if c.DB.URL == "" {
			return fmt.Errorf("%w: DATABASE_URL", ErrMissingEnvironmentVariables)
		}
	case DriverRedis, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorageDriver, c.Storage.Driver)
	}

	if c.Telegram.Enabled && c.Telegram.APIToken == "" {
		return fmt.Errorf("%w: TELEGRAM_API_TOKEN", ErrMissingEnvironmentVariables)
	}

	return nil
}
