package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/aliskhannn/learning-progress-tracker/internal/domain/entities"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrUnknownDriver               = errors.New("unknown database driver")
)

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string    `mapstructure:"env"`       // current application environment (local, dev, production etc)
	LogLevel         string    `mapstructure:"log_level"` // overrides the environment's default level
	Timezone         string    `mapstructure:"timezone"`  // canonical civil timezone for "today"
	TelegramAPIToken string    `mapstructure:"-"`         // Telegram API token, bot disabled when empty
	DB               DB        `mapstructure:"database"`
	HTTP             HTTP      `mapstructure:"http"`
	Reconcile        Reconcile `mapstructure:"reconcile"`

	Location *time.Location `mapstructure:"-"`
}

// DB contains database-related configuration parameters.
type DB struct {
	Driver          string        `mapstructure:"driver"`            // postgres, sqlite or memory
	URL             string        `mapstructure:"-"`                 // postgres connection string loaded from environment
	SQLitePath      string        `mapstructure:"sqlite_path"`       // database file of the sqlite driver
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// HTTP configures the JSON API.
type HTTP struct {
	Addr           string        `mapstructure:"addr"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	MaxPeriodDays  int           `mapstructure:"max_period_days"` // longest period report a caller may request
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
}

// Reconcile configures the stats cache reconciliation job.
type Reconcile struct {
	Enabled  bool          `mapstructure:"enabled"`
	Schedule string        `mapstructure:"schedule"` // cron spec
	Lookback time.Duration `mapstructure:"lookback"` // sessions updated within this window are rescanned
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Load reads configuration from .env, config files and environment variables.
// An empty path searches ./config for config.yaml.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
	}

	v.SetDefault("env", "local")
	v.SetDefault("timezone", entities.DefaultTimezone)
	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.sqlite_path", "data/progress.db")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.allowed_origins", []string{"*"})
	v.SetDefault("http.max_period_days", 366)
	v.SetDefault("http.read_timeout", "10s")
	v.SetDefault("http.write_timeout", "30s")
	v.SetDefault("reconcile.enabled", true)
	v.SetDefault("reconcile.schedule", "@every 1h")
	v.SetDefault("reconcile.lookback", "48h")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	cfg.DB.URL = v.GetString("database_url")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (cfg *Config) validate() error {
	loc, err := entities.ParseTimezoneLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone: %w", err)
	}
	cfg.Location = loc

	switch cfg.DB.Driver {
	case DriverPostgres:
		if cfg.DB.URL == "" {
			return fmt.Errorf("%w: DATABASE_URL", ErrMissingEnvironmentVariables)
		}
	case DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.DB.Driver)
	}

	return nil
}
