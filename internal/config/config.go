package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Token signing configuration
	JWT JWTConfig

	// Login and password settings
	Auth AuthConfig

	// Optional Redis cache
	Redis RedisConfig

	// Article and category settings
	Content ContentConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration

	// MigrationsPath is the directory holding the golang-migrate files
	MigrationsPath string
}

// JWTConfig holds token signing settings
type JWTConfig struct {
	Secret    string
	ExpiresIn time.Duration
	Issuer    string
}

// AuthConfig holds login settings
type AuthConfig struct {
	BcryptCost         int
	LoginRatePerMinute int
	LoginBurst         int
	MinPasswordLength  int
}

// RedisConfig holds the public article cache settings.
// An empty Addr disables the cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// ContentConfig holds article and category settings
type ContentConfig struct {
	ReservedCategoryID   int64
	ReservedCategoryName string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

var defaults = map[string]any{
	"PORT":                    "8000",
	"SERVER_READ_TIMEOUT":     "30s",
	"SERVER_WRITE_TIMEOUT":    "30s",
	"SERVER_SHUTDOWN_TIMEOUT": "30s",

	"DB_HOST":           "localhost",
	"DB_PORT":           "5432",
	"DB_USER":           "postgres",
	"DB_PASSWORD":       "postgres",
	"DB_NAME":           "newsroom",
	"DB_SSLMODE":        "disable",
	"DB_MAX_OPEN_CONNS": 25,
	"DB_MAX_IDLE_CONNS": 5,
	"DB_MAX_LIFETIME":   "5m",
	"MIGRATIONS_PATH":   "./migrations",

	"JWT_SECRET":     "",
	"JWT_EXPIRES_IN": "7d",
	"JWT_ISSUER":     "newsroom-cms",

	"BCRYPT_COST":           10,
	"LOGIN_RATE_PER_MINUTE": 10,
	"LOGIN_BURST":           5,
	"MIN_PASSWORD_LENGTH":   8,

	"REDIS_ADDR":     "",
	"REDIS_PASSWORD": "",
	"REDIS_DB":       0,
	"REDIS_TTL":      "5m",

	"RESERVED_CATEGORY_ID":   5,
	"RESERVED_CATEGORY_NAME": "Other",

	"LOG_LEVEL":  "info",
	"LOG_FORMAT": "json",
}

// Load reads configuration from environment variables, optionally layered
// over the file named by CONFIG_FILE.
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance
func FromViper(v *viper.Viper) (*Config, error) {
	expiresIn, err := ParseExpiry(v.GetString("JWT_EXPIRES_IN"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetString("PORT"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetString("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Name:         v.GetString("DB_NAME"),
			SSLMode:      v.GetString("DB_SSLMODE"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
			MaxLifetime:  v.GetDuration("DB_MAX_LIFETIME"),

			MigrationsPath: v.GetString("MIGRATIONS_PATH"),
		},
		JWT: JWTConfig{
			Secret:    v.GetString("JWT_SECRET"),
			ExpiresIn: expiresIn,
			Issuer:    v.GetString("JWT_ISSUER"),
		},
		Auth: AuthConfig{
			BcryptCost:         v.GetInt("BCRYPT_COST"),
			LoginRatePerMinute: v.GetInt("LOGIN_RATE_PER_MINUTE"),
			LoginBurst:         v.GetInt("LOGIN_BURST"),
			MinPasswordLength:  v.GetInt("MIN_PASSWORD_LENGTH"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			TTL:      v.GetDuration("REDIS_TTL"),
		},
		Content: ContentConfig{
			ReservedCategoryID:   v.GetInt64("RESERVED_CATEGORY_ID"),
			ReservedCategoryName: v.GetString("RESERVED_CATEGORY_NAME"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.JWT.ExpiresIn <= 0 {
		return fmt.Errorf("JWT_EXPIRES_IN must be positive")
	}
	if c.Content.ReservedCategoryID <= 0 {
		return fmt.Errorf("RESERVED_CATEGORY_ID must be positive")
	}
	if c.Auth.LoginRatePerMinute <= 0 {
		return fmt.Errorf("LOGIN_RATE_PER_MINUTE must be positive")
	}
	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// ParseExpiry parses a token lifetime. Besides Go durations ("15m", "12h")
// it accepts whole days ("7d").
func ParseExpiry(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if days, ok := strings.CutSuffix(raw, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid JWT_EXPIRES_IN %q", raw)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid JWT_EXPIRES_IN %q: %w", raw, err)
	}
	return d, nil
}
