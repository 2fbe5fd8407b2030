package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Redis    RedisConfig
	S3       S3Config
	Promo    PromoConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host           string
	Port           int
	MigrateOnStart bool
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AuthConfig holds bearer token configuration.
type AuthConfig struct {
	JWTSecret      string
	Issuer         string
	AccessTokenTTL time.Duration
}

// RedisConfig holds the token blacklist store configuration.
// When disabled, revoked tokens are tracked in process memory.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// S3Config holds AWS S3 configuration for promo catalog files.
type S3Config struct {
	Enabled bool
	Bucket  string
	Region  string
	Prefix  string // Path prefix within bucket (e.g., "promos/")
}

// PromoConfig lists the promo catalog files and how many must agree on a code.
type PromoConfig struct {
	Files         []string
	MinMatchCount int
}

// Load loads configuration from environment variables and, when CONFIG_FILE
// is set, from that file. Environment variables win over file values.
func Load() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadDatabase loads the same sources as Load but only validates the
// database and logger sections. Tools that never serve requests use it.
func LoadDatabase() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}

	if err := cfg.validateDatabase(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	if err := cfg.validateLogger(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func read() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:           v.GetString("SERVER_HOST"),
			Port:           v.GetInt("SERVER_PORT"),
			MigrateOnStart: v.GetBool("MIGRATE_ON_START"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Database:        v.GetString("DB_NAME"),
			MaxConnections:  v.GetInt("DB_MAX_CONNECTIONS"),
			MinConnections:  v.GetInt("DB_MIN_CONNECTIONS"),
			MaxConnLifetime: v.GetInt("DB_MAX_CONN_LIFETIME"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Auth: AuthConfig{
			JWTSecret:      v.GetString("JWT_SECRET"),
			Issuer:         v.GetString("JWT_ISSUER"),
			AccessTokenTTL: v.GetDuration("JWT_ACCESS_TTL"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		S3: S3Config{
			Enabled: v.GetBool("S3_ENABLED"),
			Bucket:  v.GetString("S3_BUCKET"),
			Region:  v.GetString("S3_REGION"),
			Prefix:  v.GetString("S3_PREFIX"),
		},
		Promo: PromoConfig{
			Files:         splitList(v.GetString("PROMO_FILES")),
			MinMatchCount: v.GetInt("PROMO_MIN_MATCH"),
		},
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("MIGRATE_ON_START", false)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "staykart")
	v.SetDefault("DB_MAX_CONNECTIONS", 25)
	v.SetDefault("DB_MIN_CONNECTIONS", 5)
	v.SetDefault("DB_MAX_CONN_LIFETIME", 300)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "staykart")
	v.SetDefault("JWT_ACCESS_TTL", "24h")
	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("S3_ENABLED", false)
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_PREFIX", "promos/")
	v.SetDefault("PROMO_FILES", "data/promos/promobase1.gz,data/promos/promobase2.gz,data/promos/promobase3.gz")
	v.SetDefault("PROMO_MIN_MATCH", 2)
	v.SetDefault("CONFIG_FILE", "")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if err := c.validateDatabase(); err != nil {
		return err
	}

	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT secret is required and must be at least 32 characters")
	}

	if c.Auth.AccessTokenTTL <= 0 {
		return fmt.Errorf("JWT access token TTL must be positive")
	}

	if err := c.validateLogger(); err != nil {
		return err
	}

	if c.Redis.Enabled && (c.Redis.Port < 1 || c.Redis.Port > 65535) {
		return fmt.Errorf("invalid redis port: %d", c.Redis.Port)
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
	}

	if c.Promo.MinMatchCount < 1 {
		return fmt.Errorf("promo min match count must be at least 1")
	}

	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Database.Port)
	}

	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.Database.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.Database.MinConnections > c.Database.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	return nil
}

func (c *Config) validateLogger() error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Address returns the redis address.
func (c *RedisConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// splitList splits a comma separated value, dropping blanks.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
