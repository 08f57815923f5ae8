package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for cercle
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Local     LocalConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Placement PlacementConfig
	Content   ContentConfig
	Visits    VisitsConfig
	Mail      MailConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds PostgreSQL configuration.
// An empty DSN selects the local fallback store.
type DatabaseConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// LocalConfig holds the local fallback store configuration
type LocalConfig struct {
	StorePath string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

// AuthConfig holds admin authentication configuration
type AuthConfig struct {
	JWTSecret    string
	SessionTTL   time.Duration
	DemoPassword string
}

// PlacementConfig holds placement test policy
type PlacementConfig struct {
	MinLength int
}

// ContentConfig holds site content configuration
type ContentConfig struct {
	Dir string
}

// VisitsConfig holds visitor state lifecycle configuration
type VisitsConfig struct {
	IdleTTL       time.Duration
	SweepInterval time.Duration
}

// MailConfig holds confirmation mail configuration
type MailConfig struct {
	SendGridKey string
	FromAddress string
	FromName    string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			DSN:          getEnv("DATABASE_DSN", ""),
			MaxOpenConns: getEnvAsInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Local: LocalConfig{
			StorePath: getEnv("LOCAL_STORE_PATH", "./data/cercle.db"),
		},
		Redis: RedisConfig{
			Address:  getEnv("REDIS_ADDRESS", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			JWTSecret:    getEnv("AUTH_JWT_SECRET", ""),
			SessionTTL:   getEnvAsDuration("AUTH_SESSION_TTL", 12*time.Hour),
			DemoPassword: getEnv("ADMIN_DEMO_PASSWORD", "admin123"),
		},
		Placement: PlacementConfig{
			MinLength: getEnvAsInt("PLACEMENT_MIN_LENGTH", 30),
		},
		Content: ContentConfig{
			Dir: getEnv("CONTENT_DIR", "./content"),
		},
		Visits: VisitsConfig{
			IdleTTL:       getEnvAsDuration("VISIT_IDLE_TTL", 2*time.Hour),
			SweepInterval: getEnvAsDuration("VISIT_SWEEP_INTERVAL", 5*time.Minute),
		},
		Mail: MailConfig{
			SendGridKey: getEnv("SENDGRID_API_KEY", ""),
			FromAddress: getEnv("MAIL_FROM_ADDRESS", "bonjour@frenchcercle.com"),
			FromName:    getEnv("MAIL_FROM_NAME", "FrenchCercle"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Placement.MinLength < 1 {
		return fmt.Errorf("placement minimum length must be positive: %d", c.Placement.MinLength)
	}

	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("auth session ttl must be positive: %s", c.Auth.SessionTTL)
	}

	if c.Visits.IdleTTL <= 0 || c.Visits.SweepInterval <= 0 {
		return fmt.Errorf("visit idle ttl and sweep interval must be positive")
	}

	if c.Database.DSN == "" && c.Local.StorePath == "" {
		return fmt.Errorf("either DATABASE_DSN or LOCAL_STORE_PATH is required")
	}

	return nil
}

// RemoteAuth reports whether both collaborators of the remote admin
// authentication are configured.
func (c *Config) RemoteAuth() bool {
	return c.Database.DSN != "" && c.Redis.Address != ""
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
