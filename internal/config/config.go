package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database  DatabaseConfig
	JWT       JWTConfig
	App       AppConfig
	Bootstrap BootstrapConfig
	Telemetry TelemetryConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
	SecureCookie      bool
}

// AppConfig holds application configuration
type AppConfig struct {
	Port                int
	Env                 string
	LogLevel            string
	Timezone            string
	CORSAllowedOrigins  []string
	AllowPublicRegister bool
	TokenPurgeInterval  time.Duration
}

type BootstrapConfig struct {
	AdminPassword string
}

type TelemetryConfig struct {
	ServiceName string
	Endpoint    string
	Insecure    bool
}

func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Could not load .env file", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "timeclock"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}
	allowRegister, err := getEnvBool("ALLOW_PUBLIC_REGISTER", false)
	if err != nil {
		return nil, err
	}
	purgeInterval, err := time.ParseDuration(getEnv("TOKEN_PURGE_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_PURGE_INTERVAL: %w", err)
	}

	config.App = AppConfig{
		Port:                appPort,
		Env:                 getEnv("APP_ENV", "development"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		Timezone:            getEnv("APP_TIMEZONE", "UTC"),
		CORSAllowedOrigins:  getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		AllowPublicRegister: allowRegister,
		TokenPurgeInterval:  purgeInterval,
	}

	// JWT configuration
	secureCookie, err := getEnvBool("JWT_SECURE_COOKIE", config.App.Env == "production")
	if err != nil {
		return nil, err
	}

	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
		SecureCookie:      secureCookie,
	}

	config.Bootstrap = BootstrapConfig{
		AdminPassword: getEnv("BOOTSTRAP_ADMIN_PASSWORD", "admin"),
	}

	// Telemetry configuration
	otelInsecure, err := getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", false)
	if err != nil {
		return nil, err
	}

	config.Telemetry = TelemetryConfig{
		ServiceName: getEnv("OTEL_SERVICE_NAME", "timeclock-api"),
		Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		Insecure:    otelInsecure,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("APP_TIMEZONE: %w", err)
	}
	if c.App.TokenPurgeInterval <= 0 {
		return fmt.Errorf("TOKEN_PURGE_INTERVAL must be positive")
	}
	return nil
}

// Location resolves APP_TIMEZONE. All punch dates and times are taken in
// this zone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.App.Timezone)
}

// LogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
