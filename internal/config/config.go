// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Log        LogConfig
	Validation ValidationConfig
}

type ServerConfig struct {
	HTTPPort         string
	GRPCPort         string
	Environment      string
	AutoMigrate      bool
	EnableReflection bool
	ShutdownTimeout  time.Duration
	CORSOrigins      string
	HealthInterval   time.Duration
}

type DatabaseConfig struct {
	Driver   string
	Path     string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type LogConfig struct {
	Level  string
	Format string
}

// ValidationConfig holds the task field limits.
type ValidationConfig struct {
	MaxTitleLength       int
	MaxDescriptionLength int
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

func Load() (*Config, error) {
	env := getEnv("ENVIRONMENT", "development")

	defaultFormat := "json"
	if env == "development" {
		defaultFormat = "text"
	}

	return &Config{
		Server: ServerConfig{
			HTTPPort:         getEnv("HTTP_PORT", "8080"),
			GRPCPort:         getEnv("GRPC_PORT", "50051"),
			Environment:      env,
			AutoMigrate:      getEnvAsBool("AUTO_MIGRATE", true),
			EnableReflection: getEnvAsBool("ENABLE_REFLECTION", false),
			ShutdownTimeout:  getEnvAsDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
			CORSOrigins:      getEnv("CORS_ALLOWED_ORIGINS", ""),
			HealthInterval:   getEnvAsDuration("HEALTH_CHECK_INTERVAL", 15*time.Second),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
			Path:     getEnv("DB_PATH", "data/tasks.db"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "tasks"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", defaultFormat),
		},
		Validation: ValidationConfig{
			MaxTitleLength:       getEnvAsInt("MAX_TITLE_LENGTH", 255),
			MaxDescriptionLength: getEnvAsInt("MAX_DESCRIPTION_LENGTH", 1000),
		},
	}, nil
}

// ValidateConfig checks the loaded values before anything is started.
func (c *Config) ValidateConfig() error {
	var errs []string

	if c.Server.HTTPPort == "" {
		errs = append(errs, "HTTP_PORT must not be empty")
	}
	if c.Server.GRPCPort == "" {
		errs = append(errs, "GRPC_PORT must not be empty")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SHUTDOWN_TIMEOUT must be positive")
	}
	if c.Server.HealthInterval <= 0 {
		errs = append(errs, "HEALTH_CHECK_INTERVAL must be positive")
	}

	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			errs = append(errs, "DB_PATH must not be empty for sqlite")
		}
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			errs = append(errs, "DB_HOST and DB_NAME are required for postgres")
		}
	default:
		errs = append(errs, fmt.Sprintf("unsupported DB_DRIVER %q", c.Database.Driver))
	}

	if c.Validation.MaxTitleLength <= 0 {
		errs = append(errs, "MAX_TITLE_LENGTH must be positive")
	}
	if c.Validation.MaxDescriptionLength <= 0 {
		errs = append(errs, "MAX_DESCRIPTION_LENGTH must be positive")
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("unsupported LOG_FORMAT %q", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// DSN returns the data source name for the configured driver.
func (d DatabaseConfig) DSN() string {
	if d.Driver == DriverPostgres {
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
		)
	}
	return d.Path
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	// Try parsing as duration string (e.g., "15s", "1m")
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}

	return defaultValue
}
