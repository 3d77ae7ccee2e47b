package internal

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	Environment string        `mapstructure:"environment" validate:"omitempty,oneof=development production"`
	Storage     StorageConfig `mapstructure:"storage"`
	Session     SessionConfig `mapstructure:"session"`
	Logging     LoggingConfig `mapstructure:"logging"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=memory sqlite postgres"`
	// Path is the sqlite database file; Source the postgres DSN.
	Path   string `mapstructure:"path"`
	Source string `mapstructure:"source"`
}

type SessionConfig struct {
	TimeoutMinutes     int    `mapstructure:"timeout_minutes" validate:"required,min=1,max=480"`
	AutoRefresh        bool   `mapstructure:"auto_refresh"`
	ShowSessionTimer   bool   `mapstructure:"show_session_timer"`
	AccessTokenSecret  string `mapstructure:"access_token_secret"`
	RefreshTokenSecret string `mapstructure:"refresh_token_secret"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	switch c.Storage.Driver {
	case "sqlite":
		if c.Storage.Path == "" {
			return errors.New("storage.path is required for the sqlite driver")
		}
	case "postgres":
		if c.Storage.Source == "" {
			return errors.New("storage.source is required for the postgres driver")
		}
	}
	return nil
}

// LoadConfigFromEnv builds a config purely from environment variables,
// used for container deployments without a config file.
func LoadConfigFromEnv() *Config {
	return &Config{
		Environment: getEnv("APP_ENV", "development"),
		Storage: StorageConfig{
			Driver: getEnv("STORAGE_DRIVER", "sqlite"),
			Path:   getEnv("STORAGE_PATH", "hr_dashboard.db"),
			Source: getEnv("STORAGE_SOURCE", ""),
		},
		Session: SessionConfig{
			TimeoutMinutes:     getEnvAsInt("SESSION_TIMEOUT_MINUTES", 30),
			AutoRefresh:        getEnvAsBool("SESSION_AUTO_REFRESH", true),
			ShowSessionTimer:   getEnvAsBool("SESSION_SHOW_TIMER", true),
			AccessTokenSecret:  getEnv("SESSION_ACCESS_SECRET", ""),
			RefreshTokenSecret: getEnv("SESSION_REFRESH_SECRET", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultVal
}
