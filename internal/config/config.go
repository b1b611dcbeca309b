package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"catalog-backend/internal/infrastructure/database"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config is populated from environment variables (and .env in development).
type Config struct {
	App      AppConfig
	Database *database.DBConfig
	Redis    RedisConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	Locale      string // default locale for formatted dates
	LogLevel    string
	CORSOrigins []string
	Storage     string // postgres, memory
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Password string
	DB       int
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	dbConfig, err := LoadDatabaseConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Catalog API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Locale:      getEnv("APP_LOCALE", "en"),
			LogLevel:    getEnv("APP_LOG_LEVEL", "info"),
			CORSOrigins: splitList(getEnv("APP_CORS_ORIGINS", "*")),
			Storage:     strings.ToLower(getEnv("APP_STORAGE", StoragePostgres)),
		},
		Database: dbConfig,
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", true),
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.App.Port); err != nil {
		return fmt.Errorf("APP_PORT must be numeric, got %q", c.App.Port)
	}

	if c.App.Storage != StoragePostgres && c.App.Storage != StorageMemory {
		return fmt.Errorf("APP_STORAGE must be %q or %q, got %q", StoragePostgres, StorageMemory, c.App.Storage)
	}

	for _, o := range c.App.CORSOrigins {
		if o != "*" && !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			return fmt.Errorf("APP_CORS_ORIGINS entry %q must start with http:// or https://", o)
		}
	}

	if c.App.Environment == "production" {
		if c.App.Storage == StorageMemory {
			return fmt.Errorf("APP_STORAGE=memory is not allowed in production")
		}
		if c.Database.Password == "" || c.Database.Password == defaultDBPassword {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		for _, o := range c.App.CORSOrigins {
			if o == "*" {
				return fmt.Errorf("APP_CORS_ORIGINS must list explicit origins in production")
			}
		}
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
