// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"xpense-wallet/internal/util"
	"xpense-wallet/pkg/db" // Import db package for its Config struct
)

// Store drivers.
const (
	StoreDriverFile     = "file"
	StoreDriverMemory   = "memory"
	StoreDriverPostgres = "postgres"
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort     string
	LogLevel       slog.Level
	StoreDriver    string
	DataFile       string
	RequestTimeout time.Duration
	DB             db.Config
}

// LoadConfig loads configuration from environment variables, after seeding them
// from the file named by ENV_FILE (default ".env") when it exists. Variables
// already set in the environment win over the file.
func LoadConfig() (*AppConfig, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
	}

	logLevel, err := util.ParseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	storeDriver := getEnv("STORE_DRIVER", StoreDriverFile)
	switch storeDriver {
	case StoreDriverFile, StoreDriverMemory, StoreDriverPostgres:
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER %q: want %s, %s or %s", storeDriver, StoreDriverFile, StoreDriverMemory, StoreDriverPostgres)
	}

	requestTimeout, err := time.ParseDuration(getEnv("REQUEST_TIMEOUT", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
	}
	if requestTimeout <= 0 {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: must be positive")
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432")) // Default PostgreSQL port
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	return &AppConfig{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		LogLevel:       logLevel,
		StoreDriver:    storeDriver,
		DataFile:       getEnv("DATA_FILE", "data/db.json"),
		RequestTimeout: requestTimeout,
		DB: db.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "user"),
			Password: getEnv("DB_PASSWORD", "password"),
			DBName:   getEnv("DB_NAME", "walletdb"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
