// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"stocksim/pkg/db"
)

// Quote provider selection.
const (
	QuoteProviderYahoo  = "yahoo"
	QuoteProviderStatic = "static"
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort    string
	DB            db.Config
	RedisAddr     string // empty means in-memory sessions
	SessionTTL    time.Duration
	QuoteProvider string
}

// LoadConfig loads configuration from environment variables, reading an
// optional .env file first. It returns an AppConfig instance or an error if
// any variable is invalid.
func LoadConfig() (*AppConfig, error) {
	// A missing .env file is fine; the environment takes precedence anyway.
	_ = godotenv.Load()

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}
	dbPortStr := os.Getenv("DB_PORT")
	if dbPortStr == "" {
		dbPortStr = "5432"
	}
	dbPort, err := strconv.Atoi(dbPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	dbUser := os.Getenv("DB_USER")
	if dbUser == "" {
		dbUser = "user"
	}
	dbPassword := os.Getenv("DB_PASSWORD")
	if dbPassword == "" {
		dbPassword = "password"
	}
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "stocksim"
	}
	dbSSLMode := os.Getenv("DB_SSLMODE")
	if dbSSLMode == "" {
		dbSSLMode = "disable"
	}

	sessionTTL := 24 * time.Hour
	if ttlStr := os.Getenv("SESSION_TTL"); ttlStr != "" {
		sessionTTL, err = time.ParseDuration(ttlStr)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
		}
	}

	quoteProvider := os.Getenv("QUOTE_PROVIDER")
	if quoteProvider == "" {
		quoteProvider = QuoteProviderYahoo
	}
	if quoteProvider != QuoteProviderYahoo && quoteProvider != QuoteProviderStatic {
		return nil, fmt.Errorf("invalid QUOTE_PROVIDER %q", quoteProvider)
	}

	return &AppConfig{
		ServerPort: serverPort,
		DB: db.Config{
			Host:     dbHost,
			Port:     dbPort,
			User:     dbUser,
			Password: dbPassword,
			DBName:   dbName,
			SSLMode:  dbSSLMode,
		},
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		SessionTTL:    sessionTTL,
		QuoteProvider: quoteProvider,
	}, nil
}
