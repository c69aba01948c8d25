package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port        string
	Environment string
	FredAPIKey  string
	Timezone    string
	LogLevel    string
}

var AppConfig *Config

// LoadConfig loads environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using environment variables")
	}

	config := &Config{
		Port:        getEnv("PORT", "8000"),
		Environment: getEnv("ENVIRONMENT", "development"),
		FredAPIKey:  getEnv("FRED_API_KEY", ""),
		Timezone:    getEnv("TIMEZONE", "Asia/Seoul"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	if config.FredAPIKey == "" {
		log.Warn().Msg("FRED_API_KEY not set, FRED-backed indicators will serve defaults")
	}

	AppConfig = config
	return config, nil
}

// Location resolves the configured timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Warn().Str("timezone", c.Timezone).Msg("unknown timezone, using UTC")
		return time.UTC
	}
	return loc
}

// getEnv gets an environment variable with a fallback default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
