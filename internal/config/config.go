package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port         string
	DBPath       string
	LogLevel     string
	SecureCookie bool
}

// NewConfig loads configuration from an optional .env file and the environment.
func NewConfig() *Config {
	// A missing .env file is fine; the environment still applies.
	_ = godotenv.Load()

	return &Config{
		Port:         getEnv("PORT", "8080"),
		DBPath:       getEnv("DB_PATH", "meals.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		SecureCookie: getEnv("SECURE_COOKIE", "false") == "true",
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
