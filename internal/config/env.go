package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

func loadDotEnv() {
	if err := godotenv.Load(); err != nil {
		Logger.Debug(".env file not found, using system environment variables")
	}
}

// Env returns the environment variable or the default when unset.
func Env(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func EnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		Logger.WithError(err).Warnf("Invalid integer in %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return parsed
}

func EnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		Logger.WithError(err).Warnf("Invalid duration in %s, using default %s", key, defaultValue)
		return defaultValue
	}
	return parsed
}
