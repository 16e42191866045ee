// Package config loads the portal client's settings from .env and the environment.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL string
	DSN        string
	JWTKey     []byte
	LogLevel   string
}

// Load reads an optional .env file and then the environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		APIBaseURL: strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:4000"), "/"),
		DSN:        getEnv("PORTAL_DSN", "file:portal.db"),
		JWTKey:     []byte(getEnv("JWT_SECRET", "defaultsecret")),
		LogLevel:   getEnv("LOG_LEVEL", "warn"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
