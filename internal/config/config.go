// Package config loads process-wide configuration once at startup
// from the environment (optionally via a .env file).
package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port          string
	DBPath        string
	JWTSecret     string
	CORSOrigins   []string
	SeedOnStartup bool
}

var defaultCORSOrigins = []string{
	"http://localhost:5173", // Vite dev server
	"http://localhost:8080", // Production
	"http://127.0.0.1:5173",
	"http://127.0.0.1:8080",
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first if present; real env vars take precedence.
// JWT_SECRET is required, everything else has defaults.
func Load() (*Config, error) {
	// Ignore a missing .env; env vars alone are fine in production.
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8070"),
		DBPath:        getEnv("DB_PATH", "./hedgex.db"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		CORSOrigins:   defaultCORSOrigins,
		SeedOnStartup: getEnv("SEED_ON_STARTUP", "true") != "false",
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.CORSOrigins = strings.Split(origins, ",")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
