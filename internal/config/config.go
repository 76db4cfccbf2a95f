package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting, loaded from the environment with an
// optional .env file for local development.
type Config struct {
	Port        string
	Environment string

	DatabaseURL string
	TablePrefix string

	JWKSURL     string
	CORSOrigins []string

	GeminiAPIKey string
	GeminiModel  string

	StartingTokens int

	PaymentBackendURL   string
	FallbackCheckoutURL string
}

// Load reads configuration from the environment. A missing .env file is not
// an error; missing required variables are.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env file", "error", err)
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		TablePrefix: getEnv("TABLE_PREFIX", ""),

		JWKSURL:     os.Getenv("JWKS_URL"),
		CORSOrigins: []string{getEnv("CORS_ORIGIN", "http://localhost:5173")},

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),

		StartingTokens: getEnvInt("STARTING_TOKENS", 5),

		PaymentBackendURL:   getEnv("PAYMENT_BACKEND_URL", "http://localhost:3001"),
		FallbackCheckoutURL: getEnv("FALLBACK_CHECKOUT_URL", "https://www.mercadopago.com.br/checkout/v1/redirect?pref_id=fallback"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWKSURL == "" {
		return nil, fmt.Errorf("JWKS_URL is required")
	}

	return cfg, nil
}

// IsProduction reports whether we are running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer environment variable, using default", "key", key, "value", v)
		return fallback
	}
	return n
}
