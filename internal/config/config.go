// Package config loads process configuration from the environment once,
// at startup. Every required field is checked up front so a missing
// secret fails the process immediately instead of surfacing later from
// inside a request.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisAddr string

	JWTSecret string

	LLMAPIKey  string
	LLMModel   string
	LLMBaseURL string

	// AllowedOrigin is the frontend origin permitted by CORS.
	AllowedOrigin string
}

// Load reads the environment (and an optional .env file) into a Config.
// It returns an error naming every missing required variable.
func Load() (*Config, error) {
	// .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getenv("PORT", "8080"),
		DBHost:        os.Getenv("DB_HOST"),
		DBPort:        getenv("DB_PORT", "5432"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBName:        os.Getenv("DB_NAME"),
		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		LLMAPIKey:     os.Getenv("LLM_API_KEY"),
		LLMModel:      os.Getenv("LLM_MODEL"),
		LLMBaseURL:    os.Getenv("LLM_BASE_URL"),
		AllowedOrigin: getenv("ALLOWED_ORIGIN", "http://localhost:3000"),
	}

	var missing []string
	for name, val := range map[string]string{
		"DB_HOST":     cfg.DBHost,
		"DB_USER":     cfg.DBUser,
		"DB_PASSWORD": cfg.DBPassword,
		"DB_NAME":     cfg.DBName,
		"JWT_SECRET":  cfg.JWTSecret,
		"LLM_API_KEY": cfg.LLMAPIKey,
	} {
		if val == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
