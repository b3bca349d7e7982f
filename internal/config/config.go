package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config holds the application configuration. It is built once at startup and
// passed by reference into the services that need it.
type Config struct {
	ServerPort     int
	DatabasePath   string
	AllowedOrigins []string

	JWTSecret string
	JWTExpiry time.Duration

	BcryptCost int
}

// Load loads configuration from environment variables or sets defaults.
// A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, err
	}

	expireMinutes, err := strconv.Atoi(getEnv("JWT_EXPIRE_MINUTES", "60"))
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:     port,
		DatabasePath:   getEnv("DATABASE_PATH", "./goaltrack.db"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),
		JWTSecret:      getEnv("JWT_SECRET", "goaltrack-dev-secret"),
		JWTExpiry:      time.Duration(expireMinutes) * time.Minute,
		BcryptCost:     bcrypt.DefaultCost,
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
