package config

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process configuration, read once at startup
type Config struct {
	Addr        string
	DatabaseURL string
	JWTSecret   string
	TokenTTL    time.Duration

	AdminEmail    string
	AdminPassword string
}

// Load reads .env if present, then the environment. DATABASE_URL falls
// back to a local sqlite file for development; JWT_SECRET has no safe
// default and must be set.
func Load() (*Config, error) {
	_ = godotenv.Load()

	c := &Config{
		Addr:          getenv("HTTP_ADDR", ":8080"),
		DatabaseURL:   getenv("DATABASE_URL", "leadcrm.db"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		TokenTTL:      24 * time.Hour,
		AdminEmail:    getenv("ADMIN_EMAIL", "admin@leadcrm.local"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
	if c.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is empty")
	}
	if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return nil, errors.New("TOKEN_TTL is not a duration: " + ttl)
		}
		c.TokenTTL = d
	}
	return c, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
