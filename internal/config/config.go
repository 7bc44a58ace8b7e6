// Package config reads application settings from the environment.
package config

import (
	"os"
	"time"
)

type Config struct {
	Addr      string
	MongoURI  string
	Database  string
	JWTSecret string
	TokenTTL  time.Duration
	WebDir    string
}

// FromEnv builds a Config from environment variables, falling back to
// local-development defaults.
func FromEnv() Config {
	return Config{
		Addr:      getEnv("ADDR", ":5000"),
		MongoURI:  getEnv("MONGO_URI", "mongodb://127.0.0.1:27017/sabra-music"),
		Database:  getEnv("MONGO_DB", "sabra-music"),
		JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:  getDuration("TOKEN_TTL", 7*24*time.Hour),
		WebDir:    getEnv("WEB_DIR", "web"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
