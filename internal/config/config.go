package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	AppEnv               string
	Port                 string
	DatabaseURL          string
	RedisURL             string
	SessionSecret        string
	LogLevel             string
	LogFormat            string
	MaxClientsPerChannel int
	InstanceID           string
}

func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:        getEnv("APP_ENV", "development"),
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisURL:      getEnv("REDIS_URL", ""),
		SessionSecret: getEnv("SESSION_SECRET", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
		InstanceID:    getEnv("INSTANCE_ID", ""),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required")
	}

	maxClients := getEnv("MAX_CLIENTS_PER_CHANNEL", "100")
	n, err := strconv.Atoi(maxClients)
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("MAX_CLIENTS_PER_CHANNEL must be a positive integer, got %q", maxClients)
	}
	cfg.MaxClientsPerChannel = n

	if cfg.InstanceID == "" {
		hostname, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("INSTANCE_ID not set and hostname unavailable: %w", err)
		}
		cfg.InstanceID = hostname
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
