package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL   string
	RedisURL      string
	SiteOrigin    string // Public origin used in short URLs and emailed links
	JWTSecret     string // Secret key for session token signing
	SessionTTL    int    // Session token lifetime in hours
	MagicLinkTTL  int    // Magic-link token lifetime in minutes
	ClickWorkers  int    // Number of click accounting workers
	ClickQueue    int    // Click event queue capacity
	SMTPAddr      string // host:port of the outgoing mail server (empty = log only)
	SMTPFrom      string // From address for magic-link mail
	MeasurementID string // Analytics measurement id handed to dashboard clients
	Port          string
}

func Load() *Config {
	// Try to load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or defaults")
	}

	return &Config{
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisURL:      getEnv("REDIS_URL", ""),
		SiteOrigin:    getEnv("SITE_ORIGIN", "http://localhost:8080"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		SessionTTL:    getEnvInt("SESSION_TTL_HOURS", 24),
		MagicLinkTTL:  getEnvInt("MAGIC_LINK_TTL_MINUTES", 15),
		ClickWorkers:  getEnvInt("CLICK_WORKERS", 4),
		ClickQueue:    getEnvInt("CLICK_QUEUE_SIZE", 256),
		SMTPAddr:      getEnv("SMTP_ADDR", ""),
		SMTPFrom:      getEnv("SMTP_FROM", ""),
		MeasurementID: getEnv("MEASUREMENT_ID", ""),
		Port:          getEnv("PORT", "8080"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
