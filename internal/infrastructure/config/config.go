package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// MongoDB
	MongoURI string
	MongoDB  string

	// PostgreSQL (user directory + notification log)
	PostgresURI string

	// Sweep
	SweepInterval time.Duration
	SweepWorkers  int
	ReminderLead  time.Duration

	// Filing
	FilingMode     string
	FilingEndpoint string
	FilingAPIKey   string
	FilingTimeout  time.Duration

	// Gmail
	GmailClientID     string
	GmailClientSecret string
	GmailRefreshToken string
	EmailFrom         string

	// WhatsApp
	WhatsAppEndpoint string
	WhatsAppToken    string

	// Service fee charged per submission
	ServiceFeeAmount   float64
	ServiceFeeCurrency string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	// Set defaults and override with env vars
	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		MongoURI: getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "arrivalcard"),

		PostgresURI: getEnv("POSTGRES_DSN", ""),

		SweepInterval: time.Duration(getEnvAsInt("SWEEP_INTERVAL", 3600)) * time.Second,
		SweepWorkers:  getEnvAsInt("SWEEP_WORKERS", 4),
		ReminderLead:  time.Duration(getEnvAsInt("REMINDER_LEAD_HOURS", 24)) * time.Hour,

		FilingMode:     getEnv("FILING_MODE", "simulate"),
		FilingEndpoint: getEnv("FILING_ENDPOINT", ""),
		FilingAPIKey:   getEnv("FILING_API_KEY", ""),
		FilingTimeout:  time.Duration(getEnvAsInt("FILING_TIMEOUT", 30)) * time.Second,

		GmailClientID:     getEnv("GMAIL_CLIENT_ID", ""),
		GmailClientSecret: getEnv("GMAIL_CLIENT_SECRET", ""),
		GmailRefreshToken: getEnv("GMAIL_REFRESH_TOKEN", ""),
		EmailFrom:         getEnv("EMAIL_FROM", ""),

		WhatsAppEndpoint: getEnv("WHATSAPP_ENDPOINT", ""),
		WhatsAppToken:    getEnv("WHATSAPP_TOKEN", ""),

		ServiceFeeAmount:   getEnvAsFloat("SERVICE_FEE_AMOUNT", 19.99),
		ServiceFeeCurrency: getEnv("SERVICE_FEE_CURRENCY", "USD"),
	}

	return config, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}
