package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port   string
	JWTKey string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	// Billing provider (VTPass-compatible API)
	ProviderBaseURL   string
	ProviderAPIKey    string
	ProviderSecretKey string
	ProviderTimeoutMs int

	SendGridAPIKey string
	EmailSender    string

	SchedulerEnabled bool
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:   getEnv("PORT", "3000"),
		JWTKey: getEnv("JWT_SECRET_KEY", "defaultSecret"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "vtu"),
		DBPort:     getEnv("DB_PORT", "5432"),

		ProviderBaseURL:   getEnv("PROVIDER_BASE_URL", "https://sandbox.vtpass.com/api"),
		ProviderAPIKey:    getEnv("PROVIDER_API_KEY", ""),
		ProviderSecretKey: getEnv("PROVIDER_SECRET_KEY", ""),
		ProviderTimeoutMs: getEnvInt("PROVIDER_TIMEOUT_MS", 30000),

		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		EmailSender:    getEnv("EMAIL_SENDER", "no-reply@example.com"),

		SchedulerEnabled: getEnv("SCHEDULER_ENABLED", "true") == "true",
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.ProviderAPIKey == "" {
		log.Println("Warning: PROVIDER_API_KEY not set. Purchases will fail as service unavailable.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
