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
	DBName string
	JWTKey string

	// AdminCommissionPercent is the platform cut applied when an enrollment
	// payment is settled. It is passed into the settlement engine explicitly
	// and frozen on each record, so changing it here never rewrites history.
	AdminCommissionPercent int

	// ProgressAPIURL points at an external progress service. When empty, the
	// engine reads progress metrics from its own database.
	ProgressAPIURL string

	EmailSender string
	Password    string // SMTP Password
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	// Initialize AppConfig with values from environment variables
	AppConfig = &Config{
		Port:   getEnv("PORT", "3000"),
		DBName: getEnv("DB_NAME", "coursely.db"),
		JWTKey: getEnv("JWT_SECRET_KEY", "defaultSecret"),

		AdminCommissionPercent: getEnvInt("ADMIN_COMMISSION_PERCENT", 10),

		ProgressAPIURL: getEnv("PROGRESS_API_URL", ""),

		EmailSender: getEnv("EMAIL_SENDER", "defaultSecret"),
		Password:    getEnv("PASSWORD", "defaultSecret"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.AdminCommissionPercent < 0 || AppConfig.AdminCommissionPercent > 100 {
		log.Printf("Warning: ADMIN_COMMISSION_PERCENT %d is out of range, falling back to 10.", AppConfig.AdminCommissionPercent)
		AppConfig.AdminCommissionPercent = 10
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
