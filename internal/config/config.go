package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port        string
	Environment string

	// Reconciliation constants
	AnnualFee   float64
	HourlyRate  float64
	FuzzyCutoff float64

	// JWT
	JWTSecret          string
	JWTExpirationHours int

	// Operator account (single configured user, no user table)
	AdminEmail        string
	AdminPasswordHash string

	// Storage
	StoragePath   string
	RetentionDays int

	// Background Workers
	WorkerCount int

	// Uploads
	MaxUploadMB int64

	// CORS
	AllowedOrigins []string

	// Sentry
	SentryDSN string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		AnnualFee:          getEnvAsFloat("ANNUAL_FEE", 120.0),
		HourlyRate:         getEnvAsFloat("HOURLY_RATE", 5.0),
		FuzzyCutoff:        getEnvAsFloat("FUZZY_CUTOFF", 0.86),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		JWTExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
		AdminEmail:         getEnv("ADMIN_EMAIL", "finance@club.local"),
		AdminPasswordHash:  getEnv("ADMIN_PASSWORD_HASH", ""),
		StoragePath:        getEnv("STORAGE_PATH", "./storage"),
		RetentionDays:      getEnvAsInt("RETENTION_DAYS", 30),
		WorkerCount:        getEnvAsInt("WORKER_COUNT", 2),
		MaxUploadMB:        int64(getEnvAsInt("MAX_UPLOAD_MB", 10)),
		AllowedOrigins:     getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
		SentryDSN:          getEnv("SENTRY_DSN", ""),
	}

	// Validate reconciliation constants
	if cfg.AnnualFee <= 0 {
		return nil, fmt.Errorf("ANNUAL_FEE must be positive, got %v", cfg.AnnualFee)
	}
	if cfg.HourlyRate <= 0 {
		return nil, fmt.Errorf("HOURLY_RATE must be positive, got %v", cfg.HourlyRate)
	}
	if cfg.FuzzyCutoff <= 0 || cfg.FuzzyCutoff > 1 {
		return nil, fmt.Errorf("FUZZY_CUTOFF must be in (0,1], got %v", cfg.FuzzyCutoff)
	}

	if cfg.JWTSecret == "" && cfg.Environment == "production" {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}

	// Set default JWT secret for development
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret-change-in-production"
	}

	return cfg, nil
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as integer
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsFloat reads an environment variable as float64
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsSlice reads an environment variable as comma-separated slice
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
