// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ServerConfig holds all server-related settings
type ServerConfig struct {
	Port           int
	Host           string
	MetricsEnabled bool
}

// DatabaseConfig holds document-store connection settings
type DatabaseConfig struct {
	URI  string
	Name string
}

// StorageConfig holds object-storage settings for media uploads
type StorageConfig struct {
	Region    string
	Bucket    string
	URLExpiry int // seconds a presigned upload URL stays valid
}

// Config holds the complete application configuration
type Config struct {
	Server         *ServerConfig
	Database       *DatabaseConfig
	Storage        *StorageConfig
	JWTSecret      string
	AllowedOrigins []string
	Debug          bool
}

// DefaultConfig provides default server settings
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Port:           8080,
		Host:           "0.0.0.0",
		MetricsEnabled: true,
	}
}

// LoadConfig loads configuration from environment variables and applies defaults
func LoadConfig() (*Config, error) {
	// Try to load .env file from multiple possible locations
	envLocations := []string{
		".env",       // Current directory
		"../../.env", // Project root when running from cmd/server
	}

	envLoaded := false
	for _, location := range envLocations {
		if err := godotenv.Load(location); err == nil {
			envLoaded = true
			break
		}
	}

	if !envLoaded {
		// Silent failure if no .env exists, which is fine
		_ = godotenv.Load()
	}

	serverConfig := DefaultConfig()

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			serverConfig.Port = port
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		serverConfig.Host = host
	}

	if metricsEnabled := os.Getenv("METRICS_ENABLED"); metricsEnabled != "" {
		serverConfig.MetricsEnabled = metricsEnabled == "true"
	}

	dbConfig := &DatabaseConfig{
		URI:  os.Getenv("DB_LOCATION"),
		Name: getEnvOrDefault("DB_NAME", "uvavine"),
	}
	if dbConfig.URI == "" {
		return nil, fmt.Errorf("DB_LOCATION environment variable is required")
	}

	jwtSecret := os.Getenv("SECRET_ACCESS_KEY")
	if jwtSecret == "" {
		return nil, fmt.Errorf("SECRET_ACCESS_KEY environment variable is required")
	}

	storageConfig := &StorageConfig{
		Region:    getEnvOrDefault("AWS_REGION", "us-east-2"),
		Bucket:    getEnvOrDefault("AWS_BUCKET", "uvavine-media"),
		URLExpiry: 1000,
	}
	if expiryStr := os.Getenv("AWS_URL_EXPIRY"); expiryStr != "" {
		if expiry, err := strconv.Atoi(expiryStr); err == nil {
			storageConfig.URLExpiry = expiry
		}
	}

	config := &Config{
		Server:         serverConfig,
		Database:       dbConfig,
		Storage:        storageConfig,
		JWTSecret:      jwtSecret,
		AllowedOrigins: []string{"*"},
		Debug:          false,
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		config.AllowedOrigins = strings.Split(origins, ",")
	}

	if debug := os.Getenv("DEBUG"); debug == "true" {
		config.Debug = true
	}

	return config, nil
}

// Helper function to get environment variable with default fallback
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
