package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	DatabaseURL        string
	Port               string
	GoEnv              string
	GeminiAPIKey       string
	SerperAPIKey       string
	SMTPServer         string
	SMTPPort           string
	SMTPUser           string
	SMTPPassword       string
	AdminPassword      string
	AWSRegion          string
	AWSS3Bucket        string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
}

var configInstance *Config

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	// Determine which environment file to load
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Try to load environment-specific file first
	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		// If environment-specific file doesn't exist, try .env
		if err := godotenv.Load(); err != nil {
			// In deployed environments the variables are set directly,
			// so it's okay if .env files don't exist
			log.Printf("No .env file found, using system environment variables")
		}
	} else {
		log.Printf("Loaded configuration from %s", envFile)
	}

	config := &Config{
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		Port:               getEnv("PORT", "8080"),
		GoEnv:              getEnv("GO_ENV", "development"),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		SerperAPIKey:       getEnv("SERPER_API_KEY", ""),
		SMTPServer:         getEnv("SMTP_SERVER", "smtp.gmail.com"),
		SMTPPort:           getEnv("SMTP_PORT", "587"),
		SMTPUser:           getEnv("SMTP_USER", ""),
		SMTPPassword:       getEnv("SMTP_PASSWORD", ""),
		AdminPassword:      getEnv("ADMIN_PASSWORD", ""),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSS3Bucket:        getEnv("AWS_S3_BUCKET", ""),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
	}

	configInstance = config
	return config, nil
}

// GetConfig returns the loaded configuration instance
func GetConfig() *Config {
	return configInstance
}

// SetConfig sets the configuration instance (primarily for testing)
func SetConfig(cfg *Config) {
	configInstance = cfg
}

// ConfigError reports a missing credential for a feature that requires it.
// It maps to the CONFIG_MISSING error code in HTTP responses.
type ConfigError struct {
	Variable string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("required configuration %s is not set", e.Variable)
}

// RequireVision checks that the image-analysis credential is present
func (c *Config) RequireVision() error {
	if c.GeminiAPIKey == "" {
		return &ConfigError{Variable: "GEMINI_API_KEY"}
	}
	return nil
}

// RequireSearch checks that the web-search credential is present
func (c *Config) RequireSearch() error {
	if c.SerperAPIKey == "" {
		return &ConfigError{Variable: "SERPER_API_KEY"}
	}
	return nil
}

// RequireMail checks that the SMTP credentials are present
func (c *Config) RequireMail() error {
	if c.SMTPUser == "" {
		return &ConfigError{Variable: "SMTP_USER"}
	}
	if c.SMTPPassword == "" {
		return &ConfigError{Variable: "SMTP_PASSWORD"}
	}
	return nil
}

// RequireAdmin checks that the admin password is configured
func (c *Config) RequireAdmin() error {
	if c.AdminPassword == "" {
		return &ConfigError{Variable: "ADMIN_PASSWORD"}
	}
	return nil
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
