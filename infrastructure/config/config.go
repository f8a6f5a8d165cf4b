// Package config loads the persistence layer's configuration and builds the
// DynamoDB client handed to the repositories.
package config

import (
	"context"
	"fmt"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the store configuration supplied to every component.
type Config struct {
	Environment string

	// AWS configuration
	AWSRegion     string `validate:"required"`
	TableName     string `validate:"required"`
	GSI1IndexName string `validate:"required"` // EntityTimeIndex

	// Observability
	MetricsNamespace string
	EnableTracing    bool

	// Logging
	LogLevel string
}

// LoadConfig loads configuration from the environment. A local .env file is
// honored when present.
func LoadConfig() (*Config, error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	cfg := &Config{
		Environment:      getEnv("ENVIRONMENT", "development"),
		AWSRegion:        getEnv("AWS_REGION", "us-east-1"),
		TableName:        getEnv("TABLE_NAME", "hangout"),
		GSI1IndexName:    getEnv("GSI1_INDEX_NAME", "EntityTimeIndex"),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "HangoutBackend"),
		EnableTracing:    getEnvBool("ENABLE_TRACING", false),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// IsProduction checks if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// NewDynamoDBClient builds the store client for the configured region.
func NewDynamoDBClient(ctx context.Context, cfg *Config) (*dynamodb.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return dynamodb.NewFromConfig(awsCfg), nil
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}
