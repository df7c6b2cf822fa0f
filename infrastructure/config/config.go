package config

import (
	"os"

	"github.com/go-playground/validator/v10"

	"dhammakb/pkg/apperrors"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `validate:"required"`
	Environment   string `validate:"required,oneof=development staging production"`

	// AWS configuration
	AWSRegion       string `validate:"required"`
	ListsTable      string `validate:"required"`
	DhammasTable    string `validate:"required"`
	ParentIndexName string `validate:"required"`

	// Seeding
	SpreadsheetPath string
	EssaysDir       string

	// Essay generation
	AnthropicAPIKey string
	EssayModel      string

	// Logging and features
	LogLevel   string `validate:"oneof=debug info warn error"`
	EnableCORS bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		AWSRegion:       getEnv("AWS_REGION", "us-west-2"),
		ListsTable:      getEnv("LISTS_TABLE", "dhamma-lists"),
		DhammasTable:    getEnv("DHAMMAS_TABLE", "dhamma-dhammas"),
		ParentIndexName: getEnv("PARENT_INDEX_NAME", "ParentIndex"),

		SpreadsheetPath: getEnv("SPREADSHEET_PATH", "data/dhammas.xlsx"),
		EssaysDir:       getEnv("ESSAYS_DIR", "data/essays"),

		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		EssayModel:      getEnv("ESSAY_MODEL", "claude-sonnet-4-20250514"),

		LogLevel:   getEnv("LOG_LEVEL", "info"),
		EnableCORS: getEnvBool("ENABLE_CORS", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return apperrors.NewValidationError("invalid configuration").WithCause(err)
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}
