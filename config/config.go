package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"xpslots/database"

	"github.com/joho/godotenv"
)

// Storage backends
const (
	StorageBackendPostgres = "postgres"
	StorageBackendMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL    string
	DatabaseName   string
	StorageBackend string // "postgres" or "memory"

	// NATS configuration
	NATSServers string // NATS server addresses (comma-separated), empty disables publishing

	// HTTP API configuration
	HTTPPort           int
	CORSAllowedOrigins []string

	// Discord configuration
	DiscordToken string // empty disables the bot
	GuildID      string

	// Payment gateway configuration
	PaymentGatewayURL       string
	PaymentRecipientAddress string
	PaymentTestnet          bool
	PaymentPollMaxAttempts  int
	PaymentPollIntervalMs   int

	// Token catalog override file
	CatalogPath string

	// OpenTelemetry configuration
	OTelEnabled              bool
	OTelExporterType         string // "console", "otlp" or "none"
	OTelOTLPEndpoint         string
	OTelServiceName          string
	OTelExportIntervalMillis int

	// Logging
	LogLevel string

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// load loads configuration from an optional .env file and environment variables
func load() (*Config, error) {
	// Missing .env is normal outside local development
	_ = godotenv.Load()

	config := &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DatabaseName:   os.Getenv("DATABASE_NAME"),
		StorageBackend: getEnvWithDefault("STORAGE_BACKEND", StorageBackendPostgres),

		NATSServers: os.Getenv("NATS_SERVERS"),

		HTTPPort:           getEnvIntWithDefault("HTTP_PORT", 8080),
		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),

		DiscordToken: os.Getenv("DISCORD_TOKEN"),
		GuildID:      os.Getenv("GUILD_ID"),

		PaymentGatewayURL:       os.Getenv("PAYMENT_GATEWAY_URL"),
		PaymentRecipientAddress: os.Getenv("PAYMENT_RECIPIENT_ADDRESS"),
		PaymentTestnet:          getEnvBoolWithDefault("PAYMENT_TESTNET", true),
		PaymentPollMaxAttempts:  getEnvIntWithDefault("PAYMENT_POLL_MAX_ATTEMPTS", 30),
		PaymentPollIntervalMs:   getEnvIntWithDefault("PAYMENT_POLL_INTERVAL_MS", 2000),

		CatalogPath: os.Getenv("CATALOG_PATH"),

		OTelEnabled:              getEnvBoolWithDefault("OTEL_ENABLED", false),
		OTelExporterType:         getEnvWithDefault("OTEL_EXPORTER_TYPE", "console"),
		OTelOTLPEndpoint:         getEnvWithDefault("OTEL_OTLP_ENDPOINT", "otel-collector:4317"),
		OTelServiceName:          getEnvWithDefault("OTEL_SERVICE_NAME", "xpslots"),
		OTelExportIntervalMillis: getEnvIntWithDefault("OTEL_EXPORT_INTERVAL_MS", 10000),

		LogLevel:    getEnvWithDefault("LOG_LEVEL", "info"),
		Environment: getEnvWithDefault("ENVIRONMENT", "development"),
	}

	if config.Environment != "test" {
		switch config.StorageBackend {
		case StorageBackendPostgres:
			if config.DatabaseURL == "" {
				return nil, fmt.Errorf("DATABASE_URL is required")
			}
			if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
				return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
			}
		case StorageBackendMemory:
		default:
			return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", config.StorageBackend)
		}
		if config.PaymentPollMaxAttempts <= 0 {
			return nil, fmt.Errorf("PAYMENT_POLL_MAX_ATTEMPTS must be positive")
		}
		if config.PaymentPollIntervalMs < 0 {
			return nil, fmt.Errorf("PAYMENT_POLL_INTERVAL_MS cannot be negative")
		}
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:            "test",
		StorageBackend:         StorageBackendMemory,
		HTTPPort:               8080,
		PaymentTestnet:         true,
		PaymentPollMaxAttempts: 3,
		PaymentPollIntervalMs:  0,
		OTelExporterType:       "none",
		OTelServiceName:        "xpslots-test",
		LogLevel:               "debug",
	}
}
