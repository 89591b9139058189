package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const devJWTSecret = "fallback-secret-key-for-dev-only"

// Config holds application configuration
type Config struct {
	// Server
	Env              string
	Port             string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration

	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// JWT
	JWTSecret        string
	JWTIssuer        string
	JWTAudience      string
	JWTExpirationDur time.Duration
	RefreshTokenTTL  time.Duration
	// RefreshReuseRevokesAll revokes every active refresh token of a user
	// when an already-rotated token is presented again.
	RefreshReuseRevokesAll bool

	// Ledger
	MaxTransactionAmount decimal.Decimal
	RecurringWorkers     int
	TriggerAPIKey        string // comma-separated to allow rotation

	// Auth rate limiting (requests per second per client IP)
	AuthRateLimit float64
	AuthRateBurst int

	// Redis (optional, enables the distributed recurring lock)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// AMQP (optional, enables event publishing)
	AMQPURL      string
	AMQPExchange string

	// Logging
	LogFile string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8080"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "budgettracker"),
		DBPassword: getEnv("DB_PASSWORD", "budgettracker"),
		DBName:     getEnv("DB_NAME", "budgettracker"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "budgettracker.db"),

		JWTSecret:   getEnv("JWT_SECRET", devJWTSecret),
		JWTIssuer:   getEnv("JWT_ISSUER", "budgettracker-api"),
		JWTAudience: getEnv("JWT_AUDIENCE", "budgettracker-clients"),

		TriggerAPIKey: getEnv("TRIGGER_API_KEY", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "budgettracker.events"),

		LogFile: getEnv("LOG_FILE", ""),
	}

	config.HTTPReadTimeout = getDuration("HTTP_READ_TIMEOUT", 15*time.Second)
	config.HTTPWriteTimeout = getDuration("HTTP_WRITE_TIMEOUT", 15*time.Second)
	config.JWTExpirationDur = getDuration("JWT_EXPIRES_IN", 15*time.Minute)
	config.RefreshTokenTTL = getDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour)
	config.RefreshReuseRevokesAll = getBool("REFRESH_REUSE_REVOKES_ALL", true)
	config.RecurringWorkers = getInt("RECURRING_WORKERS", 4)
	config.AuthRateLimit = getFloat("AUTH_RATE_LIMIT", 5)
	config.AuthRateBurst = getInt("AUTH_RATE_BURST", 10)
	config.RedisDB = getInt("REDIS_DB", 0)

	maxAmount := getEnv("MAX_TRANSACTION_AMOUNT", "1000000000")
	amount, err := decimal.NewFromString(maxAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_TRANSACTION_AMOUNT %q: %w", maxAmount, err)
	}
	config.MaxTransactionAmount = amount

	if err := config.Validate(); err != nil {
		return nil, err
	}

	appConfig = config
	return config, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (use postgres or sqlite)", c.DBDriver)
	}
	if c.Env == "production" && c.JWTSecret == devJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if !c.MaxTransactionAmount.IsPositive() {
		return fmt.Errorf("MAX_TRANSACTION_AMOUNT must be positive")
	}
	if c.RecurringWorkers < 1 {
		return fmt.Errorf("RECURRING_WORKERS must be at least 1")
	}
	return nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}

func getInt(key string, defaultValue int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, raw, defaultValue)
		return defaultValue
	}
	return n
}

func getFloat(key string, defaultValue float64) float64 {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %g\n", key, raw, defaultValue)
		return defaultValue
	}
	return f
}

func getBool(key string, defaultValue bool) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return defaultValue
	}
	return b
}
