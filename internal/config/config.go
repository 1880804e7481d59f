// Package config provides environment configuration for the API server.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration

	// Durable record store
	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	// Analytics warehouse (mysql://... or sqlite://...); empty disables it
	WarehouseDSN   string
	WarehouseTable string

	// Conversation state
	RedisURL        string
	SessionTTL      time.Duration
	ContextLifespan int

	// NATS settings
	NATSURL           string
	NATSCAFile        string
	NATSCertFile      string
	NATSKeyFile       string
	NATSToken         string
	NATSMirrorEnabled bool

	// Mirror writes
	MirrorMaxRetries int
	MirrorTimeout    time.Duration

	// Normalization
	PlacesFile          string
	PlaceMatchThreshold float64
	Timezone            string

	IdempotencyTTL time.Duration

	// JWT settings; an empty secret disables authentication
	JWTSecret string

	// Rate limiting
	RateLimitRequests int
	RateLimitWindow   time.Duration

	CORSAllowedOrigins []string

	// Logging
	LogLevel string

	// Tracing
	TracingEndpoint string
	TracingEnabled  bool
}

// Load reads configuration from environment variables. A .env file in the
// working directory is loaded first when present; variables already set in
// the environment win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		// Server
		ServerPort:         getEnv("PORT", "8080"),
		ServerReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
		ServerWriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),

		// Mongo
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGO_DATABASE", "heartfulness"),
		MongoCollection: getEnv("MONGO_COLLECTION", "event-summary"),

		// Warehouse
		WarehouseDSN:   getEnv("WAREHOUSE_DSN", ""),
		WarehouseTable: getEnv("WAREHOUSE_TABLE", "event_summary"),

		// Sessions
		RedisURL:        getEnv("REDIS_URL", ""),
		SessionTTL:      getDurationEnv("SESSION_TTL", 30*time.Minute),
		ContextLifespan: getIntEnv("CONTEXT_LIFESPAN", 12),

		// NATS
		NATSURL:           getEnv("NATS_URL", "nats://localhost:4222"),
		NATSCAFile:        getEnv("NATS_CA_FILE", ""),
		NATSCertFile:      getEnv("NATS_CERT_FILE", ""),
		NATSKeyFile:       getEnv("NATS_KEY_FILE", ""),
		NATSToken:         getEnv("NATS_TOKEN", ""),
		NATSMirrorEnabled: getBoolEnv("NATS_MIRROR_ENABLED", false),

		// Mirrors
		MirrorMaxRetries: getIntEnv("MIRROR_MAX_RETRIES", 3),
		MirrorTimeout:    getDurationEnv("MIRROR_TIMEOUT", 30*time.Second),

		// Normalization
		PlacesFile:          getEnv("PLACES_FILE", ""),
		PlaceMatchThreshold: getFloatEnv("PLACE_MATCH_THRESHOLD", 0.8),
		Timezone:            getEnv("TIMEZONE", "Asia/Kolkata"),

		IdempotencyTTL: getDurationEnv("IDEMPOTENCY_TTL", time.Hour),

		// JWT
		JWTSecret: getEnv("WEBHOOK_JWT_SECRET", ""),

		// Rate limiting
		RateLimitRequests: getIntEnv("RATE_LIMIT_REQUESTS", 120),
		RateLimitWindow:   getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),

		CORSAllowedOrigins: getListEnv("CORS_ALLOWED_ORIGINS", nil),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Tracing
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4318"),
		TracingEnabled:  getBoolEnv("TRACING_ENABLED", false),
	}
}

// Location resolves Timezone, falling back to UTC when it is unknown.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
