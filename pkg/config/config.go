package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"wanderai/pkg/logger"
)

const (
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

// Config is the full runtime configuration, read once at startup.
type Config struct {
	Port string

	// Candidates are ordered backend ids in the form provider:model.
	Candidates    []string
	GeminiAPIKey  string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	ClaudeAPIKey  string
	ClaudeBaseURL string

	GenerationAttempts int
	GenerationBackoff  time.Duration
	GenerationTimeout  time.Duration
	MinHotels          int
	MaxTripDays        int

	TripStore     string
	PostgresURL   string
	MongoURL      string
	MongoDatabase string
	RedisURL      string
	TripCacheTTL  time.Duration

	JWTSecret          string
	GenerateRatePerMin int
	CORSOrigins        []string

	LogLevel string
	LogFile  string
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("could not read .env file", "err", err)
	}

	return &Config{
		Port: getEnvWithDefault("PORT", "8080"),

		Candidates:    splitList(getEnvWithDefault("GENERATION_CANDIDATES", "gemini:gemini-2.0-flash,gemini:gemini-1.5-flash")),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		ClaudeAPIKey:  os.Getenv("CLAUDE_API_KEY"),
		ClaudeBaseURL: os.Getenv("CLAUDE_BASE_URL"),

		GenerationAttempts: getIntWithDefault("GENERATION_ATTEMPTS", 2),
		GenerationBackoff:  getDurationWithDefault("GENERATION_BACKOFF", 500*time.Millisecond),
		GenerationTimeout:  getDurationWithDefault("GENERATION_TIMEOUT", 30*time.Second),
		MinHotels:          getIntWithDefault("MIN_HOTELS", 3),
		MaxTripDays:        getIntWithDefault("MAX_TRIP_DAYS", 15),

		TripStore:     strings.ToLower(getEnvWithDefault("TRIP_STORE", StorePostgres)),
		PostgresURL:   os.Getenv("POSTGRES_URL"),
		MongoURL:      getEnvWithDefault("MONGO_URL", "mongodb://localhost:27017"),
		MongoDatabase: getEnvWithDefault("MONGO_DATABASE", "wanderai"),
		RedisURL:      os.Getenv("REDIS_URL"),
		TripCacheTTL:  getDurationWithDefault("TRIP_CACHE_TTL", time.Hour),

		JWTSecret:          os.Getenv("JWT_SECRET"),
		GenerateRatePerMin: getIntWithDefault("GENERATE_RATE_PER_MIN", 5),
		CORSOrigins:        splitList(getEnvWithDefault("CORS_ORIGINS", "*")),

		LogLevel: getEnvWithDefault("LOG_LEVEL", "info"),
		LogFile:  os.Getenv("LOG_FILE"),
	}
}

// getEnvWithDefault returns environment variable or default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntWithDefault(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < 0 {
		logger.Warn("ignoring invalid integer setting", "key", key, "value", raw)
		return defaultValue
	}
	return v
}

func getDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil || v < 0 {
		logger.Warn("ignoring invalid duration setting", "key", key, "value", raw)
		return defaultValue
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
