package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type AppConfig struct {
	// Server
	HTTPAddr string
	AppName  string

	// Database
	DatabaseURL    string
	SessionBackend string

	// Agent
	AgentName            string
	AgentModel           string
	AgentInstructionFile string
	AgentProjectID       string
	OpenAIAPIKey         string

	// JWT
	JWTSecretKey     string
	JWTAllowUnsigned bool
	DevMode          bool

	// GraphQL collaborator
	GraphQLAPIURL string
	// ServiceToken is the fallback credential for outbound calls made outside
	// any request context.
	ServiceToken string

	// Redis / rate limiting
	RedisAddr      string
	RedisPass      string
	ChatRateLimit  int64
	ChatRateWindow time.Duration
}

// Load loads environment variables into AppConfig.
func Load() AppConfig {
	return AppConfig{
		HTTPAddr: getEnv("HTTP_ADDR", ":8000"),
		AppName:  getEnv("APP_NAME", "pulse-epm-agent"),

		DatabaseURL:    databaseURL(),
		SessionBackend: strings.ToLower(getEnv("SESSION_BACKEND", "postgres")),

		AgentName:            getEnv("AGENT_NAME", "pulse_performance_agent"),
		AgentModel:           getEnv("AGENT_MODEL", "gpt-4o-mini"),
		AgentInstructionFile: getEnv("AGENT_INSTRUCTION_FILE", ""),
		AgentProjectID:       getEnv("AGENT_PROJECT_ID", ""),
		OpenAIAPIKey:         getEnv("OPENAI_API_KEY", ""),

		JWTSecretKey:     getEnv("JWT_SECRET_KEY", ""),
		JWTAllowUnsigned: getEnvBool("JWT_ALLOW_UNSIGNED", false),
		DevMode:          getEnvBool("DEV_MODE", false),

		GraphQLAPIURL: getEnv("GRAPHQL_API_URL", "http://localhost:8080/api/v1/performance-management/graphql"),
		ServiceToken:  getEnv("JWT_TOKEN", ""),

		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPass:      getEnv("REDIS_PASS", ""),
		ChatRateLimit:  getEnvInt64("CHAT_RATE_LIMIT", 30),
		ChatRateWindow: getEnvDuration("CHAT_RATE_WINDOW", time.Minute),
	}
}

// databaseURL prefers DATABASE_URL and falls back to assembling one from the
// discrete DB_* variables.
func databaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	pass := getEnv("DB_PASSWORD", "postgres")
	name := getEnv("DB_NAME", "pulse_agent")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s", user, pass, host, port, name)
}

// --- Helper functions ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(strings.ToLower(v))
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}
