package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends selectable with STORAGE_BACKEND.
const (
	StoragePostgres = "postgres"
	StorageAzTables = "aztables"
	StorageMemory   = "memory"
)

const insecureDefaultSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	StorageBackend       string
	DatabaseURL          string
	MigrationsPath       string
	AzureTableServiceURL string
	AzureTableName       string

	JWTSecret string
	JWTIssuer string

	GeminiAPIKey     string
	GeminiModel      string
	ChatRateLimit    string // ulule limiter format, e.g. "20-M"
	AIMaxAttempts    int
	AIRetryBaseDelay time.Duration
	// In-memory chat conversations expire after ChatConversationTTL idle and are
	// capped at ChatMaxConversations per user.
	ChatConversationTTL  time.Duration
	ChatMaxConversations int

	LedgerCategories []string
	// Location decides which calendar day "today" is.
	Location *time.Location

	PosthogAPIKey   string
	FrontendBaseURL string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("STORAGE_BACKEND", StoragePostgres)
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("AZURE_TABLE_SERVICE_URL", "")
	v.SetDefault("AZURE_TABLE_NAME", "dailybalance")
	v.SetDefault("JWT_SECRET", insecureDefaultSecret)
	v.SetDefault("JWT_ISSUER", "dailybalance")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("CHAT_RATE_LIMIT", "20-M")
	v.SetDefault("AI_MAX_ATTEMPTS", 3)
	v.SetDefault("AI_RETRY_BASE_DELAY", "1s")
	v.SetDefault("CHAT_CONVERSATION_TTL", "24h")
	v.SetDefault("CHAT_MAX_CONVERSATIONS", 20)
	v.SetDefault("LEDGER_CATEGORIES", "")
	v.SetDefault("LEDGER_TIMEZONE", "Local")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:                 v.GetString("PORT"),
		IsProduction:         v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:        v.GetBool("ENABLE_DB_CHECK"),
		StorageBackend:       strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_BACKEND"))),
		DatabaseURL:          v.GetString("PGSQL_URL"),
		MigrationsPath:       v.GetString("MIGRATIONS_PATH"),
		AzureTableServiceURL: v.GetString("AZURE_TABLE_SERVICE_URL"),
		AzureTableName:       v.GetString("AZURE_TABLE_NAME"),
		JWTSecret:            v.GetString("JWT_SECRET"),
		JWTIssuer:            v.GetString("JWT_ISSUER"),
		GeminiAPIKey:         v.GetString("GEMINI_API_KEY"),
		GeminiModel:          v.GetString("GEMINI_MODEL"),
		ChatRateLimit:        v.GetString("CHAT_RATE_LIMIT"),
		AIMaxAttempts:        v.GetInt("AI_MAX_ATTEMPTS"),
		ChatConversationTTL:  v.GetDuration("CHAT_CONVERSATION_TTL"),
		ChatMaxConversations: v.GetInt("CHAT_MAX_CONVERSATIONS"),
		LedgerCategories:     splitList(v.GetString("LEDGER_CATEGORIES")),
		PosthogAPIKey:        v.GetString("POSTHOG_API_KEY"),
		FrontendBaseURL:      v.GetString("FRONTEND_BASE_URL"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	if cfg.JWTSecret == "" || cfg.JWTSecret == insecureDefaultSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = insecureDefaultSecret
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	delayStr := v.GetString("AI_RETRY_BASE_DELAY")
	delay, err := time.ParseDuration(delayStr)
	if err != nil || delay <= 0 {
		delay = time.Second
		log.Printf("Warning: Invalid value for AI_RETRY_BASE_DELAY ('%s'). Defaulting to %s.\n", delayStr, delay)
	}
	cfg.AIRetryBaseDelay = delay

	if cfg.AIMaxAttempts < 1 {
		log.Printf("Warning: Invalid value for AI_MAX_ATTEMPTS (%d). Defaulting to 3.\n", cfg.AIMaxAttempts)
		cfg.AIMaxAttempts = 3
	}

	tz := v.GetString("LEDGER_TIMEZONE")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid LEDGER_TIMEZONE %q: %w", tz, err)
	}
	cfg.Location = loc

	switch cfg.StorageBackend {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required for the %s storage backend", StoragePostgres)
		}
	case StorageAzTables:
		if cfg.AzureTableServiceURL == "" {
			return nil, fmt.Errorf("AZURE_TABLE_SERVICE_URL is required for the %s storage backend", StorageAzTables)
		}
	case StorageMemory:
		log.Println("Warning: using in-memory storage, data is lost on restart.")
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	if cfg.GeminiAPIKey == "" {
		log.Println("Warning: GEMINI_API_KEY not set. The chat advisor will not function.")
	}

	return cfg, nil
}

// splitList parses a comma separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
