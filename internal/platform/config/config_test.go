package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(values map[string]any) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{"PGSQL_URL": "postgres://localhost/db"}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoragePostgres, cfg.StorageBackend)
	assert.Equal(t, "file://migrations", cfg.MigrationsPath)
	assert.Equal(t, "dailybalance", cfg.AzureTableName)
	assert.Equal(t, "20-M", cfg.ChatRateLimit)
	assert.Equal(t, 3, cfg.AIMaxAttempts)
	assert.Equal(t, time.Second, cfg.AIRetryBaseDelay)
	assert.Equal(t, 24*time.Hour, cfg.ChatConversationTTL)
	assert.Equal(t, 20, cfg.ChatMaxConversations)
	assert.Empty(t, cfg.LedgerCategories)
	assert.NotNil(t, cfg.Location)
	assert.Equal(t, insecureDefaultSecret, cfg.JWTSecret)
}

func TestFromViper_Overrides(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{
		"STORAGE_BACKEND":        "MEMORY",
		"AI_MAX_ATTEMPTS":        5,
		"AI_RETRY_BASE_DELAY":    "250ms",
		"CHAT_CONVERSATION_TTL":  "2h",
		"CHAT_MAX_CONVERSATIONS": 3,
		"LEDGER_CATEGORIES":      "Food, Rent,, Travel ",
		"LEDGER_TIMEZONE":        "UTC",
		"JWT_SECRET":             "s3cret",
	}))
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.StorageBackend)
	assert.Equal(t, 5, cfg.AIMaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.AIRetryBaseDelay)
	assert.Equal(t, 2*time.Hour, cfg.ChatConversationTTL)
	assert.Equal(t, 3, cfg.ChatMaxConversations)
	assert.Equal(t, []string{"Food", "Rent", "Travel"}, cfg.LedgerCategories)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
}

func TestFromViper_InvalidValuesFallBack(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{
		"STORAGE_BACKEND":     "memory",
		"AI_MAX_ATTEMPTS":     0,
		"AI_RETRY_BASE_DELAY": "soon",
	}))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.AIMaxAttempts)
	assert.Equal(t, time.Second, cfg.AIRetryBaseDelay)
}

func TestFromViper_Errors(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
	}{
		{"postgres without url", map[string]any{}},
		{"aztables without url", map[string]any{"STORAGE_BACKEND": "aztables"}},
		{"unknown backend", map[string]any{"STORAGE_BACKEND": "redis"}},
		{"bad timezone", map[string]any{"STORAGE_BACKEND": "memory", "LEDGER_TIMEZONE": "Mars/Olympus"}},
		{"default secret in production", map[string]any{"STORAGE_BACKEND": "memory", "IS_PRODUCTION": true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fromViper(newViper(tt.values))
			assert.Error(t, err)
		})
	}
}
