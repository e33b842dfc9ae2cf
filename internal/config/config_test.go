package config

import (
	"testing"
	"time"

	"github.com/jpp0ca/DV360Trackers-API/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address())
	assert.True(t, cfg.Server.IsDevelopment())
	assert.Equal(t, 1, cfg.Batch.Workers)
	assert.Equal(t, 30*time.Second, cfg.Batch.CallTimeout)
	assert.Equal(t, domain.MergeKeyType, cfg.Batch.MergeKeyPolicy())
	assert.Equal(t, "memory", cfg.Session.Store)
	assert.Equal(t, "sqlite", cfg.History.Type)
	assert.Equal(t, "urn:ietf:wg:oauth:2.0:oob", cfg.OAuth.RedirectURL)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("BATCH_WORKERS", "4")
	t.Setenv("MERGE_KEY", "type_url")
	t.Setenv("STRICT_VARIANT", "true")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("SESSION_TTL", "15m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.Equal(t, domain.MergeKeyTypeURL, cfg.Batch.MergeKeyPolicy())
	assert.True(t, cfg.Batch.StrictVariant)
	assert.Equal(t, "redis", cfg.Session.Store)
	assert.Equal(t, 15*time.Minute, cfg.Session.TTL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value, msg string
	}{
		{"merge key", "MERGE_KEY", "url", "MERGE_KEY"},
		{"workers", "BATCH_WORKERS", "0", "BATCH_WORKERS"},
		{"session store", "SESSION_STORE", "memcached", "SESSION_STORE"},
		{"history type", "HISTORY_DB_TYPE", "postgres", "HISTORY_DB_TYPE"},
		{"mysql without dsn", "HISTORY_DB_TYPE", "mysql", "HISTORY_DB_DSN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
