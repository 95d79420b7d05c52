package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("PGSQL_URL", "")
	t.Setenv("REPORT_CACHE_TTL", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("ENTRY_NUMBER_PREFIX", "")
	t.Setenv("ENTRY_NUMBER_MAX_ATTEMPTS", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.Equal(t, 5*time.Minute, cfg.ReportCacheTTL)
	assert.Equal(t, 5, cfg.EntryNumberMaxAttempts)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("PORT", "9090")
	t.Setenv("REPORT_CACHE_TTL", "30s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("ENTRY_NUMBER_PREFIX", "GL")
	t.Setenv("ENTRY_NUMBER_MAX_ATTEMPTS", "3")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.ReportCacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "GL", cfg.EntryNumberPrefix)
	assert.Equal(t, 3, cfg.EntryNumberMaxAttempts)
}

func TestLoadConfigRequiresDatabaseForPostgres(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("PGSQL_URL", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")

	_, err := LoadConfig()
	assert.Error(t, err)
}
