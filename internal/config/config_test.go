package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetenv clears keys for the duration of t.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	unsetenv(t, "DB_DRIVER", "DB_HOST", "DB_PORT", "DB_USERNAME", "DB_PASSWORD", "DB_NAME", "DB_DSN",
		"PORT", "JWT_EXPIRATION_MINUTES", "ANALYTICS_CACHE_TTL_SECONDS", "STORE_TIMEOUT_SECONDS", "REDIS_URL", "APP_ENV")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, 720, cfg.JWTExpirationMinutes)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, 10*time.Second, cfg.StoreTimeout)
	assert.Empty(t, cfg.Redis.URL)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "root:@tcp(localhost:3306)/barangay_health?charset=utf8mb4&parseTime=True&loc=UTC", cfg.Database.DSN)
}

func TestLoadConfigDrivers(t *testing.T) {
	unsetenv(t, "DB_DSN", "DB_PORT")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USERNAME", "bhw")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_NAME", "records")

	t.Run("postgres", func(t *testing.T) {
		t.Setenv("DB_DRIVER", DriverPostgres)
		t.Setenv("DB_PORT", "5433")
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "host=db port=5433 user=bhw password=pw dbname=records sslmode=disable TimeZone=UTC", cfg.Database.DSN)
	})

	t.Run("sqlite", func(t *testing.T) {
		t.Setenv("DB_DRIVER", DriverSQLite)
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "records.db", cfg.Database.DSN)
	})

	t.Run("explicit dsn wins", func(t *testing.T) {
		t.Setenv("DB_DRIVER", DriverSQLite)
		t.Setenv("DB_DSN", "file::memory:?cache=shared")
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "file::memory:?cache=shared", cfg.Database.DSN)
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "oracle")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "invalid DB_DRIVER")
	})
}

func TestLoadConfigRejectsBadNumbers(t *testing.T) {
	t.Setenv("DB_DRIVER", DriverMemory)
	unsetenv(t, "JWT_EXPIRATION_MINUTES", "ANALYTICS_CACHE_TTL_SECONDS", "STORE_TIMEOUT_SECONDS")

	tests := []struct {
		key, value string
	}{
		{"JWT_EXPIRATION_MINUTES", "soon"},
		{"JWT_EXPIRATION_MINUTES", "0"},
		{"ANALYTICS_CACHE_TTL_SECONDS", "-5"},
		{"STORE_TIMEOUT_SECONDS", "1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := LoadConfig()
			assert.ErrorContains(t, err, "invalid "+tt.key)
		})
	}
}
