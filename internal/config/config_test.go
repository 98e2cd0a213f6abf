package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "GO_ENV", "LOG_LEVEL", "STORAGE_DRIVER", "DATABASE_URL", "SQLITE_PATH",
		"POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB", "POSTGRES_HOST", "POSTGRES_PORT",
		"POSTGRES_SSLMODE", "CART_STORAGE_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "dev", cfg.GoEnv)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, DriverSQLite, cfg.StorageDriver)
	assert.Equal(t, "gomarketplace.db", cfg.SQLitePath)
	assert.Equal(t, DefaultStorageKey, cfg.StorageKey)
}

func TestLoad_Postgres(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_PORT", "5433")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t,
		"host=localhost port=5433 user=postgres password=secret dbname=app sslmode=disable",
		cfg.PostgresDSN(),
	)

	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/x")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.PostgresDSN())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "port", env: map[string]string{"POSTGRES_PORT": "abc"}, want: "POSTGRES_PORT must be number"},
		{name: "env", env: map[string]string{"GO_ENV": "staging"}, want: "GO_ENV"},
		{name: "level", env: map[string]string{"LOG_LEVEL": "loud"}, want: "LOG_LEVEL"},
		{name: "driver", env: map[string]string{"STORAGE_DRIVER": "redis"}, want: "STORAGE_DRIVER"},
		{name: "postgres password", env: map[string]string{"STORAGE_DRIVER": "postgres"}, want: "POSTGRES_PASSWORD is required"},
		{name: "key", env: map[string]string{"CART_STORAGE_KEY": "  "}, want: "CART_STORAGE_KEY is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfig_Addr(t *testing.T) {
	assert.Equal(t, ":9000", Config{Port: "9000"}.Addr())
	assert.Equal(t, ":9000", Config{Port: ":9000"}.Addr())
}
