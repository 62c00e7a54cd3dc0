package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/comanda/internal/config"
)

// unsetEnv clears keys for the duration of the test so envconfig falls back to defaults.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()

	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_Defaults(t *testing.T) {
	unsetEnv(t, "DB_DRIVER", "SALON_TIMEZONE", "FINALIZE_LOCK_TTL", "PORT")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, "America/Sao_Paulo", cfg.App.Timezone)
	assert.Equal(t, 30*time.Second, cfg.Finalize.LockTTL)
	assert.Equal(t, ":8080", cfg.Address())
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	unsetEnv(t, "FINALIZE_LOCK_TTL", "PORT")
	t.Setenv("DB_DRIVER", "mongo")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestConnectionString(t *testing.T) {
	unsetEnv(t, "FINALIZE_LOCK_TTL", "PORT")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_USER", "salon")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "comanda_test")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://salon:secret@db:6543/comanda_test?sslmode=disable", cfg.ConnectionString())
}

func TestLocation(t *testing.T) {
	unsetEnv(t, "FINALIZE_LOCK_TTL", "PORT")
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("SALON_TIMEZONE", "Not/AZone")

	cfg, err := config.Load()
	require.NoError(t, err)

	_, err = cfg.Location()
	assert.Error(t, err)

	cfg.App.Timezone = "UTC"
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}
