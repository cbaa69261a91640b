package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfig(t *testing.T) {
	t.Run("defaults from config file", func(t *testing.T) {
		cfg, err := InitConfig()
		require.NoError(t, err)

		assert.Equal(t, "8000", cfg.Server.HTTPPort)
		assert.Equal(t, 60*time.Second, cfg.Server.Timeout)
		assert.Equal(t, "localhost", cfg.Repositories.Postgres.Host)
		assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
		assert.Equal(t, DefaultJWTSecret, cfg.JWT.SecretKey)
		assert.Equal(t, 12, cfg.Auth.BcryptCost)
		assert.Equal(t, "9090", cfg.Observability.MetricsPort)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("JWT_KEY", "from-env")
		t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/notes")
		t.Setenv("HTTP_PORT", "9999")

		cfg, err := InitConfig()
		require.NoError(t, err)

		assert.Equal(t, "from-env", cfg.JWT.SecretKey)
		assert.Equal(t, "postgres://u:p@db:5432/notes", cfg.Repositories.Postgres.URL)
		assert.Equal(t, "9999", cfg.Server.HTTPPort)
	})
}
