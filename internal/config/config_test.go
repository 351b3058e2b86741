package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(8190), cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionLifetime)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.True(t, cfg.Auth.SecureCookies)
	assert.True(t, cfg.Library.ReserveOnZero)
	assert.False(t, cfg.Reconcile.Enabled)
	assert.Equal(t, "0 3 * * *", cfg.Reconcile.Schedule)
	assert.Equal(t, 2, cfg.Global.ShutdownTimeoutInSeconds)
}

func TestNewConfigFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_PATH", "/tmp/other.db")
	t.Setenv("LIBRARY_RESERVE_ON_ZERO", "false")
	t.Setenv("RECONCILE_ENABLED", "true")

	cfg := NewConfig()

	assert.Equal(t, int32(9000), cfg.HTTP.Port)
	assert.Equal(t, "/tmp/other.db", cfg.Database.Path)
	assert.False(t, cfg.Library.ReserveOnZero)
	assert.True(t, cfg.Reconcile.Enabled)
}
