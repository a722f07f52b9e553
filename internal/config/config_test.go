package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.OverdueSweepInterval)
	assert.Equal(t, "cascade", cfg.OrderDeletePolicy)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("ORDER_DELETE_POLICY", "reject")
	t.Setenv("OVERDUE_SWEEP_INTERVAL", "90s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "reject", cfg.OrderDeletePolicy)
	assert.Equal(t, 90*time.Second, cfg.OverdueSweepInterval)
}

func TestLoad_RejectsUnknownDeletePolicy(t *testing.T) {
	t.Setenv("ORDER_DELETE_POLICY", "archive")
	_, err := Load()
	assert.ErrorContains(t, err, "ORDER_DELETE_POLICY")
}

func TestValidate(t *testing.T) {
	base := Config{
		Port: 8000, WorkerPoolSize: 1, JobMaxAttempts: 1,
		OverdueSweepInterval: time.Minute, OverdueSweepBatch: 1, OrderDeletePolicy: "cascade",
	}
	require.NoError(t, base.Validate())

	bad := base
	bad.WorkerPoolSize = 0
	assert.Error(t, bad.Validate())

	bad = base
	bad.OverdueSweepInterval = 10 * time.Millisecond
	assert.Error(t, bad.Validate())
}
