package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, int64(1<<20), cfg.Server.MaxBodyBytes)
	assert.True(t, cfg.Server.Metrics)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("FIELDCHECK_LOG_LEVEL", "debug")
	t.Setenv("FIELDCHECK_SERVER_ADDRESS", "127.0.0.1:9000")
	t.Setenv("FIELDCHECK_SERVER_MAX_BODY_BYTES", "512")
	t.Setenv("FIELDCHECK_SERVER_METRICS", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Address)
	assert.Equal(t, int64(512), cfg.Server.MaxBodyBytes)
	assert.False(t, cfg.Server.Metrics)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("FIELDCHECK_SERVER_MAX_BODY_BYTES", "0")
	_, err := Load()
	assert.ErrorIs(t, err, ErrInvalidConfig)

	t.Setenv("FIELDCHECK_SERVER_MAX_BODY_BYTES", "nope")
	_, err = Load()
	assert.Error(t, err)
}
