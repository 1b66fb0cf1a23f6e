package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Poller.PollIntervalSeconds)
	assert.Equal(t, 100, cfg.Poller.BatchSize)
	assert.False(t, cfg.Poller.StrictMode)
	assert.Equal(t, "localhost", cfg.Ingestion.Host)
	assert.Equal(t, 50051, cfg.Ingestion.Port)
	assert.Equal(t, 50053, cfg.AuthServer.Port)
}

func TestLoad_EnvOverride(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	t.Setenv("SPAN_BATCH_SIZE", "250")
	t.Setenv("SPAN_STRICT_MODE", "true")
	t.Setenv("INGESTION_HOST", "ingest.internal")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.Poller.BatchSize)
	assert.True(t, cfg.Poller.StrictMode)
	assert.Equal(t, "ingest.internal", cfg.Ingestion.Host)
}

func TestLoad_Cached(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	first, err := Load()
	require.NoError(t, err)

	t.Setenv("SPAN_BATCH_SIZE", "999")
	second, err := Load()
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 100, second.Poller.BatchSize, "cached config shouldn't see later env changes")
}
