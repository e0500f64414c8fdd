package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("ARGCHECKD_ADDR", ":9090")
	t.Setenv("ARGCHECKD_MAX_CONCURRENCY", "4")
	t.Setenv("ARGCHECKD_TIMEOUT", "5s")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 4, cfg.MaxConcurrency)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestLoad_UnreadableFile(t *testing.T) {
	_, err := Load("/nonexistent/path/argcheckd.yaml")
	assert.Error(t, err)
}
