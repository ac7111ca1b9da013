package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, 16*time.Millisecond, cfg.FrameInterval)
	assert.Equal(t, []string{"localhost:5173", "localhost:3000"}, cfg.Origins())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CHART_DEV_MODE", "true")
	t.Setenv("LARGE_THRESHOLD", "50")
	t.Setenv("ALLOWED_ORIGINS", " example.com , ,*.example.org")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, []string{"example.com", "*.example.org"}, cfg.Origins())

	opts := cfg.ChartOptions(0, 300)
	assert.True(t, opts.DevMode)
	assert.Equal(t, 800.0, opts.Width)
	assert.Equal(t, 300.0, opts.Height)
	assert.Equal(t, 50, opts.Thresholds.Large)
}

func TestLoadRejectsBadValue(t *testing.T) {
	t.Setenv("PORT", "eighty")
	_, err := Load()
	assert.Error(t, err)
}
