package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.QueueCapacityMultiplier)
	assert.Equal(t, 20, cfg.StoriesPerPage)
	assert.Equal(t, 25, cfg.SearchNMin)
	assert.Equal(t, 1000, cfg.SearchNMax)
	assert.Equal(t, 500, cfg.SearchShardSize)
	assert.False(t, cfg.Debug)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ZIMFICTION_RENDER_WORKERS", "6")
	t.Setenv("DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.RenderWorkers)
	assert.True(t, cfg.IsDebug())
}

func TestIsDebugRespectsEnvironment(t *testing.T) {
	cfg := &Config{Environment: "development"}
	assert.True(t, cfg.IsDebug())
}
