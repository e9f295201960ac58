package buildctx

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imaybeabitshy/zimfiction/internal/config"
)

func TestNewCountersReport(t *testing.T) {
	counters := NewCounters()
	counters.StoriesSkipped.Add(3)
	counters.ArtifactsWritten.Add(10)

	report := counters.Report()
	assert.Equal(t, float64(3), report["stories_skipped"])
	assert.Equal(t, float64(10), report["artifacts_written"])
	assert.Equal(t, float64(0), report["artifacts_failed"])
}

func TestBuildContextWithLogger(t *testing.T) {
	cfg := &config.Config{}
	bc := New(context.Background(), cfg, slog.Default(), nil)
	require.NotNil(t, bc.Counters)

	derived := bc.WithLogger(slog.Default().With("phase", "render"))
	assert.NotSame(t, bc, derived)
	assert.Same(t, bc.Counters, derived.Counters)
}
