// Copyright (c) 2026 ZimFiction. All rights reserved.

/*
Package buildctx wires together the collaborators one build run shares:
config, logger, the entity store handle, and the counter bank every stage
increments. It plays the role the teacher's cmd/api/main.go wiring step
plays ("inject dependencies into domain services"), just for a one-shot
CLI run instead of a long-lived HTTP server — there is no request-scoped
context here, only the single cancellable context for the whole build.
*/
package buildctx

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_golang/prometheus/client_model/go"

	"github.com/imaybeabitshy/zimfiction/internal/config"
	"github.com/imaybeabitshy/zimfiction/internal/store"
)

// Counters is the build stage's counter bank (spec §7): a registry of
// concurrency-safe prometheus counters read back at the end of the run to
// populate the log-directory report. No HTTP endpoint ever serves these;
// the registry exists purely so concurrent render workers can increment
// shared counters without their own locking.
type Counters struct {
	Registry *prometheus.Registry

	StoriesSkipped   prometheus.Counter
	ArtifactsFailed  prometheus.Counter
	ArtifactsWritten prometheus.Counter
	BytesWritten     prometheus.Counter
}

// NewCounters registers and returns a fresh counter bank.
func NewCounters() *Counters {
	registry := prometheus.NewRegistry()
	c := &Counters{
		Registry: registry,
		StoriesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zimfiction_build_stories_skipped_total",
			Help: "Stories dropped during the build due to recoverable input corruption.",
		}),
		ArtifactsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zimfiction_build_artifacts_failed_total",
			Help: "Artifacts that failed to render.",
		}),
		ArtifactsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zimfiction_build_artifacts_written_total",
			Help: "Artifacts successfully written into the ZIM.",
		}),
		BytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zimfiction_build_bytes_written_total",
			Help: "Total compressed bytes written to the output ZIM file.",
		}),
	}
	registry.MustRegister(c.StoriesSkipped, c.ArtifactsFailed, c.ArtifactsWritten, c.BytesWritten)
	return c
}

// Report snapshots every counter's current value for the end-of-run report.
func (c *Counters) Report() map[string]float64 {
	snapshot := map[string]float64{
		"stories_skipped":   readCounter(c.StoriesSkipped),
		"artifacts_failed":  readCounter(c.ArtifactsFailed),
		"artifacts_written": readCounter(c.ArtifactsWritten),
		"bytes_written":     readCounter(c.BytesWritten),
	}
	return snapshot
}

func readCounter(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

// BuildContext carries the collaborators every stage needs, constructed
// once in cmd/zimbuild and passed down as a *BuildContext (its fields are
// all pointers/interfaces, so copies made by WithLogger stay cheap and
// share state).
type BuildContext struct {
	Context  context.Context
	Config   *config.Config
	Logger   *slog.Logger
	Store    store.Store
	Counters *Counters
}

// New assembles a BuildContext from its already-constructed collaborators.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, st store.Store) *BuildContext {
	return &BuildContext{
		Context:  ctx,
		Config:   cfg,
		Logger:   logger,
		Store:    st,
		Counters: NewCounters(),
	}
}

// WithLogger returns a shallow copy of bc carrying a derived logger, used
// by stages to attach per-phase fields (e.g. slog.String("phase", "render"))
// without mutating the shared BuildContext.
func (bc *BuildContext) WithLogger(logger *slog.Logger) *BuildContext {
	clone := *bc
	clone.Logger = logger
	return &clone
}
