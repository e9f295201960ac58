// Copyright (c) 2026 ZimFiction. All rights reserved.

/*
Zimbuild is the entry point for the ZimFiction build stage: it reads a
populated entity store and produces a single ZIM archive.

Usage:

	zimbuild build [flags] <store-url> <output.zim>

The flags/environment variables are:

	ZIMFICTION_STORE_URL                  entity store DSN (overridden by the positional argument)
	ZIMFICTION_REDIS_URL                  optional content-dedup cache
	ZIMFICTION_RENDER_WORKERS             render worker count (0 = cores-1)
	ZIMFICTION_QUEUE_CAPACITY_MULTIPLIER  ArtifactQueue capacity = workers * this
	ZIMFICTION_SEARCH_N_MIN / _N_MAX      search index sharding thresholds
	ZIMFICTION_SEARCH_SHARD_SIZE          search shard size
	ZIMFICTION_STORIES_PER_PAGE           pagination page size

Startup sequence:

 1. Logger: structured JSON logging (slog).
 2. Config: load and validate environment variables, then flags override.
 3. Storage: connect to the entity store (and optionally Redis).
 4. Wiring: assemble the BuildContext, planner, render pool, and writer.
 5. Run: stream jobs through planner -> render -> queue -> writer.
 6. Report: flush per-stage counters to the log directory.

No business logic lives here. This file is strictly for orchestration and
wiring (spec §6.4).
*/
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/imaybeabitshy/zimfiction/internal/aggregator"
	"github.com/imaybeabitshy/zimfiction/internal/apperr"
	"github.com/imaybeabitshy/zimfiction/internal/buildctx"
	"github.com/imaybeabitshy/zimfiction/internal/config"
	"github.com/imaybeabitshy/zimfiction/internal/planner"
	"github.com/imaybeabitshy/zimfiction/internal/queue"
	"github.com/imaybeabitshy/zimfiction/internal/render"
	"github.com/imaybeabitshy/zimfiction/internal/store"
	"github.com/imaybeabitshy/zimfiction/internal/zimwriter"
)

// buildFlags collects every CLI override spec §6.4 names, layered on top
// of the environment-sourced config.Config defaults.
type buildFlags struct {
	threaded              bool
	workers               int
	logDirectory          string
	memprofileDirectory   string
	noExternalLinks       bool
	debugSkipStories      bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := &buildFlags{}
	reachedRunBuild := false

	root := &cobra.Command{Use: "zimbuild"}
	buildCmd := &cobra.Command{
		Use:   "build <store-url> <output.zim>",
		Short: "Render a populated entity store into a ZIM archive",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reachedRunBuild = true
			return runBuild(cmd.Context(), flags, args[0], args[1])
		},
		SilenceUsage: true,
	}
	buildCmd.Flags().BoolVar(&flags.threaded, "threaded", false, "accepted for compatibility; render workers always run as goroutines in this process and the flag only logs a warning")
	buildCmd.Flags().IntVar(&flags.workers, "workers", 0, "render worker count (0 = logical CPUs - 1, at least 1)")
	buildCmd.Flags().StringVar(&flags.logDirectory, "log-directory", "", "directory to write the end-of-run counter report to")
	buildCmd.Flags().StringVar(&flags.memprofileDirectory, "memprofile-directory", "", "accepted but unused: no memory profile is written")
	buildCmd.Flags().BoolVar(&flags.noExternalLinks, "no-external-links", false, "omit links to content outside the archive")
	buildCmd.Flags().BoolVar(&flags.debugSkipStories, "debug-skip-stories", false, "accepted but unused: per-story rendering is never skipped")
	root.AddCommand(buildCmd)

	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		if isUsageError(err, reachedRunBuild) {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		var appErr *apperr.AppError
		if as(err, &appErr) {
			fmt.Fprintln(os.Stderr, appErr.Error())
			return appErr.ExitCode()
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// isUsageError reports whether err originates from cobra's own argument
// validation (wrong arg count, unknown flag) rather than from runBuild:
// cobra only calls RunE once validation has passed.
func isUsageError(err error, reachedRunBuild bool) bool {
	return err != nil && !reachedRunBuild
}

func as(err error, target **apperr.AppError) bool {
	for err != nil {
		if e, ok := err.(*apperr.AppError); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

func runBuild(parentCtx context.Context, flags *buildFlags, storeURL, outputPath string) error {
	// # 1. Logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).
		With(slog.String("app", "zimbuild"))

	// # 2. Config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if storeURL != "" {
		cfg.StoreURL = storeURL
	}
	if flags.workers > 0 {
		cfg.RenderWorkers = flags.workers
	}
	if cfg.IsDebug() {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})).
			With(slog.String("app", "zimbuild"))
	}

	workers := cfg.RenderWorkers
	if workers <= 0 {
		workers = runtime.NumCPU() - 1
	}
	if workers < 1 {
		workers = 1
	}
	if flags.threaded {
		logger.Warn("threaded render workers requested; processes are the recommended mode (spec §5)")
	}

	ctx, cancel := signal.NotifyContext(parentCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// # 3. Storage
	pool, err := store.NewPool(ctx, cfg.StoreURL, logger)
	if err != nil {
		return fmt.Errorf("connect to entity store: %w", err)
	}
	defer pool.Close()
	entityStore := store.NewPostgresStore(pool)

	dedup, err := zimwriter.NewDedupCache(ctx, cfg.RedisURL, logger)
	if err != nil {
		return fmt.Errorf("init dedup cache: %w", err)
	}

	// # 4. Wiring
	bc := buildctx.New(ctx, cfg, logger, entityStore)

	agg := aggregator.New(ctx)
	defer agg.Close()

	plannerCfg := planner.Config{
		StoriesPerPage: cfg.StoriesPerPage,
		ShardSize:      cfg.SearchShardSize,
		NMin:           cfg.SearchNMin,
		NMax:           cfg.SearchNMax,
	}
	p := planner.New(entityStore, plannerCfg)

	registry, err := render.NewRegistry()
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}

	artifactQueue := queue.New(workers * cfg.QueueCapacityMultiplier)
	pool2 := render.NewPool(bc, registry, artifactQueue, agg, workers, cfg.SearchNMin, cfg.SearchNMax, cfg.SearchShardSize)

	tempDir := filepath.Dir(outputPath)
	writer := zimwriter.New(dedup, bc.Counters, logger, tempDir)

	// # 5. Run
	jobs, planErrs := p.Plan(ctx, agg)

	renderErrs := make(chan error, 1)
	go func() {
		renderErrs <- pool2.Run(ctx, jobs)
	}()

	writeErr := writer.Write(ctx, artifactQueue, outputPath)

	if err := <-renderErrs; err != nil {
		if writeErr == nil {
			_ = os.Remove(outputPath)
		}
		return err
	}
	if err := drainErr(planErrs); err != nil {
		if writeErr == nil {
			_ = os.Remove(outputPath)
		}
		return err
	}
	if writeErr != nil {
		return writeErr
	}

	// # 6. Report
	if flags.logDirectory != "" {
		report := bc.Counters.Report()
		logger.Info("build report", slog.Any("counters", report))
		data, err := json.Marshal(report)
		if err != nil {
			return fmt.Errorf("encode build report: %w", err)
		}
		if err := os.MkdirAll(flags.logDirectory, 0o755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
		if err := os.WriteFile(filepath.Join(flags.logDirectory, "build_report.json"), data, 0o644); err != nil {
			return fmt.Errorf("write build report: %w", err)
		}
	}

	logger.Info("build complete", slog.String("output", outputPath))
	return nil
}

func drainErr(errs <-chan error) error {
	select {
	case err := <-errs:
		return err
	default:
		return nil
	}
}
