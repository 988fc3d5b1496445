package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-degrees/pkg/config"
	"github.com/dd0wney/cluso-degrees/pkg/dataset"
	"github.com/dd0wney/cluso-degrees/pkg/logging"
	"github.com/dd0wney/cluso-degrees/pkg/metrics"
	"github.com/dd0wney/cluso-degrees/pkg/report"
	"github.com/dd0wney/cluso-degrees/pkg/search"
)

// dataDir is set by the --data flag or the root command's argument
var dataDir string

// app bundles what every command needs once configuration is resolved
type app struct {
	cfg      *config.Config
	logger   logging.Logger
	registry *metrics.Registry
	store    *dataset.Store
	searcher *search.Searcher
}

// loadConfig reads the config file and environment, then applies flags
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if dataDir != "" {
		cfg.Dataset.Dir = dataDir
	}
	if cmd.Flags().Changed("snapshot") {
		cfg.Dataset.Snapshot = snapshotPath
	}
	if cmd.Flags().Changed("database-url") {
		cfg.Dataset.DatabaseURL = databaseURL
	}
	if cmd.Flags().Changed("max-depth") {
		cfg.Search.MaxDepth = maxDepth
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if listenAddr != "" {
		cfg.Server.Addr = listenAddr
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Dataset.Source() == "csv" {
		if err := cfg.ValidateDatasetDir(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// newApp loads the dataset and builds a searcher over it
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger := logging.NewJSONLogger(os.Stderr, logging.ParseLevel(cfg.Log.Level))
	logging.SetDefaultLogger(logger)
	registry := metrics.NewRegistry()

	store, err := loadStore(cmd.Context(), cfg, logger, registry)
	if err != nil {
		return nil, err
	}

	searcher, err := search.NewSearcher(store,
		search.WithLogger(logger),
		search.WithRecorder(registry),
		search.WithMaxDepth(cfg.Search.MaxDepth),
	)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, logger: logger, registry: registry, store: store, searcher: searcher}, nil
}

// loadStore reads the configured snapshot, database or CSV directory
func loadStore(ctx context.Context, cfg *config.Config, logger logging.Logger, registry *metrics.Registry) (*dataset.Store, error) {
	start := time.Now()

	switch cfg.Dataset.Source() {
	case "postgres":
		src, err := dataset.NewPGSource(ctx, cfg.Dataset.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		defer src.Close()

		store, stats, err := src.Load(ctx)
		if err != nil {
			return nil, err
		}
		registry.RecordDatasetLoad("postgres", stats.People, stats.Movies, stats.Stars, 0, time.Since(start))
		return store, nil

	case "snapshot":
		store, err := dataset.LoadSnapshotFile(cfg.Dataset.Snapshot)
		if err != nil {
			return nil, err
		}
		st := store.Stats()
		registry.RecordDatasetLoad("snapshot", st.People, st.Movies, st.Credits, 0, time.Since(start))
		logger.Info("snapshot loaded",
			logging.File(cfg.Dataset.Snapshot),
			logging.Int("people", st.People),
			logging.Int("movies", st.Movies),
			logging.Latency(time.Since(start)),
		)
		return store, nil
	}

	store, stats, err := dataset.LoadDir(cfg.Dataset.Dir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", cfg.Dataset.Dir, err)
	}
	st := store.Stats()
	registry.RecordDatasetLoad("csv", st.People, st.Movies, st.Credits, stats.SkippedRows+stats.SkippedStars, time.Since(start))
	logger.Info("dataset loaded",
		logging.String("dir", cfg.Dataset.Dir),
		logging.Int("people", stats.People),
		logging.Int("movies", stats.Movies),
		logging.Int("stars", stats.Stars),
		logging.Latency(time.Since(start)),
	)
	return store, nil
}

// newRenderer styles output only when stdout is a terminal
func newRenderer() *report.Renderer {
	fd := os.Stdout.Fd()
	return report.NewRenderer(isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
}
