package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-degrees/pkg/dataset"
	"github.com/dd0wney/cluso-degrees/pkg/logging"
	"github.com/dd0wney/cluso-degrees/pkg/validation"
)

func runSnapshot(cmd *cobra.Command, args []string) error {
	dir, out := args[0], args[1]

	if err := validation.NewConfigValidator("snapshot").
		ExistingDir("directory", dir).
		Required("output", out).
		Validate(); err != nil {
		return err
	}

	level := logging.InfoLevel
	if logLevel != "" {
		level = logging.ParseLevel(logLevel)
	}
	logger := logging.NewJSONLogger(os.Stderr, level)

	start := time.Now()
	store, stats, err := dataset.LoadDir(dir, logger)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", dir, err)
	}
	if err := dataset.SaveSnapshotFile(out, store); err != nil {
		return err
	}

	logger.Info("snapshot written",
		logging.File(out),
		logging.Int("people", stats.People),
		logging.Int("movies", stats.Movies),
		logging.Int("stars", stats.Stars),
		logging.Latency(time.Since(start)),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d people, %d movies, %d credits)\n",
		out, stats.People, stats.Movies, stats.Stars)
	return nil
}
