package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-degrees/pkg/config"
	"github.com/dd0wney/cluso-degrees/pkg/dataset"
	"github.com/dd0wney/cluso-degrees/pkg/logging"
	"github.com/dd0wney/cluso-degrees/pkg/validation"
)

var importCmd = &cobra.Command{
	Use:   "import <directory>",
	Short: "Load a CSV directory into the PostgreSQL tables people, movies and stars",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	dir := args[0]

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("database-url") {
		cfg.Dataset.DatabaseURL = databaseURL
	}
	if cfg.Dataset.DatabaseURL == "" {
		return errors.New("no database configured (--database-url, dataset.database_url or " + config.EnvDatabaseURL + ")")
	}
	if err := validation.NewConfigValidator("import").ExistingDir("directory", dir).Validate(); err != nil {
		return err
	}

	level := logging.ParseLevel(cfg.Log.Level)
	if logLevel != "" {
		level = logging.ParseLevel(logLevel)
	}
	logger := logging.NewJSONLogger(os.Stderr, level)

	store, stats, err := dataset.LoadDir(dir, logger)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", dir, err)
	}

	src, err := dataset.NewPGSource(cmd.Context(), cfg.Dataset.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer src.Close()

	if err := src.Save(cmd.Context(), store); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d people, %d movies, %d credits\n", stats.People, stats.Movies, stats.Stars)
	return nil
}
