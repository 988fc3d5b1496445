package main

import (
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	configPath   string
	snapshotPath string
	databaseURL  string
	maxDepth     int
	logLevel     string
	jsonOutput   bool
	listenAddr   string

	rootCmd = &cobra.Command{
		Use:   "degrees [directory]",
		Short: "Find the degrees of separation between two actors",
		Long: `degrees loads people, movies and stars from a CSV directory (default "large")
and prompts for two names, then prints the shortest chain of shared movies.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runInteractive,
	}

	pathCmd = &cobra.Command{
		Use:   "path <source-id> <target-id>",
		Short: "Print the shortest path between two person IDs",
		Args:  cobra.ExactArgs(2),
		RunE:  runPath,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve shortest-path queries over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	snapshotCmd = &cobra.Command{
		Use:   "snapshot <directory> <output>",
		Short: "Load a CSV directory and write it as a binary snapshot",
		Args:  cobra.ExactArgs(2),
		RunE:  runSnapshot,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&snapshotPath, "snapshot", "", "load the dataset from a snapshot instead of CSV")
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "load the dataset from PostgreSQL")
	rootCmd.PersistentFlags().IntVar(&maxDepth, "max-depth", 0, "maximum degrees to search (0 = unlimited)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	pathCmd.Flags().StringVarP(&dataDir, "data", "d", "", "CSV dataset directory")
	pathCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the result as JSON")

	serveCmd.Flags().StringVarP(&dataDir, "data", "d", "", "CSV dataset directory")
	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "listen address (host:port)")

	rootCmd.AddCommand(pathCmd, serveCmd, snapshotCmd)
}
