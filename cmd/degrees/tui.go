package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-degrees/pkg/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [directory]",
	Short: "Search interactively in a full-screen terminal UI",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	dataDir = defaultDataDir
	if len(args) == 1 {
		dataDir = args[0]
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Loading data...")
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.New(a.store, a.searcher),
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
