package main

import (
	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-degrees/pkg/report"
)

func runPath(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	source, target := args[0], args[1]
	res, err := a.searcher.ShortestPath(source, target)
	if err != nil {
		return err
	}

	rep, err := report.Build(a.store, source, target, res.Path, res.Found)
	if err != nil {
		return err
	}

	if jsonOutput {
		return report.WriteJSON(cmd.OutOrStdout(), rep)
	}
	return newRenderer().Render(cmd.OutOrStdout(), rep)
}
