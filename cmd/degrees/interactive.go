package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-degrees/pkg/report"
	"github.com/dd0wney/cluso-degrees/pkg/resolve"
)

// defaultDataDir is used when the root command gets no directory argument
const defaultDataDir = "large"

// errPersonNotFound ends the session when a name does not resolve to
// exactly one person
var errPersonNotFound = errors.New("person not found")

func runInteractive(cmd *cobra.Command, args []string) error {
	dataDir = defaultDataDir
	if len(args) == 1 {
		dataDir = args[0]
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Loading data...")
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "Data loaded.")

	chooser := resolve.NewPromptChooser(cmd.InOrStdin(), out)
	resolver := resolve.NewResolver(a.store, chooser)
	names := resolve.NewNameIndex(a.store.People())

	source, err := promptPerson(out, chooser.Reader(), resolver, names)
	if err != nil {
		return err
	}
	target, err := promptPerson(out, chooser.Reader(), resolver, names)
	if err != nil {
		return err
	}

	res, err := a.searcher.ShortestPath(source, target)
	if err != nil {
		return err
	}

	rep, err := report.Build(a.store, source, target, res.Path, res.Found)
	if err != nil {
		return err
	}
	return newRenderer().Render(out, rep)
}

// promptPerson reads one name and resolves it, asking which person was meant
// when the name is shared
func promptPerson(out io.Writer, in *bufio.Reader, resolver *resolve.Resolver, names *resolve.NameIndex) (string, error) {
	fmt.Fprint(out, "Name: ")
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		fmt.Fprintln(out)
		return "", fmt.Errorf("failed to read name: %w", err)
	}
	name := strings.TrimSpace(line)

	id, err := resolver.Resolve(name)
	if err == nil {
		return id, nil
	}
	fmt.Fprintln(out, "Person not found.")
	if errors.Is(err, resolve.ErrPersonNotFound) {
		if suggestions := names.Suggest(name, 3); len(suggestions) > 0 {
			fmt.Fprintf(out, "Did you mean: %s?\n", joinNames(suggestions))
		}
	}
	return "", errPersonNotFound
}

func joinNames(candidates []resolve.Candidate) string {
	parts := make([]string, len(candidates))
	for i, c := range candidates {
		parts[i] = c.Name
	}
	return strings.Join(parts, ", ")
}
