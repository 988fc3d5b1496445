package resolve

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// PromptChooser lists candidates on a writer and reads the chosen
// identifier from a line-oriented reader.
type PromptChooser struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPromptChooser creates a chooser prompting on out and reading from in
func NewPromptChooser(in io.Reader, out io.Writer) *PromptChooser {
	br, ok := in.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(in)
	}
	return &PromptChooser{in: br, out: out}
}

// Reader exposes the buffered input so callers can keep reading after a prompt
func (p *PromptChooser) Reader() *bufio.Reader {
	return p.in
}

// Choose prints every candidate and returns the identifier typed back
func (p *PromptChooser) Choose(name string, candidates []Candidate) (string, error) {
	fmt.Fprintf(p.out, "Which '%s'?\n", name)
	for _, c := range candidates {
		fmt.Fprintf(p.out, "ID: %s, Name: %s, Birth: %s\n", c.ID, c.Name, c.Birth)
	}
	fmt.Fprint(p.out, "Intended Person ID: ")

	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read choice: %w", err)
	}
	return strings.TrimSpace(line), nil
}
