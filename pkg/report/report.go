// Package report turns a search path into numbered, human-readable steps.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-degrees/pkg/dataset"
	"github.com/dd0wney/cluso-degrees/pkg/search"
)

// Lookup resolves identifiers on a path to display records
type Lookup interface {
	Person(personID string) (dataset.Person, error)
	Movie(movieID string) (dataset.Movie, error)
}

// Link is one numbered step: From and To starred together in Movie
type Link struct {
	Index   int    `json:"index"`
	FromID  string `json:"from_id"`
	From    string `json:"from"`
	ToID    string `json:"to_id"`
	To      string `json:"to"`
	MovieID string `json:"movie_id"`
	Movie   string `json:"movie"`
	Year    string `json:"year,omitempty"`
}

// Report is the presentable outcome of one search
type Report struct {
	SourceID  string `json:"source_id"`
	TargetID  string `json:"target_id"`
	Connected bool   `json:"connected"`
	Degrees   int    `json:"degrees"`
	Links     []Link `json:"links"`
}

// Build resolves every step of path against l
func Build(l Lookup, source, target string, path search.Path, found bool) (Report, error) {
	rep := Report{
		SourceID:  source,
		TargetID:  target,
		Connected: found,
		Links:     make([]Link, 0, len(path)),
	}
	if !found {
		return rep, nil
	}

	prev, err := l.Person(source)
	if err != nil {
		return Report{}, err
	}

	for i, step := range path {
		person, err := l.Person(step.PersonID)
		if err != nil {
			return Report{}, err
		}
		movie, err := l.Movie(step.MovieID)
		if err != nil {
			return Report{}, err
		}

		rep.Links = append(rep.Links, Link{
			Index:   i + 1,
			FromID:  prev.ID,
			From:    prev.Name,
			ToID:    person.ID,
			To:      person.Name,
			MovieID: movie.ID,
			Movie:   movie.Title,
			Year:    movie.Year,
		})
		prev = person
	}

	rep.Degrees = len(rep.Links)
	return rep, nil
}

// Renderer writes reports as text, optionally styled for a terminal
type Renderer struct {
	styled  bool
	summary lipgloss.Style
	person  lipgloss.Style
	movie   lipgloss.Style
	failure lipgloss.Style
}

// NewRenderer creates a renderer. Styling is only applied when styled is set.
func NewRenderer(styled bool) *Renderer {
	return &Renderer{
		styled:  styled,
		summary: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FFFF")),
		person:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00")),
		movie:   lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#FF00FF")),
		failure: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF0000")),
	}
}

func (r *Renderer) paint(style lipgloss.Style, s string) string {
	if !r.styled {
		return s
	}
	return style.Render(s)
}

// Render writes the degrees summary followed by one line per link
func (r *Renderer) Render(w io.Writer, rep Report) error {
	if !rep.Connected {
		_, err := fmt.Fprintln(w, r.paint(r.failure, "Not connected."))
		return err
	}

	if _, err := fmt.Fprintln(w, r.paint(r.summary, fmt.Sprintf("%d degrees of separation.", rep.Degrees))); err != nil {
		return err
	}
	for _, link := range rep.Links {
		_, err := fmt.Fprintf(w, "%d: %s and %s starred in %s\n",
			link.Index,
			r.paint(r.person, link.From),
			r.paint(r.person, link.To),
			r.paint(r.movie, link.Movie),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON writes the report as indented JSON
func WriteJSON(w io.Writer, rep Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
