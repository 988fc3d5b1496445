// Package tui is an interactive terminal front end for degrees searches.
package tui

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dd0wney/cluso-degrees/pkg/dataset"
	"github.com/dd0wney/cluso-degrees/pkg/report"
	"github.com/dd0wney/cluso-degrees/pkg/resolve"
	"github.com/dd0wney/cluso-degrees/pkg/search"
)

// maxSuggestions caps the close matches shown for an unknown name
const maxSuggestions = 3

type step int

const (
	sourceStep step = iota
	targetStep
	chooseStep
	searchingStep
	resultStep
)

// searchDoneMsg carries a finished search back to Update
type searchDoneMsg struct {
	report  report.Report
	elapsed time.Duration
	stats   search.Stats
	err     error
}

// Model is the bubbletea model of one session. Each search asks for a source
// and a target name, narrows shared names with a candidate table, then runs
// the search in the background.
type Model struct {
	store    *dataset.Store
	searcher *search.Searcher
	resolver *resolve.Resolver
	names    *resolve.NameIndex
	renderer *report.Renderer

	step       step
	choosing   step
	input      textinput.Model
	candidates table.Model
	spinner    spinner.Model
	help       help.Model
	keys       keyMap

	source string
	target string
	result searchDoneMsg

	message string
	width   int
}

// New creates a model over store. The searcher must search the same store.
func New(store *dataset.Store, searcher *search.Searcher) Model {
	ti := textinput.New()
	ti.Placeholder = "Kevin Bacon"
	ti.Prompt = "Name: "
	ti.CharLimit = 200
	ti.Width = 40
	ti.Focus()

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 10},
			{Title: "Name", Width: 30},
			{Title: "Birth", Width: 6},
		}),
		table.WithFocused(true),
		table.WithHeight(6),
	)
	t.SetStyles(candidateStyles())

	return Model{
		store:      store,
		searcher:   searcher,
		resolver:   resolve.NewResolver(store, nil),
		names:      resolve.NewNameIndex(store.People()),
		renderer:   report.NewRenderer(true),
		step:       sourceStep,
		input:      ti,
		candidates: t,
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:       help.New(),
		keys:       keys,
	}
}

// Init starts the cursor blinking
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles one message
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case searchDoneMsg:
		m.result = msg
		m.step = resultStep
		return m, nil

	case spinner.TickMsg:
		if m.step != searchingStep {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m.handleKey(msg)
	}

	return m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.step {
	case sourceStep, targetStep:
		switch {
		case key.Matches(msg, m.keys.Enter):
			return m.submitName()
		case key.Matches(msg, m.keys.Back):
			if m.step == sourceStep {
				return m, tea.Quit
			}
			m.step = sourceStep
			m.source = ""
			m.message = ""
			m.input.SetValue("")
			return m, nil
		}

	case chooseStep:
		switch {
		case key.Matches(msg, m.keys.Enter):
			row := m.candidates.SelectedRow()
			if row == nil {
				return m, nil
			}
			return m.accept(m.choosing, row[0])
		case key.Matches(msg, m.keys.Back):
			m.step = m.choosing
			m.input.Focus()
			return m, nil
		}

	case searchingStep:
		return m, nil

	case resultStep:
		if key.Matches(msg, m.keys.Enter) || key.Matches(msg, m.keys.Back) {
			return m.reset(), nil
		}
		return m, nil
	}

	return m.updateFocused(msg)
}

// updateFocused forwards msg to the component that has focus
func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.step {
	case sourceStep, targetStep:
		m.input, cmd = m.input.Update(msg)
	case chooseStep:
		m.candidates, cmd = m.candidates.Update(msg)
	}
	return m, cmd
}

// submitName resolves the typed name for the current step
func (m Model) submitName() (tea.Model, tea.Cmd) {
	name := strings.TrimSpace(m.input.Value())
	if name == "" {
		return m, nil
	}

	candidates, err := m.resolver.Candidates(name)
	if err != nil {
		m.message = err.Error()
		return m, nil
	}

	switch len(candidates) {
	case 0:
		m.message = "Person not found."
		if suggestions := m.names.Suggest(name, maxSuggestions); len(suggestions) > 0 {
			list := make([]string, len(suggestions))
			for i, c := range suggestions {
				list[i] = c.Name
			}
			m.message += " Did you mean: " + strings.Join(list, ", ") + "?"
		}
		return m, nil
	case 1:
		return m.accept(m.step, candidates[0].ID)
	}

	rows := make([]table.Row, len(candidates))
	for i, c := range candidates {
		rows[i] = table.Row{c.ID, c.Name, c.Birth}
	}
	m.candidates.SetRows(rows)
	m.candidates.SetCursor(0)
	m.choosing = m.step
	m.step = chooseStep
	m.message = fmt.Sprintf("Which '%s'?", name)
	m.input.Blur()
	return m, nil
}

// accept records id for the step it was chosen in and moves on
func (m Model) accept(at step, id string) (tea.Model, tea.Cmd) {
	m.message = ""
	m.input.SetValue("")
	m.input.Focus()

	if at == sourceStep {
		m.source = id
		m.step = targetStep
		return m, nil
	}

	m.target = id
	m.step = searchingStep
	m.input.Blur()
	return m, tea.Batch(m.spinner.Tick, m.runSearch(m.source, m.target))
}

// runSearch returns a command that searches and builds the report
func (m Model) runSearch(source, target string) tea.Cmd {
	store, searcher := m.store, m.searcher
	return func() tea.Msg {
		start := time.Now()
		res, err := searcher.ShortestPath(source, target)
		if err != nil {
			return searchDoneMsg{err: err}
		}
		rep, err := report.Build(store, source, target, res.Path, res.Found)
		return searchDoneMsg{report: rep, stats: res.Stats, elapsed: time.Since(start), err: err}
	}
}

// reset starts a new search, keeping the window size
func (m Model) reset() Model {
	m.step = sourceStep
	m.source, m.target = "", ""
	m.result = searchDoneMsg{}
	m.message = ""
	m.input.SetValue("")
	m.input.Focus()
	return m
}

// View renders the current step
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(bannerStyle.Render("Degrees of Separation"))
	s.WriteString("\n\n")

	var body strings.Builder
	switch m.step {
	case sourceStep, targetStep:
		label := "Source"
		if m.step == targetStep {
			label = "Target"
			body.WriteString(m.personLine("From", m.source))
		}
		body.WriteString(promptStyle.Render(label))
		body.WriteString("\n\n")
		body.WriteString(m.input.View())

	case chooseStep:
		body.WriteString(promptStyle.Render("Choose a person"))
		body.WriteString("\n\n")
		body.WriteString(m.candidates.View())

	case searchingStep:
		body.WriteString(m.spinner.View())
		body.WriteString(" Searching...")

	case resultStep:
		body.WriteString(reportStyle.Render(m.renderResult()))
	}
	s.WriteString(bodyStyle.Render(body.String()))

	if m.message != "" {
		s.WriteString("\n\n")
		s.WriteString(bodyStyle.Render(alertStyle.Render(m.message)))
	}

	s.WriteString("\n")
	s.WriteString(footerStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	return s.String()
}

func (m Model) personLine(label, id string) string {
	p, err := m.store.Person(id)
	if err != nil {
		return ""
	}
	return fromStyle.Render(fmt.Sprintf("%s: %s (%s)", label, p.Name, p.ID)) + "\n\n"
}

func (m Model) renderResult() string {
	if m.result.err != nil {
		return alertStyle.Render(m.result.err.Error())
	}

	var buf bytes.Buffer
	if err := m.renderer.Render(&buf, m.result.report); err != nil {
		return alertStyle.Render(err.Error())
	}
	fmt.Fprintf(&buf, "\n%d people expanded in %s", m.result.stats.Expanded, m.result.elapsed.Round(time.Microsecond))
	return buf.String()
}

// Step names the current step, for callers that drive the model directly
func (m Model) Step() string {
	switch m.step {
	case sourceStep:
		return "source"
	case targetStep:
		return "target"
	case chooseStep:
		return "choose"
	case searchingStep:
		return "searching"
	default:
		return "result"
	}
}

// Report returns the last finished search
func (m Model) Report() (report.Report, error) {
	return m.result.report, m.result.err
}
