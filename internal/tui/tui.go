package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/victor-takai/ff12-augment-tool/augedit"
	"github.com/victor-takai/ff12-augment-tool/model"
)

// --- Styles ---
var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")) // Mauve
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))            // Green
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))           // Orange
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))           // Red
	pathStyle    = lipgloss.NewStyle()
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// --- Messages ---
type summaryMsg struct {
	model.Summary
}

type errorMsg struct{ err error }

func (e errorMsg) Error() string { return e.err.Error() }

type progressMsg struct{ current, total int }

// --- Model ---
type Model struct {
	ctx      context.Context
	app      *augedit.App
	undo     bool
	spinner  spinner.Model
	progress progress.Model
	current  int
	total    int
	state    state
	summary  summaryMsg
	err      error
}

type state int

const (
	stateProcessing state = iota
	stateSummary
	stateError
)

// New builds the run view. undo selects the undo summary layout.
func New(ctx context.Context, app *augedit.App, undo bool) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{
		ctx:      ctx,
		app:      app,
		undo:     undo,
		spinner:  s,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		state:    stateProcessing,
	}
}

// SetProgram routes the app's progress updates into p.
func (m Model) SetProgram(p *tea.Program) {
	m.app.SetProgressCallback(func(current, total int) {
		p.Send(progressMsg{current, total})
	})
}

// Err returns the error the run ended with, if any.
func (m Model) Err() error {
	return m.err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runApp)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case progressMsg:
		m.current, m.total = msg.current, msg.total
		return m, nil

	case summaryMsg:
		m.state = stateSummary
		m.summary = msg
		return m, tea.Quit

	case errorMsg:
		m.state = stateError
		m.err = msg.err
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		if m.state == stateProcessing {
			m.spinner, cmd = m.spinner.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	switch m.state {
	case stateProcessing:
		if m.total > 0 {
			return fmt.Sprintf("%s Processing... %s %d/%d",
				m.spinner.View(), m.progress.ViewAs(float64(m.current)/float64(m.total)), m.current, m.total)
		}
		return fmt.Sprintf("%s Processing...", m.spinner.View())
	case stateError:
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	case stateSummary:
		if m.undo {
			return m.renderUndoSummary()
		}
		return m.renderSummary()
	default:
		return ""
	}
}

func (m *Model) renderSummary() string {
	var b strings.Builder
	s := m.summary.Summary

	if s.Message != "" {
		b.WriteString(headerStyle.Render(s.Message))
		b.WriteString("\n\n")
	}
	if len(s.Files) == 0 {
		b.WriteString(faintStyle.Render("No target files were found."))
		b.WriteString("\n")
		return b.String()
	}

	for _, f := range s.Files {
		line := fmt.Sprintf("  %s  %d edited, %d unchanged", f.Path, f.Edited, f.Unchanged)
		switch {
		case f.Edited > 0:
			b.WriteString(successStyle.Render(line))
		case f.Units == 0:
			b.WriteString(faintStyle.Render(line))
		default:
			b.WriteString(pathStyle.Render(line))
		}
		if n := f.Unrecognized + f.Malformed + f.Skipped; n > 0 {
			b.WriteString(warningStyle.Render(fmt.Sprintf(", %d skipped", n)))
		}
		b.WriteString("\n")
	}

	t := s.Totals()
	verb := "Modified"
	if s.DryRun {
		verb = "Would modify"
	}
	b.WriteString("\n")
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s %d unit(s) in %d file(s); %d unchanged; %d other file(s) copied.",
		verb, t.Edited, len(s.Files), t.Unchanged, s.Copied)))
	b.WriteString("\n")
	if s.LogPath != "" {
		b.WriteString(faintStyle.Render("  log: " + s.LogPath))
		b.WriteString("\n")
	}
	for _, r := range s.Reports {
		b.WriteString(faintStyle.Render("  report: " + r))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderUndoSummary() string {
	var b strings.Builder
	s := m.summary.Summary

	b.WriteString(headerStyle.Render(s.Message))
	b.WriteString("\n")
	if s.RunID == "" {
		return b.String()
	}
	b.WriteString(faintStyle.Render(fmt.Sprintf("Run %s (%s %s) from %s",
		s.RunID, s.Mode, strings.Join(s.Augments, ", "), s.Time.Format(time.RFC3339))))
	b.WriteString("\n\n")

	if len(s.Undone) > 0 {
		b.WriteString(successStyle.Render("Reverted:"))
		b.WriteString("\n")
		for _, f := range s.Undone {
			b.WriteString(fmt.Sprintf("  %s\n", pathStyle.Render(f)))
		}
	}
	if len(s.Failed) > 0 {
		b.WriteString(errorStyle.Render("Left untouched:"))
		b.WriteString("\n")
		for _, f := range s.Failed {
			b.WriteString(fmt.Sprintf("  %s\n", pathStyle.Render(f)))
		}
	}
	return b.String()
}

func (m *Model) runApp() tea.Msg {
	summary, err := m.app.Execute(m.ctx)
	if err != nil {
		// Check for detailed error to print stack
		var e *augedit.DetailedError
		if errors.As(err, &e) {
			// The TUI will exit, so we can print to stderr here for the stack trace.
			fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", e.Stack)
		}
		return errorMsg{err}
	}
	return summaryMsg{
		Summary: summary,
	}
}
