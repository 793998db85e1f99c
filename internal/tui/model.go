// Package tui implements the full-screen review surface built on bubbletea.
// It drives the same review gate as the line prompter and produces the same
// outcome: apply the selected suggestions, refine with feedback, or abort.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/neatstep/neatstep/internal/model"
	"github.com/neatstep/neatstep/internal/review"
)

type mode int

const (
	modeList mode = iota
	modeConsent
	modeRefine
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C9EF5"))

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C9EF5"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	lockedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	junkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFE66D"))
)

// Model is the bubbletea model for one review session.
type Model struct {
	gate     *review.Gate
	keys     KeyMap
	input    textinput.Model
	analysis model.AggregateAnalysis
	outcome  review.Outcome
	cursor   int
	mode     mode
	width    int
	done     bool
}

// NewModel builds the review model for one aggregate analysis.
func NewModel(analysis model.AggregateAnalysis) Model {
	input := textinput.New()
	input.Placeholder = "e.g. group everything by project year"
	input.CharLimit = 200

	return Model{
		analysis: analysis,
		gate:     review.NewGate(analysis),
		keys:     DefaultKeyMap(),
		input:    input,
		outcome:  review.Outcome{Action: review.ActionAbort},
	}
}

// Outcome returns the review decision once the program has finished.
func (m Model) Outcome() review.Outcome {
	return m.outcome
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			m.outcome = review.Outcome{Action: review.ActionAbort}
			m.done = true
			return m, tea.Quit
		}

		switch m.mode {
		case modeConsent:
			return m.updateConsent(msg)
		case modeRefine:
			return m.updateRefine(msg)
		default:
			return m.updateList(msg)
		}
	}

	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.gate.Items()

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		if len(items) > 0 {
			name := items[m.cursor].OriginalName
			if m.gate.IsLocked(name) {
				m.mode = modeConsent
			} else {
				m.gate.Toggle(name)
			}
		}
	case key.Matches(msg, m.keys.Grant):
		if len(items) > 0 && m.gate.IsLocked(items[m.cursor].OriginalName) {
			m.mode = modeConsent
		}
	case key.Matches(msg, m.keys.SelectAll):
		m.gate.SelectAll()
	case key.Matches(msg, m.keys.Execute):
		selected := m.gate.Selected()
		if len(selected) > 0 {
			m.outcome = review.Outcome{Action: review.ActionApply, Selected: selected}
			m.done = true
			return m, tea.Quit
		}
	case key.Matches(msg, m.keys.Refine):
		m.mode = modeRefine
		m.input.SetValue("")
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Quit):
		m.outcome = review.Outcome{Action: review.ActionAbort}
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) updateConsent(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		items := m.gate.Items()
		m.gate.GrantConsent(items[m.cursor].OriginalName)
		m.mode = modeList
	case "n", "N", "esc", "q":
		m.mode = modeList
	}
	return m, nil
}

func (m Model) updateRefine(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		feedback := strings.TrimSpace(m.input.Value())
		if feedback == "" {
			return m, nil
		}
		m.outcome = review.Outcome{Action: review.ActionRefine, Feedback: feedback}
		m.done = true
		return m, tea.Quit
	case tea.KeyEsc:
		m.mode = modeList
		m.input.Blur()
		return m, nil
	default:
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Review Organization Plan"))
	b.WriteString("\n\n")
	b.WriteString(m.analysis.Summary)
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render(fmt.Sprintf("Strategy: %s · Impact %d/100", m.analysis.Strategy, m.analysis.ImpactScore)))
	b.WriteString("\n")

	if m.analysis.IsAlreadyOrganized {
		b.WriteString(bannerStyle.Render("This folder already looks organized. Refine with r for a fresh strategy, or q to keep it."))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, a := range m.gate.Items() {
		b.WriteString(m.renderItem(i, a))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch m.mode {
	case modeConsent:
		name := m.gate.Items()[m.cursor].OriginalName
		b.WriteString(lockedStyle.Render(fmt.Sprintf("%s may contain sensitive data. Allow the organizer to move it? (y/n)", name)))
	case modeRefine:
		b.WriteString("Refine the strategy:\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(subtleStyle.Render("Enter to submit, Esc to cancel"))
	default:
		b.WriteString(subtleStyle.Render(m.helpLine()))
	}
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderItem(i int, a model.AnalysisResult) string {
	cursor := "  "
	if i == m.cursor {
		cursor = cursorStyle.Render("> ")
	}

	mark := "[ ]"
	if m.gate.IsSelected(a.OriginalName) {
		mark = selectedStyle.Render("[✓]")
	}

	target := a.SuggestedFolder
	if a.KeepsInRoot() {
		target = "(root)"
	}

	line := fmt.Sprintf("%s%s %s → %s/%s", cursor, mark, a.OriginalName, target, a.SuggestedName)

	if m.gate.IsLocked(a.OriginalName) {
		line += lockedStyle.Render("  🔒 sensitive")
	}
	if a.IsJunk {
		line += junkStyle.Render("  junk")
	}

	return line
}

func (m Model) helpLine() string {
	parts := make([]string, 0, len(m.keys.ShortHelp()))
	for _, b := range m.keys.ShortHelp() {
		parts = append(parts, fmt.Sprintf("%s %s", b.Help().Key, b.Help().Desc))
	}
	return fmt.Sprintf("%d/%d selected · %s", m.gate.SelectedCount(), m.gate.SelectableCount(), strings.Join(parts, " · "))
}
