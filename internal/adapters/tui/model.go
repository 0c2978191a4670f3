// Package tui renders the quote screen in a terminal with bubbletea.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jsamuelsen/quote-screen/internal/adapters/presenter"
)

const (
	defaultWidth = 60
	minWidth     = 20
)

var (
	tintColor  = lipgloss.Color("12")
	mutedColor = lipgloss.Color("8")

	quoteStyle = lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor)

	buttonStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 2).
			Border(lipgloss.RoundedBorder())
)

var _ presenter.View = (*Model)(nil)

// Model is the terminal quote screen. It is a presenter.View whose state is
// only mutated inside Update.
type Model struct {
	presenter *presenter.Presenter

	text     string
	enabled  bool
	emphasis presenter.Emphasis

	spinner spinner.Model
	keys    keyMap
	help    help.Model
	width   int
}

// NewModel creates an unbound screen. Call Bind before running the program.
func NewModel() *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(tintColor)

	return &Model{
		text:    presenter.PlaceholderText,
		enabled: true,
		spinner: s,
		keys:    defaultKeyMap(),
		help:    help.New(),
		width:   defaultWidth,
	}
}

// Bind attaches the screen to engine. Its output must be dispatched through
// a Bridge feeding this model's program.
func (m *Model) Bind(ctx context.Context, engine presenter.Engine) {
	m.presenter = presenter.Bind(ctx, engine, m)
}

// Teardown releases the presenter. Safe to call more than once.
func (m *Model) Teardown() {
	if m.presenter != nil {
		m.presenter.Teardown()
	}
}

// SetText implements presenter.View.
func (m *Model) SetText(text string) { m.text = text }

// SetRefreshEnabled implements presenter.View.
func (m *Model) SetRefreshEnabled(enabled bool) { m.enabled = enabled }

// SetRefreshEmphasis implements presenter.View.
func (m *Model) SetRefreshEmphasis(emphasis presenter.Emphasis) { m.emphasis = emphasis }

// Init reports the screen as visible, which starts the first fetch.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.intent((*presenter.Presenter).Appeared))
}

// Update handles key presses, spinner ticks and dispatched output events.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case applyMsg:
		msg.fn()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.Teardown()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			if !m.enabled {
				return m, nil
			}

			return m, m.intent((*presenter.Presenter).RefreshTapped)
		}

	case tea.WindowSizeMsg:
		m.width = max(msg.Width-4, minWidth)
		m.help.Width = msg.Width

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

// View renders the quote, the refresh control and the key help.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(quoteStyle.Width(m.width).Render(m.text))
	b.WriteString("\n")

	color := tintColor
	if m.emphasis == presenter.EmphasisMuted {
		color = mutedColor
	}

	button := buttonStyle.Foreground(color).BorderForeground(color).Render(presenter.RefreshLabel)
	if !m.enabled {
		button = lipgloss.JoinHorizontal(lipgloss.Center, button, " ", m.spinner.View())
	}

	b.WriteString(button)
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

// intent sends an intent off the event loop, since the send waits for the
// engine to accept it.
func (m *Model) intent(send func(*presenter.Presenter) bool) tea.Cmd {
	p := m.presenter
	if p == nil {
		return nil
	}

	return func() tea.Msg {
		send(p)
		return nil
	}
}
