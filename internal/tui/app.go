// Package tui is a terminal host for the command surface.
package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/minispot/internal/connect"
	"github.com/tessro/minispot/internal/tui/components"
	"github.com/tessro/minispot/internal/tui/styles"
)

const errorTTL = 5 * time.Second

type keyMap struct {
	Toggle key.Binding
	Next   key.Binding
	Prev   key.Binding
	Retry  key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Next, k.Prev, k.Retry, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
	Next:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
	Prev:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prev")),
	Retry:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry"), key.WithDisabled()),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// Model is the terminal UI model.
type Model struct {
	ctx     context.Context
	surface connect.Surface
	events  <-chan string
	device  string

	width  int
	height int

	spinner    spinner.Model
	help       help.Model
	keys       keyMap
	nowPlaying *components.NowPlaying

	starting bool
	started  bool

	lastError   error
	errorExpiry time.Time

	quitting bool
}

// NewModel creates a model driving surface. Payloads arrive on events.
func NewModel(ctx context.Context, surface connect.Surface, events <-chan string, device string) Model {
	return Model{
		ctx:        ctx,
		surface:    surface,
		events:     events,
		device:     device,
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.Playing)),
		help:       help.New(),
		keys:       keys,
		nowPlaying: components.NewNowPlaying(),
		starting:   true,
	}
}

// Messages
type startedMsg struct{ err error }
type playerEventMsg string
type commandMsg struct {
	cmd string
	err error
}
type eventsClosedMsg struct{}

func (m Model) start() tea.Cmd {
	return func() tea.Msg {
		return startedMsg{err: m.surface.Start(m.ctx)}
	}
}

func (m Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case p, ok := <-m.events:
			if !ok {
				return eventsClosedMsg{}
			}
			return playerEventMsg(p)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m Model) command(cmd string) tea.Cmd {
	return func() tea.Msg {
		return commandMsg{cmd: cmd, err: m.surface.PlayerCommand(cmd)}
	}
}

// Init starts the endpoint and begins listening for player events.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.start(), m.waitForEvent())
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.starting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case startedMsg:
		m.starting = false
		if msg.err != nil {
			m.setError(msg.err)
			m.keys.Retry.SetEnabled(true)
			return m, nil
		}
		m.started = true
		m.keys.Retry.SetEnabled(false)
		return m, nil

	case playerEventMsg:
		m.applyEvent(string(msg))
		return m, m.waitForEvent()

	case commandMsg:
		if msg.err != nil {
			m.setError(msg.err)
		}
		return m, nil

	case eventsClosedMsg:
		m.nowPlaying.Playing = false
		return m, nil
	}

	return m, nil
}

func (m *Model) applyEvent(payload string) {
	kind, summary, err := connect.ParsePayload(payload)
	if err != nil {
		m.setError(err)
		return
	}
	switch kind {
	case connect.KindPaused:
		m.nowPlaying.Playing = false
		m.nowPlaying.Loading = false
	case connect.KindLoaded:
		m.nowPlaying.Track = summary
		m.nowPlaying.Loading = true
	case connect.KindPlaying:
		m.nowPlaying.Track = summary
		m.nowPlaying.Playing = true
		m.nowPlaying.Loading = false
	}
}

func (m *Model) setError(err error) {
	m.lastError = err
	m.errorExpiry = time.Now().Add(errorTTL)
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Toggle):
		if m.nowPlaying.Playing {
			return m, m.command(connect.CommandPause)
		}
		return m, m.command(connect.CommandPlay)

	case key.Matches(msg, m.keys.Next):
		return m, m.command(connect.CommandNext)

	case key.Matches(msg, m.keys.Prev):
		return m, m.command(connect.CommandPrev)

	case key.Matches(msg, m.keys.Retry):
		m.keys.Retry.SetEnabled(false)
		m.starting = true
		m.lastError = nil
		return m, tea.Batch(m.spinner.Tick, m.start())
	}
	return m, nil
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	width := m.width
	if width <= 0 {
		width = 60
	}
	panelWidth := min(width-2, 72)

	header := styles.Highlight.Render(m.device)
	var status string
	switch {
	case m.starting:
		status = m.spinner.View() + " " + styles.Muted.Render("Waiting for a controller. Select \""+m.device+"\" in a Spotify app.")
	case m.started:
		status = styles.Playing.Render("●") + " " + styles.Muted.Render("Connected")
	default:
		status = styles.Paused.Render("○") + " " + styles.Muted.Render("Not connected")
	}

	parts := []string{
		header,
		status,
		"",
		m.nowPlaying.Render(panelWidth, 10, m.started),
	}
	if m.lastError != nil && time.Now().Before(m.errorExpiry) {
		parts = append(parts, styles.ErrorText.Render(m.lastError.Error()))
	}
	parts = append(parts, "", m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Run starts the TUI and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, surface connect.Surface, events <-chan string, device string) error {
	p := tea.NewProgram(NewModel(ctx, surface, events, device), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
