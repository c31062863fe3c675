// Package tui drives the canvas controller from a terminal. Each cell is one
// canvas unit; the last lines of the screen hold the status and help.
package tui

import (
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"rectlink/internal/app"
	"rectlink/pkg/geometry"
)

// DefaultNodeHeight is the node height in cells. Nodes are twice as wide.
const DefaultNodeHeight = 4

// DefaultPickTolerance is the connection pick tolerance in cells.
const DefaultPickTolerance = 1.0

// DoubleClickInterval is the longest gap between two presses on the same
// cell that still counts as a double click.
const DoubleClickInterval = 400 * time.Millisecond

// footerLines is the number of rows below the canvas.
const footerLines = 2

// Styles
var (
	statusStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#37474F"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
)

type keyMap struct {
	Cancel key.Binding
	Help   key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel link"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "mouse help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

var mouseHelp = []key.Binding{
	key.NewBinding(key.WithKeys("dblclick"), key.WithHelp("double-click", "add node")),
	key.NewBinding(key.WithKeys("drag"), key.WithHelp("drag", "move node")),
	key.NewBinding(key.WithKeys("right"), key.WithHelp("right-click", "link/unlink")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Cancel, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		mouseHelp,
		{k.Cancel, k.Help, k.Quit},
	}
}

// surface is the canvas area of the terminal.
type surface struct {
	mu   sync.Mutex
	size geometry.Size
}

func (s *surface) Size() geometry.Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

func (s *surface) set(size geometry.Size) {
	s.mu.Lock()
	s.size = size
	s.mu.Unlock()
}

type press struct {
	at   geometry.Point
	when time.Time
}

// Model is the bubbletea model of the terminal shell.
type Model struct {
	state   *app.State
	surface *surface
	keys    keyMap
	help    help.Model
	now     func() time.Time

	lastPress *press
	notice    *string
	width     int
	height    int
}

// New creates a model for a terminal of the given size. opts.NodeHeight
// defaults to DefaultNodeHeight.
func New(size geometry.Size, opts app.Options) Model {
	if opts.NodeHeight <= 0 {
		opts.NodeHeight = DefaultNodeHeight
	}
	s := &surface{}
	m := Model{
		surface: s,
		keys:    keys,
		help:    help.New(),
		now:     time.Now,
		notice:  new(string),
	}
	m = m.resize(size.Width, size.Height)
	m.state = app.NewState(s, opts)

	notice := m.notice
	m.state.On(app.EventPlacementRejected, func(data interface{}) {
		if err, ok := data.(error); ok {
			*notice = err.Error()
		}
	})
	return m
}

// State returns the controller behind the model.
func (m Model) State() *app.State {
	return m.state
}

func (m Model) resize(width, height int) Model {
	m.width, m.height = width, height
	m.help.Width = width
	m.surface.set(geometry.NewSize(width, max(height-footerLines, 0)))
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.resize(msg.Width, msg.Height), nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Cancel):
			m.state.CancelLink()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg), nil
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) Model {
	p := geometry.Pt(msg.X, msg.Y)

	// a drag may end over the footer
	if msg.Action == tea.MouseActionRelease {
		m.state.OnPrimaryUp(p)
		return m
	}
	if !geometry.Bounds(m.surface.Size()).Contains(p) {
		return m
	}

	switch msg.Action {
	case tea.MouseActionPress:
		*m.notice = ""
		switch msg.Button {
		case tea.MouseButtonLeft:
			now := m.now()
			if m.lastPress != nil && m.lastPress.at == p && now.Sub(m.lastPress.when) <= DoubleClickInterval {
				m.lastPress = nil
				m.state.OnPrimaryDoubleClick(p)
				return m
			}
			m.lastPress = &press{at: p, when: now}
			m.state.OnPrimaryDown(p)
		case tea.MouseButtonRight:
			m.state.OnSecondaryDown(p)
		}

	case tea.MouseActionMotion:
		if msg.Button == tea.MouseButtonLeft {
			m.state.OnPrimaryMove(p)
		}
	}
	return m
}

func (m Model) View() string {
	snap := m.state.Snapshot()
	g := rasterize(snap, snap.Canvas.Width, snap.Canvas.Height)

	status := statusStyle.Render(snap.Summary())
	if *m.notice != "" {
		status += " " + noticeStyle.Render(*m.notice)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		g.Render(),
		status,
		helpStyle.Render(m.help.View(m.keys)),
	)
}

// Run starts the terminal shell and blocks until the user quits.
func Run(opts app.Options) error {
	p := tea.NewProgram(New(geometry.Size{}, opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
