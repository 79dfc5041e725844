// Package tui provides an interactive terminal browser for the menu tree.
// It stands in for a host application's menu bar: the tree is rendered as
// navigable lists, selecting a leaf invokes its command through the
// controller, and the dispatch loop is ticked from the Bubble Tea event
// loop so deferred callbacks run on the same goroutine as the UI.
package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stagecraft-labs/pipemenu/internal/controller"
	"github.com/stagecraft-labs/pipemenu/internal/dispatch"
	"github.com/stagecraft-labs/pipemenu/internal/enable"
	"github.com/stagecraft-labs/pipemenu/internal/menu"
)

// tickEvery paces dispatch-loop draining from the UI event loop.
const tickEvery = 50 * time.Millisecond

var (
	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	breadcrumbStyle = lipgloss.NewStyle().Faint(true)
	cursorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	groupItemStyle  = lipgloss.NewStyle().Bold(true)
	disabledStyle   = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	dividerStyle    = lipgloss.NewStyle().Faint(true)
	statusStyle     = lipgloss.NewStyle().Faint(true)
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle       = lipgloss.NewStyle().Faint(true)
)

// tickMsg drives periodic dispatch-loop draining.
type tickMsg time.Time

// Model is the Bubble Tea model for the menu browser.
type Model struct {
	title  string
	ctrl   *controller.Controller
	loop   *dispatch.Loop
	keys   KeyMap
	logger *slog.Logger

	// stack holds the path of group nodes from the root to the list being
	// shown; the last element is the current level.
	stack  []*menu.Node
	cursor int

	status string
	width  int
	height int
}

// New creates a menu browser over an already-built controller.
func New(title string, ctrl *controller.Controller, loop *dispatch.Loop, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}
	return &Model{
		title:  title,
		ctrl:   ctrl,
		loop:   loop,
		keys:   DefaultKeyMap(),
		logger: logger,
		stack:  []*menu.Node{ctrl.Tree()},
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickEvery, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		if n := m.loop.Tick(); n > 0 {
			// Deferred tasks may have rebuilt the tree; drop back to the
			// root since the old nodes are no longer part of it.
			m.resetToRoot()
		}
		return m, tick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)

	case key.Matches(msg, m.keys.Back):
		if len(m.stack) > 1 {
			m.stack = m.stack[:len(m.stack)-1]
			m.cursor = 0
			m.clampCursor()
		}

	case key.Matches(msg, m.keys.Refresh):
		if err := m.ctrl.Rebuild("manual refresh"); err != nil {
			m.status = errorStyle.Render(err.Error())
		} else {
			m.status = "menu rebuilt"
		}
		m.resetToRoot()

	case key.Matches(msg, m.keys.Enter):
		m.activate()
	}
	return m, nil
}

func (m *Model) activate() {
	items := m.current().Children()
	if m.cursor < 0 || m.cursor >= len(items) {
		return
	}
	node := items[m.cursor]

	switch node.Kind {
	case menu.KindGroup:
		m.stack = append(m.stack, node)
		m.cursor = 0
		m.clampCursor()

	case menu.KindLeaf:
		if node.Command == nil || !m.nodeEnabled(node) {
			return
		}
		id := node.Command.Identity()
		if err := m.ctrl.Invoke(id); err != nil {
			m.status = errorStyle.Render(err.Error())
			return
		}
		m.status = fmt.Sprintf("queued %s", node.Label)
	}
}

func (m *Model) current() *menu.Node {
	return m.stack[len(m.stack)-1]
}

func (m *Model) resetToRoot() {
	m.stack = []*menu.Node{m.ctrl.Tree()}
	m.clampCursor()
}

// moveCursor steps the cursor by delta, skipping dividers.
func (m *Model) moveCursor(delta int) {
	items := m.current().Children()
	if len(items) == 0 {
		return
	}
	i := m.cursor
	for {
		i += delta
		if i < 0 || i >= len(items) {
			return
		}
		if items[i].Kind != menu.KindDivider {
			m.cursor = i
			return
		}
	}
}

func (m *Model) clampCursor() {
	items := m.current().Children()
	if m.cursor >= len(items) {
		m.cursor = len(items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	// Never rest on a divider.
	if m.cursor < len(items) && items[m.cursor].Kind == menu.KindDivider {
		m.moveCursor(1)
	}
}

func (m *Model) nodeEnabled(node *menu.Node) bool {
	if node.Disabled {
		return false
	}
	if node.Command == nil || node.Command.Properties.EnableWhen == "" {
		return true
	}
	ok, err := enable.Eval(node.Command.Properties.EnableWhen, m.ctrl.Context())
	if err != nil {
		m.logger.Warn("enable predicate failed, disabling command",
			"command", node.Command.Name, "error", err)
		return false
	}
	return ok
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("  ")
	b.WriteString(statusStyle.Render(m.ctrl.Context().Display()))
	if m.ctrl.State() == controller.StateDisabled {
		b.WriteString("  ")
		b.WriteString(errorStyle.Render("[menu disabled]"))
	}
	b.WriteString("\n")

	if crumb := m.breadcrumb(); crumb != "" {
		b.WriteString(breadcrumbStyle.Render(crumb))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, node := range m.current().Children() {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}

		switch node.Kind {
		case menu.KindDivider:
			b.WriteString("  " + dividerStyle.Render(strings.Repeat("─", 24)))
		case menu.KindGroup:
			b.WriteString(cursor + groupItemStyle.Render(node.Label+" »"))
		default:
			label := node.Label
			if !m.nodeEnabled(node) {
				label = disabledStyle.Render(label)
			}
			if node.Tooltip != "" && i == m.cursor {
				label += "  " + statusStyle.Render(node.Tooltip)
			}
			b.WriteString(cursor + label)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("enter: open/run • esc: back • r: rebuild • q: quit"))
	return b.String()
}

func (m *Model) breadcrumb() string {
	if len(m.stack) <= 1 {
		return ""
	}
	parts := make([]string, 0, len(m.stack)-1)
	for _, n := range m.stack[1:] {
		parts = append(parts, n.Label)
	}
	return strings.Join(parts, " / ")
}

// Run starts the browser and blocks until it exits.
func Run(m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
