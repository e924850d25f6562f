package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/dfscope/internal/df"
	"github.com/f3rmion/dfscope/internal/gamedata"
	"github.com/f3rmion/dfscope/internal/refresh"
	"github.com/f3rmion/dfscope/internal/tui/views"
)

// DefaultPoll is how often the UI asks its source for a newer snapshot.
const DefaultPoll = 2 * time.Second

const fetchTimeout = 10 * time.Second

// ViewType represents the current active view
type ViewType int

const (
	ViewDwarves ViewType = iota
	ViewSquads
	ViewStatus
)

// MenuItem represents a sidebar menu entry
type MenuItem struct {
	Label    string
	View     ViewType
	Shortcut string
}

// snapshotMsg carries the result of one poll.
type snapshotMsg struct {
	snap   *df.Snapshot
	status refresh.Status
	err    error
}

type tickMsg time.Time

type refreshRequestedMsg struct{ err error }

// Options configures the app.
type Options struct {
	Catalog *gamedata.Catalog
	Copier  views.Copier
	// SourceName describes the source on the status view.
	SourceName string
	Poll       time.Duration
}

// AppModel is the main TUI model
type AppModel struct {
	source refresh.Source
	poll   time.Duration

	// Layout state
	width        int
	height       int
	sidebarWidth int
	ready        bool

	// Navigation
	currentView   ViewType
	menuItems     []MenuItem
	selectedMenu  int
	sidebarActive bool

	dwarvesView views.DwarvesModel
	squadsView  views.SquadsModel
	statusView  views.StatusModel

	generation uint64
	err        error
	showHelp   bool
}

// NewApp creates the TUI over source.
func NewApp(source refresh.Source, opts Options) AppModel {
	if opts.Poll <= 0 {
		opts.Poll = DefaultPoll
	}
	return AppModel{
		source:       source,
		poll:         opts.Poll,
		sidebarWidth: 18,
		currentView:  ViewDwarves,
		menuItems: []MenuItem{
			{Label: "Dwarves", View: ViewDwarves, Shortcut: "1"},
			{Label: "Squads", View: ViewSquads, Shortcut: "2"},
			{Label: "Status", View: ViewStatus, Shortcut: "3"},
		},
		dwarvesView: views.NewDwarvesModel(opts.Catalog, opts.Copier),
		squadsView:  views.NewSquadsModel(),
		statusView:  views.NewStatusModel(opts.SourceName),
	}
}

// Init starts polling.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.fetch(), m.tick(), textinput.Blink)
}

func (m AppModel) tick() tea.Cmd {
	return tea.Tick(m.poll, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m AppModel) fetch() tea.Cmd {
	src := m.source
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		st, err := src.Status(ctx)
		if err != nil {
			return snapshotMsg{err: err}
		}
		snap, err := src.Latest(ctx)
		return snapshotMsg{snap: snap, status: st, err: err}
	}
}

func (m AppModel) requestRefresh() tea.Cmd {
	src := m.source
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		return refreshRequestedMsg{err: src.Refresh(ctx)}
	}
}

// Update handles messages
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		if m.currentView == ViewDwarves && m.dwarvesView.Capturing() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "?":
			m.showHelp = true
			return m, nil
		case "r":
			return m, m.requestRefresh()
		case "esc":
			if m.sidebarActive {
				return m, tea.Quit
			}
			m.sidebarActive = true
			return m, nil
		case "1", "2", "3":
			m.selectedMenu = int(msg.String()[0] - '1')
			m.currentView = m.menuItems[m.selectedMenu].View
			m.sidebarActive = false
			return m, nil
		case "tab":
			m.sidebarActive = !m.sidebarActive
			return m, nil
		}

		if m.sidebarActive {
			switch msg.String() {
			case "j", "down":
				if m.selectedMenu < len(m.menuItems)-1 {
					m.selectedMenu++
				}
				return m, nil
			case "k", "up":
				if m.selectedMenu > 0 {
					m.selectedMenu--
				}
				return m, nil
			case "enter", "l", "right":
				m.currentView = m.menuItems[m.selectedMenu].View
				m.sidebarActive = false
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		contentWidth := m.width - m.sidebarWidth - 4
		contentHeight := m.height - 2
		m.dwarvesView.SetSize(contentWidth, contentHeight)
		m.squadsView.SetSize(contentWidth, contentHeight)
		m.statusView.SetSize(contentWidth, contentHeight)
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.fetch(), m.tick())

	case refreshRequestedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		return m, m.fetch()

	case snapshotMsg:
		m.err = msg.err
		if errors.Is(msg.err, refresh.ErrNoSnapshot) {
			m.err = nil
		}
		m.statusView.SetStatus(msg.status)
		if msg.snap != nil && (msg.snap.Generation != m.generation || m.generation == 0) {
			m.generation = msg.snap.Generation
			m.dwarvesView.SetSnapshot(msg.snap)
			m.squadsView.SetSnapshot(msg.snap)
			m.statusView.SetSnapshot(msg.snap)
		}
		return m, nil
	}

	if m.sidebarActive {
		return m, nil
	}
	var cmd tea.Cmd
	switch m.currentView {
	case ViewDwarves:
		m.dwarvesView, cmd = m.dwarvesView.Update(msg)
	case ViewSquads:
		m.squadsView, cmd = m.squadsView.Update(msg)
	case ViewStatus:
		m.statusView, cmd = m.statusView.Update(msg)
	}
	return m, cmd
}

// View renders the UI
func (m AppModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var content string
	switch m.currentView {
	case ViewDwarves:
		content = m.dwarvesView.View()
	case ViewSquads:
		content = m.squadsView.View()
	case ViewStatus:
		content = m.statusView.View()
	}
	if m.err != nil {
		content = lipgloss.JoinVertical(lipgloss.Left, content, "", StatusErrorStyle.Render(m.err.Error()))
	}

	contentWidth := m.width - m.sidebarWidth - 4
	mainContent := ContentStyle.
		Width(contentWidth).
		Height(m.height - 2).
		Render(content)

	return lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), mainContent)
}

func (m AppModel) renderSidebar() string {
	items := []string{SidebarTitleStyle.Render(" dfscope "), ""}

	for i, item := range m.menuItems {
		label := item.Shortcut + ". " + item.Label

		style := SidebarItemStyle
		if i == m.selectedMenu {
			if m.sidebarActive {
				style = SidebarItemActiveStyle
			} else {
				style = SidebarItemStyle.Bold(true).Foreground(ColorSecondary)
			}
		}
		items = append(items, style.Render(label))
	}

	items = append(items, "")
	if m.generation > 0 {
		items = append(items, StatusOKStyle.Render(" live"))
	} else {
		items = append(items, StatusMutedStyle.Render(" waiting"))
	}

	usedHeight := len(items) + 4
	for i := 0; i < m.height-usedHeight-2; i++ {
		items = append(items, "")
	}
	items = append(items, SidebarHelpStyle.Render("? Help  q Quit"))

	return SidebarStyle.
		Width(m.sidebarWidth).
		Height(m.height - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, items...))
}

func (m AppModel) renderHelp() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorSecondary).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Width(12)

	descStyle := lipgloss.NewStyle().
		Foreground(ColorText)

	line := func(key, desc string) string {
		return keyStyle.Render(key) + descStyle.Render(desc) + "\n"
	}

	helpText := titleStyle.Render("dfscope") + "\n\n"

	helpText += sectionStyle.Render("Global Keys") + "\n"
	helpText += line("1-3", "Switch views")
	helpText += line("tab", "Toggle sidebar focus")
	helpText += line("r", "Refresh now")
	helpText += line("?", "Show this help")
	helpText += line("q", "Quit")

	helpText += sectionStyle.Render("Dwarves View") + "\n"
	helpText += line("j/k ↑/↓", "Move selection")
	helpText += line("enter", "Toggle detail sheet")
	helpText += line("/", "Search by name")
	helpText += line("c", "Clear search")
	helpText += line("y", "Copy sheet to clipboard")

	helpText += sectionStyle.Render("Squads View") + "\n"
	helpText += line("j/k ↑/↓", "Select squad")

	helpText += "\n" + StatusMutedStyle.Render("Press any key to close")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSecondary).
		Padding(1, 2).
		Width(50)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, boxStyle.Render(helpText))
}
