package views

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/dfscope/internal/df"
	"github.com/f3rmion/dfscope/internal/refresh"
)

var (
	statusLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a8dadc")).
				Bold(true).
				Width(16)

	statusValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#f1faee"))

	statusErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FF6B6B")).
				Bold(true)
)

// StatusModel shows the refresh loop's health.
type StatusModel struct {
	status refresh.Status
	snap   *df.Snapshot
	source string
	now    func() time.Time
	width  int
	height int
}

// NewStatusModel creates the status view. source describes where
// snapshots come from.
func NewStatusModel(source string) StatusModel {
	return StatusModel{source: source, now: time.Now}
}

// SetStatus replaces the status shown.
func (m *StatusModel) SetStatus(st refresh.Status) { m.status = st }

// SetSnapshot replaces the snapshot summarised.
func (m *StatusModel) SetSnapshot(snap *df.Snapshot) { m.snap = snap }

// SetSize updates the view dimensions.
func (m *StatusModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages.
func (m StatusModel) Update(tea.Msg) (StatusModel, tea.Cmd) { return m, nil }

// View renders the status table.
func (m StatusModel) View() string {
	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(statusLabelStyle.Render(label) + statusValueStyle.Render(value) + "\n")
	}

	row("Source", m.source)
	if m.status.PID != 0 {
		row("Process", fmt.Sprintf("attached (pid %d)", m.status.PID))
	} else {
		row("Process", "not attached")
	}
	row("Generation", fmt.Sprint(m.status.Generation))
	row("Dwarves", fmt.Sprint(m.status.Dwarves))
	if m.status.Partial {
		row("State", "embark screen (creatures only)")
	}
	if !m.status.LastRefresh.IsZero() {
		ago := m.now().Sub(m.status.LastRefresh).Round(time.Second)
		row("Last refresh", fmt.Sprintf("%s (%s ago)", m.status.LastRefresh.Local().Format(time.TimeOnly), ago))
	} else {
		row("Last refresh", "never")
	}
	if m.snap != nil {
		row("Game date", m.snap.Time.String())
		row("Squads", fmt.Sprint(len(m.snap.Squads)))
		row("Left out", fmt.Sprint(m.snap.Rejected))
	}
	if m.status.LastError != "" {
		b.WriteString("\n" + statusErrorStyle.Render("Last error: "+m.status.LastError) + "\n")
	}
	return b.String()
}
