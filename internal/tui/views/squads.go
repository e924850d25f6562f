package views

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/dfscope/internal/df"
	"github.com/mattn/go-runewidth"
)

var (
	squadsNameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffe66d"))

	squadsSelectedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#ffe66d")).
				Background(lipgloss.Color("#2d3436"))

	squadsInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	squadsMemberStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#f1faee"))
)

// SquadsModel shows the fortress military.
type SquadsModel struct {
	snap     *df.Snapshot
	selected int
	width    int
	height   int
}

// NewSquadsModel creates the squads view.
func NewSquadsModel() SquadsModel {
	return SquadsModel{}
}

// SetSnapshot replaces the data shown.
func (m *SquadsModel) SetSnapshot(snap *df.Snapshot) {
	m.snap = snap
	if m.selected >= len(snap.Squads) {
		m.selected = 0
	}
}

// SetSize updates the view dimensions.
func (m *SquadsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages.
func (m SquadsModel) Update(msg tea.Msg) (SquadsModel, tea.Cmd) {
	if m.snap == nil {
		return m, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
		case "down", "j":
			if m.selected < len(m.snap.Squads)-1 {
				m.selected++
			}
		}
	}
	return m, nil
}

// View renders the squads and the members of the selected one.
func (m SquadsModel) View() string {
	if m.snap == nil {
		return squadsInfoStyle.Italic(true).Render("Waiting for the first snapshot...")
	}
	if len(m.snap.Squads) == 0 {
		return squadsInfoStyle.Italic(true).Render("This fortress has no squads.")
	}

	var b strings.Builder
	for i, q := range m.snap.Squads {
		style := squadsNameStyle
		if i == m.selected {
			style = squadsSelectedStyle
		}
		name := q.Name
		if name == "" {
			name = fmt.Sprintf("Squad %d", q.ID)
		}
		b.WriteString(style.Render(m.fit(name)))
		b.WriteString(squadsInfoStyle.Render(fmt.Sprintf("  %d members, order %s%s", q.Size(), q.Order, supplies(q))))
		b.WriteString("\n")
		if i != m.selected {
			continue
		}
		for _, d := range squadMembers(m.snap, q) {
			line := fmt.Sprintf("    %s  [%s]", d.FullName(), q.OrderFor(d.HistID))
			b.WriteString(squadsMemberStyle.Render(m.fit(line)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m SquadsModel) fit(s string) string {
	if m.width <= 0 {
		return s
	}
	return runewidth.Truncate(s, m.width, "…")
}

func supplies(q *df.Squad) string {
	var parts []string
	if q.CarryFood {
		parts = append(parts, "food")
	}
	if q.CarryWater {
		parts = append(parts, "water")
	}
	if q.AmmoPerMember > 0 {
		parts = append(parts, fmt.Sprintf("%d ammo each", q.AmmoPerMember))
	}
	if len(parts) == 0 {
		return ""
	}
	return ", carries " + strings.Join(parts, ", ")
}

// squadMembers returns the snapshot's dwarves serving in q, in slot order.
func squadMembers(snap *df.Snapshot, q *df.Squad) []*df.Dwarf {
	var out []*df.Dwarf
	for _, d := range snap.Dwarves {
		if d.SquadID == q.ID {
			out = append(out, d)
		}
	}
	slices.SortStableFunc(out, func(a, b *df.Dwarf) int {
		return cmp.Compare(a.SquadPosition, b.SquadPosition)
	})
	return out
}
