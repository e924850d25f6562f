package views

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/dfscope/internal/clipboard"
	"github.com/f3rmion/dfscope/internal/df"
	"github.com/f3rmion/dfscope/internal/gamedata"
	"github.com/f3rmion/dfscope/internal/report"
)

var (
	dwarvesTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FF6B6B"))

	dwarvesSearchBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#ffe66d")).
				Padding(0, 1)

	dwarvesDetailStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#4ecdc4")).
				Padding(0, 1)

	dwarvesFlashStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a8e6cf")).
				Bold(true)

	dwarvesEmptyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Italic(true)
)

var dwarfColumns = []table.Column{
	{Title: "Name", Width: 28},
	{Title: "Profession", Width: 16},
	{Title: "Happiness", Width: 13},
	{Title: "Stress", Width: 8},
	{Title: "Mood", Width: 12},
	{Title: "Squad", Width: 14},
}

// Copier puts text on the clipboard.
type Copier interface {
	Write(text string) (clipboard.Method, error)
}

type dwarvesClearFlashMsg struct{}

func dwarvesClearFlashAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return dwarvesClearFlashMsg{}
	})
}

// DwarvesModel lists the fortress population with a detail sheet for the
// selected dwarf.
type DwarvesModel struct {
	snap    *df.Snapshot
	catalog *gamedata.Catalog
	copier  Copier

	shown []*df.Dwarf
	table table.Model

	search    textinput.Model
	searching bool
	query     string

	detail bool
	flash  string

	width  int
	height int
}

// NewDwarvesModel creates the dwarves view.
func NewDwarvesModel(catalog *gamedata.Catalog, copier Copier) DwarvesModel {
	si := textinput.New()
	si.Placeholder = "Search names..."
	si.CharLimit = 50
	si.Width = 30

	t := table.New(
		table.WithColumns(dwarfColumns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	return DwarvesModel{
		catalog: catalog,
		copier:  copier,
		table:   t,
		search:  si,
	}
}

// SetSnapshot replaces the data shown, keeping the selected dwarf selected
// when it is still present.
func (m *DwarvesModel) SetSnapshot(snap *df.Snapshot) {
	var keep int32 = -1
	if d := m.Selected(); d != nil {
		keep = d.ID
	}
	m.snap = snap
	m.applyFilter()
	for i, d := range m.shown {
		if d.ID == keep {
			m.table.SetCursor(i)
			break
		}
	}
}

// SetSize updates the view dimensions.
func (m *DwarvesModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	h := height - 6
	if h < 3 {
		h = 3
	}
	m.table.SetHeight(h)
}

// Capturing reports whether keystrokes are going to the search box.
func (m DwarvesModel) Capturing() bool { return m.searching }

// Selected returns the dwarf under the cursor.
func (m DwarvesModel) Selected() *df.Dwarf {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.shown) {
		return nil
	}
	return m.shown[i]
}

// Shown returns the dwarves currently listed.
func (m DwarvesModel) Shown() []*df.Dwarf { return m.shown }

func (m *DwarvesModel) applyFilter() {
	if m.snap == nil {
		m.shown = nil
	} else if m.query == "" {
		m.shown = m.snap.Dwarves
	} else {
		m.shown = m.snap.FindDwarves(m.query)
	}

	rows := make([]table.Row, 0, len(m.shown))
	for _, d := range m.shown {
		rows = append(rows, dwarfRow(d))
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(0)
	}
}

func dwarfRow(d *df.Dwarf) table.Row {
	mood := d.Mood.Name
	if mood == "" {
		mood = "-"
	}
	squad := d.SquadName
	if squad == "" {
		squad = "-"
	}
	return table.Row{
		d.FullName(),
		d.Profession,
		d.Happiness,
		strconv.Itoa(int(d.StressLevel)),
		mood,
		squad,
	}
}

// Update handles messages.
func (m DwarvesModel) Update(msg tea.Msg) (DwarvesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dwarvesClearFlashMsg:
		m.flash = ""
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			switch msg.String() {
			case "enter":
				m.searching = false
				m.search.Blur()
				m.query = m.search.Value()
				m.applyFilter()
				m.table.SetCursor(0)
				return m, nil
			case "esc":
				m.searching = false
				m.search.Blur()
				m.search.SetValue(m.query)
				return m, nil
			default:
				var cmd tea.Cmd
				m.search, cmd = m.search.Update(msg)
				return m, cmd
			}
		}

		switch msg.String() {
		case "/":
			m.searching = true
			return m, m.search.Focus()
		case "c":
			m.query = ""
			m.search.SetValue("")
			m.applyFilter()
			return m, nil
		case "enter":
			m.detail = !m.detail
			return m, nil
		case "y":
			return m, m.copySelected()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *DwarvesModel) copySelected() tea.Cmd {
	d := m.Selected()
	if d == nil || m.copier == nil {
		return nil
	}
	text, err := report.String(d, m.catalog)
	if err != nil {
		m.flash = err.Error()
		return dwarvesClearFlashAfter(2 * time.Second)
	}
	method, err := m.copier.Write(text)
	if err != nil {
		m.flash = "Copy failed: " + err.Error()
	} else {
		m.flash = fmt.Sprintf("Copied %s (%s clipboard)", d.FullName(), method)
	}
	return dwarvesClearFlashAfter(2 * time.Second)
}

// View renders the dwarves list.
func (m DwarvesModel) View() string {
	if m.snap == nil {
		return dwarvesEmptyStyle.Render("Waiting for the first snapshot...")
	}

	title := dwarvesTitleStyle.Render(fmt.Sprintf("Dwarves (%d)", len(m.shown)))
	if m.query != "" {
		title += dwarvesEmptyStyle.Render(fmt.Sprintf("  matching %q, c to clear", m.query))
	}
	parts := []string{title}
	if m.searching {
		parts = append(parts, dwarvesSearchBoxStyle.Render(m.search.View()))
	}

	body := m.table.View()
	if m.detail {
		if d := m.Selected(); d != nil {
			sheet, err := report.String(d, m.catalog)
			if err != nil {
				sheet = err.Error()
			}
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, " ", dwarvesDetailStyle.Render(sheet))
		}
	}
	parts = append(parts, body)

	if m.flash != "" {
		parts = append(parts, dwarvesFlashStyle.Render(m.flash))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
