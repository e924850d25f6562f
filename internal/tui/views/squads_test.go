package views

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/dfscope/internal/df"
	"github.com/f3rmion/dfscope/internal/refresh"
)

func squadSnapshot() *df.Snapshot {
	return &df.Snapshot{
		Squads: []*df.Squad{
			{ID: 1, Name: "The Axes", Members: map[int]int32{0: 500, 1: 501, 2: -1}, Order: df.OrderTrain, CarryWater: true, AmmoPerMember: 25},
			{ID: 2, Members: map[int]int32{0: 502}, Order: df.OrderNone},
		},
		Dwarves: []*df.Dwarf{
			{ID: 1, HistID: 501, Name: df.Name{First: "Kogan"}, SquadID: 1, SquadPosition: 1},
			{ID: 2, HistID: 500, Name: df.Name{First: "Urist"}, SquadID: 1, SquadPosition: 0},
			{ID: 3, HistID: 502, Name: df.Name{First: "Dodok"}, SquadID: 2},
		},
	}
}

func TestSquadsModel_View(t *testing.T) {
	m := NewSquadsModel()
	if !strings.Contains(m.View(), "Waiting") {
		t.Error("empty view does not show the waiting state")
	}

	m.SetSnapshot(squadSnapshot())
	view := m.View()
	for _, want := range []string{"The Axes", "2 members", "carries water, 25 ammo each", "Squad 2"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Index(view, "Urist") > strings.Index(view, "Kogan") {
		t.Error("members not listed in slot order")
	}
	if strings.Contains(view, "Dodok") {
		t.Error("members of an unselected squad are listed")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	if view := m.View(); !strings.Contains(view, "Dodok") || strings.Contains(view, "Urist") {
		t.Errorf("selection did not move to the second squad:\n%s", view)
	}
}

func TestStatusModel_View(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		status refresh.Status
		want   []string
	}{
		{
			name:   "detached",
			status: refresh.Status{},
			want:   []string{"not attached", "never"},
		},
		{
			name: "live",
			status: refresh.Status{
				PID:         4242,
				Generation:  7,
				Dwarves:     31,
				LastRefresh: now.Add(-90 * time.Second),
			},
			want: []string{"attached (pid 4242)", "31", "1m30s ago"},
		},
		{
			name:   "embark",
			status: refresh.Status{PID: 1, Partial: true, LastError: "no fortress loaded"},
			want:   []string{"embark screen", "Last error: no fortress loaded"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewStatusModel("dwarfort")
			m.now = func() time.Time { return now }
			m.SetStatus(tt.status)
			view := m.View()
			for _, want := range append(tt.want, "dwarfort") {
				if !strings.Contains(view, want) {
					t.Errorf("view missing %q:\n%s", want, view)
				}
			}
		})
	}
}
