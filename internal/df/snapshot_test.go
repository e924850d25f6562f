package df

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSnapshot_FindDwarves(t *testing.T) {
	snap := &Snapshot{Dwarves: []*Dwarf{
		{ID: 1, Name: Name{First: "Urist", Last: "Bomrekkadol"}},
		{ID: 2, Name: Name{First: "Zon", Nickname: "Axe", Last: "Tunur"}},
		{ID: 3, Name: Name{First: "Kadol", Last: "Erith"}},
	}}

	tests := []struct {
		query string
		want  []int32
	}{
		{"", []int32{1, 2, 3}},
		{"urist", []int32{1}},
		{"kadol", []int32{1, 3}},
		{"zan", []int32{2}},
		{"AXE", []int32{2}},
		{"xyzzyq", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var got []int32
			for _, d := range snap.FindDwarves(tt.query) {
				got = append(got, d.ID)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FindDwarves(%q) mismatch (-want +got):\n%s", tt.query, diff)
			}
		})
	}
}

func TestSnapshot_Lookups(t *testing.T) {
	snap := &Snapshot{
		Dwarves: []*Dwarf{{ID: 4}},
		Squads:  []*Squad{{ID: 9}},
		Races:   []*Race{{ID: 0, Name: "dwarf"}},
	}
	if _, ok := snap.Dwarf(4); !ok {
		t.Error("Dwarf(4) missing")
	}
	if _, ok := snap.Dwarf(5); ok {
		t.Error("Dwarf(5) found")
	}
	if _, ok := snap.Squad(9); !ok {
		t.Error("Squad(9) missing")
	}
	if r, ok := snap.Race(0); !ok || r.Name != "dwarf" {
		t.Errorf("Race(0) = %v, %v", r, ok)
	}
	if _, ok := snap.Race(-1); ok {
		t.Error("Race(-1) found")
	}
}

func TestDwarf_FullName(t *testing.T) {
	d := &Dwarf{Name: Name{First: "Zon", Nickname: "Axe", Last: "Tunur"}}
	if got, want := d.FullName(), "Zon 'Axe' Tunur"; got != want {
		t.Errorf("FullName() = %q, want %q", got, want)
	}
}
