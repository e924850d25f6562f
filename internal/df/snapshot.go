package df

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
)

// Snapshot is one consistent decode of the target. It is never modified
// after the builder returns it.
type Snapshot struct {
	Generation uint64    `json:"generation"`
	BuiltAt    time.Time `json:"built_at"`
	// Partial marks a creature-only refresh taken without a fortress.
	Partial bool `json:"partial,omitempty"`
	Time    Time `json:"time"`

	FortressID  int32 `json:"fortress_id"`
	CivID       int32 `json:"civ_id"`
	DwarfRaceID int32 `json:"dwarf_race_id"`

	Beliefs   []FortressBelief   `json:"beliefs,omitempty"`
	Races     []*Race            `json:"-"`
	Squads    []*Squad           `json:"squads"`
	Nobles    map[int32]Position `json:"nobles,omitempty"`
	Languages *Languages         `json:"-"`
	Dwarves   []*Dwarf           `json:"dwarves"`
	// Rejected counts creatures left out of Dwarves.
	Rejected int `json:"rejected"`
}

// Dwarf returns the dwarf with the given unit id.
func (s *Snapshot) Dwarf(id int32) (*Dwarf, bool) {
	for _, d := range s.Dwarves {
		if d.ID == id {
			return d, true
		}
	}
	return nil, false
}

// Squad returns the squad with the given id.
func (s *Snapshot) Squad(id int32) (*Squad, bool) {
	for _, q := range s.Squads {
		if q.ID == id {
			return q, true
		}
	}
	return nil, false
}

// Race returns the race with the given id.
func (s *Snapshot) Race(id int32) (*Race, bool) {
	if id < 0 || int(id) >= len(s.Races) {
		return nil, false
	}
	return s.Races[id], true
}

// FindDwarves ranks dwarves by how closely one of their names matches
// query. Substring hits come first, then edit distance. Dwarves too far
// from the query are left out.
func (s *Snapshot) FindDwarves(query string) []*Dwarf {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return slices.Clone(s.Dwarves)
	}
	limit := max(2, len([]rune(q))/3)

	type hit struct {
		d    *Dwarf
		dist int
	}
	var hits []hit
	for _, d := range s.Dwarves {
		if dist, ok := matchName(d, q, limit); ok {
			hits = append(hits, hit{d, dist})
		}
	}
	slices.SortStableFunc(hits, func(a, b hit) int { return cmp.Compare(a.dist, b.dist) })

	out := make([]*Dwarf, len(hits))
	for i, h := range hits {
		out[i] = h.d
	}
	return out
}

// matchName scores d against a lowercase query. A substring hit scores -1.
func matchName(d *Dwarf, q string, limit int) (int, bool) {
	best := -2
	for _, n := range []string{d.Name.First, d.Name.Nickname, d.FullName()} {
		n = strings.ToLower(n)
		if n == "" {
			continue
		}
		if strings.Contains(n, q) {
			return -1, true
		}
		dist := levenshtein.ComputeDistance(n, q)
		if best == -2 || dist < best {
			best = dist
		}
	}
	return best, best >= 0 && best <= limit
}
