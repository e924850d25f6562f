package df

import "github.com/f3rmion/dfscope/internal/layout"

// Position is an office in the fortress or its civilization.
type Position struct {
	ID         int32  `json:"id"`
	Name       string `json:"name"`
	MaleName   string `json:"male_name,omitempty"`
	FemaleName string `json:"female_name,omitempty"`
}

// Title returns the gendered title when one is defined.
func (p Position) Title(sex Sex) string {
	switch {
	case sex == SexMale && p.MaleName != "":
		return p.MaleName
	case sex == SexFemale && p.FemaleName != "":
		return p.FemaleName
	}
	return p.Name
}

// readNobles maps historical figure ids to the positions they hold in the
// fortress government or the parent civilization.
func (s *session) readNobles() map[int32]Position {
	nobles := make(map[int32]Position)
	idOff := s.off(layout.HistEntity, "id")

	for _, e := range s.r.Pointers(s.global("historical_entities_vector")) {
		isCiv := s.r.I16(e) == 0 && s.r.I32(e+idOff) == s.w.civID
		if e != s.w.fortress && !isCiv {
			continue
		}

		positions := make(map[int32]Position)
		for _, p := range s.r.Pointers(s.at(e, layout.HistEntity, "positions")) {
			pos := Position{
				ID:         s.r.I32(s.at(p, layout.HistEntity, "position_id")),
				Name:       s.r.String(s.at(p, layout.HistEntity, "position_name")),
				MaleName:   s.r.String(s.at(p, layout.HistEntity, "position_male_name")),
				FemaleName: s.r.String(s.at(p, layout.HistEntity, "position_female_name")),
			}
			positions[pos.ID] = pos
		}

		for _, a := range s.r.Pointers(s.at(e, layout.HistEntity, "assignments")) {
			hist := s.r.I32(s.at(a, layout.HistEntity, "assign_hist_id"))
			if hist < 0 {
				continue
			}
			if pos, ok := positions[s.r.I32(s.at(a, layout.HistEntity, "assign_position_id"))]; ok {
				nobles[hist] = pos
			}
		}
	}
	return nobles
}

// FortressBelief is one cultural value of the fortress civilization.
type FortressBelief struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Value int32  `json:"value"`
}

// readFortressBeliefs reads one value per catalog belief, capped at 100.
func (s *session) readFortressBeliefs() []FortressBelief {
	if s.w.fortress == 0 {
		return nil
	}
	base := s.at(s.w.fortress, layout.HistEntity, "beliefs")
	out := make([]FortressBelief, 0, len(s.catalog.Beliefs))
	for i, b := range s.catalog.Beliefs {
		out = append(out, FortressBelief{
			ID:    i,
			Name:  b.Name,
			Value: min(s.r.I32(base+uint64(i)*4), 100),
		})
	}
	return out
}
