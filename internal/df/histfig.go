package df

import "github.com/f3rmion/dfscope/internal/layout"

// Identity is a name and birth date a creature is known by.
type Identity struct {
	FirstName string `json:"first_name"`
	Nickname  string `json:"nickname,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Birth     Time   `json:"birth"`
}

// HistFigure is the historical record behind a creature.
type HistFigure struct {
	ID      int32  `json:"id"`
	Address uint64 `json:"-"`
	Info    uint64 `json:"-"`
	// Reputation points at the figure's reputation record, 0 if absent.
	Reputation uint64 `json:"-"`
	// Fake is the assumed identity currently in use, if any.
	Fake *Identity `json:"fake_identity,omitempty"`
}

func (s *session) indexHistFigures() map[int32]uint64 {
	idx := make(map[int32]uint64)
	id := s.off(layout.HistFigure, "id")
	for _, p := range s.r.Pointers(s.global("historical_figures_vector")) {
		idx[s.r.I32(p+id)] = p
	}
	return idx
}

func (s *session) indexFakeIdentities() map[int32]uint64 {
	idx := make(map[int32]uint64)
	id := s.off(layout.HistFigure, "identity_id")
	for _, p := range s.r.Pointers(s.global("fake_identities_vector")) {
		idx[s.r.I32(p+id)] = p
	}
	return idx
}

// readHistFigure resolves a figure by id. ok is false when the id is not
// in the fortress's figure index.
func (s *session) readHistFigure(id int32) (*HistFigure, bool) {
	addr, ok := s.w.histFigs[id]
	if !ok || id < 0 {
		return nil, false
	}
	hf := &HistFigure{
		ID:      id,
		Address: addr,
		Info:    s.r.Ptr(s.at(addr, layout.HistFigure, "hist_fig_info")),
	}
	if hf.Info == 0 {
		return hf, true
	}
	hf.Reputation = s.r.Ptr(s.at(hf.Info, layout.HistFigure, "reputation"))
	if hf.Reputation == 0 {
		return hf, true
	}

	ident := s.r.I32(s.at(hf.Reputation, layout.HistFigure, "current_ident"))
	if fake, ok := s.w.fakeIDs[ident]; ok && ident >= 0 {
		hf.Fake = s.readFakeIdentity(fake)
	}
	return hf, true
}

func (s *session) readFakeIdentity(addr uint64) *Identity {
	n := s.readName(s.at(addr, layout.HistFigure, "fake_name"))
	return &Identity{
		FirstName: n.First,
		Nickname:  n.Nickname,
		LastName:  n.Last,
		Birth: Date(
			s.r.I32(s.at(addr, layout.HistFigure, "fake_birth_year")),
			s.r.I32(s.at(addr, layout.HistFigure, "fake_birth_time")),
		),
	}
}
