package df

import (
	"strings"

	"github.com/f3rmion/dfscope/internal/decode"
	"github.com/f3rmion/dfscope/internal/layout"
)

// LaborBytes is the width of the per-creature labor table.
const LaborBytes = 94

// DwarfRace is the race name accepted into the fortress population.
const DwarfRace = "dwarf"

// Dwarf is one fully decoded member of the fortress.
type Dwarf struct {
	Address uint64 `json:"-"`
	ID      int32  `json:"id"`
	CivID   int32  `json:"civ_id"`
	HistID  int32  `json:"hist_id"`

	Race       *Race  `json:"race,omitempty"`
	RaceID     int32  `json:"race_id"`
	Caste      *Caste `json:"caste,omitempty"`
	CasteIndex int16  `json:"caste_index"`

	Name Name `json:"name"`
	// TrueIdentity holds the real name and birth when a fake identity is
	// shown in their place.
	TrueIdentity *Identity `json:"true_identity,omitempty"`

	Sex         Sex         `json:"sex"`
	Orientation Orientation `json:"orientation"`

	ProfessionID int    `json:"profession_id"`
	Profession   string `json:"profession"`

	States map[int16]int32 `json:"states,omitempty"`

	Birth   Time `json:"birth"`
	Age     Time `json:"age"`
	Arrival Time `json:"arrival"`

	HistFigure *HistFigure `json:"hist_figure,omitempty"`

	SquadID       int32      `json:"squad_id"`
	SquadPosition int32      `json:"squad_position"`
	SquadName     string     `json:"squad_name,omitempty"`
	SquadOrder    SquadOrder `json:"squad_order"`

	// Labors lists the enabled labor ids.
	Labors   []int `json:"labors"`
	Size     int32 `json:"size"`
	SizeBase int32 `json:"size_base"`

	Syndromes []Syndrome `json:"syndromes,omitempty"`
	Curse     CurseType  `json:"curse"`
	// CurseRace names the race a transforming syndrome turns the dwarf into.
	CurseRace string `json:"curse_race,omitempty"`

	Beliefs       []Belief     `json:"beliefs"`
	Facets        []Facet      `json:"facets"`
	Goals         []Goal       `json:"goals"`
	GoalsRealized int          `json:"goals_realized"`
	Needs         []Need       `json:"needs"`
	Preferences   []Preference `json:"preferences"`
	Thoughts      []Thought    `json:"thoughts"`
	ThoughtIDs    []int32      `json:"thought_ids"`

	StressLevel       int32  `json:"stress_level"`
	Happiness         string `json:"happiness"`
	CurrentFocus      int32  `json:"current_focus"`
	UndistractedFocus int32  `json:"undistracted_focus"`

	Mood  Mood     `json:"mood"`
	Noble Position `json:"noble"`

	Attributes []Attribute `json:"attributes"`
	Skills     []Skill     `json:"skills"`
}

// FullName joins the first and last name with the nickname quoted.
func (d *Dwarf) FullName() string {
	parts := []string{d.Name.First}
	if d.Name.Nickname != "" {
		parts = append(parts, "'"+d.Name.Nickname+"'")
	}
	if d.Name.Last != "" {
		parts = append(parts, d.Name.Last)
	}
	return strings.Join(parts, " ")
}

// Facet returns the facet with the given name.
func (d *Dwarf) Facet(name string) (Facet, bool) {
	for _, f := range d.Facets {
		if f.Name == name {
			return f, true
		}
	}
	return Facet{}, false
}

// decodeDwarf hydrates the creature at addr. Creatures outside the fortress
// population come back as a *RejectError.
func (s *session) decodeDwarf(addr uint64) (*Dwarf, error) {
	d := &Dwarf{
		Address: addr,
		CivID:   s.r.I32(s.at(addr, layout.Dwarf, "civ")),
	}
	if d.CivID != s.w.civID {
		return nil, reject(addr, "civ %d is not the fortress civ %d", d.CivID, s.w.civID)
	}

	d.RaceID = s.r.I32(s.at(addr, layout.Dwarf, "race"))
	if d.RaceID < 0 || int(d.RaceID) >= len(s.w.races) {
		return nil, reject(addr, "unknown race %d", d.RaceID)
	}
	d.Race = s.w.races[d.RaceID]
	if !strings.EqualFold(d.Race.Name, DwarfRace) {
		return nil, reject(addr, "race %q", d.Race.Name)
	}
	d.CasteIndex = s.r.I16(s.at(addr, layout.Dwarf, "caste"))
	if d.Caste = d.Race.Caste(int(d.CasteIndex)); d.Caste == nil {
		return nil, reject(addr, "caste %d out of range", d.CasteIndex)
	}

	d.ID = s.r.I32(s.at(addr, layout.Dwarf, "id"))
	d.HistID = s.r.I32(s.at(addr, layout.Dwarf, "hist_id"))
	d.Sex = Sex(s.r.I8(s.at(addr, layout.Dwarf, "sex")))
	d.Name = s.readName(s.at(addr, layout.Dwarf, "name"))
	d.States = s.readStates(addr)

	d.ProfessionID = int(s.r.U8(s.at(addr, layout.Dwarf, "profession")))
	prof, ok := s.catalog.Profession(d.ProfessionID)
	if !ok {
		return nil, reject(addr, "unknown profession %d", d.ProfessionID)
	}
	d.Profession = prof.Name

	d.Birth = Date(
		s.r.I32(s.at(addr, layout.Dwarf, "birth_year")),
		s.r.I32(s.at(addr, layout.Dwarf, "birth_time")),
	)
	turns := Ticks(int64(s.r.I32(s.at(addr, layout.Dwarf, "turn_count"))))
	d.Arrival = s.now.Sub(turns)

	if hf, ok := s.readHistFigure(d.HistID); ok {
		d.HistFigure = hf
		if hf.Fake != nil {
			d.TrueIdentity = &Identity{
				FirstName: d.Name.First,
				Nickname:  d.Name.Nickname,
				LastName:  d.Name.Last,
				Birth:     d.Birth,
			}
			d.Name.First = hf.Fake.FirstName
			d.Name.Nickname = hf.Fake.Nickname
			d.Name.Last = hf.Fake.LastName
			d.Name.English = ""
			d.Birth = hf.Fake.Birth
		}
	}
	d.Age = s.now.Sub(d.Birth)

	d.SquadID = s.r.I32(s.at(addr, layout.Dwarf, "squad_id"))
	d.SquadPosition = s.r.I32(s.at(addr, layout.Dwarf, "squad_position"))
	d.SquadOrder = OrderNone
	if q, ok := s.w.squads[d.SquadID]; ok {
		d.SquadName = q.Name
		d.SquadOrder = q.OrderFor(d.HistID)
	}

	d.Labors = s.readLabors(addr)
	d.Size = s.r.I32(s.at(addr, layout.Dwarf, "size_info"))
	d.SizeBase = s.r.I32(s.at(addr, layout.Dwarf, "size_base"))
	s.readDwarfSyndromes(d)

	soul := s.firstSoul(d)
	var personality uint64
	if soul != 0 {
		personality = s.at(soul, layout.Soul, "personality")
	}
	if personality != 0 {
		d.Beliefs = s.readBeliefs(personality)
		d.Facets = s.readFacets(personality, d.Beliefs)
	}

	d.Mood = ResolveMood(
		s.r.I16(s.at(addr, layout.Dwarf, "mood")),
		s.r.I16(s.at(addr, layout.Dwarf, "temp_mood")),
	)
	if m, ok := s.catalog.Mood(int(d.Mood.ID)); ok {
		d.Mood.Name = m.Name
	}

	if personality != 0 {
		d.Thoughts = s.readThoughts(personality, stressVulnerability(d.Facets))
		for _, t := range d.Thoughts {
			d.ThoughtIDs = append(d.ThoughtIDs, t.ID)
		}
		d.StressLevel = s.r.I32(s.at(personality, layout.Soul, "stress_level"))
		d.Happiness = s.catalog.Happiness(int(d.StressLevel)).Name

		d.Goals, d.GoalsRealized = s.readGoals(personality)
		d.Needs = s.readNeeds(personality)
		d.CurrentFocus = s.r.I32(s.at(personality, layout.Soul, "current_focus"))
		d.UndistractedFocus = s.r.I32(s.at(personality, layout.Soul, "undistracted_focus"))
	}
	if soul != 0 {
		d.Preferences = s.readPreferences(soul)
		d.Orientation = OrientationOf(d.Sex, s.r.U8(s.at(soul, layout.Soul, "orientation")))
	}

	d.Noble = s.w.nobles[d.HistID]

	d.Attributes = s.readAttributes(addr, soul)
	if soul != 0 {
		d.Skills = s.readSkills(soul)
	}
	return d, nil
}

// state record layout
const (
	stateWidth = 8
	stateKey   = 0x00
	stateValue = 0x04
)

type stateEntry struct {
	key   int16
	value int32
}

func (s *session) readStates(addr uint64) map[int16]int32 {
	entries := decode.Vector(s.r, s.at(addr, layout.Dwarf, "states"), stateWidth, func(b []byte) stateEntry {
		return stateEntry{key: le16(b[stateKey:]), value: le32(b[stateValue:])}
	})
	if len(entries) == 0 {
		return nil
	}
	states := make(map[int16]int32, len(entries))
	for _, e := range entries {
		states[e.key] = e.value
	}
	return states
}

func (s *session) readLabors(addr uint64) []int {
	raw := s.r.Bytes(s.at(addr, layout.Dwarf, "labors"), LaborBytes)
	var out []int
	for _, l := range s.catalog.Labors {
		if l.ID >= 0 && l.ID < LaborBytes && raw[l.ID] != 0 {
			out = append(out, l.ID)
		}
	}
	return out
}

func (s *session) readDwarfSyndromes(d *Dwarf) {
	d.Curse = CurseNone
	for _, p := range s.r.Pointers(s.at(d.Address, layout.Dwarf, "active_syndrome_vector")) {
		sy, ok := s.readSyndrome(p)
		if !ok {
			continue
		}
		d.Syndromes = append(d.Syndromes, sy)
		if sy.Curse != CurseNone && d.Curse == CurseNone {
			d.Curse = sy.Curse
		}
		if sy.TransformRace >= 0 && int(sy.TransformRace) < len(s.w.races) {
			d.CurseRace = s.w.races[sy.TransformRace].Name
		}
	}
}

// firstSoul returns the creature's soul. Extra souls are logged and ignored.
func (s *session) firstSoul(d *Dwarf) uint64 {
	souls := s.r.Pointers(s.at(d.Address, layout.Dwarf, "souls"))
	if len(souls) == 0 {
		return 0
	}
	if len(souls) > 1 {
		s.log.Warn("creature has multiple souls", "id", d.ID, "souls", len(souls))
	}
	return souls[0]
}
