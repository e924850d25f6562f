package df

import (
	"encoding/json"
	"slices"

	"github.com/f3rmion/dfscope/internal/gamedata"
	"github.com/f3rmion/dfscope/internal/layout"
)

// Belief is a value held by a creature.
type Belief struct {
	ID    int32  `json:"id"`
	Name  string `json:"name"`
	Value int16  `json:"value"`
}

// Facet is a personality trait value.
type Facet struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Value int16  `json:"value"`
	// Conflicts lists the ids of held beliefs that pull against this facet.
	Conflicts []int32 `json:"conflicts,omitempty"`
	Synthetic bool    `json:"synthetic,omitempty"`
}

// Goal is a life goal and whether it has been achieved.
type Goal struct {
	ID       int32  `json:"id"`
	Name     string `json:"name"`
	Realized bool   `json:"realized"`
}

// CombatHardenedName names the facet synthesized from combat experience.
const CombatHardenedName = "Combat Hardened"

// CombatHardened maps the raw combat experience counter onto the 40..90
// facet scale, clamped to the 0..100 range of a facet.
func CombatHardened(raw int32) int16 {
	v := int64(raw)*(90-40)/100 + 40
	return int16(min(max(v, 0), 100))
}

// FacetConflict reports whether a belief value pulls against a facet value.
func FacetConflict(belief, facet int16) bool {
	return (belief > 10 && facet < 40) || (belief < -10 && facet > 60)
}

// belief record layout
const (
	beliefID    = 0x00
	beliefValue = 0x04
)

func (s *session) readBeliefs(personality uint64) []Belief {
	var out []Belief
	for _, p := range s.r.Pointers(s.at(personality, layout.Soul, "beliefs")) {
		b := Belief{
			ID:    s.r.I32(p + beliefID),
			Value: s.r.I16(p + beliefValue),
		}
		if def, ok := s.catalog.Belief(int(b.ID)); ok {
			b.Name = def.Name
		}
		out = append(out, b)
	}
	return out
}

// readFacets reads one value per catalog facet and checks each against the
// creature's beliefs. The synthetic combat facet is appended last.
func (s *session) readFacets(personality uint64, beliefs []Belief) []Facet {
	held := make(map[int32]int16, len(beliefs))
	for _, b := range beliefs {
		held[b.ID] = b.Value
	}

	base := s.at(personality, layout.Soul, "traits")
	out := make([]Facet, 0, len(s.catalog.Facets)+1)
	for i, def := range s.catalog.Facets {
		f := Facet{
			ID:    def.ID,
			Name:  def.Name,
			Value: s.r.I16(base + uint64(i)*2),
		}
		if f.ID == 0 && i != 0 {
			f.ID = i
		}
		f.Conflicts = facetConflicts(def, f.Value, held)
		out = append(out, f)
	}

	out = append(out, Facet{
		ID:        len(s.catalog.Facets),
		Name:      CombatHardenedName,
		Value:     CombatHardened(s.r.I32(s.at(personality, layout.Soul, "combat_hardened"))),
		Synthetic: true,
	})
	return out
}

func facetConflicts(def gamedata.Facet, value int16, held map[int32]int16) []int32 {
	var out []int32
	for _, id := range def.BeliefConflicts {
		bv, ok := held[int32(id)]
		if ok && FacetConflict(bv, value) {
			out = append(out, int32(id))
		}
	}
	slices.Sort(out)
	return out
}

// readGoals skips goals the catalog does not know. realized counts the
// achieved ones.
func (s *session) readGoals(personality uint64) (goals []Goal, realized int) {
	for _, p := range s.r.Pointers(s.at(personality, layout.Soul, "goals")) {
		id := s.r.I32(s.at(p, layout.Soul, "goal_type"))
		def, ok := s.catalog.Goal(int(id))
		if id < 0 || !ok {
			continue
		}
		g := Goal{
			ID:       id,
			Name:     def.Name,
			Realized: s.r.U8(s.at(p, layout.Soul, "goal_realized")) != 0,
		}
		if g.Realized {
			realized++
		}
		goals = append(goals, g)
	}
	return goals, realized
}

// stressVulnerability picks the facet thought effects are scaled by.
func stressVulnerability(facets []Facet) int16 {
	if len(facets) <= gamedata.StressVulnerability {
		return 0
	}
	return facets[gamedata.StressVulnerability].Value
}

// Sex is a creature's biological sex.
type Sex int8

// Sexes.
const (
	SexNone   Sex = -1
	SexFemale Sex = 0
	SexMale   Sex = 1
)

func (s Sex) String() string {
	switch s {
	case SexFemale:
		return "Female"
	case SexMale:
		return "Male"
	default:
		return "None"
	}
}

// MarshalJSON encodes the sex by name.
func (s Sex) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

// UnmarshalJSON decodes a sex name.
func (s *Sex) UnmarshalJSON(data []byte) (err error) {
	*s, err = unmarshalName(data, SexNone, SexFemale, SexMale)
	return err
}

// Orientation is a creature's romantic orientation.
type Orientation int

// Orientations.
const (
	Asexual Orientation = iota
	Heterosexual
	Homosexual
	Bisexual
)

func (o Orientation) String() string {
	switch o {
	case Heterosexual:
		return "Heterosexual"
	case Homosexual:
		return "Homosexual"
	case Bisexual:
		return "Bisexual"
	default:
		return "Asexual"
	}
}

// MarshalJSON encodes the orientation by name.
func (o Orientation) MarshalJSON() ([]byte, error) { return json.Marshal(o.String()) }

// UnmarshalJSON decodes an orientation name.
func (o *Orientation) UnmarshalJSON(data []byte) (err error) {
	*o, err = unmarshalName(data, Asexual, Heterosexual, Homosexual, Bisexual)
	return err
}

// OrientationOf decodes the packed orientation byte: bits 1-2 hold interest
// in males and bits 3-4 interest in females.
func OrientationOf(sex Sex, packed uint8) Orientation {
	likesMale := (packed>>1)&3 != 0
	likesFemale := (packed>>3)&3 != 0

	switch {
	case likesMale && likesFemale:
		return Bisexual
	case !likesMale && !likesFemale:
		return Asexual
	case sex == SexMale:
		if likesFemale {
			return Heterosexual
		}
		return Homosexual
	case sex == SexFemale:
		if likesMale {
			return Heterosexual
		}
		return Homosexual
	}
	return Asexual
}

// Mood ids with special handling.
const (
	MoodNone       int16 = -1
	MoodMelancholy int16 = 5
	MoodInsane     int16 = 6
	MoodBerserk    int16 = 7
	MoodBaby       int16 = 8
	MoodTrauma     int16 = 9

	tempMoodShift = 10
)

// Mood is a creature's current mood.
type Mood struct {
	ID     int16  `json:"id"`
	Name   string `json:"name,omitempty"`
	Locked bool   `json:"locked"`
}

// ResolveMood combines the primary and temporary mood fields. The primary
// mood wins; otherwise the temporary mood is shifted into the shared id
// space. A baby mood is not reported.
func ResolveMood(primary, temporary int16) Mood {
	id := primary
	if id == MoodNone && temporary != MoodNone {
		id = temporary + tempMoodShift
	}
	if id == MoodBaby {
		id = MoodNone
	}
	m := Mood{ID: id}
	switch id {
	case MoodBerserk, MoodInsane, MoodMelancholy, MoodTrauma:
		m.Locked = true
	}
	if primary >= 0 && primary <= 4 {
		m.Locked = true
	}
	return m
}
