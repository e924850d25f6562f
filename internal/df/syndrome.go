package df

import (
	"encoding/json"
	"strings"

	"github.com/f3rmion/dfscope/internal/layout"
)

// CurseType classifies a supernatural affliction.
type CurseType int

// Curse types.
const (
	CurseNone      CurseType = -1
	CurseVampire   CurseType = 0
	CurseWerebeast CurseType = 1
	CurseOther     CurseType = 2
)

func (c CurseType) String() string {
	switch c {
	case CurseVampire:
		return "Vampire"
	case CurseWerebeast:
		return "Werebeast"
	case CurseOther:
		return "Other"
	default:
		return "None"
	}
}

// MarshalJSON encodes the curse type by name.
func (c CurseType) MarshalJSON() ([]byte, error) { return json.Marshal(c.String()) }

// UnmarshalJSON decodes a curse type name.
func (c *CurseType) UnmarshalJSON(data []byte) (err error) {
	*c, err = unmarshalName(data, CurseNone, CurseVampire, CurseWerebeast, CurseOther)
	return err
}

// effectTransformation is the creature-effect tag that turns the host into
// another race.
const effectTransformation = 24

// Syndrome is an active syndrome on a creature.
type Syndrome struct {
	ID        int32     `json:"id"`
	Name      string    `json:"name"`
	Classes   []string  `json:"classes,omitempty"`
	Sickness  bool      `json:"sickness"`
	Curse     CurseType `json:"curse"`
	// TransformRace is the race id the syndrome transforms into, or -1.
	TransformRace int32 `json:"transform_race"`
}

// DisplayName joins the raw name with its class tags.
func (sy *Syndrome) DisplayName() string {
	if len(sy.Classes) == 0 {
		return sy.Name
	}
	return sy.Name + ": " + strings.Join(sy.Classes, ", ")
}

// classifyCurse derives the curse type from a syndrome display name.
func classifyCurse(display string) CurseType {
	lower := strings.ToLower(display)
	switch {
	case strings.Contains(lower, "vampcurse"):
		return CurseVampire
	case strings.Contains(lower, "werecurse"):
		return CurseWerebeast
	case strings.Contains(lower, "curse"):
		return CurseOther
	default:
		return CurseNone
	}
}

// readSyndrome resolves a creature's syndrome record, whose first field is
// an index into the global syndrome table. ok is false if the index is bad.
func (s *session) readSyndrome(rec uint64) (Syndrome, bool) {
	id := s.r.I32(rec)
	if id < 0 || int(id) >= len(s.w.syndromes) {
		return Syndrome{}, false
	}
	addr := s.w.syndromes[id]

	sy := Syndrome{
		ID:            id,
		Name:          s.r.String(addr),
		Sickness:      s.r.U8(s.at(addr, layout.Syndrome, "syn_sick_flag")) != 0,
		TransformRace: -1,
	}
	for _, p := range s.r.Pointers(s.at(addr, layout.Syndrome, "syn_classes_vector")) {
		if c := strings.TrimSpace(s.r.String(p)); c != "" {
			sy.Classes = append(sy.Classes, c)
		}
	}

	slot := s.off(layout.Syndrome, "cie_type_vfunc")
	race := s.off(layout.Syndrome, "trans_race_id")
	for _, e := range s.r.Pointers(s.at(addr, layout.Syndrome, "cie_effects")) {
		if s.vtableTag(e, slot) == effectTransformation {
			sy.TransformRace = s.r.I32(e + race)
		}
	}

	sy.Curse = classifyCurse(sy.DisplayName())
	return sy, true
}
