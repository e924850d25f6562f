package df

import (
	"encoding/json"

	"github.com/f3rmion/dfscope/internal/layout"
)

// FocusLevel is how well a need is being met.
type FocusLevel int

// Focus levels, worst first.
const (
	BadlyDistracted FocusLevel = iota
	Distracted
	Unfocused
	NotDistracted
	Untroubled
	LevelHeaded
	Unfettered
)

var focusNames = [...]string{
	"Badly Distracted",
	"Distracted",
	"Unfocused",
	"Not Distracted",
	"Untroubled",
	"Level-Headed",
	"Unfettered",
}

func (f FocusLevel) String() string {
	if f < 0 || int(f) >= len(focusNames) {
		return ""
	}
	return focusNames[f]
}

// MarshalJSON encodes the focus level by name.
func (f FocusLevel) MarshalJSON() ([]byte, error) { return json.Marshal(f.String()) }

// UnmarshalJSON decodes a focus level name.
func (f *FocusLevel) UnmarshalJSON(data []byte) (err error) {
	*f, err = unmarshalName(data, NotDistracted, upTo[FocusLevel](len(focusNames))...)
	return err
}

// Focus maps a raw focus counter to its band.
func Focus(level int32) FocusLevel {
	switch {
	case level <= -100000:
		return BadlyDistracted
	case level <= -10000:
		return Distracted
	case level <= -1000:
		return Unfocused
	case level <= 100:
		return NotDistracted
	case level <= 200:
		return Untroubled
	case level <= 300:
		return LevelHeaded
	default:
		return Unfettered
	}
}

// Need is one personality need and how well it is satisfied.
type Need struct {
	ID         int32      `json:"id"`
	Name       string     `json:"name"`
	DeityID    int32      `json:"deity_id"`
	FocusLevel int32      `json:"focus_level"`
	NeedLevel  int32      `json:"need_level"`
	Focus      FocusLevel `json:"focus"`
}

func (s *session) readNeeds(personality uint64) []Need {
	var out []Need
	for _, p := range s.r.Pointers(s.at(personality, layout.Soul, "needs")) {
		n := Need{
			ID:         s.r.I32(s.at(p, layout.Need, "id")),
			DeityID:    s.r.I32(s.at(p, layout.Need, "deity_id")),
			FocusLevel: s.r.I32(s.at(p, layout.Need, "focus_level")),
			NeedLevel:  s.r.I32(s.at(p, layout.Need, "need_level")),
		}
		n.Focus = Focus(n.FocusLevel)
		if def, ok := s.catalog.Need(int(n.ID)); ok {
			n.Name = def.Name
		}
		out = append(out, n)
	}
	return out
}
