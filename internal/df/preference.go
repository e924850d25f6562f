package df

import (
	"encoding/json"

	"github.com/f3rmion/dfscope/internal/layout"
)

// PreferenceType is what a preference refers to.
type PreferenceType int16

// Preference types.
const (
	LikesNone    PreferenceType = -1
	LikeMaterial PreferenceType = 0
	LikeCreature PreferenceType = 1
	LikeFood     PreferenceType = 2
	HateCreature PreferenceType = 3
	LikeItem     PreferenceType = 4
	LikePlant    PreferenceType = 5
	LikeTree     PreferenceType = 6
	LikeColor    PreferenceType = 7
	LikeShape    PreferenceType = 8
	LikePoetry   PreferenceType = 9
	LikeMusic    PreferenceType = 10
	LikeDance    PreferenceType = 11
	LikeOutdoors PreferenceType = 99
)

var preferenceNames = map[PreferenceType]string{
	LikeMaterial: "LikeMaterial",
	LikeCreature: "LikeCreature",
	LikeFood:     "LikeFood",
	HateCreature: "HateCreature",
	LikeItem:     "LikeItem",
	LikePlant:    "LikePlant",
	LikeTree:     "LikeTree",
	LikeColor:    "LikeColor",
	LikeShape:    "LikeShape",
	LikePoetry:   "LikePoetry",
	LikeMusic:    "LikeMusic",
	LikeDance:    "LikeDance",
	LikeOutdoors: "LikeOutdoors",
}

func (p PreferenceType) String() string {
	if n, ok := preferenceNames[p]; ok {
		return n
	}
	return "None"
}

// MarshalJSON encodes the preference type by name.
func (p PreferenceType) MarshalJSON() ([]byte, error) { return json.Marshal(p.String()) }

// UnmarshalJSON decodes a preference type name.
func (p *PreferenceType) UnmarshalJSON(data []byte) (err error) {
	types := make([]PreferenceType, 0, len(preferenceNames))
	for t := range preferenceNames {
		types = append(types, t)
	}
	*p, err = unmarshalName(data, LikesNone, types...)
	return err
}

// Preference is one like or dislike. The referenced ids stay raw: naming
// them needs the material, item and descriptor tables, which are not read.
type Preference struct {
	Type        PreferenceType `json:"type"`
	ID          int32          `json:"id"`
	ItemSubtype int32          `json:"item_subtype"`
	MatType     int32          `json:"mat_type"`
	MatIndex    int32          `json:"mat_index"`
	MatState    int32          `json:"mat_state"`
}

// preference record layout
const (
	prefType     = 0x00
	prefID       = 0x04
	prefSubtype  = 0x08
	prefMatType  = 0x0c
	prefMatIndex = 0x10
	prefMatState = 0x14
)

func (s *session) readPreferences(soul uint64) []Preference {
	var out []Preference
	for _, p := range s.r.Pointers(s.at(soul, layout.Soul, "preferences")) {
		t := PreferenceType(s.r.I16(p + prefType))
		if _, ok := preferenceNames[t]; !ok {
			continue
		}
		out = append(out, Preference{
			Type:        t,
			ID:          s.r.I32(p + prefID),
			ItemSubtype: s.r.I32(p + prefSubtype),
			MatType:     s.r.I32(p + prefMatType),
			MatIndex:    s.r.I32(p + prefMatIndex),
			MatState:    s.r.I32(p + prefMatState),
		})
	}
	return out
}
