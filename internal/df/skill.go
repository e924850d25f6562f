package df

import (
	"sync"

	"github.com/f3rmion/dfscope/internal/layout"
)

// Skill level limits.
const (
	MaxSkillLevel      = 20
	MaxSkillExperience = 29000
)

// RustTier describes how far a skill has decayed from disuse.
type RustTier int

// Rust tiers.
const (
	RustNone RustTier = iota
	RustRusty
	RustVeryRusty
	RustLosingExperience
)

func (t RustTier) String() string {
	switch t {
	case RustRusty:
		return "Rusty"
	case RustVeryRusty:
		return "Very Rusty"
	case RustLosingExperience:
		return "Losing Experience"
	default:
		return ""
	}
}

// Skill is a creature's standing in one skill.
type Skill struct {
	ID       int32  `json:"id"`
	Name     string `json:"name"`
	RawLevel int32  `json:"raw_level"`
	Level    int32  `json:"level"`
	Capped   bool   `json:"capped,omitempty"`
	// RawExperience is progress within the current level.
	RawExperience int32 `json:"raw_experience"`
	// Experience is the total including all completed levels.
	Experience int32    `json:"experience"`
	Progress   float64  `json:"progress"`
	Rust       int32    `json:"rust"`
	RustTier   RustTier `json:"rust_tier"`
}

var xpTable sync.Map

// XPForLevel is the total experience needed to reach level.
func XPForLevel(level int32) int32 {
	if level < 0 {
		return 0
	}
	if v, ok := xpTable.Load(level); ok {
		return v.(int32)
	}
	xp := 50 * level * (level + 9)
	xpTable.Store(level, xp)
	return xp
}

// NewSkill derives level, progress and rust from raw counters.
func NewSkill(id, rawLevel, rawExp, rust int32) Skill {
	sk := Skill{
		ID:            id,
		RawLevel:      rawLevel,
		Level:         rawLevel,
		RawExperience: rawExp,
		Rust:          rust,
	}
	// The skill decayed back to nothing but is still known.
	if rawLevel == 0 && rawExp == 0 && rust > 0 {
		sk.RawExperience = 1
	}
	sk.Experience = sk.RawExperience + XPForLevel(rawLevel)

	if span := XPForLevel(rawLevel+1) - XPForLevel(rawLevel); span > 0 {
		sk.Progress = float64(sk.RawExperience) / float64(span) * 100
	}
	if sk.Progress > 100 {
		sk.Progress = 100
		sk.RustTier = RustLosingExperience
	}

	if sk.RustTier == RustNone {
		precise := float64(rawLevel) + sk.Progress/100
		switch {
		case precise >= 4 && precise*0.75 <= float64(rust):
			sk.RustTier = RustVeryRusty
		case rawLevel > 0 && float64(rawLevel)*0.5 <= float64(rust):
			sk.RustTier = RustRusty
		}
	}

	if rawLevel > MaxSkillLevel {
		sk.Level = MaxSkillLevel
		sk.Capped = true
		sk.Experience = MaxSkillExperience
	}
	return sk
}

// skill record layout
const (
	skillID    = 0x00
	skillLevel = 0x04
	skillExp   = 0x08
	skillRust  = 0x10
)

func (s *session) readSkills(soul uint64) []Skill {
	var out []Skill
	for _, p := range s.r.Pointers(s.at(soul, layout.Soul, "skills")) {
		sk := NewSkill(
			int32(s.r.I16(p+skillID)),
			int32(s.r.I16(p+skillLevel)),
			s.r.I32(p+skillExp),
			s.r.I32(p+skillRust),
		)
		if def, ok := s.catalog.Skill(int(sk.ID)); ok {
			sk.Name = def.Name
		}
		out = append(out, sk)
	}
	return out
}
