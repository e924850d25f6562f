package df

import (
	"strings"

	"github.com/f3rmion/dfscope/internal/layout"
)

// Thought is one remembered emotional event.
type Thought struct {
	ID         int32       `json:"id"`
	Title      string      `json:"title,omitempty"`
	Text       string      `json:"text"`
	Emotion    EmotionType `json:"emotion"`
	Strength   int32       `json:"strength"`
	SubID      int32       `json:"sub_id"`
	Level      int32       `json:"level"`
	Time       Time        `json:"time"`
	Divider    int32       `json:"divider"`
	Multiplier float64     `json:"multiplier"`
	// Effect is the stress change this thought applies.
	Effect float64 `json:"effect"`
}

// StressEffect scales a thought's strength by the emotion divider and the
// owner's stress vulnerability. Vulnerability buckets that carry no stress
// force the divider to zero.
func StressEffect(strength, divider int32, vulnerability int16) (effect float64, div int32, mult float64) {
	div = divider
	switch v := vulnerability; {
	case v >= 91:
		mult = 5
	case v >= 76:
		mult = 3
	case v >= 61:
		mult = 2
	case v <= 9:
		div = 0
	case v <= 24:
		mult = 0.25
	case v <= 39:
		mult = 0.5
	default:
		div = 0
	}

	base := 1.0
	if div != 0 {
		base = float64(strength / div)
	}
	return base * mult, div, mult
}

// readThoughts decodes the emotion list in arrival order. vulnerability is
// the owner's stress vulnerability facet.
func (s *session) readThoughts(personality uint64, vulnerability int16) []Thought {
	var out []Thought
	for _, p := range s.r.Pointers(s.at(personality, layout.Soul, "emotions")) {
		t := Thought{
			ID:       s.r.I32(s.at(p, layout.Emotion, "thought_id")),
			Emotion:  emotionType(s.r.I32(s.at(p, layout.Emotion, "emotion_type"))),
			Strength: s.r.I32(s.at(p, layout.Emotion, "strength")),
			SubID:    s.r.I32(s.at(p, layout.Emotion, "sub_id")),
			Level:    s.r.I32(s.at(p, layout.Emotion, "level")),
			Time: Date(
				s.r.I32(s.at(p, layout.Emotion, "year")),
				s.r.I32(s.at(p, layout.Emotion, "year_tick")),
			),
		}
		s.describeThought(&t)

		var divider int32
		if e, ok := s.catalog.Emotion(int(t.Emotion)); ok {
			divider = int32(e.Divider)
		}
		t.Effect, t.Divider, t.Multiplier = StressEffect(t.Strength, divider, vulnerability)
		out = append(out, t)
	}
	return out
}

// describeThought fills in the catalog text, refined by the subthought when
// the thought kind has one.
func (s *session) describeThought(t *Thought) {
	def, ok := s.catalog.Thought(int(t.ID))
	if !ok {
		s.log.Debug("unknown thought", "id", t.ID)
		return
	}
	t.Title = def.Title
	t.Text = def.Thought

	// kinds 0 and 1 carry no refinement
	if def.SubthoughtsType < 2 {
		return
	}
	group, ok := s.catalog.SubthoughtGroup(def.SubthoughtsType)
	if !ok {
		return
	}
	var sub string
	for _, st := range group.Subthoughts {
		if int32(st.ID) == t.SubID {
			sub = st.Thought
			break
		}
	}
	if group.Placeholder == "" {
		t.Text += sub
		return
	}
	t.Text = strings.ReplaceAll(t.Text, group.Placeholder, sub)
}
