package df

import "encoding/json"

// EmotionType is the emotion a thought evoked. The zero value is the first
// named emotion; EmotionNone marks an unset slot.
type EmotionType int32

// EmotionNone is the unset emotion.
const EmotionNone EmotionType = -1

var emotionNames = [...]string{
	"Acceptance", "Adoration", "Affection", "Agitation", "Aggravation",
	"Agony", "Alarm", "Alienation", "Amazement", "Ambivalence",
	"Amusement", "Anger", "ExistentialCrisis", "Anguish", "Annoyance",
	"Unknown15", "Anxiety", "Apathy", "Unknown18", "Arousal",
	"Astonishment", "Unknown21", "Aversion", "Awe", "Bitterness",
	"Bliss", "Boredom", "Caring", "Unknown28", "Confusion",
	"Contempt", "Contentment", "Unknown32", "Unknown33", "Defeated",
	"Dejection", "Delight", "Unknown37", "Unknown38", "Despair",
	"Disappointment", "Disgust", "Disillusioned", "Dislike", "Dismay",
	"Displeasure", "Distress", "Doubt", "Unknown48", "Eagerness",
	"Unknown50", "Elation", "Embarrassment", "Empathy", "Emptiness",
	"Enjoyment", "Unknown56", "Enthusiastic", "Unknown58", "Euphoric",
	"Exasperation", "Excited", "Exhilaration", "Expectant", "Fear",
	"Ferocity", "Fondness", "Free", "Fright", "Frustration",
	"Unknown70", "Unknown71", "Unknown72", "Glee", "Gloom",
	"Glumness", "Gratitude", "Unknown77", "Grief", "GrimSatisfaction",
	"Grouchiness", "Grumpiness", "Guilt", "Happiness", "Hatred",
	"Unknown85", "Hope", "Hopelessness", "Horror", "Unknown89",
	"Humiliation", "Unknown91", "Unknown92", "Unknown93", "Unknown94",
	"Insult", "Interest", "Irritation", "Isolation", "Unknown99",
	"Jolliness", "Jovialty", "Joy", "Jubilation", "Unknown104",
	"Loathing", "Loneliness", "Unknown107", "Love", "Unknown109",
	"Lust", "Unknown111", "Misery", "Mortification", "Unknown114",
	"Nervousness", "Nostalgia", "Optimism", "Outrage", "Panic",
	"Patience", "Passion", "Pessimistic", "Unknown123", "Pleasure",
	"Pride", "Rage", "Rapture", "Rejection", "Relief",
	"Regret", "Remorse", "Repentance", "Resentment", "Unknown134",
	"RighteousIndignation", "Sadness", "Satisfaction", "Unknown138", "SelfPity",
	"Unknown140", "Servile", "Shaken", "Shame", "Shock",
	"Unknown145", "Unknown146", "Unknown147", "Unknown148", "Suspicion",
	"Sympathy", "Tenderness", "Unknown152", "Terror", "Thrill",
	"Unknown155", "Triumph", "Uneasiness", "Unhappiness", "Vengefulness",
	"Unknown160", "Wonder", "Worry", "Wrath", "Zeal",
	"Unknown165", "Unknown166", "Unknown167", "Restless", "Admiration",
}

// EmotionCount is the number of named emotion types.
const EmotionCount = len(emotionNames)

func (e EmotionType) String() string {
	if e < 0 || int(e) >= len(emotionNames) {
		return "None"
	}
	return emotionNames[e]
}

// Valid reports whether e names a known emotion.
func (e EmotionType) Valid() bool { return e >= 0 && int(e) < len(emotionNames) }

// MarshalJSON encodes the emotion by name.
func (e EmotionType) MarshalJSON() ([]byte, error) { return json.Marshal(e.String()) }

// UnmarshalJSON decodes an emotion name.
func (e *EmotionType) UnmarshalJSON(data []byte) (err error) {
	*e, err = unmarshalName(data, EmotionNone, upTo[EmotionType](EmotionCount)...)
	return err
}

func emotionType(raw int32) EmotionType {
	if e := EmotionType(raw); e.Valid() {
		return e
	}
	return EmotionNone
}
