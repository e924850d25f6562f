package layout

import "fmt"

// Section names one table of the offset schema.
type Section int

// Sections of the schema, in file order.
const (
	Addresses Section = iota
	Language
	Word
	GeneralRef
	Race
	Caste
	HistEntity
	HistFigure
	HistEvent
	Item
	ItemSubtype
	ItemFilter
	WeaponSubtype
	ArmorSubtype
	Material
	Plant
	Descriptor
	Health
	Dwarf
	Syndrome
	UnitWound
	Soul
	Need
	Emotion
	Job
	Squad
	Activity
	Art
	Viewscreen

	numSections
)

var sectionKeys = [numSections]string{
	Addresses:     "addresses",
	Language:      "language",
	Word:          "word_offsets",
	GeneralRef:    "general_ref_offsets",
	Race:          "race_offsets",
	Caste:         "caste_offsets",
	HistEntity:    "hist_entity_offsets",
	HistFigure:    "hist_figure_offsets",
	HistEvent:     "hist_event_offsets",
	Item:          "item_offsets",
	ItemSubtype:   "item_subtype_offsets",
	ItemFilter:    "item_filter_offsets",
	WeaponSubtype: "weapon_subtype_offsets",
	ArmorSubtype:  "armor_subtype_offsets",
	Material:      "material_offsets",
	Plant:         "plant_offsets",
	Descriptor:    "descriptor_offsets",
	Health:        "health_offsets",
	Dwarf:         "dwarf_offsets",
	Syndrome:      "syndrome_offsets",
	UnitWound:     "unit_wound_offsets",
	Soul:          "soul_details",
	Need:          "need_offsets",
	Emotion:       "emotion_offsets",
	Job:           "job_details",
	Squad:         "squad_offsets",
	Activity:      "activity_offsets",
	Art:           "art_offsets",
	Viewscreen:    "viewscreen_offsets",
}

// Key returns the table name used in the schema file.
func (s Section) Key() string {
	if s < 0 || s >= numSections {
		return fmt.Sprintf("section(%d)", int(s))
	}
	return sectionKeys[s]
}

func (s Section) String() string { return s.Key() }

// Sections returns every section in file order.
func Sections() []Section {
	out := make([]Section, numSections)
	for i := range out {
		out[i] = Section(i)
	}
	return out
}

func sectionByKey(key string) (Section, bool) {
	for i, k := range sectionKeys {
		if k == key {
			return Section(i), true
		}
	}
	return 0, false
}
