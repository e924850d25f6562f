package df

import (
	"strings"

	"github.com/f3rmion/dfscope/internal/decode"
	"github.com/f3rmion/dfscope/internal/layout"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Synthetic caste flags stored above the raw flag range.
const (
	FlagHasExtracts  = 200
	FlagShearable    = 201
	FlagButcherable  = 202
	FlagTrainable    = 203
	FlagFishable     = 26
	flagNotFishable  = 37
	flagButcherable  = 46
	flagTrainHunting = 53
	flagTrainWar     = 54
	flagPet          = 55
	flagPetExotic    = 88
	flagHasBabyAge   = 97
	flagHasChildAge  = 98
)

// Race is a creature species.
type Race struct {
	ID              int            `json:"id"`
	Name            string         `json:"name"`
	NamePlural      string         `json:"name_plural"`
	Adjective       string         `json:"adjective"`
	BabyName        string         `json:"baby_name"`
	BabyNamePlural  string         `json:"baby_name_plural"`
	ChildName       string         `json:"child_name"`
	ChildNamePlural string         `json:"child_name_plural"`
	Castes          []*Caste       `json:"castes"`
	PrefStrings     []string       `json:"pref_strings,omitempty"`
	Flags           decode.FlagSet `json:"flags"`
	Materials       []uint64       `json:"-"`
}

// Caste is a sub-variant of a race, such as male or female.
type Caste struct {
	Index       int            `json:"index"`
	Tag         string         `json:"tag"`
	Name        string         `json:"name"`
	NamePlural  string         `json:"name_plural"`
	Description string         `json:"description,omitempty"`
	Flags       decode.FlagSet `json:"flags"`
	BabyAge     int32          `json:"baby_age"`
	ChildAge    int32          `json:"child_age"`
	AdultSize   int32          `json:"adult_size"`
	BodyParts   []uint64       `json:"-"`
}

// Butcherable reports whether the caste yields meat when slaughtered.
func (c *Caste) Butcherable() bool { return c.Flags.Has(FlagButcherable) }

// Trainable reports whether the caste can be trained for hunting, war or as a pet.
func (c *Caste) Trainable() bool { return c.Flags.Has(FlagTrainable) }

// Fishable reports whether the caste can be caught by fishing.
func (c *Caste) Fishable() bool { return c.Flags.Has(FlagFishable) }

// Caste returns the caste at index i, or nil.
func (r *Race) Caste(i int) *Caste {
	if i < 0 || i >= len(r.Castes) {
		return nil
	}
	return r.Castes[i]
}

func (s *session) readRaces() []*Race {
	ptrs := s.r.Pointers(s.global("races_vector"))
	races := make([]*Race, 0, len(ptrs))
	for i, p := range ptrs {
		races = append(races, s.readRace(i, p))
	}
	return races
}

func (s *session) readRace(id int, addr uint64) *Race {
	str := func(name string) string { return s.r.String(s.at(addr, layout.Race, name)) }
	r := &Race{
		ID:              id,
		Name:            str("name_singular"),
		NamePlural:      str("name_plural"),
		Adjective:       str("adjective"),
		ChildName:       str("child_name_singular"),
		ChildNamePlural: str("child_name_plural"),
		BabyName:        str("baby_name_singular"),
		BabyNamePlural:  str("baby_name_plural"),
		Flags:           s.r.Flags(s.at(addr, layout.Race, "flags")),
		Materials:       s.r.Pointers(s.at(addr, layout.Race, "materials_vector")),
	}

	for _, p := range s.r.Pointers(s.at(addr, layout.Race, "pref_string_vector")) {
		r.PrefStrings = append(r.PrefStrings, s.r.String(p))
	}
	for i, p := range s.r.Pointers(s.at(addr, layout.Race, "castes_vector")) {
		r.Castes = append(r.Castes, s.readCaste(i, p))
	}

	r.fixChildNames()
	return r
}

// fixChildNames fills whichever of the baby and child names is missing from
// the other, or derives both from the race name.
func (r *Race) fixChildNames() {
	switch {
	case r.BabyName == "" && r.ChildName != "":
		r.BabyName, r.BabyNamePlural = r.ChildName, r.ChildNamePlural
	case r.ChildName == "" && r.BabyName != "":
		r.ChildName, r.ChildNamePlural = r.BabyName, r.BabyNamePlural
	case r.ChildName == "" && r.BabyName == "":
		r.BabyName = r.Name + " Baby"
		r.BabyNamePlural = r.NamePlural + " Babies"
		r.ChildName = r.Name + " Offspring"
		r.ChildNamePlural = r.NamePlural + " Offspring"
	}
	r.BabyName = capitalizeEach(r.BabyName)
	r.BabyNamePlural = capitalizeEach(r.BabyNamePlural)
	r.ChildName = capitalizeEach(r.ChildName)
	r.ChildNamePlural = capitalizeEach(r.ChildNamePlural)
}

func (s *session) readCaste(index int, addr uint64) *Caste {
	name := s.at(addr, layout.Caste, "caste_name")
	c := &Caste{
		Index:       index,
		Tag:         s.r.String(addr),
		Name:        capitalizeEach(s.r.String(name)),
		NamePlural:  capitalizeEach(s.r.String(name + stringSize)),
		Description: s.r.String(s.at(addr, layout.Caste, "caste_descr")),
		Flags:       s.r.Flags(s.at(addr, layout.Caste, "flags")),
		AdultSize:   s.r.I32(s.at(addr, layout.Caste, "adult_size")),
		BodyParts:   s.r.Pointers(s.at(addr, layout.Caste, "body_info")),
	}

	if c.Flags.Has(flagHasBabyAge) {
		c.BabyAge = casteAge(s.r.I32(s.at(addr, layout.Caste, "baby_age")))
	}
	if c.Flags.Has(flagHasChildAge) {
		c.ChildAge = casteAge(s.r.I32(s.at(addr, layout.Caste, "child_age")))
	}

	hasExtracts := s.r.Len(s.at(addr, layout.Caste, "extracts"), decode.PointerSize) > 0
	shearable := s.r.Len(s.at(addr, layout.Caste, "shearable_tissues_vector"), decode.PointerSize) > 0
	c.Flags.Set(FlagHasExtracts, hasExtracts)
	c.Flags.Set(FlagShearable, shearable)
	deriveCasteFlags(&c.Flags)
	return c
}

// casteAge maps the -1 "no age" sentinel to zero.
func casteAge(v int32) int32 {
	if v == -1 {
		return 0
	}
	return v
}

// deriveCasteFlags stores the convenience flags computed from raw bits.
func deriveCasteFlags(f *decode.FlagSet) {
	f.Set(FlagButcherable, f.Has(flagButcherable))
	f.Set(FlagTrainable, f.Any(flagTrainHunting, flagPetExotic, flagTrainWar, flagPet))
	if f.Has(flagNotFishable) {
		f.Set(FlagFishable, false)
	}
}

// stringSize is the footprint of one foreign string header.
const stringSize = 32

func capitalizeEach(s string) string {
	return cases.Title(language.Und, cases.NoLower).String(strings.Join(strings.Fields(s), " "))
}
