package df

import (
	"testing"

	"github.com/f3rmion/dfscope/internal/decode/decodetest"
	"github.com/f3rmion/dfscope/internal/gamedata"
	"github.com/f3rmion/dfscope/internal/layout"
)

const fixtureBase = 0x100000

// fieldSizes overrides the default 32-byte footprint of fields that hold
// more than one string or vector. Name structures are sized from the Word
// section in fieldSize.
var fieldSizes = map[layout.Field]uint64{
	{Section: layout.Dwarf, Name: "labors"}:         LaborBytes + 2,
	{Section: layout.Dwarf, Name: "physical_attrs"}: PhysicalAttributes * attrStride,
	{Section: layout.Soul, Name: "mental_attrs"}:    MentalAttributes * attrStride,
	{Section: layout.Soul, Name: "traits"}:          128,
	{Section: layout.HistEntity, Name: "beliefs"}:   160,
	{Section: layout.Caste, Name: "caste_name"}:     64,
}

var nameFields = map[layout.Field]bool{
	{Section: layout.Dwarf, Name: "name"}:           true,
	{Section: layout.Squad, Name: "name"}:           true,
	{Section: layout.HistFigure, Name: "fake_name"}: true,
}

// target is a synthetic process image.
type target struct{ *decodetest.Image }

func (t target) Base() uint64 { return t.Image.Base }

// fixture lays out foreign structures against a schema whose offsets are
// assigned sequentially. Offset 0 of every record is left free for the
// vtable pointers and name strings some records keep there.
type fixture struct {
	t       *testing.T
	img     *decodetest.Image
	offs    map[layout.Section]map[string]uint64
	size    map[layout.Section]uint64
	globals uint64
	catalog *gamedata.Catalog
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		t:    t,
		img:  decodetest.New(fixtureBase),
		offs: make(map[layout.Section]map[string]uint64),
		size: make(map[layout.Section]uint64),
	}
	for _, sec := range layout.Sections() {
		f.offs[sec] = make(map[string]uint64)
		next := uint64(32)
		for _, name := range fieldTable[sec] {
			f.offs[sec][name] = next
			next += f.fieldSize(layout.Field{Section: sec, Name: name})
		}
		f.size[sec] = next
	}

	f.globals = f.img.Alloc(int(f.size[layout.Addresses]))
	for name, off := range f.offs[layout.Addresses] {
		f.offs[layout.Addresses][name] = layout.DefaultImageBase + (f.globals - fixtureBase) + off
	}

	cat, err := gamedata.Default()
	if err != nil {
		t.Fatalf("gamedata.Default() error = %v", err)
	}
	f.catalog = cat
	return f
}

func (f *fixture) fieldSize(field layout.Field) uint64 {
	if nameFields[field] {
		return f.size[layout.Word]
	}
	if sz, ok := fieldSizes[field]; ok {
		return sz
	}
	return 32
}

func (f *fixture) schema() *layout.Schema {
	return layout.New(layout.Info{Version: "fixture"}, f.offs)
}

func (f *fixture) builder() *Builder {
	f.t.Helper()
	b, err := NewBuilder(f.schema(), f.catalog, Options{})
	if err != nil {
		f.t.Fatalf("NewBuilder() error = %v", err)
	}
	return b
}

func (f *fixture) target() target { return target{f.img} }

// alloc reserves a record large enough for every field of sec.
func (f *fixture) alloc(sec layout.Section) uint64 {
	return f.img.Alloc(int(f.size[sec]))
}

func (f *fixture) at(addr uint64, sec layout.Section, name string) uint64 {
	return addr + f.offs[sec][name]
}

func (f *fixture) global(name string) uint64 {
	return f.offs[layout.Addresses][name] - layout.DefaultImageBase + fixtureBase
}

// object allocates a record of sec whose vtable getter at slot returns tag.
func (f *fixture) object(sec layout.Section, slot uint64, tag int32) uint64 {
	fn := f.img.Alloc(8)
	f.img.PutU8(fn, 0xB8)
	f.img.PutI32(fn+1, tag)
	vtable := f.img.Alloc(int(slot) + 8)
	f.img.PutPtr(vtable+slot, fn)
	obj := f.alloc(sec)
	f.img.PutPtr(obj, vtable)
	return obj
}

// putName writes a name structure. words maps name slots to word ids; the
// remaining slots are left unset.
func (f *fixture) putName(addr uint64, first, nick string, lang int32, words map[int]int32) {
	f.img.PutString(f.at(addr, layout.Word, "first_name"), first)
	f.img.PutString(f.at(addr, layout.Word, "nickname"), nick)
	f.img.PutI32(f.at(addr, layout.Word, "language_id"), lang)
	w := f.at(addr, layout.Word, "words")
	for i := range nameWords {
		id, ok := words[i]
		if !ok {
			id = -1
		}
		f.img.PutI32(w+uint64(i)*4, id)
	}
}

// putLanguages writes a dictionary and one translation.
func (f *fixture) putLanguages(english, native []string) {
	var words []uint64
	for _, w := range english {
		rec := f.alloc(layout.Word)
		f.img.PutString(f.at(rec, layout.Word, "noun_singular"), w)
		words = append(words, rec)
	}
	f.img.PutPointers(f.global("language_vector"), words...)

	tr := f.alloc(layout.Language)
	f.img.PutString(tr, "DWARF")
	var natives []uint64
	for _, w := range native {
		natives = append(natives, f.img.String(w))
	}
	f.img.PutPointers(f.at(tr, layout.Language, "word_table"), natives...)
	f.img.PutPointers(f.global("translation_vector"), tr)
}

type casteSpec struct {
	tag, name string
	flags     []int
}

func (f *fixture) putRace(name, plural, baby, child string, castes ...casteSpec) uint64 {
	r := f.alloc(layout.Race)
	f.img.PutString(f.at(r, layout.Race, "name_singular"), name)
	f.img.PutString(f.at(r, layout.Race, "name_plural"), plural)
	f.img.PutString(f.at(r, layout.Race, "baby_name_singular"), baby)
	f.img.PutString(f.at(r, layout.Race, "child_name_singular"), child)

	var ptrs []uint64
	for _, c := range castes {
		addr := f.alloc(layout.Caste)
		f.img.PutString(addr, c.tag)
		f.img.PutString(f.at(addr, layout.Caste, "caste_name"), c.name)
		f.img.PutFlags(f.at(addr, layout.Caste, "flags"), c.flags...)
		ptrs = append(ptrs, addr)
	}
	f.img.PutPointers(f.at(r, layout.Race, "castes_vector"), ptrs...)
	return r
}

type creatureSpec struct {
	civ, race, id, hist int32
	caste               int16
	sex                 int8
	profession          uint8
	first               string
	squad               int32
	soul                uint64
}

func (f *fixture) putCreature(c creatureSpec) uint64 {
	d := f.alloc(layout.Dwarf)
	f.img.PutI32(f.at(d, layout.Dwarf, "civ"), c.civ)
	f.img.PutI32(f.at(d, layout.Dwarf, "race"), c.race)
	f.img.PutI16(f.at(d, layout.Dwarf, "caste"), c.caste)
	f.img.PutI32(f.at(d, layout.Dwarf, "id"), c.id)
	f.img.PutI32(f.at(d, layout.Dwarf, "hist_id"), c.hist)
	f.img.PutU8(f.at(d, layout.Dwarf, "sex"), uint8(c.sex))
	f.img.PutU8(f.at(d, layout.Dwarf, "profession"), c.profession)
	f.img.PutI32(f.at(d, layout.Dwarf, "squad_id"), c.squad)
	f.img.PutI16(f.at(d, layout.Dwarf, "mood"), -1)
	f.img.PutI16(f.at(d, layout.Dwarf, "temp_mood"), -1)
	f.putName(f.at(d, layout.Dwarf, "name"), c.first, "", 0, map[int]int32{0: 0, 1: 1})
	if c.soul != 0 {
		f.img.PutPointers(f.at(d, layout.Dwarf, "souls"), c.soul)
	}
	return d
}

// putSoul allocates a soul with room for the personality block it embeds.
func (f *fixture) putSoul() (soul, personality uint64) {
	soul = f.img.Alloc(int(2 * f.size[layout.Soul]))
	return soul, f.at(soul, layout.Soul, "personality")
}
