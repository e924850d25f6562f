package df

import (
	"encoding/binary"
	"log/slog"

	"github.com/f3rmion/dfscope/internal/decode"
	"github.com/f3rmion/dfscope/internal/gamedata"
	"github.com/f3rmion/dfscope/internal/layout"
	"github.com/f3rmion/dfscope/internal/memory"
)

// Target is an attached process image: readable memory plus the load
// address of its main executable.
type Target interface {
	memory.Reader
	Base() uint64
}

// world holds the per-rebuild indices creatures are resolved against.
type world struct {
	fortress    uint64
	fortressID  int32
	civID       int32
	dwarfRaceID int32

	races     []*Race
	syndromes []uint64
	histFigs  map[int32]uint64
	fakeIDs   map[int32]uint64
	nobles    map[int32]Position
	squads    map[int32]*Squad
	langs     *Languages
	beliefs   []FortressBelief
}

// session is one decode pass over one target.
type session struct {
	r       *decode.Reader
	schema  *layout.Schema
	catalog *gamedata.Catalog
	names   *nameCache
	log     *slog.Logger
	base    uint64
	now     Time
	w       *world
}

func (s *session) off(sec layout.Section, name string) uint64 {
	return s.schema.Offset(sec, name)
}

// at returns the address of a field inside the structure at addr.
func (s *session) at(addr uint64, sec layout.Section, name string) uint64 {
	return addr + s.off(sec, name)
}

// global rebases a process-wide address onto the actual image base.
func (s *session) global(name string) uint64 {
	return s.base + s.off(layout.Addresses, name) - layout.DefaultImageBase
}

// vtableTag classifies a polymorphic object by reading the immediate operand
// of the type-getter function its vtable holds at slot. The getter is a
// single "mov eax, imm32" whose operand starts one byte in.
func (s *session) vtableTag(obj, slot uint64) int32 {
	vtable := s.r.Ptr(obj)
	if vtable == 0 {
		return -1
	}
	fn := s.r.Ptr(vtable + slot)
	if fn == 0 {
		return -1
	}
	return s.r.I32(fn + 1)
}

func le32(b []byte) int32 { return int32(binary.LittleEndian.Uint32(b)) }

func le16(b []byte) int16 { return int16(binary.LittleEndian.Uint16(b)) }
