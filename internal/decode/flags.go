package decode

import (
	"encoding/json"
)

// MaxFlagBytes is the largest flag array accepted.
const MaxFlagBytes = 1000

// FlagSet is a packed bit set. Bit i lives in byte i/8 at mask 1<<(i%8).
// The zero value is an empty set where every query is false.
type FlagSet struct {
	bits []byte
}

// NewFlagSet returns a set over a copy of raw.
func NewFlagSet(raw []byte) FlagSet {
	return FlagSet{bits: append([]byte(nil), raw...)}
}

// Flags decodes a foreign flag array: a pointer to the packed bytes followed
// by a 32-bit byte count. Counts above MaxFlagBytes yield an empty set.
func (r *Reader) Flags(addr uint64) FlagSet {
	ptr := r.Ptr(addr)
	size := r.U32(addr + PointerSize)
	if size == 0 || ptr == 0 {
		return FlagSet{}
	}
	if size > MaxFlagBytes {
		r.fault()
		return FlagSet{}
	}
	return FlagSet{bits: r.Bytes(ptr, int(size))}
}

// Has reports whether bit i is set.
func (f FlagSet) Has(i int) bool {
	if i < 0 || i/8 >= len(f.bits) {
		return false
	}
	return f.bits[i/8]&(1<<(i%8)) != 0
}

// Set sets or clears bit i, growing the set as needed.
func (f *FlagSet) Set(i int, v bool) {
	if i < 0 {
		return
	}
	if i/8 >= len(f.bits) {
		if !v {
			return
		}
		grown := make([]byte, i/8+1)
		copy(grown, f.bits)
		f.bits = grown
	}
	if v {
		f.bits[i/8] |= 1 << (i % 8)
	} else {
		f.bits[i/8] &^= 1 << (i % 8)
	}
}

// Any reports whether any of the given bits is set.
func (f FlagSet) Any(bits ...int) bool {
	for _, b := range bits {
		if f.Has(b) {
			return true
		}
	}
	return false
}

// Len returns the capacity of the set in bits.
func (f FlagSet) Len() int { return len(f.bits) * 8 }

// Indices returns the set bits in ascending order.
func (f FlagSet) Indices() []int {
	var out []int
	for i := 0; i < f.Len(); i++ {
		if f.Has(i) {
			out = append(out, i)
		}
	}
	return out
}

// MarshalJSON encodes the set as its list of set bits.
func (f FlagSet) MarshalJSON() ([]byte, error) {
	idx := f.Indices()
	if idx == nil {
		idx = []int{}
	}
	return json.Marshal(idx)
}

// UnmarshalJSON decodes a list of set bits.
func (f *FlagSet) UnmarshalJSON(data []byte) error {
	var idx []int
	if err := json.Unmarshal(data, &idx); err != nil {
		return err
	}
	*f = FlagSet{}
	for _, i := range idx {
		f.Set(i, true)
	}
	return nil
}

// MarshalYAML encodes the set as its list of set bits.
func (f FlagSet) MarshalYAML() (any, error) {
	return f.Indices(), nil
}
