// Package decodetest builds synthetic foreign memory images for tests.
package decodetest

import (
	"encoding/binary"

	"github.com/f3rmion/dfscope/internal/decode"
	"github.com/f3rmion/dfscope/internal/memory"
)

// Image is a growable little-endian memory image mapped at Base.
// It implements memory.Reader.
type Image struct {
	Base uint64
	data []byte
}

// New returns an empty image mapped at base.
func New(base uint64) *Image {
	return &Image{Base: base}
}

// Alloc reserves n zeroed bytes, 16-byte aligned, and returns their address.
func (m *Image) Alloc(n int) uint64 {
	pad := (16 - len(m.data)%16) % 16
	addr := m.Base + uint64(len(m.data)+pad)
	m.data = append(m.data, make([]byte, pad+n)...)
	return addr
}

// ReadMemory implements memory.Reader.
func (m *Image) ReadMemory(addr uint64, p []byte) (int, error) {
	return memory.NewBuffer(m.Base, m.data).ReadMemory(addr, p)
}

func (m *Image) at(addr uint64, n int) []byte {
	off := addr - m.Base
	return m.data[off : off+uint64(n)]
}

// PutBytes copies b to addr.
func (m *Image) PutBytes(addr uint64, b []byte) { copy(m.at(addr, len(b)), b) }

// PutU8 writes a byte.
func (m *Image) PutU8(addr uint64, v uint8) { m.at(addr, 1)[0] = v }

// PutI16 writes an int16.
func (m *Image) PutI16(addr uint64, v int16) {
	binary.LittleEndian.PutUint16(m.at(addr, 2), uint16(v))
}

// PutU32 writes a uint32.
func (m *Image) PutU32(addr uint64, v uint32) {
	binary.LittleEndian.PutUint32(m.at(addr, 4), v)
}

// PutI32 writes an int32.
func (m *Image) PutI32(addr uint64, v int32) { m.PutU32(addr, uint32(v)) }

// PutU64 writes a uint64.
func (m *Image) PutU64(addr uint64, v uint64) {
	binary.LittleEndian.PutUint64(m.at(addr, 8), v)
}

// PutPtr writes a pointer.
func (m *Image) PutPtr(addr, ptr uint64) { m.PutU64(addr, ptr) }

// PutString writes a small-string-optimized string header at addr. Text of
// fifteen bytes or less is stored inline; longer text goes to a fresh heap
// allocation.
func (m *Image) PutString(addr uint64, s string) {
	b := decode.ToCP437(s)
	capacity := uint64(decode.StringInline - 1)
	if len(b) >= decode.StringInline {
		heap := m.Alloc(len(b) + 1)
		m.PutBytes(heap, b)
		m.PutPtr(addr, heap)
		capacity = uint64(len(b))
	} else {
		m.PutBytes(addr, b)
	}
	m.PutU64(addr+decode.StringInline, uint64(len(b)))
	m.PutU64(addr+decode.StringInline+decode.PointerSize, capacity)
}

// String allocates and writes a standalone string, returning its address.
func (m *Image) String(s string) uint64 {
	addr := m.Alloc(32)
	m.PutString(addr, s)
	return addr
}

// PutVector stores data in a fresh allocation and writes a start/end/capacity
// triple pointing at it.
func (m *Image) PutVector(addr uint64, data []byte) {
	if len(data) == 0 {
		m.PutPtr(addr, 0)
		m.PutPtr(addr+8, 0)
		m.PutPtr(addr+16, 0)
		return
	}
	start := m.Alloc(len(data))
	m.PutBytes(start, data)
	end := start + uint64(len(data))
	m.PutPtr(addr, start)
	m.PutPtr(addr+8, end)
	m.PutPtr(addr+16, end)
}

// PutPointers writes a vector of pointers.
func (m *Image) PutPointers(addr uint64, ptrs ...uint64) {
	b := make([]byte, 8*len(ptrs))
	for i, p := range ptrs {
		binary.LittleEndian.PutUint64(b[i*8:], p)
	}
	m.PutVector(addr, b)
}

// PutInt32s writes a vector of int32.
func (m *Image) PutInt32s(addr uint64, vals ...int32) {
	b := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(b[i*4:], uint32(v))
	}
	m.PutVector(addr, b)
}

// PutInt16s writes a vector of int16.
func (m *Image) PutInt16s(addr uint64, vals ...int16) {
	b := make([]byte, 2*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint16(b[i*2:], uint16(v))
	}
	m.PutVector(addr, b)
}

// PutFlags writes a flag array header with the given bits set.
func (m *Image) PutFlags(addr uint64, bits ...int) {
	size := 0
	for _, b := range bits {
		size = max(size, b/8+1)
	}
	if size == 0 {
		m.PutPtr(addr, 0)
		m.PutU32(addr+8, 0)
		return
	}
	raw := make([]byte, size)
	for _, b := range bits {
		raw[b/8] |= 1 << (b % 8)
	}
	ptr := m.Alloc(size)
	m.PutBytes(ptr, raw)
	m.PutPtr(addr, ptr)
	m.PutU32(addr+8, uint32(size))
}
