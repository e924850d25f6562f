// Package decode interprets raw foreign memory: fixed-width scalars,
// start/end/capacity vectors, packed flag arrays and small-string-optimized
// strings. Every unsafe interpretation of foreign bytes lives here.
//
// Reads never fail loudly. An unreadable address yields zero bytes, an
// implausible length yields an empty value, and Reader.Faults counts both so
// callers can log how noisy a pass was.
package decode

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/f3rmion/dfscope/internal/memory"
)

// PointerSize is the width of a pointer in the target process.
const PointerSize = 8

// Reader wraps a memory.Reader with typed little-endian accessors.
type Reader struct {
	mem    memory.Reader
	faults atomic.Int64
}

// NewReader returns a Reader over mem.
func NewReader(mem memory.Reader) *Reader {
	return &Reader{mem: mem}
}

// Faults returns the number of failed or rejected reads so far.
func (r *Reader) Faults() int64 { return r.faults.Load() }

func (r *Reader) fault() { r.faults.Add(1) }

// Bytes reads n bytes at addr. Bytes the OS could not provide are zero.
func (r *Reader) Bytes(addr uint64, n int) []byte {
	buf := make([]byte, n)
	r.fill(addr, buf)
	return buf
}

func (r *Reader) fill(addr uint64, buf []byte) {
	if len(buf) == 0 {
		return
	}
	if addr == 0 {
		r.fault()
		return
	}
	n, err := r.mem.ReadMemory(addr, buf)
	if err != nil {
		r.fault()
		clear(buf[max(n, 0):])
	}
}

// U8 reads an unsigned byte.
func (r *Reader) U8(addr uint64) uint8 {
	var b [1]byte
	r.fill(addr, b[:])
	return b[0]
}

// I8 reads a signed byte.
func (r *Reader) I8(addr uint64) int8 { return int8(r.U8(addr)) }

// U16 reads a little-endian uint16.
func (r *Reader) U16(addr uint64) uint16 {
	var b [2]byte
	r.fill(addr, b[:])
	return binary.LittleEndian.Uint16(b[:])
}

// I16 reads a little-endian int16.
func (r *Reader) I16(addr uint64) int16 { return int16(r.U16(addr)) }

// U32 reads a little-endian uint32.
func (r *Reader) U32(addr uint64) uint32 {
	var b [4]byte
	r.fill(addr, b[:])
	return binary.LittleEndian.Uint32(b[:])
}

// I32 reads a little-endian int32.
func (r *Reader) I32(addr uint64) int32 { return int32(r.U32(addr)) }

// U64 reads a little-endian uint64.
func (r *Reader) U64(addr uint64) uint64 {
	var b [8]byte
	r.fill(addr, b[:])
	return binary.LittleEndian.Uint64(b[:])
}

// I64 reads a little-endian int64.
func (r *Reader) I64(addr uint64) int64 { return int64(r.U64(addr)) }

// Ptr reads a pointer.
func (r *Reader) Ptr(addr uint64) uint64 { return r.U64(addr) }
