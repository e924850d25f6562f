// Package memory provides read access to the address space of another process.
//
// A Reader is the only capability the decoding layer needs. Process implements
// it against a live OS process; Buffer and Regions implement it against
// in-memory images for tests and offline inspection.
package memory

import (
	"errors"
	"fmt"
)

var (
	// ErrProcessNotFound is returned when no running process matches the requested name.
	ErrProcessNotFound = errors.New("process not found")
	// ErrUnsupportedPlatform is returned by Attach on platforms without a process memory backend.
	ErrUnsupportedPlatform = errors.New("process memory access is not supported on this platform")
)

// Reader reads raw bytes from a foreign address space.
// ReadMemory fills p starting at addr and returns the number of bytes read.
// A short read is reported with a non-nil error.
type Reader interface {
	ReadMemory(addr uint64, p []byte) (int, error)
}

// Writer writes raw bytes into a foreign address space.
type Writer interface {
	WriteMemory(addr uint64, p []byte) (int, error)
}

// Module is a loaded image inside the target process.
type Module struct {
	Name string
	Base uint64
	Size uint64
}

// Buffer implements Reader and Writer for one contiguous region of memory.
type Buffer struct {
	// BaseAddr is the address of Data[0].
	BaseAddr uint64
	Data     []byte
}

// NewBuffer creates a buffer mapped at baseAddr.
func NewBuffer(baseAddr uint64, data []byte) *Buffer {
	return &Buffer{BaseAddr: baseAddr, Data: data}
}

// Contains reports whether addr falls inside the buffer.
func (b *Buffer) Contains(addr uint64) bool {
	return addr >= b.BaseAddr && addr-b.BaseAddr < uint64(len(b.Data))
}

// EndAddr returns the address immediately after the last byte.
func (b *Buffer) EndAddr() uint64 {
	return b.BaseAddr + uint64(len(b.Data))
}

// ReadMemory implements Reader.
func (b *Buffer) ReadMemory(addr uint64, p []byte) (int, error) {
	if !b.Contains(addr) {
		return 0, fmt.Errorf("address 0x%X outside buffer 0x%X-0x%X", addr, b.BaseAddr, b.EndAddr())
	}
	n := copy(p, b.Data[addr-b.BaseAddr:])
	if n < len(p) {
		return n, fmt.Errorf("short read at 0x%X: %d of %d bytes", addr, n, len(p))
	}
	return n, nil
}

// WriteMemory implements Writer.
func (b *Buffer) WriteMemory(addr uint64, p []byte) (int, error) {
	if !b.Contains(addr) {
		return 0, fmt.Errorf("address 0x%X outside buffer 0x%X-0x%X", addr, b.BaseAddr, b.EndAddr())
	}
	n := copy(b.Data[addr-b.BaseAddr:], p)
	if n < len(p) {
		return n, fmt.Errorf("short write at 0x%X: %d of %d bytes", addr, n, len(p))
	}
	return n, nil
}

// Regions implements Reader over several non-overlapping buffers.
type Regions struct {
	Buffers []*Buffer
}

// Add appends a region.
func (r *Regions) Add(b *Buffer) {
	r.Buffers = append(r.Buffers, b)
}

// ReadMemory implements Reader by delegating to the region holding addr.
func (r *Regions) ReadMemory(addr uint64, p []byte) (int, error) {
	for _, b := range r.Buffers {
		if b.Contains(addr) {
			return b.ReadMemory(addr, p)
		}
	}
	return 0, fmt.Errorf("address 0x%X not mapped", addr)
}
