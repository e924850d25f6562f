package decode

import "encoding/binary"

// MaxVectorBytes bounds a single vector read. Larger spans come from garbage
// pointers and are treated as empty.
const MaxVectorBytes = 16 << 20

// Span reads the start and end pointers of the vector at addr and returns its
// raw element bytes. The capacity pointer is ignored. Reversed, oversized or
// null spans yield nil, and the read never goes past end.
func (r *Reader) Span(addr uint64, width int) []byte {
	if width <= 0 {
		r.fault()
		return nil
	}
	start := r.Ptr(addr)
	end := r.Ptr(addr + PointerSize)
	if start == 0 || end <= start {
		if end < start {
			r.fault()
		}
		return nil
	}
	size := end - start
	if size > MaxVectorBytes {
		r.fault()
		return nil
	}
	count := size / uint64(width)
	if count == 0 {
		return nil
	}
	return r.Bytes(start, int(count)*width)
}

// Len returns the element count of the vector at addr.
func (r *Reader) Len(addr uint64, width int) int {
	if width <= 0 {
		return 0
	}
	start := r.Ptr(addr)
	end := r.Ptr(addr + PointerSize)
	if start == 0 || end <= start || end-start > MaxVectorBytes {
		return 0
	}
	return int((end - start) / uint64(width))
}

// Vector decodes the vector at addr as fixed-width elements.
func Vector[T any](r *Reader, addr uint64, width int, elem func([]byte) T) []T {
	raw := r.Span(addr, width)
	if len(raw) == 0 {
		return nil
	}
	out := make([]T, 0, len(raw)/width)
	for i := 0; i+width <= len(raw); i += width {
		out = append(out, elem(raw[i:i+width]))
	}
	return out
}

// Pointers decodes a vector of pointers.
func (r *Reader) Pointers(addr uint64) []uint64 {
	return Vector(r, addr, PointerSize, binary.LittleEndian.Uint64)
}

// Int32s decodes a vector of int32.
func (r *Reader) Int32s(addr uint64) []int32 {
	return Vector(r, addr, 4, func(b []byte) int32 { return int32(binary.LittleEndian.Uint32(b)) })
}

// Int16s decodes a vector of int16.
func (r *Reader) Int16s(addr uint64) []int16 {
	return Vector(r, addr, 2, func(b []byte) int16 { return int16(binary.LittleEndian.Uint16(b)) })
}
