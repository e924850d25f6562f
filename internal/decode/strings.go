package decode

import (
	"golang.org/x/text/encoding/charmap"
)

const (
	// StringInline is the size of the inline character buffer.
	StringInline = 16
	// MaxStringLen is the longest string accepted.
	MaxStringLen = 1024

	stringLenOffset = StringInline
	stringCapOffset = StringInline + PointerSize
)

// String decodes a small-string-optimized string at addr. Text is stored in
// code page 437 and converted to UTF-8. Lengths above MaxStringLen yield "".
func (r *Reader) String(addr uint64) string {
	n := r.U64(addr + stringLenOffset)
	if n == 0 {
		return ""
	}
	if n > MaxStringLen {
		r.fault()
		return ""
	}
	data := addr
	if capacity := r.U64(addr + stringCapOffset); capacity >= StringInline {
		data = r.Ptr(addr)
	}
	return FromCP437(r.Bytes(data, int(n)))
}

// FromCP437 converts code page 437 bytes to UTF-8.
func FromCP437(b []byte) string {
	out, err := charmap.CodePage437.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}

// ToCP437 converts UTF-8 text to code page 437. Unmappable runes become '?'.
func ToCP437(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := charmap.CodePage437.EncodeRune(r)
		if !ok {
			b = '?'
		}
		out = append(out, b)
	}
	return out
}
