package memory

import (
	"bytes"
	"testing"
)

func TestBuffer_ReadMemory(t *testing.T) {
	b := NewBuffer(0x1000, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08})

	tests := []struct {
		name      string
		addr      uint64
		size      int
		wantBytes []byte
		wantN     int
		wantErr   bool
	}{
		{
			name:      "read from start",
			addr:      0x1000,
			size:      4,
			wantBytes: []byte{0x01, 0x02, 0x03, 0x04},
			wantN:     4,
		},
		{
			name:      "read to end",
			addr:      0x1006,
			size:      2,
			wantBytes: []byte{0x07, 0x08},
			wantN:     2,
		},
		{
			name:      "short read past end",
			addr:      0x1007,
			size:      4,
			wantBytes: []byte{0x08, 0x00, 0x00, 0x00},
			wantN:     1,
			wantErr:   true,
		},
		{
			name:    "before buffer",
			addr:    0x0FFF,
			size:    4,
			wantErr: true,
		},
		{
			name:    "after buffer",
			addr:    0x1008,
			size:    1,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, tt.size)
			n, err := b.ReadMemory(tt.addr, buf)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadMemory() error = %v, wantErr %v", err, tt.wantErr)
			}
			if n != tt.wantN {
				t.Errorf("ReadMemory() n = %d, want %d", n, tt.wantN)
			}
			if tt.wantBytes != nil && !bytes.Equal(buf, tt.wantBytes) {
				t.Errorf("ReadMemory() bytes = %v, want %v", buf, tt.wantBytes)
			}
		})
	}
}

func TestBuffer_WriteMemory(t *testing.T) {
	b := NewBuffer(0x2000, make([]byte, 4))

	if _, err := b.WriteMemory(0x2001, []byte{0xAA, 0xBB}); err != nil {
		t.Fatalf("WriteMemory() error = %v", err)
	}
	if want := []byte{0x00, 0xAA, 0xBB, 0x00}; !bytes.Equal(b.Data, want) {
		t.Errorf("Data = %v, want %v", b.Data, want)
	}

	if _, err := b.WriteMemory(0x2003, []byte{1, 2}); err == nil {
		t.Error("WriteMemory() past end should fail")
	}
}

func TestRegions_ReadMemory(t *testing.T) {
	var r Regions
	r.Add(NewBuffer(0x1000, []byte{0x11, 0x12}))
	r.Add(NewBuffer(0x8000, []byte{0x81, 0x82}))

	buf := make([]byte, 2)
	if _, err := r.ReadMemory(0x8000, buf); err != nil {
		t.Fatalf("ReadMemory() error = %v", err)
	}
	if !bytes.Equal(buf, []byte{0x81, 0x82}) {
		t.Errorf("ReadMemory() = %v", buf)
	}

	if _, err := r.ReadMemory(0x4000, buf); err == nil {
		t.Error("ReadMemory() on unmapped address should fail")
	}
}

func TestMatchName(t *testing.T) {
	tests := []struct {
		candidate, want string
		match           bool
	}{
		{"Dwarf Fortress.exe", "dwarf fortress.exe", true},
		{"dwarfort\n", "dwarfort", true},
		{"dwarfort", "Dwarf Fortress.exe", false},
	}
	for _, tt := range tests {
		if got := matchName(tt.candidate, tt.want); got != tt.match {
			t.Errorf("matchName(%q, %q) = %v, want %v", tt.candidate, tt.want, got, tt.match)
		}
	}
}
