// Package layout loads the offset schema: the per-build map from semantic
// field names to byte offsets inside the target program's structures.
package layout

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// DefaultImageBase is the preferred load address that global addresses in
// the schema are expressed against.
const DefaultImageBase uint64 = 0x140000000

// Field identifies one offset in the schema.
type Field struct {
	Section Section
	Name    string
}

func (f Field) String() string { return f.Section.Key() + "." + f.Name }

// FieldError reports a field the engine needs that the schema does not define.
type FieldError struct {
	Field Field
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("offset schema has no field %s", e.Field)
}

// Info is the optional [info] table describing which build a schema targets.
type Info struct {
	Version  string `toml:"version_name"`
	Checksum string `toml:"checksum"`
}

// Schema is an immutable, parsed offset schema.
type Schema struct {
	info    Info
	offsets [numSections]map[string]uint64
}

// New builds a schema from already-parsed offsets.
func New(info Info, offsets map[Section]map[string]uint64) *Schema {
	s := &Schema{info: info}
	for sec, fields := range offsets {
		m := make(map[string]uint64, len(fields))
		for k, v := range fields {
			m[k] = v
		}
		s.offsets[sec] = m
	}
	return s
}

// Load reads and parses a schema file.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading offset schema: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing offset schema %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes TOML schema text. Every value outside [info] must be an
// integer or a hexadecimal string such as "0x1a8".
func Parse(data []byte) (*Schema, error) {
	var raw map[string]map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	s := &Schema{}
	for table, fields := range raw {
		if table == "info" {
			s.info = parseInfo(fields)
			continue
		}
		sec, ok := sectionByKey(table)
		if !ok {
			continue
		}
		m := make(map[string]uint64, len(fields))
		for name, v := range fields {
			off, err := parseOffset(v)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", table, name, err)
			}
			m[name] = off
		}
		s.offsets[sec] = m
	}
	return s, nil
}

func parseInfo(fields map[string]any) Info {
	var info Info
	if v, ok := fields["version_name"].(string); ok {
		info.Version = v
	}
	if v, ok := fields["checksum"].(string); ok {
		info.Checksum = v
	}
	return info
}

func parseOffset(v any) (uint64, error) {
	switch x := v.(type) {
	case string:
		t := strings.TrimSpace(x)
		t = strings.TrimPrefix(strings.TrimPrefix(t, "0x"), "0X")
		n, err := strconv.ParseUint(t, 16, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid hex offset %q", x)
		}
		return n, nil
	case int64:
		if x < 0 {
			return 0, fmt.Errorf("negative offset %d", x)
		}
		return uint64(x), nil
	default:
		return 0, fmt.Errorf("unsupported offset value %v", v)
	}
}

// Info returns the build description.
func (s *Schema) Info() Info { return s.info }

// Lookup returns the offset of a field and whether it is defined.
func (s *Schema) Lookup(sec Section, name string) (uint64, bool) {
	if sec < 0 || sec >= numSections {
		return 0, false
	}
	off, ok := s.offsets[sec][name]
	return off, ok
}

// Offset returns the offset of a field. It panics with a *FieldError when the
// field is missing; callers check the fields they use with Validate first.
func (s *Schema) Offset(sec Section, name string) uint64 {
	off, ok := s.Lookup(sec, name)
	if !ok {
		panic(&FieldError{Field: Field{Section: sec, Name: name}})
	}
	return off
}

// Validate checks that every field resolves. All missing fields are reported.
func (s *Schema) Validate(fields []Field) error {
	var errs []error
	for _, f := range fields {
		if _, ok := s.Lookup(f.Section, f.Name); !ok {
			errs = append(errs, &FieldError{Field: f})
		}
	}
	return errors.Join(errs...)
}

// Fields lists the field names defined for a section, sorted.
func (s *Schema) Fields(sec Section) []string {
	if sec < 0 || sec >= numSections {
		return nil
	}
	names := make([]string, 0, len(s.offsets[sec]))
	for k := range s.offsets[sec] {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Len returns the total number of fields defined.
func (s *Schema) Len() int {
	n := 0
	for _, m := range s.offsets {
		n += len(m)
	}
	return n
}
