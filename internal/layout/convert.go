package layout

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/go-ini/ini"
	"github.com/pelletier/go-toml/v2"
)

// ConvertINI translates a Dwarf Therapist memory layout file into schema
// TOML. Sections the schema does not know are dropped.
func ConvertINI(data []byte) ([]byte, error) {
	f, err := ini.Load(data)
	if err != nil {
		return nil, fmt.Errorf("parsing layout ini: %w", err)
	}

	out := make(map[string]map[string]string)
	for _, sec := range f.Sections() {
		name := sec.Name()
		if name == "info" {
			info := make(map[string]string)
			for _, k := range []string{"version_name", "checksum"} {
				if sec.HasKey(k) {
					info[k] = sec.Key(k).String()
				}
			}
			out[name] = info
			continue
		}
		if _, ok := sectionByKey(name); !ok {
			continue
		}
		fields := make(map[string]string, len(sec.Keys()))
		for _, k := range sec.Keys() {
			v := strings.TrimSpace(k.String())
			if _, err := parseOffset(v); err != nil {
				return nil, fmt.Errorf("%s.%s: %w", name, k.Name(), err)
			}
			fields[k.Name()] = v
		}
		if len(fields) > 0 {
			out[name] = fields
		}
	}

	text, err := toml.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encoding schema: %w", err)
	}
	return text, nil
}

// Template returns a schema skeleton listing fields, grouped by section,
// as commented-out entries to be filled in for a particular build.
func Template(fields []Field) []byte {
	bySection := make(map[Section][]string)
	for _, f := range fields {
		bySection[f.Section] = append(bySection[f.Section], f.Name)
	}

	var b bytes.Buffer
	b.WriteString("# Offsets for one build of the game. Uncomment each field and set its\n")
	b.WriteString("# value, or generate this file with `dfscope schema convert`.\n")
	b.WriteString("# Addresses are given against the default image base 0x140000000.\n\n")
	b.WriteString("[info]\nversion_name = \"\"\nchecksum = \"\"\n")
	for _, sec := range Sections() {
		names := bySection[sec]
		if len(names) == 0 {
			continue
		}
		slices.Sort(names)
		names = slices.Compact(names)
		fmt.Fprintf(&b, "\n[%s]\n", sec.Key())
		for _, n := range names {
			fmt.Fprintf(&b, "# %s = \"0x0\"\n", n)
		}
	}
	return b.Bytes()
}
