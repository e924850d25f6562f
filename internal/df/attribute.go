package df

import "github.com/f3rmion/dfscope/internal/layout"

// Attribute counts and record layout.
const (
	PhysicalAttributes = 6
	MentalAttributes   = 13

	attrStride = 28
	attrValue  = 0x00
	attrMax    = 0x04
)

// Attribute is one physical or mental attribute.
type Attribute struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Value int32  `json:"value"`
	Max   int32  `json:"max"`
}

// readAttributes reads the physical block from the creature and the mental
// block from its soul. Ids continue across both blocks.
func (s *session) readAttributes(dwarf, soul uint64) []Attribute {
	out := make([]Attribute, 0, PhysicalAttributes+MentalAttributes)
	read := func(base uint64, first, n int) {
		for i := range n {
			p := base + uint64(i*attrStride)
			a := Attribute{
				ID:    first + i,
				Value: s.r.I32(p + attrValue),
				Max:   s.r.I32(p + attrMax),
			}
			if def, ok := s.catalog.Attribute(a.ID); ok {
				a.Name = def.Name
			}
			out = append(out, a)
		}
	}
	read(s.at(dwarf, layout.Dwarf, "physical_attrs"), 0, PhysicalAttributes)
	if soul != 0 {
		read(s.at(soul, layout.Soul, "mental_attrs"), PhysicalAttributes, MentalAttributes)
	}
	return out
}
