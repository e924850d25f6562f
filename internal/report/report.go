// Package report renders plain-text character sheets for dwarves.
package report

import (
	"bytes"
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/template"

	"github.com/f3rmion/dfscope/internal/df"
	"github.com/f3rmion/dfscope/internal/gamedata"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Facets whose value lies strictly between these bounds are unremarkable
// and left off the sheet.
const (
	facetLow  = 25
	facetHigh = 75
)

// maxSkills caps the skills list.
const maxSkills = 10

var printer = message.NewPrinter(language.English)

var sheet = template.Must(template.New("dwarf").Funcs(template.FuncMap{
	"num":  func(v any) string { return printer.Sprintf("%d", v) },
	"pad":  func(n int, s string) string { return fmt.Sprintf("%-*s", n, s) },
	"join": strings.Join,
}).Parse(sheetTemplate))

const sheetTemplate = `{{.Name}}{{with .Dwarf.Name.English}} "{{.}}"{{end}}
{{.Dwarf.Profession}}, {{.Dwarf.Sex}}, {{.Dwarf.Orientation}}, age {{.Dwarf.Age.Year}}
Born {{.Dwarf.Birth}}; arrived {{.Dwarf.Arrival}}
{{- with .Dwarf.TrueIdentity}}
True identity: {{.FirstName}}{{with .LastName}} {{.}}{{end}}, born {{.Birth}}
{{- end}}
{{- with .Dwarf.Noble.Name}}
Position: {{$.Title}}
{{- end}}
{{- if .Dwarf.SquadName}}
Squad: {{.Dwarf.SquadName}} (position {{.Dwarf.SquadPosition}}, order {{.Dwarf.SquadOrder}})
{{- end}}
{{- if ne .Dwarf.Curse.String "None"}}
Curse: {{.Dwarf.Curse}}{{with .Dwarf.CurseRace}} ({{.}}){{end}}
{{- end}}

Happiness: {{.Dwarf.Happiness}} (stress {{num .Dwarf.StressLevel}})
Mood: {{.Mood}}
Focus: {{num .Dwarf.CurrentFocus}} of {{num .Dwarf.UndistractedFocus}}
{{- if .Attributes}}

Attributes
{{- range .Attributes}}
  {{pad 22 .Name}} {{num .Value}} / {{num .Max}}
{{- end}}
{{- end}}
{{- if .Skills}}

Skills
{{- range .Skills}}
  {{pad 22 .Name}} level {{.Level}}{{if .Capped}}+{{end}}, {{num .Experience}} xp{{with .RustTier.String}} [{{.}}]{{end}}
{{- end}}
{{- end}}
{{- if .Labors}}

Labors: {{join .Labors ", "}}
{{- end}}
{{- if .Facets}}

Personality
{{- range .Facets}}
  {{pad 22 .Name}} {{.Value}}{{if .Conflicts}} (conflicted){{end}}
{{- end}}
{{- end}}
{{- if .Dwarf.Goals}}

Goals
{{- range .Dwarf.Goals}}
  {{.Name}}{{if .Realized}} (realized){{end}}
{{- end}}
{{- end}}
{{- if .Needs}}

Unmet needs
{{- range .Needs}}
  {{pad 22 .Name}} {{.Focus}}
{{- end}}
{{- end}}
{{- if .Dwarf.Thoughts}}

Recent thoughts
{{- range .Dwarf.Thoughts}}
  {{.Text}} ({{.Emotion}}, {{printf "%+.0f" .Effect}})
{{- end}}
{{- end}}
{{- if .Dwarf.Syndromes}}

Syndromes
{{- range .Dwarf.Syndromes}}
  {{.DisplayName}}
{{- end}}
{{- end}}
`

type view struct {
	Dwarf      *df.Dwarf
	Name       string
	Title      string
	Mood       string
	Attributes []df.Attribute
	Skills     []df.Skill
	Labors     []string
	Facets     []df.Facet
	Needs      []df.Need
}

// Dwarf writes d's character sheet to w. Labor names are resolved against
// catalog when it is non-nil.
func Dwarf(w io.Writer, d *df.Dwarf, catalog *gamedata.Catalog) error {
	if err := sheet.Execute(w, newView(d, catalog)); err != nil {
		return fmt.Errorf("rendering report for dwarf %d: %w", d.ID, err)
	}
	return nil
}

// String returns d's character sheet.
func String(d *df.Dwarf, catalog *gamedata.Catalog) (string, error) {
	var buf bytes.Buffer
	if err := Dwarf(&buf, d, catalog); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func newView(d *df.Dwarf, catalog *gamedata.Catalog) view {
	v := view{
		Dwarf:      d,
		Name:       d.FullName(),
		Title:      d.Noble.Title(d.Sex),
		Mood:       d.Mood.Name,
		Attributes: d.Attributes,
	}
	if v.Mood == "" {
		v.Mood = "None"
	}
	if d.Mood.Locked {
		v.Mood += " (locked)"
	}

	v.Skills = slices.Clone(d.Skills)
	slices.SortStableFunc(v.Skills, func(a, b df.Skill) int {
		return cmp.Or(cmp.Compare(b.Level, a.Level), cmp.Compare(b.Experience, a.Experience))
	})
	if len(v.Skills) > maxSkills {
		v.Skills = v.Skills[:maxSkills]
	}

	for _, id := range d.Labors {
		name := fmt.Sprintf("labor %d", id)
		if catalog != nil {
			if l, ok := catalog.Labor(id); ok {
				name = l.Name
			}
		}
		v.Labors = append(v.Labors, name)
	}

	for _, f := range d.Facets {
		if f.Value < facetLow || f.Value > facetHigh {
			v.Facets = append(v.Facets, f)
		}
	}
	for _, n := range d.Needs {
		if n.Focus < df.NotDistracted {
			v.Needs = append(v.Needs, n)
		}
	}
	return v
}
