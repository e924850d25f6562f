// Package gamedata holds the static reference tables the decoder resolves raw
// ids against: professions, skills, labors, personality definitions,
// emotions, thoughts and happiness bands.
//
// A Catalog is loaded once and never mutated, so it is safe to share.
package gamedata

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var bundled embed.FS

// Attribute is a physical or mental attribute.
type Attribute struct {
	ID   int    `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// Belief is a value a creature holds.
type Belief struct {
	ID             int               `yaml:"id" json:"id"`
	Name           string            `yaml:"name" json:"name"`
	TraitConflicts []int             `yaml:"trait_conflicts" json:"trait_conflicts"`
	Levels         map[string]string `yaml:"levels,omitempty" json:"levels,omitempty"`
}

// Facet is a personality trait. BeliefConflicts maps a belief name to its id.
type Facet struct {
	ID              int               `yaml:"id" json:"id"`
	Name            string            `yaml:"name" json:"name"`
	BeliefConflicts map[string]int    `yaml:"belief_conflicts,omitempty" json:"belief_conflicts,omitempty"`
	Levels          map[string]string `yaml:"levels,omitempty" json:"levels,omitempty"`
	Limits          map[string]int    `yaml:"limits,omitempty" json:"limits,omitempty"`
}

// Goal is a life goal.
type Goal struct {
	ID          int    `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// HappinessLevel is a named stress band anchored at Threshold.
type HappinessLevel struct {
	Name      string `yaml:"name" json:"name"`
	Threshold int    `yaml:"threshold" json:"threshold"`
	Desc      string `yaml:"desc" json:"desc"`
}

// Labor is an assignable job category.
type Labor struct {
	ID                int    `yaml:"id" json:"id"`
	Name              string `yaml:"name" json:"name"`
	Skill             int    `yaml:"skill" json:"skill"`
	RequiresEquipment bool   `yaml:"requires_equipment" json:"requires_equipment"`
	Excludes          []int  `yaml:"excludes,omitempty" json:"excludes,omitempty"`
}

// Need is a personality need.
type Need struct {
	ID       int    `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	Positive string `yaml:"positive" json:"positive"`
	Negative string `yaml:"negative" json:"negative"`
}

// Profession is a creature's job title.
type Profession struct {
	ID                int    `yaml:"id" json:"id"`
	Name              string `yaml:"name" json:"name"`
	IsMilitary        bool   `yaml:"is_military" json:"is_military"`
	CanAssignLabors   bool   `yaml:"can_assign_labors" json:"can_assign_labors"`
	CanAssignMilitary bool   `yaml:"can_assign_military" json:"can_assign_military"`
}

// Skill is a learnable skill.
type Skill struct {
	ID           int    `yaml:"id" json:"id"`
	Name         string `yaml:"name" json:"name"`
	Noun         string `yaml:"noun" json:"noun"`
	ProfessionID int    `yaml:"profession_id,omitempty" json:"profession_id,omitempty"`
}

// Emotion describes one emotion type. Divider scales a thought's strength
// into its stress effect; zero means the emotion carries no stress.
type Emotion struct {
	ID      int    `yaml:"id" json:"id"`
	Emotion string `yaml:"emotion" json:"emotion"`
	Color   string `yaml:"color" json:"color"`
	Divider int    `yaml:"divider" json:"divider"`
}

// Mood describes a creature mood.
type Mood struct {
	ID          int    `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

// Thought is the text template for one thought id.
type Thought struct {
	ID              int    `yaml:"id" json:"id"`
	Title           string `yaml:"title" json:"title"`
	Thought         string `yaml:"thought" json:"thought"`
	SubthoughtsType int    `yaml:"subthoughts_type" json:"subthoughts_type"`
}

// SubthoughtGroup refines thoughts of one subthought type.
type SubthoughtGroup struct {
	ID          int          `yaml:"id" json:"id"`
	Placeholder string       `yaml:"placeholder" json:"placeholder"`
	Subthoughts []Subthought `yaml:"subthoughts" json:"subthoughts"`
}

// Subthought is one refinement.
type Subthought struct {
	ID      int    `yaml:"id" json:"id"`
	Thought string `yaml:"thought" json:"thought"`
}

// Catalog is the full set of reference tables.
type Catalog struct {
	Attributes      []Attribute       `yaml:"attributes" json:"attributes"`
	Beliefs         []Belief          `yaml:"beliefs" json:"beliefs"`
	Facets          []Facet           `yaml:"facets" json:"facets"`
	Goals           []Goal            `yaml:"goals" json:"goals"`
	HappinessLevels []HappinessLevel  `yaml:"happiness_levels" json:"happiness_levels"`
	Labors          []Labor           `yaml:"labors" json:"labors"`
	Needs           []Need            `yaml:"needs" json:"needs"`
	Professions     []Profession      `yaml:"professions" json:"professions"`
	Skills          []Skill           `yaml:"skills" json:"skills"`
	Emotions        []Emotion         `yaml:"unit_emotions" json:"unit_emotions"`
	Moods           []Mood            `yaml:"unit_moods" json:"unit_moods"`
	Thoughts        []Thought         `yaml:"unit_thoughts" json:"unit_thoughts"`
	Subthoughts     []SubthoughtGroup `yaml:"unit_subthoughts" json:"unit_subthoughts"`

	professions map[int]int
	skills      map[int]int
	goals       map[int]int
	needs       map[int]int
	labors      map[int]int
}

// Default returns the catalog bundled with the binary.
func Default() (*Catalog, error) {
	sub, err := fs.Sub(bundled, "data")
	if err != nil {
		return nil, err
	}
	return LoadFS(sub)
}

// Load merges every .yaml file in dir, in name order.
func Load(dir string) (*Catalog, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("reading catalog dir: %w", err)
	}
	return LoadFS(os.DirFS(dir))
}

// LoadFS merges every .yaml file at the root of fsys, in name order.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	names, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(names)

	c := &Catalog{}
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		var part Catalog
		if err := yaml.Unmarshal(data, &part); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		c.merge(&part)
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	c.index()
	return c, nil
}

// WriteBundled copies the bundled catalog files into dir. Existing files are
// kept unless overwrite is set.
func WriteBundled(dir string, overwrite bool) ([]string, error) {
	entries, err := fs.ReadDir(bundled, "data")
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	var written []string
	for _, e := range entries {
		dst := filepath.Join(dir, e.Name())
		if _, err := os.Stat(dst); err == nil && !overwrite {
			continue
		}
		data, err := bundled.ReadFile("data/" + e.Name())
		if err != nil {
			return written, err
		}
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return written, fmt.Errorf("writing %s: %w", dst, err)
		}
		written = append(written, dst)
	}
	return written, nil
}

func (c *Catalog) merge(o *Catalog) {
	c.Attributes = append(c.Attributes, o.Attributes...)
	c.Beliefs = append(c.Beliefs, o.Beliefs...)
	c.Facets = append(c.Facets, o.Facets...)
	c.Goals = append(c.Goals, o.Goals...)
	c.HappinessLevels = append(c.HappinessLevels, o.HappinessLevels...)
	c.Labors = append(c.Labors, o.Labors...)
	c.Needs = append(c.Needs, o.Needs...)
	c.Professions = append(c.Professions, o.Professions...)
	c.Skills = append(c.Skills, o.Skills...)
	c.Emotions = append(c.Emotions, o.Emotions...)
	c.Moods = append(c.Moods, o.Moods...)
	c.Thoughts = append(c.Thoughts, o.Thoughts...)
	c.Subthoughts = append(c.Subthoughts, o.Subthoughts...)
}

// StressVulnerability is the facet index whose value scales thought effects.
const StressVulnerability = 8

func (c *Catalog) validate() error {
	var missing []string
	if len(c.Professions) == 0 {
		missing = append(missing, "professions")
	}
	if len(c.HappinessLevels) == 0 {
		missing = append(missing, "happiness_levels")
	}
	if len(c.Facets) <= StressVulnerability {
		missing = append(missing, "facets")
	}
	if len(c.Emotions) == 0 {
		missing = append(missing, "unit_emotions")
	}
	if len(missing) > 0 {
		return fmt.Errorf("catalog is missing tables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// UnmarshalJSON decodes a catalog echoed by the query service and rebuilds
// its lookup indexes.
func (c *Catalog) UnmarshalJSON(data []byte) error {
	type plain Catalog
	if err := json.Unmarshal(data, (*plain)(c)); err != nil {
		return err
	}
	c.index()
	return nil
}

func (c *Catalog) index() {
	c.professions = make(map[int]int, len(c.Professions))
	for i, p := range c.Professions {
		c.professions[p.ID] = i
	}
	c.skills = make(map[int]int, len(c.Skills))
	for i, s := range c.Skills {
		c.skills[s.ID] = i
	}
	c.goals = make(map[int]int, len(c.Goals))
	for i, g := range c.Goals {
		c.goals[g.ID] = i
	}
	c.needs = make(map[int]int, len(c.Needs))
	for i, n := range c.Needs {
		c.needs[n.ID] = i
	}
	c.labors = make(map[int]int, len(c.Labors))
	for i, l := range c.Labors {
		c.labors[l.ID] = i
	}
}
