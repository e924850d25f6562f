package gamedata

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}

	tests := []struct {
		table string
		got   int
		want  int
	}{
		{"professions", len(c.Professions), 135},
		{"facets", len(c.Facets), 50},
		{"beliefs", len(c.Beliefs), 33},
		{"unit_emotions", len(c.Emotions), 170},
		{"attributes", len(c.Attributes), 19},
		{"labors", len(c.Labors), 83},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("len(%s) = %d, want %d", tt.table, tt.got, tt.want)
		}
	}

	if p, ok := c.Profession(0); !ok || p.Name != "Miner" {
		t.Errorf("Profession(0) = %+v, %v", p, ok)
	}
	if f := c.Facets[StressVulnerability]; f.Name != "Stress Vulnerability" {
		t.Errorf("facet %d = %q", StressVulnerability, f.Name)
	}
	if th, ok := c.Thought(1); !ok || th.Title != "Conflict" {
		t.Errorf("Thought(1) = %+v, %v", th, ok)
	}
	if _, ok := c.Thought(0); ok {
		t.Error("Thought(0) resolved")
	}
	if l, ok := c.Labor(0); !ok || l.Name != "Mine" {
		t.Errorf("Labor(0) = %+v, %v", l, ok)
	}
	if _, ok := c.Goal(-1); ok {
		t.Error("Goal(-1) resolved")
	}
}

func TestCatalog_Happiness(t *testing.T) {
	c := &Catalog{HappinessLevels: []HappinessLevel{
		{Name: "Content", Threshold: -10000},
		{Name: "Fine", Threshold: 0},
		{Name: "Stressed", Threshold: 10000},
	}}

	tests := []struct {
		stress int
		want   string
	}{
		{-4000, "Fine"},
		{-6000, "Content"},
		{-5000, "Content"},
		{5000, "Fine"},
		{5001, "Stressed"},
		{900000, "Stressed"},
	}
	for _, tt := range tests {
		if got := c.Happiness(tt.stress).Name; got != tt.want {
			t.Errorf("Happiness(%d) = %s, want %s", tt.stress, got, tt.want)
		}
	}

	if got := (&Catalog{}).Happiness(0); got.Name != "" {
		t.Errorf("Happiness() with no bands = %+v", got)
	}
}

func TestLoad_MergesFiles(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"a.yaml": "professions:\n  - id: 7\n    name: Mason\nhappiness_levels:\n  - name: Fine\n    threshold: 0\n",
		"b.yaml": "facets:\n" + facetYAML(9) + "unit_emotions:\n  - id: 0\n    emotion: Acceptance\n    divider: -2\n",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if p, ok := c.Profession(7); !ok || p.Name != "Mason" {
		t.Errorf("Profession(7) = %+v, %v", p, ok)
	}
	if _, ok := c.Profession(0); ok {
		t.Error("Profession(0) resolved in partial catalog")
	}
}

func TestLoadFS_MissingTables(t *testing.T) {
	fsys := fstest.MapFS{
		"only.yaml": {Data: []byte("professions:\n  - id: 0\n    name: Miner\n")},
	}
	if _, err := LoadFS(fsys); err == nil {
		t.Error("LoadFS() with missing tables succeeded")
	}
	if _, err := LoadFS(fstest.MapFS{}); err == nil {
		t.Error("LoadFS() with no files succeeded")
	}
}

func TestWriteBundled(t *testing.T) {
	dir := t.TempDir()
	written, err := WriteBundled(dir, false)
	if err != nil {
		t.Fatalf("WriteBundled() error = %v", err)
	}
	if len(written) == 0 {
		t.Fatal("WriteBundled() wrote nothing")
	}
	again, err := WriteBundled(dir, false)
	if err != nil || len(again) != 0 {
		t.Errorf("second WriteBundled() = %v, %v; want no writes", again, err)
	}
	if _, err := Load(dir); err != nil {
		t.Errorf("Load() of written catalog: %v", err)
	}
}

func facetYAML(n int) string {
	s := ""
	for i := 0; i < n; i++ {
		s += "  - name: facet\n"
	}
	return s
}
