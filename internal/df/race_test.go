package df

import (
	"testing"

	"github.com/f3rmion/dfscope/internal/decode"
	"github.com/google/go-cmp/cmp"
)

func TestRace_fixChildNames(t *testing.T) {
	tests := []struct {
		name string
		in   Race
		want [4]string
	}{
		{
			name: "baby only",
			in:   Race{Name: "dwarf", NamePlural: "dwarves", BabyName: "dwarven baby", BabyNamePlural: "dwarven babies"},
			want: [4]string{"Dwarven Baby", "Dwarven Babies", "Dwarven Baby", "Dwarven Babies"},
		},
		{
			name: "child only",
			in:   Race{Name: "elf", NamePlural: "elves", ChildName: "elf child", ChildNamePlural: "elf children"},
			want: [4]string{"Elf Child", "Elf Children", "Elf Child", "Elf Children"},
		},
		{
			name: "neither",
			in:   Race{Name: "goblin", NamePlural: "goblins"},
			want: [4]string{"Goblin Baby", "Goblins Babies", "Goblin Offspring", "Goblins Offspring"},
		},
		{
			name: "both",
			in:   Race{Name: "human", BabyName: "human baby", ChildName: "human child"},
			want: [4]string{"Human Baby", "", "Human Child", ""},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.in
			r.fixChildNames()
			got := [4]string{r.BabyName, r.BabyNamePlural, r.ChildName, r.ChildNamePlural}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("fixChildNames() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDeriveCasteFlags(t *testing.T) {
	var f decode.FlagSet
	f.Set(flagPet, true)
	f.Set(flagNotFishable, true)
	f.Set(FlagFishable, true)
	deriveCasteFlags(&f)
	if !f.Has(FlagTrainable) {
		t.Error("pet caste should be trainable")
	}
	if f.Has(FlagFishable) {
		t.Error("not-fishable bit should clear FlagFishable")
	}
	if f.Has(FlagButcherable) {
		t.Error("caste without butcher bit reported butcherable")
	}
}

func TestCasteAge(t *testing.T) {
	for raw, want := range map[int32]int32{-1: 0, 0: 0, 1: 1, 12: 12, -2: -2} {
		if got := casteAge(raw); got != want {
			t.Errorf("casteAge(%d) = %d, want %d", raw, got, want)
		}
	}
}
