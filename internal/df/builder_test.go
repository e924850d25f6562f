package df

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/f3rmion/dfscope/internal/layout"
	"github.com/google/go-cmp/cmp"
)

// fortress is a small synthetic world: one fortress with a squad, a dwarf
// race with two castes, a dwarf in that squad, an elf and a goblin.
type fortress struct {
	*fixture
	dwarf, hist uint64
	soul, pers  uint64
	squad       uint64
}

func newFortress(t *testing.T) *fortress {
	f := newFixture(t)
	img := f.img

	img.PutI32(f.global("current_year"), 250)
	img.PutI32(f.global("cur_year_tick"), 3*TicksPerMonth)
	img.PutI32(f.global("dwarf_civ_index"), 42)
	img.PutI16(f.global("dwarf_race_index"), 0)

	f.putLanguages([]string{"bronze", "hammer"}, []string{"kogan", "ustuth"})

	dwarfRace := f.putRace("dwarf", "dwarves", "dwarven baby", "",
		casteSpec{tag: "FEMALE", name: "female"},
		casteSpec{tag: "MALE", name: "male", flags: []int{flagPet}},
	)
	elfRace := f.putRace("elf", "elves", "", "", casteSpec{tag: "FEMALE", name: "female"})
	img.PutPointers(f.global("races_vector"), dwarfRace, elfRace)

	ent := f.alloc(layout.HistEntity)
	img.PutI32(f.at(ent, layout.HistEntity, "id"), 7)
	pos := f.alloc(layout.HistEntity)
	img.PutI32(f.at(pos, layout.HistEntity, "position_id"), 1)
	img.PutString(f.at(pos, layout.HistEntity, "position_name"), "expedition leader")
	asg := f.alloc(layout.HistEntity)
	img.PutI32(f.at(asg, layout.HistEntity, "assign_position_id"), 1)
	img.PutI32(f.at(asg, layout.HistEntity, "assign_hist_id"), 500)
	img.PutPointers(f.at(ent, layout.HistEntity, "positions"), pos)
	img.PutPointers(f.at(ent, layout.HistEntity, "assignments"), asg)
	img.PutI32(f.at(ent, layout.HistEntity, "beliefs"), 150)
	img.PutPtr(f.global("fortress_entity"), ent)
	img.PutPointers(f.global("historical_entities_vector"), ent)

	hf := f.alloc(layout.HistFigure)
	img.PutI32(f.at(hf, layout.HistFigure, "id"), 500)
	img.PutPointers(f.global("historical_figures_vector"), hf)

	sq := f.alloc(layout.Squad)
	img.PutI32(f.at(sq, layout.Squad, "id"), 3)
	img.PutString(f.at(sq, layout.Squad, "alias"), "The Axes")
	var slots []uint64
	for _, id := range []int32{500, 501} {
		p := f.alloc(layout.Squad)
		img.PutI32(f.at(p, layout.Squad, "position_occupant"), id)
		slots = append(slots, p)
	}
	img.PutPointers(f.at(sq, layout.Squad, "members"), slots...)
	order := f.object(layout.Squad, f.offs[layout.Squad]["order_type_vfunc"], int32(OrderMove))
	img.PutI32(f.at(order, layout.Squad, "histfig_id"), -1)
	img.PutPointers(f.at(sq, layout.Squad, "orders"), order)
	img.PutPointers(f.global("squad_vector"), sq)

	soul, pers := f.putSoul()
	traits := f.at(pers, layout.Soul, "traits")
	img.PutI16(traits, 20)
	img.PutI16(traits+8*2, 80)
	belief := img.Alloc(8)
	img.PutI32(belief, 29)
	img.PutI16(belief+4, 30)
	img.PutPointers(f.at(pers, layout.Soul, "beliefs"), belief)
	emo := f.alloc(layout.Emotion)
	img.PutI32(f.at(emo, layout.Emotion, "emotion_type"), 3)
	img.PutI32(f.at(emo, layout.Emotion, "strength"), 100)
	img.PutI32(f.at(emo, layout.Emotion, "thought_id"), 1)
	img.PutI32(f.at(emo, layout.Emotion, "year"), 249)
	img.PutPointers(f.at(pers, layout.Soul, "emotions"), emo)
	img.PutI32(f.at(pers, layout.Soul, "stress_level"), 12000)
	skill := img.Alloc(24)
	img.PutI16(skill+skillLevel, 25)
	img.PutPointers(f.at(soul, layout.Soul, "skills"), skill)
	img.PutU8(f.at(soul, layout.Soul, "orientation"), 0b1000)

	dwarf := f.putCreature(creatureSpec{
		civ: 42, race: 0, caste: 1, id: 1, hist: 500, sex: int8(SexMale),
		first: "urist", squad: 3, soul: soul,
	})
	img.PutI32(f.at(dwarf, layout.Dwarf, "birth_year"), 200)
	img.PutU8(f.at(dwarf, layout.Dwarf, "labors"), 1)
	elf := f.putCreature(creatureSpec{civ: 42, race: 1, id: 2, hist: -1, squad: -1, first: "elf"})
	goblin := f.putCreature(creatureSpec{civ: 99, race: 0, id: 3, hist: -1, squad: -1, first: "goblin"})
	img.PutPointers(f.global("active_creature_vector"), dwarf, elf, goblin)

	return &fortress{fixture: f, dwarf: dwarf, hist: hf, soul: soul, pers: pers, squad: sq}
}

func TestBuilder_Rebuild(t *testing.T) {
	f := newFortress(t)

	snap, err := f.builder().Rebuild(context.Background(), f.target())
	if err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	if len(snap.Dwarves) != 1 {
		t.Fatalf("len(Dwarves) = %d, want 1", len(snap.Dwarves))
	}
	if snap.Rejected != 2 {
		t.Errorf("Rejected = %d, want 2", snap.Rejected)
	}
	if snap.Generation != 1 || snap.Partial {
		t.Errorf("Generation = %d, Partial = %v", snap.Generation, snap.Partial)
	}
	if snap.Time.MonthName() != "Hematite" || snap.Time.Year() != 250 {
		t.Errorf("Time = %v", snap.Time)
	}
	if snap.FortressID != 7 || snap.CivID != 42 {
		t.Errorf("FortressID, CivID = %d, %d", snap.FortressID, snap.CivID)
	}
	if got := snap.Beliefs[0].Value; got != 100 {
		t.Errorf("fortress belief = %d, want capped 100", got)
	}

	d := snap.Dwarves[0]
	if d.Race.Name != "dwarf" {
		t.Errorf("Race.Name = %q", d.Race.Name)
	}
	if d.Race.ChildName != d.Race.BabyName || d.Race.ChildName != "Dwarven Baby" {
		t.Errorf("child/baby names = %q/%q", d.Race.ChildName, d.Race.BabyName)
	}
	if d.Caste.Tag != "MALE" || !d.Caste.Trainable() {
		t.Errorf("Caste = %q trainable=%v", d.Caste.Tag, d.Caste.Trainable())
	}
	if d.SquadOrder != OrderMove || d.SquadName != "The Axes" {
		t.Errorf("squad = %q order %v", d.SquadName, d.SquadOrder)
	}

	wantName := Name{First: "Urist", Last: "Koganustuth", English: "Bronzehammer"}
	if diff := cmp.Diff(wantName, d.Name); diff != "" {
		t.Errorf("Name mismatch (-want +got):\n%s", diff)
	}
	if d.Profession != "Miner" {
		t.Errorf("Profession = %q", d.Profession)
	}
	if d.Noble.Name != "expedition leader" {
		t.Errorf("Noble = %+v", d.Noble)
	}
	if diff := cmp.Diff([]int{0}, d.Labors); diff != "" {
		t.Errorf("Labors mismatch (-want +got):\n%s", diff)
	}
	if d.Age.Year() != 50 {
		t.Errorf("Age = %d years", d.Age.Year())
	}
	if d.Orientation != Heterosexual {
		t.Errorf("Orientation = %v", d.Orientation)
	}
	if d.Happiness != "Stressed" {
		t.Errorf("Happiness = %q", d.Happiness)
	}
	if d.Mood.ID != MoodNone || d.Mood.Locked {
		t.Errorf("Mood = %+v", d.Mood)
	}

	if len(d.Thoughts) != 1 {
		t.Fatalf("len(Thoughts) = %d", len(d.Thoughts))
	}
	th := d.Thoughts[0]
	if th.Text != "was involved in a conflict" || th.Effect != 150 || th.Emotion.String() != "Agitation" {
		t.Errorf("Thought = %+v", th)
	}

	if diff := cmp.Diff([]int32{29}, d.Facets[0].Conflicts); diff != "" {
		t.Errorf("facet conflicts mismatch (-want +got):\n%s", diff)
	}
	hardened, ok := d.Facet(CombatHardenedName)
	if !ok || hardened.Value != 40 || !hardened.Synthetic {
		t.Errorf("combat facet = %+v, %v", hardened, ok)
	}
	if len(d.Attributes) != PhysicalAttributes+MentalAttributes {
		t.Errorf("len(Attributes) = %d", len(d.Attributes))
	}
	if len(d.Skills) != 1 || d.Skills[0].Level != MaxSkillLevel || d.Skills[0].Name != "Mining" {
		t.Errorf("Skills = %+v", d.Skills)
	}

	q, ok := snap.Squad(3)
	if !ok {
		t.Fatal("Squad(3) missing")
	}
	if diff := cmp.Diff(map[int]int32{0: 500, 1: 501}, q.Members); diff != "" {
		t.Errorf("Members mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilder_RebuildJSONCarriesRaceAndCaste(t *testing.T) {
	f := newFortress(t)
	snap, err := f.builder().Rebuild(context.Background(), f.target())
	if err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	b, err := json.Marshal(snap.Dwarves[0])
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	for _, want := range []string{`"name":"dwarf"`, `"child_name":"Dwarven Baby"`, `"tag":"MALE"`, `"caste_index":1`} {
		if !strings.Contains(string(b), want) {
			t.Errorf("dwarf JSON missing %s", want)
		}
	}
}

func TestBuilder_RebuildScheduledOrders(t *testing.T) {
	f := newFortress(t)
	img := f.img

	// A second squad with no squad-wide order, so its members follow the
	// schedule of the current alert.
	sq := f.alloc(layout.Squad)
	img.PutI32(f.at(sq, layout.Squad, "id"), 4)
	img.PutString(f.at(sq, layout.Squad, "alias"), "The Shields")
	slot := f.alloc(layout.Squad)
	img.PutI32(f.at(slot, layout.Squad, "position_occupant"), 500)
	img.PutPointers(f.at(sq, layout.Squad, "members"), slot)

	orderSlot := f.offs[layout.Squad]["order_type_vfunc"]
	entrySize := f.offs[layout.Squad]["sched_size"]
	sched := img.Alloc(int(12*entrySize + f.size[layout.Squad]))
	putEntry := func(month uint64, kind SquadOrder) {
		order := f.object(layout.Squad, orderSlot, int32(kind))
		holder := img.Alloc(8)
		img.PutPtr(holder, order)
		entry := sched + month*entrySize
		img.PutPointers(f.at(entry, layout.Squad, "sched_orders"), holder)
		img.PutInt32s(f.at(entry, layout.Squad, "sched_assigned"), 0)
	}
	putEntry(0, OrderTrain)
	putEntry(3, OrderPatrol)
	img.PutPointers(f.at(sq, layout.Squad, "schedule"), sched)
	img.PutI32(f.at(sq, layout.Squad, "alert"), 0)

	img.PutPointers(f.global("squad_vector"), f.squad, sq)

	snap, err := f.builder().Rebuild(context.Background(), f.target())
	if err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	q, ok := snap.Squad(4)
	if !ok {
		t.Fatal("Squad(4) missing")
	}
	if diff := cmp.Diff(map[int32]SquadOrder{500: OrderPatrol}, q.Scheduled); diff != "" {
		t.Errorf("Scheduled mismatch (-want +got):\n%s", diff)
	}
	if got := q.OrderFor(500); got != OrderPatrol {
		t.Errorf("OrderFor(500) = %v, want Patrol", got)
	}
}

func TestBuilder_RebuildSyndromes(t *testing.T) {
	f := newFortress(t)
	img := f.img

	sick := f.alloc(layout.Syndrome)
	img.PutString(sick, "mountain fever")
	img.PutU8(f.at(sick, layout.Syndrome, "syn_sick_flag"), 1)

	curse := f.alloc(layout.Syndrome)
	img.PutString(curse, "night creature")
	img.PutPointers(f.at(curse, layout.Syndrome, "syn_classes_vector"), img.String("VAMPCURSE"))
	effect := f.object(layout.Syndrome, f.offs[layout.Syndrome]["cie_type_vfunc"], effectTransformation)
	img.PutI32(f.at(effect, layout.Syndrome, "trans_race_id"), 1)
	img.PutPointers(f.at(curse, layout.Syndrome, "cie_effects"), effect)
	img.PutPointers(f.global("all_syndromes_vector"), sick, curse)

	var recs []uint64
	for _, id := range []int32{0, 1, 9} {
		rec := img.Alloc(8)
		img.PutI32(rec, id)
		recs = append(recs, rec)
	}
	img.PutPointers(f.at(f.dwarf, layout.Dwarf, "active_syndrome_vector"), recs...)

	snap, err := f.builder().Rebuild(context.Background(), f.target())
	if err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	d := snap.Dwarves[0]
	if len(d.Syndromes) != 2 {
		t.Fatalf("len(Syndromes) = %d, want 2", len(d.Syndromes))
	}
	if sy := d.Syndromes[0]; !sy.Sickness || sy.Curse != CurseNone || sy.TransformRace != -1 {
		t.Errorf("Syndromes[0] = %+v, want a sickness with no curse", sy)
	}
	if got, want := d.Syndromes[1].DisplayName(), "night creature: VAMPCURSE"; got != want {
		t.Errorf("Syndromes[1].DisplayName() = %q, want %q", got, want)
	}
	if d.Curse != CurseVampire || d.CurseRace != "elf" {
		t.Errorf("curse = %v (%q), want Vampire (elf)", d.Curse, d.CurseRace)
	}
}

func TestBuilder_RebuildSoulDetails(t *testing.T) {
	f := newFortress(t)
	img := f.img

	var goals []uint64
	for _, g := range []struct {
		id       int32
		realized uint8
	}{{1, 1}, {-1, 1}, {2, 0}} {
		p := f.alloc(layout.Soul)
		img.PutI32(f.at(p, layout.Soul, "goal_type"), g.id)
		img.PutU8(f.at(p, layout.Soul, "goal_realized"), g.realized)
		goals = append(goals, p)
	}
	img.PutPointers(f.at(f.pers, layout.Soul, "goals"), goals...)

	need := f.alloc(layout.Need)
	img.PutI32(f.at(need, layout.Need, "id"), 1)
	img.PutI32(f.at(need, layout.Need, "deity_id"), -1)
	img.PutI32(f.at(need, layout.Need, "focus_level"), -20000)
	img.PutI32(f.at(need, layout.Need, "need_level"), 2)
	img.PutPointers(f.at(f.pers, layout.Soul, "needs"), need)
	img.PutI32(f.at(f.pers, layout.Soul, "current_focus"), 80)
	img.PutI32(f.at(f.pers, layout.Soul, "undistracted_focus"), 100)

	color := img.Alloc(prefMatState + 4)
	img.PutI16(color+prefType, int16(LikeColor))
	img.PutI32(color+prefID, 12)
	img.PutI32(color+prefMatType, -1)
	img.PutI32(color+prefMatIndex, -1)
	unknown := img.Alloc(prefMatState + 4)
	img.PutI16(unknown+prefType, 50)
	img.PutPointers(f.at(f.soul, layout.Soul, "preferences"), color, unknown)

	img.PutVector(f.at(f.dwarf, layout.Dwarf, "states"), []byte{
		3, 0, 0, 0, 5, 0, 0, 0,
		7, 0, 0, 0, 1, 0, 0, 0,
	})

	snap, err := f.builder().Rebuild(context.Background(), f.target())
	if err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	d := snap.Dwarves[0]

	wantGoals := []Goal{
		{ID: 1, Name: "Maintain Entity Status", Realized: true},
		{ID: 2, Name: "Start A Family"},
	}
	if diff := cmp.Diff(wantGoals, d.Goals); diff != "" {
		t.Errorf("Goals mismatch (-want +got):\n%s", diff)
	}
	if d.GoalsRealized != 1 {
		t.Errorf("GoalsRealized = %d, want 1", d.GoalsRealized)
	}

	if len(d.Needs) != 1 {
		t.Fatalf("len(Needs) = %d, want 1", len(d.Needs))
	}
	if n := d.Needs[0]; n.Focus != Distracted || n.Name != "Drink Alcohol" || n.NeedLevel != 2 {
		t.Errorf("Needs[0] = %+v, want distracted Drink Alcohol", n)
	}
	if d.CurrentFocus != 80 || d.UndistractedFocus != 100 {
		t.Errorf("focus = %d/%d, want 80/100", d.CurrentFocus, d.UndistractedFocus)
	}

	wantPrefs := []Preference{{Type: LikeColor, ID: 12, MatType: -1, MatIndex: -1}}
	if diff := cmp.Diff(wantPrefs, d.Preferences); diff != "" {
		t.Errorf("Preferences mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(map[int16]int32{3: 5, 7: 1}, d.States); diff != "" {
		t.Errorf("States mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilder_RebuildFakeIdentity(t *testing.T) {
	f := newFortress(t)
	img := f.img

	info := f.alloc(layout.HistFigure)
	rep := f.alloc(layout.HistFigure)
	ident := f.alloc(layout.HistFigure)
	img.PutPtr(f.at(f.hist, layout.HistFigure, "hist_fig_info"), info)
	img.PutPtr(f.at(info, layout.HistFigure, "reputation"), rep)
	img.PutI32(f.at(rep, layout.HistFigure, "current_ident"), 9)
	img.PutI32(f.at(ident, layout.HistFigure, "identity_id"), 9)
	f.putName(f.at(ident, layout.HistFigure, "fake_name"), "bomrek", "", 0, nil)
	img.PutI32(f.at(ident, layout.HistFigure, "fake_birth_year"), 230)
	img.PutPointers(f.global("fake_identities_vector"), ident)

	snap, err := f.builder().Rebuild(context.Background(), f.target())
	if err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	d := snap.Dwarves[0]
	if d.Name.First != "Bomrek" || d.Name.Last != "" {
		t.Errorf("shown name = %+v", d.Name)
	}
	if d.TrueIdentity == nil || d.TrueIdentity.FirstName != "Urist" {
		t.Fatalf("TrueIdentity = %+v", d.TrueIdentity)
	}
	if d.TrueIdentity.Birth.Year() != 200 || d.Age.Year() != 20 {
		t.Errorf("true birth %d, shown age %d", d.TrueIdentity.Birth.Year(), d.Age.Year())
	}
}

func TestBuilder_RebuildNoFortress(t *testing.T) {
	f := newFixture(t)
	_, err := f.builder().Rebuild(context.Background(), f.target())
	if !errors.Is(err, ErrNoFortress) {
		t.Errorf("Rebuild() error = %v, want ErrNoFortress", err)
	}
}

func TestBuilder_RebuildCancelled(t *testing.T) {
	f := newFortress(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.builder().Rebuild(ctx, f.target()); !errors.Is(err, context.Canceled) {
		t.Errorf("Rebuild() error = %v, want context.Canceled", err)
	}
}

func TestBuilder_EmbarkScreen(t *testing.T) {
	f := newFortress(t)
	b := f.builder()
	if b.EmbarkScreen(f.target()) {
		t.Fatal("EmbarkScreen() = true with no screens")
	}

	child := f.offs[layout.Viewscreen]["child"]
	title := f.alloc(layout.Viewscreen)
	setup := f.alloc(layout.Viewscreen)
	f.img.PutPtr(f.global("gview")+child, title)
	f.img.PutPtr(title+child, setup)
	f.img.PutPtr(setup, f.global("setupdwarfgame_vtable"))
	f.img.PutPtr(f.global("fortress_entity"), 0)

	if !b.EmbarkScreen(f.target()) {
		t.Fatal("EmbarkScreen() = false")
	}
	snap, err := b.RefreshCreatures(context.Background(), f.target())
	if err != nil {
		t.Fatalf("RefreshCreatures() error = %v", err)
	}
	if !snap.Partial || len(snap.Dwarves) != 1 {
		t.Errorf("Partial = %v, dwarves = %d", snap.Partial, len(snap.Dwarves))
	}
	if snap.Dwarves[0].SquadOrder != OrderNone {
		t.Errorf("SquadOrder = %v without squads", snap.Dwarves[0].SquadOrder)
	}
}

func TestNewBuilder_MissingField(t *testing.T) {
	f := newFixture(t)
	delete(f.offs[layout.Soul], "stress_level")

	_, err := NewBuilder(f.schema(), f.catalog, Options{})
	var fe *layout.FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("NewBuilder() error = %v, want *layout.FieldError", err)
	}
	if fe.Field != (layout.Field{Section: layout.Soul, Name: "stress_level"}) {
		t.Errorf("FieldError.Field = %v", fe.Field)
	}
}

func TestRequiredFields_Unique(t *testing.T) {
	seen := make(map[layout.Field]bool)
	for _, f := range RequiredFields() {
		if seen[f] {
			t.Errorf("duplicate field %v", f)
		}
		seen[f] = true
	}
}
