package df

import "github.com/f3rmion/dfscope/internal/layout"

// fieldTable lists, per section, every offset the decoders look up.
var fieldTable = map[layout.Section][]string{
	layout.Addresses: {
		"active_creature_vector", "all_syndromes_vector", "fortress_entity",
		"dwarf_race_index", "dwarf_civ_index", "historical_figures_vector",
		"historical_entities_vector", "fake_identities_vector", "squad_vector",
		"races_vector", "language_vector", "translation_vector",
		"current_year", "cur_year_tick", "gview", "setupdwarfgame_vtable",
	},
	layout.Language: {"word_table"},
	layout.Word: {
		"first_name", "nickname", "words", "word_type", "language_id",
		"noun_singular", "noun_plural", "adjective", "verb",
		"present_simple_verb", "past_simple_verb", "past_participle_verb",
		"present_participle_verb",
	},
	layout.Race: {
		"name_singular", "name_plural", "adjective",
		"child_name_singular", "child_name_plural",
		"baby_name_singular", "baby_name_plural",
		"pref_string_vector", "castes_vector", "flags", "materials_vector",
	},
	layout.Caste: {
		"caste_name", "caste_descr", "flags", "baby_age", "child_age",
		"adult_size", "body_info", "extracts", "shearable_tissues_vector",
	},
	layout.HistEntity: {
		"id", "positions", "assignments", "position_id", "position_name",
		"position_male_name", "position_female_name",
		"assign_position_id", "assign_hist_id", "beliefs",
	},
	layout.HistFigure: {
		"id", "hist_fig_info", "reputation", "current_ident",
		"identity_id", "fake_name", "fake_birth_year", "fake_birth_time",
	},
	layout.Dwarf: {
		"name", "race", "caste", "sex", "id", "civ", "hist_id", "profession",
		"states", "birth_year", "birth_time", "turn_count",
		"squad_id", "squad_position", "labors", "size_info", "size_base",
		"active_syndrome_vector", "souls", "mood", "temp_mood", "physical_attrs",
	},
	layout.Syndrome: {
		"syn_sick_flag", "syn_classes_vector", "cie_effects",
		"cie_type_vfunc", "trans_race_id",
	},
	layout.Soul: {
		"mental_attrs", "skills", "preferences", "personality", "orientation",
		"beliefs", "traits", "emotions", "goals", "goal_type", "goal_realized",
		"stress_level", "needs", "combat_hardened",
		"current_focus", "undistracted_focus",
	},
	layout.Need:    {"id", "deity_id", "focus_level", "need_level"},
	layout.Emotion: {"emotion_type", "strength", "thought_id", "sub_id", "level", "year", "year_tick"},
	layout.Squad: {
		"id", "name", "alias", "members", "position_occupant", "orders",
		"histfig_id", "order_type_vfunc", "schedule", "alert", "sched_size",
		"sched_orders", "sched_assigned", "carry_food", "carry_water",
		"ammunition", "ammunition_qty",
	},
	layout.Viewscreen: {"child"},
}

// RequiredFields returns every schema field the decoders use. A schema that
// is missing any of them cannot be decoded against.
func RequiredFields() []layout.Field {
	var out []layout.Field
	for _, sec := range layout.Sections() {
		for _, name := range fieldTable[sec] {
			out = append(out, layout.Field{Section: sec, Name: name})
		}
	}
	return out
}
