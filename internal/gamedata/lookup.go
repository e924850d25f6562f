package gamedata

// Profession returns the profession with the given id.
func (c *Catalog) Profession(id int) (Profession, bool) {
	i, ok := c.professions[id]
	if !ok {
		return Profession{}, false
	}
	return c.Professions[i], true
}

// Skill returns the skill with the given id.
func (c *Catalog) Skill(id int) (Skill, bool) {
	i, ok := c.skills[id]
	if !ok {
		return Skill{}, false
	}
	return c.Skills[i], true
}

// Labor returns the labor with the given id.
func (c *Catalog) Labor(id int) (Labor, bool) {
	i, ok := c.labors[id]
	if !ok {
		return Labor{}, false
	}
	return c.Labors[i], true
}

// Goal returns the goal with the given id.
func (c *Catalog) Goal(id int) (Goal, bool) {
	if id < 0 {
		return Goal{}, false
	}
	i, ok := c.goals[id]
	if !ok {
		return Goal{}, false
	}
	return c.Goals[i], true
}

// Need returns the need with the given id.
func (c *Catalog) Need(id int) (Need, bool) {
	i, ok := c.needs[id]
	if !ok {
		return Need{}, false
	}
	return c.Needs[i], true
}

// Belief returns the belief at index id.
func (c *Catalog) Belief(id int) (Belief, bool) {
	if id < 0 || id >= len(c.Beliefs) {
		return Belief{}, false
	}
	return c.Beliefs[id], true
}

// Emotion returns the emotion row for an emotion type.
func (c *Catalog) Emotion(id int) (Emotion, bool) {
	if id < 0 || id >= len(c.Emotions) {
		return Emotion{}, false
	}
	return c.Emotions[id], true
}

// Thought returns the thought template for a 1-based thought id.
func (c *Catalog) Thought(id int) (Thought, bool) {
	if id < 1 || id > len(c.Thoughts) {
		return Thought{}, false
	}
	return c.Thoughts[id-1], true
}

// SubthoughtGroup returns the refinement group for a subthought type.
func (c *Catalog) SubthoughtGroup(kind int) (SubthoughtGroup, bool) {
	if kind < 0 || kind >= len(c.Subthoughts) {
		return SubthoughtGroup{}, false
	}
	return c.Subthoughts[kind], true
}

// Attribute returns the attribute at index id.
func (c *Catalog) Attribute(id int) (Attribute, bool) {
	if id < 0 || id >= len(c.Attributes) {
		return Attribute{}, false
	}
	return c.Attributes[id], true
}

// Mood returns the mood row for a mood id.
func (c *Catalog) Mood(id int) (Mood, bool) {
	if id < 0 || id >= len(c.Moods) {
		return Mood{}, false
	}
	return c.Moods[id], true
}

// Happiness maps a stress level to the band whose threshold is nearest.
// On equal distance the band declared first wins.
func (c *Catalog) Happiness(stress int) HappinessLevel {
	best := 0
	bestDist := -1
	for i, h := range c.HappinessLevels {
		d := h.Threshold - stress
		if d < 0 {
			d = -d
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	if bestDist < 0 {
		return HappinessLevel{}
	}
	return c.HappinessLevels[best]
}
