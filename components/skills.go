package components

// SkillKind is one of the three evolvable skill categories.
type SkillKind uint8

const (
	SkillVision SkillKind = iota
	SkillEfficiency
	SkillJumper

	numSkills
)

// SkillKinds returns every skill kind in declaration order.
func SkillKinds() []SkillKind {
	return []SkillKind{SkillVision, SkillEfficiency, SkillJumper}
}

// Valid reports whether k names a known skill.
func (k SkillKind) Valid() bool {
	return k < numSkills
}

// String returns the skill name.
func (k SkillKind) String() string {
	switch k {
	case SkillVision:
		return "vision"
	case SkillEfficiency:
		return "efficiency"
	case SkillJumper:
		return "jumper"
	default:
		return "unknown"
	}
}

// Skills holds a level per skill kind.
type Skills struct {
	Levels [numSkills]uint8
}

// Level returns the level of skill k.
func (s Skills) Level(k SkillKind) int {
	if !k.Valid() {
		return 0
	}
	return int(s.Levels[k])
}

// Add raises skill k by n levels, saturating at 255.
func (s *Skills) Add(k SkillKind, n int) {
	if !k.Valid() || n <= 0 {
		return
	}
	v := int(s.Levels[k]) + n
	if v > 255 {
		v = 255
	}
	s.Levels[k] = uint8(v)
}

// Total returns the sum of all skill levels.
func (s Skills) Total() int {
	total := 0
	for _, l := range s.Levels {
		total += int(l)
	}
	return total
}
