package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/slimes/components"
	"github.com/pthm-cable/slimes/config"
)

// RandomSkillKind picks a skill kind uniformly.
func RandomSkillKind(rng *rand.Rand) components.SkillKind {
	kinds := components.SkillKinds()
	return kinds[rng.Intn(len(kinds))]
}

// WeightedSkillKind picks a skill kind with probability proportional to its
// level. Returns false when every level is zero.
func WeightedSkillKind(s components.Skills, rng *rand.Rand) (components.SkillKind, bool) {
	total := s.Total()
	if total == 0 {
		return 0, false
	}
	r := rng.Intn(total)
	for _, k := range components.SkillKinds() {
		r -= s.Level(k)
		if r < 0 {
			return k, true
		}
	}
	return 0, false
}

// inheritedLevel is the share of a parent's level passed on: ceil(level/3).
func inheritedLevel(level int) int {
	return (level + 2) / 3
}

// InheritSkills builds a child's skill record. Each parent with any skills
// contributes ceil(level/3) of one category drawn in proportion to its levels.
// The child's total never exceeds capTotal.
func InheritSkills(a, b components.Skills, capTotal int, rng *rand.Rand) components.Skills {
	var child components.Skills
	for _, parent := range [2]components.Skills{a, b} {
		k, ok := WeightedSkillKind(parent, rng)
		if !ok {
			continue
		}
		n := inheritedLevel(parent.Level(k))
		if room := capTotal - child.Total(); n > room {
			n = room
		}
		child.Add(k, n)
	}
	return child
}

// EvolutionThreshold returns the energy at which a slime holding total skill
// levels evolves next. Capped slimes get +Inf.
func EvolutionThreshold(total int, cfg config.SkillsConfig) float32 {
	if total >= cfg.Cap {
		return float32(math.Inf(1))
	}
	return float32(cfg.EvolveRequirement + float64(total)*cfg.EvolveIncrement)
}

// SkillModifiers holds the skill-adjusted tuning for one slime.
type SkillModifiers struct {
	VisionRange  float32
	SpeedFactor  float32
	StepCost     float32
	JumpCooldown float32 // ticks
	JumpDistance float32
}

// skillFactor returns 1 + level/cap * strength.
func skillFactor(level, capTotal int, strength float64) float32 {
	if capTotal <= 0 {
		return 1
	}
	return float32(1 + float64(level)/float64(capTotal)*strength)
}

// ComputeModifiers applies a slime's skill levels to the base tuning in cfg.
func ComputeModifiers(s components.Skills, cfg *config.Config) SkillModifiers {
	sk := cfg.Skills
	vision := s.Level(components.SkillVision)
	eff := s.Level(components.SkillEfficiency)
	jumper := s.Level(components.SkillJumper)

	effFactor := skillFactor(eff, sk.Cap, sk.EfficiencyStrength)
	jumpFactor := skillFactor(jumper, sk.Cap, sk.JumperStrength)

	m := SkillModifiers{
		VisionRange:  float32(cfg.Slime.VisionRange) * skillFactor(vision, sk.Cap, sk.VisionStrength),
		SpeedFactor:  float32(cfg.Slime.SpeedFactor) * skillFactor(vision, sk.Cap, sk.VisionStrength*sk.VisionSpeedShare),
		StepCost:     float32(cfg.Slime.StepCost),
		JumpCooldown: float32(cfg.Jump.Cooldown),
		JumpDistance: float32(cfg.Jump.Distance) * jumpFactor,
	}
	// Negative strengths could push a factor to zero.
	if effFactor > 0 {
		m.StepCost /= effFactor
	}
	if jumpFactor > 0 {
		m.JumpCooldown /= jumpFactor
	}
	return m
}
