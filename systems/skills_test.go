package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/slimes/components"
	"github.com/pthm-cable/slimes/config"
)

func skills(vision, eff, jumper uint8) components.Skills {
	return components.Skills{Levels: [3]uint8{vision, eff, jumper}}
}

func TestWeightedSkillKind_ZeroSkills(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if _, ok := WeightedSkillKind(components.Skills{}, rng); ok {
		t.Error("expected no pick for empty skills")
	}
}

func TestWeightedSkillKind_OnlyNonZero(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := skills(0, 4, 0)
	for i := 0; i < 100; i++ {
		k, ok := WeightedSkillKind(s, rng)
		if !ok || k != components.SkillEfficiency {
			t.Fatalf("got (%v, %v), want efficiency", k, ok)
		}
	}
}

func TestWeightedSkillKind_Proportional(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	s := skills(1, 0, 3)
	counts := map[components.SkillKind]int{}
	const n = 20000
	for i := 0; i < n; i++ {
		k, _ := WeightedSkillKind(s, rng)
		counts[k]++
	}
	jumperShare := float64(counts[components.SkillJumper]) / n
	if math.Abs(jumperShare-0.75) > 0.02 {
		t.Errorf("jumper share = %.3f, want ~0.75", jumperShare)
	}
}

func TestInheritedLevel(t *testing.T) {
	tests := []struct{ level, want int }{
		{0, 0}, {1, 1}, {2, 1}, {3, 1}, {4, 2}, {6, 2}, {7, 3}, {10, 4},
	}
	for _, tt := range tests {
		if got := inheritedLevel(tt.level); got != tt.want {
			t.Errorf("inheritedLevel(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestInheritSkills(t *testing.T) {
	rng := rand.New(rand.NewSource(9))

	t.Run("both empty", func(t *testing.T) {
		child := InheritSkills(components.Skills{}, components.Skills{}, 10, rng)
		if child.Total() != 0 {
			t.Errorf("child total = %d, want 0", child.Total())
		}
	})

	t.Run("single category parents", func(t *testing.T) {
		child := InheritSkills(skills(7, 0, 0), skills(0, 0, 4), 10, rng)
		if got := child.Level(components.SkillVision); got != 3 {
			t.Errorf("vision = %d, want 3", got)
		}
		if got := child.Level(components.SkillJumper); got != 2 {
			t.Errorf("jumper = %d, want 2", got)
		}
	})

	t.Run("one empty parent", func(t *testing.T) {
		child := InheritSkills(components.Skills{}, skills(0, 2, 0), 10, rng)
		if child.Total() != 1 || child.Level(components.SkillEfficiency) != 1 {
			t.Errorf("child = %+v, want efficiency 1", child.Levels)
		}
	})

	t.Run("clamped to cap", func(t *testing.T) {
		child := InheritSkills(skills(9, 0, 0), skills(0, 9, 0), 4, rng)
		if child.Total() != 4 {
			t.Errorf("child total = %d, want 4", child.Total())
		}
	})
}

func TestEvolutionThreshold(t *testing.T) {
	cfg := config.SkillsConfig{Cap: 3, EvolveRequirement: 50, EvolveIncrement: 50}
	tests := []struct {
		total int
		want  float64
	}{
		{0, 50},
		{1, 100},
		{2, 150},
		{3, math.Inf(1)},
		{5, math.Inf(1)},
	}
	for _, tt := range tests {
		got := float64(EvolutionThreshold(tt.total, cfg))
		if got != tt.want {
			t.Errorf("EvolutionThreshold(%d) = %v, want %v", tt.total, got, tt.want)
		}
	}
}

func TestComputeModifiers(t *testing.T) {
	cfg := config.Default()
	cfg.Skills.Cap = 10
	cfg.Skills.VisionStrength = 1
	cfg.Skills.VisionSpeedShare = 0.5
	cfg.Skills.EfficiencyStrength = 1
	cfg.Skills.JumperStrength = 1

	base := ComputeModifiers(components.Skills{}, cfg)
	if base.VisionRange != float32(cfg.Slime.VisionRange) || base.StepCost != float32(cfg.Slime.StepCost) {
		t.Errorf("zero skills changed base tuning: %+v", base)
	}

	m := ComputeModifiers(skills(10, 10, 5), cfg)
	approx := func(name string, got, want float32) {
		t.Helper()
		if math.Abs(float64(got-want)) > 1e-4 {
			t.Errorf("%s = %v, want %v", name, got, want)
		}
	}
	approx("vision range", m.VisionRange, float32(cfg.Slime.VisionRange)*2)
	approx("speed factor", m.SpeedFactor, float32(cfg.Slime.SpeedFactor)*1.5)
	approx("step cost", m.StepCost, float32(cfg.Slime.StepCost)/2)
	approx("jump cooldown", m.JumpCooldown, float32(cfg.Jump.Cooldown)/1.5)
	approx("jump distance", m.JumpDistance, float32(cfg.Jump.Distance)*1.5)
}
