package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/slimes/components"
	"github.com/pthm-cable/slimes/config"
)

// slimeFixture builds a controller pair on a 400x300 field with quiet
// defaults: no movement cost and no upkeep unless a test opts in.
func slimeFixture(t *testing.T, mutate func(*config.Config)) (*SlimeController, *FoodController) {
	t.Helper()
	cfg := config.Default()
	cfg.Slime.StepCost = 0
	cfg.Slime.TimeCostInterval = 1_000_000
	cfg.Food.Cap = 50
	if mutate != nil {
		mutate(cfg)
	}

	bounds := Bounds{Width: 400, Height: 300}
	rng := rand.New(rand.NewSource(11))
	sc, err := NewSlimeController(cfg, bounds, rng)
	if err != nil {
		t.Fatalf("NewSlimeController: %v", err)
	}
	fc, err := NewFoodController(cfg.Food, bounds, rng)
	if err != nil {
		t.Fatalf("NewFoodController: %v", err)
	}
	return sc, fc
}

func approxEqual(a, b, tol float32) bool {
	return math.Abs(float64(a-b)) <= float64(tol)
}

func TestNewSlimeController_RejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Slime.SizeMin = 40
	if _, err := NewSlimeController(cfg, Bounds{Width: 10, Height: 10}, rand.New(rand.NewSource(1))); err == nil {
		t.Error("expected error for size_min > size_max")
	}
	if _, err := NewSlimeController(nil, Bounds{Width: 10, Height: 10}, rand.New(rand.NewSource(1))); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestSlimeUpdate_NoDoubleEat(t *testing.T) {
	sc, fc := slimeFixture(t, nil)
	e := sc.Add(SlimeSeed{X: 50, Y: 50, Energy: 30, Path: components.SkillVision})
	fc.Place(50, 50, 4)
	fc.Place(51, 50, 6)

	report := sc.Update(1, fc)

	got, ok := sc.Get(e)
	if !ok {
		t.Fatal("slime vanished")
	}
	if !approxEqual(got.Energy, 40, 1e-4) {
		t.Errorf("energy = %v, want 40", got.Energy)
	}
	if fc.Live() != 0 {
		t.Errorf("live food = %d, want 0", fc.Live())
	}
	if report.FoodEaten != 2 || !approxEqual(report.EnergyEaten, 10, 1e-4) {
		t.Errorf("report = %+v, want 2 items / 10 energy", report)
	}
	fc.Compact()
	if fc.Len() != 0 {
		t.Errorf("population after compaction = %d, want 0", fc.Len())
	}
}

func TestSlimeUpdate_FoodClaimedOnce(t *testing.T) {
	sc, fc := slimeFixture(t, nil)
	a := sc.Add(SlimeSeed{X: 50, Y: 50, Energy: 30, Path: components.SkillVision})
	b := sc.Add(SlimeSeed{X: 50, Y: 50, Energy: 30, Path: components.SkillVision})
	fc.Place(50, 50, 5)

	report := sc.Update(1, fc)

	va, _ := sc.Get(a)
	vb, _ := sc.Get(b)
	gained := (va.Energy - 30) + (vb.Energy - 30)
	if !approxEqual(gained, 5, 1e-4) {
		t.Errorf("total energy gained = %v, want 5", gained)
	}
	if report.FoodEaten != 1 {
		t.Errorf("food eaten = %d, want 1", report.FoodEaten)
	}
}

func TestSlimeUpdate_MovesTowardNearestFood(t *testing.T) {
	sc, fc := slimeFixture(t, func(c *config.Config) { c.Slime.StepCost = 0.1 })
	e := sc.Add(SlimeSeed{X: 10, Y: 10, Energy: 30, Path: components.SkillVision})
	fc.Place(10, 40, 5)

	sc.Update(1, fc)

	got, _ := sc.Get(e)
	speed := float32(sc.cfg.Slime.SpeedFactor)
	if !approxEqual(got.X, 10, 1e-4) || !approxEqual(got.Y, 10+speed, 1e-4) {
		t.Errorf("position = (%v, %v), want (10, %v)", got.X, got.Y, 10+speed)
	}
	if !approxEqual(got.Energy, 29.9, 1e-4) {
		t.Errorf("energy = %v, want 29.9 after one step", got.Energy)
	}
	if !approxEqual(velocityMagnitude(got.VelX, got.VelY), speed, 1e-4) || got.VelY <= 0 {
		t.Errorf("heading = (%v, %v), want toward +y at speed %v", got.VelX, got.VelY, speed)
	}
}

func TestSlimeUpdate_StepCostScalesWithEnergy(t *testing.T) {
	sc, fc := slimeFixture(t, func(c *config.Config) {
		c.Slime.StepCost = 0.1
		c.Breeding.Threshold = 10_000
		c.Skills.EvolveRequirement = 10_000
	})
	e := sc.Add(SlimeSeed{X: 100, Y: 100, Energy: 300, Path: components.SkillVision})
	sc.Update(1, fc)

	got, _ := sc.Get(e)
	if !approxEqual(got.Energy, 300-0.3, 1e-3) {
		t.Errorf("energy = %v, want %v", got.Energy, 300-0.3)
	}
}

func TestSlimeUpdate_FreeMovementBelowThreshold(t *testing.T) {
	sc, fc := slimeFixture(t, func(c *config.Config) { c.Slime.StepCost = 1 })
	e := sc.Add(SlimeSeed{X: 100, Y: 100, Energy: 4, Path: components.SkillVision})

	sc.Update(1, fc)

	got, _ := sc.Get(e)
	if got.Energy != 4 {
		t.Errorf("energy = %v, want 4 (movement free below threshold)", got.Energy)
	}
	if !approxEqual(got.X, 100+float32(sc.cfg.Slime.SpeedFactor), 1e-4) {
		t.Errorf("x = %v, want slime to keep moving along its heading", got.X)
	}
}

func TestSlimeUpdate_PersistentHeading(t *testing.T) {
	sc, fc := slimeFixture(t, nil)
	e := sc.Add(SlimeSeed{X: 100, Y: 100, Heading: math.Pi / 2, Energy: 30, Path: components.SkillVision})

	for tick := int64(1); tick <= 3; tick++ {
		sc.Update(tick, fc)
	}

	got, _ := sc.Get(e)
	want := 100 + 3*float32(sc.cfg.Slime.SpeedFactor)
	if !approxEqual(got.X, 100, 1e-3) || !approxEqual(got.Y, want, 1e-3) {
		t.Errorf("position = (%v, %v), want (100, %v)", got.X, got.Y, want)
	}
}

func TestSlimeUpdate_WrapsAtEdge(t *testing.T) {
	sc, fc := slimeFixture(t, nil)
	e := sc.Add(SlimeSeed{X: 399, Y: 100, Energy: 30, Path: components.SkillVision})

	sc.Update(1, fc)

	got, _ := sc.Get(e)
	if got.X != 0 {
		t.Errorf("x = %v, want 0 after crossing the far edge", got.X)
	}
}

func TestSlimeUpdate_Jump(t *testing.T) {
	sc, fc := slimeFixture(t, nil)
	e := sc.Add(SlimeSeed{X: 100, Y: 100, Energy: 40, Path: components.SkillVision})
	fc.Place(180, 100, 5)

	tick := int64(sc.cfg.Jump.Cooldown) + 1
	report := sc.Update(tick, fc)

	got, _ := sc.Get(e)
	if got.X != 180 || got.Y != 100 {
		t.Errorf("position = (%v, %v), want food position (180, 100)", got.X, got.Y)
	}
	if got.State != components.StateJumping {
		t.Errorf("state = %v, want jumping", got.State)
	}
	if got.LastJump != tick {
		t.Errorf("last jump = %d, want %d", got.LastJump, tick)
	}
	if fc.Live() != 0 {
		t.Error("jumped-to food not consumed")
	}
	want := float32(40) + 5 - float32(sc.cfg.Jump.Cost)
	if !approxEqual(got.Energy, want, 1e-4) {
		t.Errorf("energy = %v, want %v", got.Energy, want)
	}
	if report.Jumps != 1 {
		t.Errorf("jumps = %d, want 1", report.Jumps)
	}
}

func TestSlimeUpdate_JumpOnCooldown(t *testing.T) {
	sc, fc := slimeFixture(t, nil)
	e := sc.Add(SlimeSeed{X: 100, Y: 100, Energy: 40, Path: components.SkillVision, LastJump: 50})
	fc.Place(180, 100, 5)

	sc.Update(60, fc)

	got, _ := sc.Get(e)
	if got.State == components.StateJumping || fc.Live() != 1 {
		t.Error("slime jumped during cooldown")
	}
}

func TestSlimeUpdate_BreedingConservation(t *testing.T) {
	sc, fc := slimeFixture(t, nil)
	a := sc.Add(SlimeSeed{
		X: 100, Y: 100, Energy: 150, Path: components.SkillVision,
		Skills: components.Skills{Levels: [3]uint8{7, 0, 0}},
	})
	b := sc.Add(SlimeSeed{
		X: 100, Y: 100, Energy: 150, Path: components.SkillVision,
		Skills: components.Skills{Levels: [3]uint8{0, 0, 4}},
	})

	tick := sc.cfg.Breeding.Cooldown + 100
	report := sc.Update(tick, fc)

	cost := float32(sc.cfg.Slime.InitialEnergy)
	for _, e := range []struct {
		name string
		view SlimeView
	}{{"a", mustGet(t, sc, a)}, {"b", mustGet(t, sc, b)}} {
		if !approxEqual(e.view.Energy, 150-cost, 1e-4) {
			t.Errorf("parent %s energy = %v, want %v", e.name, e.view.Energy, 150-cost)
		}
		if e.view.State != components.StateBreeding {
			t.Errorf("parent %s state = %v, want breeding", e.name, e.view.State)
		}
		if e.view.LastBreed != tick {
			t.Errorf("parent %s last breed = %d, want %d", e.name, e.view.LastBreed, tick)
		}
	}

	if report.Breedings != 1 || report.Births != 1 {
		t.Errorf("report = %+v, want one breeding and one birth", report)
	}
	if sc.Count() != 3 {
		t.Fatalf("count = %d, want 3", sc.Count())
	}

	var child SlimeView
	for _, v := range sc.Snapshot() {
		if v.Entity != a && v.Entity != b {
			child = v
		}
	}
	if child.Energy != cost {
		t.Errorf("child energy = %v, want %v", child.Energy, cost)
	}
	if child.X != 100 || child.Y != 100 {
		t.Errorf("child at (%v, %v), want parent position", child.X, child.Y)
	}
	if child.Skills.Level(components.SkillVision) != 3 || child.Skills.Level(components.SkillJumper) != 2 {
		t.Errorf("child skills = %v, want vision 3 and jumper 2", child.Skills.Levels)
	}
	if child.Generation != 1 {
		t.Errorf("child generation = %d, want 1", child.Generation)
	}
	if child.State != components.StateNormal {
		t.Errorf("child state = %v, want normal", child.State)
	}
	wantThreshold := EvolutionThreshold(5, sc.cfg.Skills)
	if child.NextEvolution != wantThreshold {
		t.Errorf("child threshold = %v, want %v", child.NextEvolution, wantThreshold)
	}
}

func TestSlimeUpdate_NoBreedingDuringCooldown(t *testing.T) {
	sc, fc := slimeFixture(t, nil)
	sc.Add(SlimeSeed{X: 100, Y: 100, Energy: 150, Path: components.SkillVision, LastBreed: 90})
	sc.Add(SlimeSeed{X: 100, Y: 100, Energy: 150, Path: components.SkillVision})

	report := sc.Update(350, fc)
	if report.Breedings != 0 || sc.Count() != 2 {
		t.Errorf("breedings=%d count=%d, want no breeding while one parent cools down", report.Breedings, sc.Count())
	}
}

func TestSlimeUpdate_SeekPartnerOutOfContact(t *testing.T) {
	sc, fc := slimeFixture(t, nil)
	a := sc.Add(SlimeSeed{X: 100, Y: 100, Energy: 150, Path: components.SkillVision})
	sc.Add(SlimeSeed{X: 150, Y: 100, Energy: 150, Path: components.SkillVision})

	report := sc.Update(1000, fc)

	if report.Breedings != 0 {
		t.Errorf("breedings = %d, want 0 before contact", report.Breedings)
	}
	got := mustGet(t, sc, a)
	if got.X <= 100 {
		t.Errorf("x = %v, want slime to move toward its partner", got.X)
	}
}

func TestSlimeUpdate_BreedsAtThresholdAfterStepCost(t *testing.T) {
	sc, fc := slimeFixture(t, func(c *config.Config) {
		c.Slime.StepCost = 0.1
	})
	threshold := float32(sc.cfg.Breeding.Threshold)
	a := sc.Add(SlimeSeed{X: 100, Y: 100, Energy: threshold, Path: components.SkillVision})
	b := sc.Add(SlimeSeed{X: 115, Y: 100, Energy: threshold, Path: components.SkillVision})

	report := sc.Update(sc.cfg.Breeding.Cooldown+100, fc)

	if report.Breedings != 1 || sc.Count() != 3 {
		t.Fatalf("breedings=%d count=%d, want one breeding at the threshold", report.Breedings, sc.Count())
	}
	cost := float32(sc.cfg.Slime.InitialEnergy)
	for _, e := range []ecs.Entity{a, b} {
		got := mustGet(t, sc, e)
		if got.State != components.StateBreeding {
			t.Errorf("parent state = %v, want breeding", got.State)
		}
		if got.Energy > threshold-cost || got.Energy < threshold-cost-0.11 {
			t.Errorf("parent energy = %v, want breeding cost plus at most one step", got.Energy)
		}
	}
}

func TestSlimeUpdate_OneMatePerTick(t *testing.T) {
	sc, fc := slimeFixture(t, nil)
	parents := []ecs.Entity{
		sc.Add(SlimeSeed{X: 100, Y: 100, Energy: 150, Path: components.SkillVision}),
		sc.Add(SlimeSeed{X: 100, Y: 100, Energy: 150, Path: components.SkillVision}),
		sc.Add(SlimeSeed{X: 100, Y: 100, Energy: 150, Path: components.SkillVision}),
	}

	report := sc.Update(sc.cfg.Breeding.Cooldown+100, fc)

	if report.Breedings != 1 || report.Births != 1 {
		t.Errorf("report = %+v, want one breeding and one birth", report)
	}
	if sc.Count() != 4 {
		t.Errorf("count = %d, want 4", sc.Count())
	}
	breeding := 0
	for _, e := range parents {
		if mustGet(t, sc, e).State == components.StateBreeding {
			breeding++
		}
	}
	if breeding != 2 {
		t.Errorf("%d parents breeding, want 2", breeding)
	}
}

func TestSlimeUpdate_JumpRangeFromCenter(t *testing.T) {
	tests := []struct {
		name   string
		offset float32 // food distance past the slime centre
		jumps  bool
	}{
		{"inside jump distance", -1, true},
		{"past jump distance within body", 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, fc := slimeFixture(t, func(c *config.Config) {
				c.Slime.SpeedFactor = 0
			})
			sc.Add(SlimeSeed{X: 100, Y: 100, Energy: 40, Path: components.SkillVision})
			fc.Place(100+float32(sc.cfg.Jump.Distance)+tt.offset, 100, 5)

			report := sc.Update(sc.cfg.Jump.Cooldown+1, fc)

			if got := report.Jumps == 1; got != tt.jumps {
				t.Errorf("jumped = %v, want %v", got, tt.jumps)
			}
		})
	}
}

func TestSlimeUpdate_EvolutionMonotone(t *testing.T) {
	sc, fc := slimeFixture(t, func(c *config.Config) {
		c.Skills.Cap = 3
		c.Skills.EvolveRequirement = 50
		c.Skills.EvolveIncrement = 50
		c.Breeding.Threshold = 10_000
	})
	e := sc.Add(SlimeSeed{X: 100, Y: 100, Energy: 1000, Path: components.SkillEfficiency})

	prev := mustGet(t, sc, e)
	for tick := int64(1); tick <= 3; tick++ {
		report := sc.Update(tick, fc)
		cur := mustGet(t, sc, e)
		if got, want := cur.Skills.Level(components.SkillEfficiency), prev.Skills.Level(components.SkillEfficiency)+1; got != want {
			t.Fatalf("tick %d: level = %d, want %d", tick, got, want)
		}
		if cur.NextEvolution <= prev.NextEvolution {
			t.Fatalf("tick %d: threshold %v did not increase from %v", tick, cur.NextEvolution, prev.NextEvolution)
		}
		if report.Evolutions != 1 {
			t.Fatalf("tick %d: evolutions = %d, want 1", tick, report.Evolutions)
		}
		prev = cur
	}

	if !math.IsInf(float64(prev.NextEvolution), 1) {
		t.Errorf("threshold at cap = %v, want +Inf", prev.NextEvolution)
	}
	sc.Update(4, fc)
	if got := mustGet(t, sc, e).Skills.Total(); got != 3 {
		t.Errorf("total after cap = %d, want 3", got)
	}
}

func TestSlimeUpdate_TimeCostRemovesStarved(t *testing.T) {
	sc, fc := slimeFixture(t, func(c *config.Config) { c.Slime.TimeCostInterval = 30 })
	weak := sc.Add(SlimeSeed{X: 100, Y: 100, Energy: 1, Path: components.SkillVision})
	strong := sc.Add(SlimeSeed{X: 200, Y: 200, Energy: 5, Path: components.SkillVision})

	report := sc.Update(10, fc)
	if report.TimeCost || report.Deaths != 0 {
		t.Fatalf("upkeep charged before its interval: %+v", report)
	}

	report = sc.Update(30, fc)
	if !report.TimeCost || report.Deaths != 1 {
		t.Errorf("report = %+v, want upkeep with one death", report)
	}
	if _, ok := sc.Get(weak); ok {
		t.Error("starved slime still alive")
	}
	if got := mustGet(t, sc, strong).Energy; got != 4 {
		t.Errorf("survivor energy = %v, want 4", got)
	}
	if sc.Count() != 1 {
		t.Errorf("count = %d, want 1", sc.Count())
	}
}

func TestSlimeController_NearestAndTotals(t *testing.T) {
	sc, _ := slimeFixture(t, nil)
	sc.Add(SlimeSeed{X: 10, Y: 10, Energy: 30, Path: components.SkillVision, Skills: components.Skills{Levels: [3]uint8{2, 1, 0}}})
	far := sc.Add(SlimeSeed{X: 300, Y: 200, Energy: 50, Path: components.SkillJumper, Skills: components.Skills{Levels: [3]uint8{0, 0, 3}}})

	v, ok := sc.Nearest(310, 200)
	if !ok || v.Entity != far {
		t.Errorf("Nearest = (%v, %v), want far slime", v.ID, ok)
	}
	if _, ok := sc.Nearest(150, 150); ok {
		t.Error("found a slime outside every vision radius")
	}

	if got := sc.SkillTotals(); got != [3]int{2, 1, 3} {
		t.Errorf("SkillTotals = %v, want [2 1 3]", got)
	}
	if got := sc.TotalEnergy(); got != 80 {
		t.Errorf("TotalEnergy = %v, want 80", got)
	}
	if maxSkill, _ := sc.Extremes(); maxSkill != 3 {
		t.Errorf("max skill total = %d, want 3", maxSkill)
	}
	if got := sc.Energies(nil); len(got) != 2 {
		t.Errorf("Energies returned %d values, want 2", len(got))
	}

	sc.Reset()
	if sc.Count() != 0 || len(sc.Snapshot()) != 0 {
		t.Error("Reset left slimes behind")
	}
}

func TestSlimeController_SpawnN(t *testing.T) {
	sc, _ := slimeFixture(t, nil)
	sc.SpawnN(12, 0)
	if sc.Count() != 12 {
		t.Fatalf("count = %d, want 12", sc.Count())
	}
	for _, v := range sc.Snapshot() {
		if v.Energy != float32(sc.cfg.Slime.InitialEnergy) {
			t.Errorf("spawned energy = %v", v.Energy)
		}
		if !sc.bounds.Contains(v.X, v.Y) {
			t.Errorf("spawned outside field at (%v, %v)", v.X, v.Y)
		}
	}
}

func mustGet(t *testing.T, sc *SlimeController, e ecs.Entity) SlimeView {
	t.Helper()
	v, ok := sc.Get(e)
	if !ok {
		t.Fatalf("slime %v not alive", e)
	}
	return v
}
