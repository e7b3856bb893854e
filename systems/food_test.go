package systems

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/slimes/config"
)

func testFoodConfig() config.FoodConfig {
	return config.FoodConfig{
		SpawnInterval: 12,
		Cap:           10,
		EnergyMin:     1,
		EnergyMax:     10,
		SpeedMin:      0.2,
		SpeedMax:      1.2,
		Radius:        4,
	}
}

func newTestFood(t *testing.T, cfg config.FoodConfig) *FoodController {
	t.Helper()
	fc, err := NewFoodController(cfg, Bounds{Width: 200, Height: 100}, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("NewFoodController: %v", err)
	}
	return fc
}

func TestNewFoodController_RejectsBadRanges(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.FoodConfig)
	}{
		{"energy min > max", func(c *config.FoodConfig) { c.EnergyMin = 11 }},
		{"speed min > max", func(c *config.FoodConfig) { c.SpeedMin = 2 }},
		{"negative cap", func(c *config.FoodConfig) { c.Cap = -1 }},
		{"zero interval", func(c *config.FoodConfig) { c.SpawnInterval = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testFoodConfig()
			tt.mutate(&cfg)
			_, err := NewFoodController(cfg, Bounds{Width: 10, Height: 10}, rand.New(rand.NewSource(1)))
			if !errors.Is(err, config.ErrInvalidRange) {
				t.Errorf("expected ErrInvalidRange, got %v", err)
			}
		})
	}
}

func TestFoodUpdate_PopulationCap(t *testing.T) {
	cfg := testFoodConfig()
	cfg.SpawnInterval = 1
	cfg.Cap = 5
	fc := newTestFood(t, cfg)

	for tick := int64(1); tick <= 200; tick++ {
		fc.Update(tick)
		if fc.Len() > cfg.Cap {
			t.Fatalf("tick %d: population %d exceeds cap %d", tick, fc.Len(), cfg.Cap)
		}
	}
	if fc.Live() != cfg.Cap {
		t.Errorf("expected population to fill to cap %d, got %d", cfg.Cap, fc.Live())
	}
}

func TestFoodUpdate_AtMostOneSpawnPerCheck(t *testing.T) {
	fc := newTestFood(t, testFoodConfig())

	// Many intervals elapsed at once: still a single spawn.
	if !fc.Update(1000) {
		t.Fatal("expected a spawn after long gap")
	}
	if fc.Live() != 1 {
		t.Fatalf("expected 1 spawn after long gap, got %d", fc.Live())
	}
	if fc.Update(1005) || fc.Live() != 1 {
		t.Errorf("spawned before interval elapsed: %d", fc.Live())
	}
	fc.Update(1012)
	if fc.Live() != 2 {
		t.Errorf("expected second spawn at interval, got %d", fc.Live())
	}
}

func TestFoodSpawn_SpeedWithinRangeAndMonotone(t *testing.T) {
	cfg := testFoodConfig()
	cfg.Cap = 500
	fc := newTestFood(t, cfg)
	fc.SpawnN(500)

	for _, f := range fc.Population {
		speed := velocityMagnitude(f.VelX, f.VelY)
		if speed < float32(cfg.SpeedMin)-1e-5 || speed > float32(cfg.SpeedMax)+1e-5 {
			t.Errorf("food speed %v outside [%v, %v]", speed, cfg.SpeedMin, cfg.SpeedMax)
		}
		if f.Energy < float32(cfg.EnergyMin) || f.Energy > float32(cfg.EnergyMax) {
			t.Errorf("food energy %v outside range", f.Energy)
		}
	}

	prev := fc.speedFor(1)
	for e := float32(1); e <= 10; e += 0.25 {
		s := fc.speedFor(e)
		if s < prev {
			t.Fatalf("speed not monotone at energy %v", e)
		}
		prev = s
	}
}

func TestFoodSpawn_DegenerateEnergyRange(t *testing.T) {
	cfg := testFoodConfig()
	cfg.EnergyMin, cfg.EnergyMax = 5, 5
	fc := newTestFood(t, cfg)
	if got := fc.speedFor(5); got != float32(cfg.SpeedMin) {
		t.Errorf("speed = %v, want speed min %v", got, cfg.SpeedMin)
	}
}

func TestFoodSpawnN_RespectsCap(t *testing.T) {
	fc := newTestFood(t, testFoodConfig())
	if got := fc.SpawnN(25); got != 10 {
		t.Errorf("SpawnN returned %d, want 10", got)
	}
	if fc.Spawn() {
		t.Error("Spawn succeeded at cap")
	}
}

func TestFoodNearest(t *testing.T) {
	fc := newTestFood(t, testFoodConfig())
	fc.Place(0, 0, 1)
	fc.Place(2, 2, 1)
	fc.Place(10, 10, 1)

	idx, dist, ok := fc.Nearest(5, 5, 100)
	if !ok {
		t.Fatal("expected a nearest food")
	}
	f := fc.Population[idx]
	if f.X != 2 || f.Y != 2 {
		t.Errorf("nearest = (%v, %v), want (2, 2)", f.X, f.Y)
	}
	if math.Abs(float64(dist)-4.2426) > 1e-3 {
		t.Errorf("distance = %v, want ~4.243", dist)
	}

	if _, _, ok := fc.Nearest(5, 5, 4); ok {
		t.Error("found food outside radius")
	}
}

func TestFoodEat_ClaimOnce(t *testing.T) {
	fc := newTestFood(t, testFoodConfig())
	fc.Place(1, 1, 3)

	e, ok := fc.Eat(0)
	if !ok || e != 3 {
		t.Fatalf("first Eat = (%v, %v), want (3, true)", e, ok)
	}
	if _, ok := fc.Eat(0); ok {
		t.Error("food claimed twice")
	}
	if _, _, ok := fc.Nearest(1, 1, 10); ok {
		t.Error("eaten food still visible to Nearest")
	}
	if fc.Live() != 0 || fc.Len() != 1 {
		t.Errorf("live=%d len=%d, want 0 and 1 before compaction", fc.Live(), fc.Len())
	}
	if removed := fc.Compact(); removed != 1 || fc.Len() != 0 {
		t.Errorf("Compact removed %d, len now %d", removed, fc.Len())
	}
}

func TestFoodUpdate_MovesAndWraps(t *testing.T) {
	fc := newTestFood(t, testFoodConfig())
	fc.Place(199.5, 50, 1)
	fc.Population[0].VelX = 1

	fc.Update(1)
	if got := fc.Population[0].X; got != 0 {
		t.Errorf("x after crossing edge = %v, want 0", got)
	}
}

func TestFoodSetConfig_ShrinksToCap(t *testing.T) {
	fc := newTestFood(t, testFoodConfig())
	fc.SpawnN(10)

	cfg := testFoodConfig()
	cfg.Cap = 4
	if err := fc.SetConfig(cfg); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	if fc.Len() != 4 || fc.Live() != 4 {
		t.Errorf("len=%d live=%d, want 4", fc.Len(), fc.Live())
	}

	cfg.EnergyMin = 20
	if err := fc.SetConfig(cfg); err == nil {
		t.Error("expected invalid range to be rejected")
	}
}

func TestFoodReset(t *testing.T) {
	fc := newTestFood(t, testFoodConfig())
	fc.SpawnN(5)
	fc.Reset()
	if fc.Len() != 0 || fc.Live() != 0 || fc.TotalEnergy() != 0 {
		t.Errorf("reset left len=%d live=%d energy=%v", fc.Len(), fc.Live(), fc.TotalEnergy())
	}
}
