package systems

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/pthm-cable/slimes/config"
)

// Food is a drifting energy pellet. Direction is fixed for life; the speed
// magnitude grows with energy.
type Food struct {
	ID         uint32
	X, Y       float32
	Energy     float32
	VelX, VelY float32
	Eaten      bool // claimed this tick, dropped by Compact
}

// FoodView is the read-only rendering state of a food item.
type FoodView struct {
	ID     uint32
	X, Y   float32
	Energy float32
	Radius float32
}

// FoodController manages the food population outside the ECS.
type FoodController struct {
	Population []Food

	cfg       config.FoodConfig
	bounds    Bounds
	rng       *rand.Rand
	lastSpawn int64
	nextID    uint32
	live      int
}

// NewFoodController creates a food controller. The config must describe
// ordered ranges, a non-negative cap and a spawn interval of at least one tick.
func NewFoodController(cfg config.FoodConfig, bounds Bounds, rng *rand.Rand) (*FoodController, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return nil, fmt.Errorf("food bounds %vx%v: %w", bounds.Width, bounds.Height, config.ErrInvalidRange)
	}
	return &FoodController{
		Population: make([]Food, 0, cfg.Cap),
		cfg:        cfg,
		bounds:     bounds,
		rng:        rng,
	}, nil
}

// SetConfig replaces the spawn parameters. Existing food keeps its energy and
// velocity; the newest items are dropped when the cap shrinks below the live count.
func (fc *FoodController) SetConfig(cfg config.FoodConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	fc.cfg = cfg
	if fc.live > cfg.Cap {
		fc.Compact()
		fc.Population = fc.Population[:cfg.Cap]
		fc.live = cfg.Cap
	}
	return nil
}

// Config returns the active spawn parameters.
func (fc *FoodController) Config() config.FoodConfig {
	return fc.cfg
}

// Update moves every live food item and runs the spawn check.
// At most one item spawns per call, however many intervals have elapsed.
// Returns true if an item spawned.
func (fc *FoodController) Update(tick int64) bool {
	for i := range fc.Population {
		f := &fc.Population[i]
		if f.Eaten {
			continue
		}
		f.X, f.Y = fc.bounds.Wrap(f.X+f.VelX, f.Y+f.VelY)
	}

	if tick-fc.lastSpawn < fc.cfg.SpawnInterval || !fc.Spawn() {
		return false
	}
	fc.lastSpawn = tick
	return true
}

// Spawn creates one food item at a random point. Returns false at the cap.
func (fc *FoodController) Spawn() bool {
	if fc.live >= fc.cfg.Cap {
		return false
	}
	x, y := fc.bounds.RandomPoint(fc.rng)

	emin, emax := float32(fc.cfg.EnergyMin), float32(fc.cfg.EnergyMax)
	energy := emin + fc.rng.Float32()*(emax-emin)
	speed := fc.speedFor(energy)
	vx, vy := PolarToCartesian(speed, RandomAngle(fc.rng))

	fc.add(Food{X: x, Y: y, Energy: energy, VelX: vx, VelY: vy})
	return true
}

// SpawnN spawns up to n items, stopping at the cap. Returns the number spawned.
func (fc *FoodController) SpawnN(n int) int {
	spawned := 0
	for i := 0; i < n; i++ {
		if !fc.Spawn() {
			break
		}
		spawned++
	}
	return spawned
}

// Place puts a stationary food item at an exact position. Returns false at the cap.
func (fc *FoodController) Place(x, y, energy float32) bool {
	if fc.live >= fc.cfg.Cap {
		return false
	}
	x, y = fc.bounds.Wrap(x, y)
	fc.add(Food{X: x, Y: y, Energy: energy})
	return true
}

func (fc *FoodController) add(f Food) {
	fc.nextID++
	f.ID = fc.nextID
	fc.Population = append(fc.Population, f)
	fc.live++
}

// speedFor maps energy linearly onto the speed range.
func (fc *FoodController) speedFor(energy float32) float32 {
	emin, emax := float32(fc.cfg.EnergyMin), float32(fc.cfg.EnergyMax)
	smin, smax := float32(fc.cfg.SpeedMin), float32(fc.cfg.SpeedMax)
	if emax <= emin {
		return smin
	}
	t := clampFloat((energy-emin)/(emax-emin), 0, 1)
	return Lerp(smin, smax, t)
}

// Nearest returns the index of the closest uneaten food within radius of (x, y).
func (fc *FoodController) Nearest(x, y, radius float32) (idx int, dist float32, ok bool) {
	return NearestFood(fc.Population, x, y, radius)
}

// NearestFood returns the index of the closest uneaten item of foods within
// radius of (x, y). Ties keep the earliest item.
func NearestFood(foods []Food, x, y, radius float32) (idx int, dist float32, ok bool) {
	best := -1
	bestDistSq := radius * radius
	for i := range foods {
		f := &foods[i]
		if f.Eaten {
			continue
		}
		d := distanceSq(x, y, f.X, f.Y)
		if d < bestDistSq || (best < 0 && d == bestDistSq) {
			best = i
			bestDistSq = d
		}
	}
	if best < 0 {
		return -1, 0, false
	}
	return best, float32(math.Sqrt(float64(bestDistSq))), true
}

// Eat claims the food at idx and returns its energy. A second claim in the
// same tick, or an out-of-range index, returns ok == false.
func (fc *FoodController) Eat(idx int) (energy float32, ok bool) {
	if idx < 0 || idx >= len(fc.Population) {
		return 0, false
	}
	f := &fc.Population[idx]
	if f.Eaten {
		return 0, false
	}
	f.Eaten = true
	fc.live--
	return f.Energy, true
}

// Compact removes eaten food in place, preserving order.
func (fc *FoodController) Compact() int {
	alive := 0
	for i := range fc.Population {
		if fc.Population[i].Eaten {
			continue
		}
		fc.Population[alive] = fc.Population[i]
		alive++
	}
	removed := len(fc.Population) - alive
	fc.Population = fc.Population[:alive]
	return removed
}

// Len returns the population slice length, including items eaten this tick.
func (fc *FoodController) Len() int {
	return len(fc.Population)
}

// Live returns the number of uneaten food items.
func (fc *FoodController) Live() int {
	return fc.live
}

// Reset removes all food and restarts the spawn cadence at tick 0.
func (fc *FoodController) Reset() {
	fc.Population = fc.Population[:0]
	fc.live = 0
	fc.lastSpawn = 0
}

// ResetTime restarts the spawn cadence from tick.
func (fc *FoodController) ResetTime(tick int64) {
	fc.lastSpawn = tick
}

// TotalEnergy returns the energy held by uneaten food.
func (fc *FoodController) TotalEnergy() float32 {
	var total float32
	for i := range fc.Population {
		if !fc.Population[i].Eaten {
			total += fc.Population[i].Energy
		}
	}
	return total
}

// Snapshot returns the rendering state of all uneaten food.
func (fc *FoodController) Snapshot() []FoodView {
	views := make([]FoodView, 0, fc.live)
	r := float32(fc.cfg.Radius)
	for i := range fc.Population {
		f := &fc.Population[i]
		if f.Eaten {
			continue
		}
		views = append(views, FoodView{ID: f.ID, X: f.X, Y: f.Y, Energy: f.Energy, Radius: r})
	}
	return views
}
