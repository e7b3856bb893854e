// Package telemetry provides windowed population statistics, bookmarks and CSV output.
package telemetry

import "math"

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int64
	dt                  float32

	// Current window tracking
	windowStartTick int64

	// Event counters for current window
	births      int
	deaths      int
	breedings   int
	jumps       int
	evolutions  int
	foodSpawned int
	foodEaten   int
	energyEaten float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int64(math.Round(windowDurationSec / float64(dt)))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordBirths records children appended this tick.
func (c *Collector) RecordBirths(n int) {
	c.births += n
}

// RecordDeaths records slimes removed by upkeep.
func (c *Collector) RecordDeaths(n int) {
	c.deaths += n
}

// RecordBreedings records completed matings.
func (c *Collector) RecordBreedings(n int) {
	c.breedings += n
}

// RecordJumps records jumps onto food.
func (c *Collector) RecordJumps(n int) {
	c.jumps += n
}

// RecordEvolutions records skill levels gained.
func (c *Collector) RecordEvolutions(n int) {
	c.evolutions += n
}

// RecordFoodSpawn records a food item created by the spawn cadence or an action.
func (c *Collector) RecordFoodSpawn(n int) {
	c.foodSpawned += n
}

// RecordFoodEaten records food consumed and the energy it carried.
func (c *Collector) RecordFoodEaten(n int, energy float32) {
	c.foodEaten += n
	c.energyEaten += float64(energy)
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Population holds the state sampled at window end.
type Population struct {
	Slimes      int
	Food        int
	FoodEnergy  float64
	Energies    []float64 // one entry per slime
	SkillTotals [3]int    // vision, efficiency, jumper
	MaxSkill    int       // highest per-slime skill total
	MaxGen      int32
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int64, pop Population) WindowStats {
	es := ComputeEnergyStats(pop.Energies)

	var slimeEnergy float64
	for _, e := range pop.Energies {
		slimeEnergy += e
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Slimes: pop.Slimes,
		Food:   pop.Food,

		Births:      c.births,
		Deaths:      c.deaths,
		Breedings:   c.breedings,
		Jumps:       c.jumps,
		Evolutions:  c.evolutions,
		FoodSpawned: c.foodSpawned,
		FoodEaten:   c.foodEaten,
		EnergyEaten: c.energyEaten,

		EnergyMean: es.Mean,
		EnergyStd:  es.Std,
		EnergyP10:  es.P10,
		EnergyP50:  es.P50,
		EnergyP90:  es.P90,

		SlimeEnergy: slimeEnergy,
		FoodEnergy:  pop.FoodEnergy,

		VisionTotal:     pop.SkillTotals[0],
		EfficiencyTotal: pop.SkillTotals[1],
		JumperTotal:     pop.SkillTotals[2],
		MaxSkill:        pop.MaxSkill,
		MaxGeneration:   int(pop.MaxGen),
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.births = 0
	c.deaths = 0
	c.breedings = 0
	c.jumps = 0
	c.evolutions = 0
	c.foodSpawned = 0
	c.foodEaten = 0
	c.energyEaten = 0

	return stats
}

// Reset restarts the current window at tick and clears its counters.
func (c *Collector) Reset(tick int64) {
	c.Flush(tick, Population{})
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int64 {
	return c.windowDurationTicks
}

// WindowStartTick returns the tick the current window started at.
func (c *Collector) WindowStartTick() int64 {
	return c.windowStartTick
}
