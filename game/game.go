// Package game owns the simulation clock: it ticks the food and slime
// controllers in order, runs telemetry, and exposes read-only views for the
// renderer and UI.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/slimes/camera"
	"github.com/pthm-cable/slimes/config"
	"github.com/pthm-cable/slimes/systems"
	"github.com/pthm-cable/slimes/telemetry"
	"github.com/pthm-cable/slimes/ui"
)

// Options configures a Game beyond what the YAML config holds.
type Options struct {
	Seed           int64
	Headless       bool
	StepsPerUpdate int     // ticks per UpdateHeadless call (default 1)
	LogStats       bool    // log window stats via slog
	StatsWindow    float64 // window length in seconds (0 = config)
	OutputDir      string  // CSV and config output (empty = disabled)

	// Startup overrides; 0 keeps the config value.
	InitialFood   int
	InitialSlimes int
	FoodCap       int

	// StatsCallback is called with every flushed window.
	StatsCallback func(telemetry.WindowStats)
}

// Status is the HUD readout of the simulation.
type Status struct {
	Tick        int64
	SimTime     float64 // seconds
	Slimes      int
	Food        int
	FoodCap     int
	SkillTotals [3]int
	Speed       int
	Paused      bool
}

// Game holds the complete simulation state.
type Game struct {
	cfg    *config.Config
	rng    *rand.Rand
	seed   int64
	bounds systems.Bounds

	food   *systems.FoodController
	slimes *systems.SlimeController

	// State
	tick           int64
	paused         bool
	stepsPerUpdate int

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	statsCallback    func(telemetry.WindowStats)
	logStats         bool
	energyBuf        []float64

	// Presentation, nil when headless
	cam      *camera.Camera
	copyBuf  []camera.Point
	hud      *ui.HUD
	controls *ui.ControlsPanel
	inspect  *ui.Inspector
	perf     *ui.PerfPanel
	overlays *ui.OverlayRegistry
	registry *systems.SystemRegistry
	hovered  systems.SlimeView
	hovering bool
}

// NewGame builds the controllers from cfg and seeds the initial populations.
// The game keeps cfg and reads it at the start of every tick.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	if cfg == nil {
		return nil, fmt.Errorf("game: nil config: %w", config.ErrInvalidRange)
	}
	if opts.InitialFood > 0 {
		cfg.Population.InitialFood = opts.InitialFood
	}
	if opts.InitialSlimes > 0 {
		cfg.Population.InitialSlimes = opts.InitialSlimes
	}
	if opts.FoodCap > 0 {
		cfg.Food.Cap = opts.FoodCap
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	bounds := systems.Bounds{Width: cfg.Derived.WorldW32, Height: cfg.Derived.WorldH32}

	food, err := systems.NewFoodController(cfg.Food, bounds, rng)
	if err != nil {
		return nil, fmt.Errorf("creating food controller: %w", err)
	}
	slimes, err := systems.NewSlimeController(cfg, bounds, rng)
	if err != nil {
		return nil, fmt.Errorf("creating slime controller: %w", err)
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindow > 0 {
		statsWindow = opts.StatsWindow
	}
	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	g := &Game{
		cfg:              cfg,
		rng:              rng,
		seed:             opts.Seed,
		bounds:           bounds,
		food:             food,
		slimes:           slimes,
		stepsPerUpdate:   steps,
		collector:        telemetry.NewCollector(statsWindow, cfg.Derived.DT32),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(10, cfg.Skills.Cap),
		statsCallback:    opts.StatsCallback,
		logStats:         opts.LogStats,
	}

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("creating output manager: %w", err)
		}
		g.outputManager = om
		if err := om.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config", "error", err)
		}
	}

	if !opts.Headless {
		g.cam = camera.New(float32(cfg.Screen.Width), float32(cfg.Screen.Height), cfg.Derived.WorldW32, cfg.Derived.WorldH32)
		g.hud = ui.NewHUD()
		g.controls = ui.NewControlsPanel(int32(cfg.Screen.Width)-270, 10, 260)
		g.inspect = ui.NewInspector(220)
		g.perf = ui.NewPerfPanel(int32(cfg.Screen.Width)-270, int32(cfg.Screen.Height)-140)
		g.overlays = ui.NewOverlayRegistry()
		g.registry = systems.NewSystemRegistry()
	}

	g.seedPopulation()
	return g, nil
}

// Step advances the simulation by one tick: food, then slimes against the
// food, then food compaction and telemetry.
func (g *Game) Step() {
	g.perfCollector.StartTick()
	g.tick++
	g.syncConfig()

	g.perfCollector.StartPhase(telemetry.PhaseFood)
	if g.food.Update(g.tick) {
		g.collector.RecordFoodSpawn(1)
	}

	g.perfCollector.StartPhase(telemetry.PhaseSlimes)
	report := g.slimes.Update(g.tick, g.food)

	g.perfCollector.StartPhase(telemetry.PhaseCompact)
	g.food.Compact()

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.recordReport(report)
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// Update is the per-frame host call: it handles input and runs Speed() ticks
// unless paused.
func (g *Game) Update() {
	g.handleInput()

	if g.paused {
		return
	}
	for i := 0; i < g.Speed(); i++ {
		g.Step()
	}
}

// UpdateHeadless runs StepsPerUpdate ticks unless paused. No raylib calls.
func (g *Game) UpdateHeadless() {
	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step()
	}
}

// SetSpeed sets the ticks per frame, clamped to [1, max_speed].
func (g *Game) SetSpeed(n int) {
	g.cfg.Simulation.Speed = min(max(n, 1), g.cfg.Simulation.MaxSpeed)
}

// Speed returns the ticks per frame.
func (g *Game) Speed() int {
	return g.cfg.Simulation.Speed
}

// TogglePause flips the paused state and returns it.
func (g *Game) TogglePause() bool {
	g.paused = !g.paused
	return g.paused
}

// Paused reports whether the simulation is paused.
func (g *Game) Paused() bool {
	return g.paused
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int64 {
	return g.tick
}

// Seed returns the RNG seed the game was created with.
func (g *Game) Seed() int64 {
	return g.seed
}

// Config returns the live configuration.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// Foods returns the rendering state of all food.
func (g *Game) Foods() []systems.FoodView {
	return g.food.Snapshot()
}

// Slimes returns the rendering state of all slimes.
func (g *Game) Slimes() []systems.SlimeView {
	return g.slimes.Snapshot()
}

// Status returns the HUD readout.
func (g *Game) Status() Status {
	return Status{
		Tick:        g.tick,
		SimTime:     float64(g.tick) * float64(g.cfg.Derived.DT32),
		Slimes:      g.slimes.Count(),
		Food:        g.food.Live(),
		FoodCap:     g.food.Config().Cap,
		SkillTotals: g.slimes.SkillTotals(),
		Speed:       g.Speed(),
		Paused:      g.paused,
	}
}

// Inspect returns the slime nearest to (x, y) among those whose size plus
// vision range covers the point.
func (g *Game) Inspect(x, y float32) (systems.SlimeView, bool) {
	return g.slimes.Nearest(x, y)
}

// Close flushes the partial telemetry window and closes output files.
// Calling it again is a no-op.
func (g *Game) Close() error {
	if g.tick > g.collector.WindowStartTick() {
		g.writeWindow()
	}
	err := g.outputManager.Close()
	g.outputManager = nil
	return err
}
