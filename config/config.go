// Package config provides configuration loading and validation for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalidRange is wrapped by every validation error.
var ErrInvalidRange = errors.New("invalid configuration")

// Config holds all simulation configuration parameters.
// The simulation reads it at the start of every tick, so UI code may mutate
// fields between ticks.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Population PopulationConfig `yaml:"population"`
	Food       FoodConfig       `yaml:"food"`
	Slime      SlimeConfig      `yaml:"slime"`
	Jump       JumpConfig       `yaml:"jump"`
	Breeding   BreedingConfig   `yaml:"breeding"`
	Skills     SkillsConfig     `yaml:"skills"`
	Simulation SimulationConfig `yaml:"simulation"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the field dimensions.
type WorldConfig struct {
	Width  int `yaml:"width"`  // 0 = use screen width
	Height int `yaml:"height"` // 0 = use screen height
}

// PhysicsConfig holds clock parameters.
type PhysicsConfig struct {
	DT float64 `yaml:"dt"` // seconds per tick
}

// PopulationConfig holds the reseed counts used at startup and on reset.
type PopulationConfig struct {
	InitialFood   int `yaml:"initial_food"`
	InitialSlimes int `yaml:"initial_slimes"`
}

// FoodConfig holds food spawning parameters.
type FoodConfig struct {
	SpawnInterval int64   `yaml:"spawn_interval"` // ticks
	Cap           int     `yaml:"cap"`
	EnergyMin     float64 `yaml:"energy_min"`
	EnergyMax     float64 `yaml:"energy_max"`
	SpeedMin      float64 `yaml:"speed_min"`
	SpeedMax      float64 `yaml:"speed_max"`
	Radius        float64 `yaml:"radius"` // draw radius only
}

// SlimeConfig holds slime movement and metabolism parameters.
type SlimeConfig struct {
	SpeedFactor           float64 `yaml:"speed_factor"`
	InitialEnergy         float64 `yaml:"initial_energy"` // also the per-parent breeding cost
	StepCost              float64 `yaml:"step_cost"`
	VisionRange           float64 `yaml:"vision_range"`
	FreeMovementThreshold float64 `yaml:"free_movement_threshold"`
	TimeCostInterval      int64   `yaml:"time_cost_interval"` // ticks
	CostScaleEnergy       float64 `yaml:"cost_scale_energy"`  // step cost multiplier = max(1, energy/this)
	SizeDivisor           float64 `yaml:"size_divisor"`
	SizeMin               float64 `yaml:"size_min"`
	SizeMax               float64 `yaml:"size_max"`
}

// JumpConfig holds jump parameters.
type JumpConfig struct {
	Requirement float64 `yaml:"requirement"`
	Cost        float64 `yaml:"cost"`
	Cooldown    int64   `yaml:"cooldown"` // ticks
	Distance    float64 `yaml:"distance"`
}

// BreedingConfig holds breeding parameters.
type BreedingConfig struct {
	Threshold float64 `yaml:"threshold"`
	Cooldown  int64   `yaml:"cooldown"` // ticks
}

// SkillsConfig holds evolution and skill-strength parameters.
type SkillsConfig struct {
	Cap                int     `yaml:"cap"` // maximum total skill levels per slime
	EvolveRequirement  float64 `yaml:"evolve_requirement"`
	EvolveIncrement    float64 `yaml:"evolve_increment"`
	VisionStrength     float64 `yaml:"vision_strength"`
	VisionSpeedShare   float64 `yaml:"vision_speed_share"` // fraction of vision strength applied to speed
	EfficiencyStrength float64 `yaml:"efficiency_strength"`
	JumperStrength     float64 `yaml:"jumper_strength"`
}

// SimulationConfig holds host-loop parameters.
type SimulationConfig struct {
	Speed    int `yaml:"speed"` // ticks per rendered frame
	MaxSpeed int `yaml:"max_speed"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // seconds of simulated time
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32     float32
	WorldW32 float32
	WorldH32 float32
}

// Default returns a config built from the embedded defaults only.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Clone returns a deep copy of the config.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)

	// World dimensions default to screen size if not specified
	worldW := c.World.Width
	if worldW == 0 {
		worldW = c.Screen.Width
	}
	worldH := c.World.Height
	if worldH == 0 {
		worldH = c.Screen.Height
	}
	c.Derived.WorldW32 = float32(worldW)
	c.Derived.WorldH32 = float32(worldH)
}

// Validate reports the first contract violation in the config.
func (c *Config) Validate() error {
	if c.Derived.WorldW32 <= 0 || c.Derived.WorldH32 <= 0 {
		return fmt.Errorf("world size %vx%v: %w", c.Derived.WorldW32, c.Derived.WorldH32, ErrInvalidRange)
	}
	if c.Physics.DT <= 0 {
		return fmt.Errorf("physics.dt must be positive: %w", ErrInvalidRange)
	}
	if c.Population.InitialFood < 0 || c.Population.InitialSlimes < 0 {
		return fmt.Errorf("population counts must be non-negative: %w", ErrInvalidRange)
	}
	if err := c.Food.Validate(); err != nil {
		return err
	}
	if err := c.Slime.Validate(); err != nil {
		return err
	}
	if c.Jump.Cooldown < 0 || c.Jump.Distance < 0 || c.Jump.Cost < 0 {
		return fmt.Errorf("jump parameters must be non-negative: %w", ErrInvalidRange)
	}
	if c.Jump.Requirement < c.Jump.Cost {
		return fmt.Errorf("jump.requirement %v below jump.cost %v: %w", c.Jump.Requirement, c.Jump.Cost, ErrInvalidRange)
	}
	if c.Breeding.Cooldown < 0 {
		return fmt.Errorf("breeding.cooldown must be non-negative: %w", ErrInvalidRange)
	}
	// Each parent pays initial_energy to breed.
	if c.Breeding.Threshold < c.Slime.InitialEnergy {
		return fmt.Errorf("breeding.threshold %v below slime.initial_energy %v: %w",
			c.Breeding.Threshold, c.Slime.InitialEnergy, ErrInvalidRange)
	}
	if c.Skills.Cap < 1 || c.Skills.Cap > 255 {
		return fmt.Errorf("skills.cap %d outside [1, 255]: %w", c.Skills.Cap, ErrInvalidRange)
	}
	if c.Skills.EvolveIncrement <= 0 {
		return fmt.Errorf("skills.evolve_increment must be positive: %w", ErrInvalidRange)
	}
	if c.Simulation.Speed < 1 || c.Simulation.MaxSpeed < c.Simulation.Speed {
		return fmt.Errorf("simulation speed %d / max %d: %w", c.Simulation.Speed, c.Simulation.MaxSpeed, ErrInvalidRange)
	}
	return nil
}

// Validate reports range and cadence violations in the food parameters.
func (f FoodConfig) Validate() error {
	if f.SpawnInterval < 1 {
		return fmt.Errorf("food.spawn_interval %d must be at least 1 tick: %w", f.SpawnInterval, ErrInvalidRange)
	}
	if f.Cap < 0 {
		return fmt.Errorf("food.cap %d must be non-negative: %w", f.Cap, ErrInvalidRange)
	}
	if f.EnergyMin > f.EnergyMax {
		return fmt.Errorf("food energy range [%v, %v]: %w", f.EnergyMin, f.EnergyMax, ErrInvalidRange)
	}
	if f.SpeedMin > f.SpeedMax || f.SpeedMin < 0 {
		return fmt.Errorf("food speed range [%v, %v]: %w", f.SpeedMin, f.SpeedMax, ErrInvalidRange)
	}
	return nil
}

// Validate reports violations in the slime parameters.
func (s SlimeConfig) Validate() error {
	if s.TimeCostInterval < 1 {
		return fmt.Errorf("slime.time_cost_interval %d must be at least 1 tick: %w", s.TimeCostInterval, ErrInvalidRange)
	}
	if s.SizeDivisor <= 0 {
		return fmt.Errorf("slime.size_divisor must be positive: %w", ErrInvalidRange)
	}
	if s.SizeMin > s.SizeMax || s.SizeMin < 0 {
		return fmt.Errorf("slime size range [%v, %v]: %w", s.SizeMin, s.SizeMax, ErrInvalidRange)
	}
	if s.CostScaleEnergy <= 0 {
		return fmt.Errorf("slime.cost_scale_energy must be positive: %w", ErrInvalidRange)
	}
	if s.SpeedFactor < 0 || s.StepCost < 0 || s.VisionRange < 0 {
		return fmt.Errorf("slime speed, step cost and vision must be non-negative: %w", ErrInvalidRange)
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
