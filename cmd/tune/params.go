package main

import (
	"math"

	"github.com/pthm-cable/slimes/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // CSV column and log name
	Path    string  // YAML path
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Integer bool    // rounded before it reaches the config
}

// ParamVector holds the set of tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable slime and food parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Movement and metabolism
			{Name: "speed_factor", Path: "slime.speed_factor", Min: 1.0, Max: 5.0},
			{Name: "step_cost", Path: "slime.step_cost", Min: 0.02, Max: 0.3},
			{Name: "vision_range", Path: "slime.vision_range", Min: 20, Max: 120},
			{Name: "free_movement_threshold", Path: "slime.free_movement_threshold", Min: 0, Max: 15},
			{Name: "time_cost_interval", Path: "slime.time_cost_interval", Min: 10, Max: 120, Integer: true},
			// Jumping
			{Name: "jump_cost", Path: "jump.cost", Min: 1, Max: 15},
			{Name: "jump_distance", Path: "jump.distance", Min: 40, Max: 200},
			// Breeding and evolution
			{Name: "breed_threshold", Path: "breeding.threshold", Min: 60, Max: 200},
			{Name: "breed_cooldown", Path: "breeding.cooldown", Min: 60, Max: 900, Integer: true},
			{Name: "evolve_requirement", Path: "skills.evolve_requirement", Min: 20, Max: 150},
			// Food supply
			{Name: "food_spawn_interval", Path: "food.spawn_interval", Min: 2, Max: 40, Integer: true},
			{Name: "food_energy_max", Path: "food.energy_max", Min: 5, Max: 20},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// Normalize converts raw parameter values to the [0,1] search space.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts search-space values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp bounds every value and rounds integer parameters.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := min(max(v[i], spec.Min), spec.Max)
		if spec.Integer {
			val = math.Round(val)
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig writes parameter values into cfg. Order matches Specs.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)
	i := 0

	cfg.Slime.SpeedFactor = c[i]; i++
	cfg.Slime.StepCost = c[i]; i++
	cfg.Slime.VisionRange = c[i]; i++
	cfg.Slime.FreeMovementThreshold = c[i]; i++
	cfg.Slime.TimeCostInterval = int64(c[i]); i++

	cfg.Jump.Cost = min(c[i], cfg.Jump.Requirement); i++
	cfg.Jump.Distance = c[i]; i++

	cfg.Breeding.Threshold = max(c[i], cfg.Slime.InitialEnergy); i++
	cfg.Breeding.Cooldown = int64(c[i]); i++
	cfg.Skills.EvolveRequirement = c[i]; i++

	cfg.Food.SpawnInterval = int64(c[i]); i++
	cfg.Food.EnergyMax = max(c[i], cfg.Food.EnergyMin)
}

// ExtractFromConfig reads the current parameter values from cfg, clamped
// to the search bounds.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return pv.Clamp([]float64{
		cfg.Slime.SpeedFactor,
		cfg.Slime.StepCost,
		cfg.Slime.VisionRange,
		cfg.Slime.FreeMovementThreshold,
		float64(cfg.Slime.TimeCostInterval),
		cfg.Jump.Cost,
		cfg.Jump.Distance,
		cfg.Breeding.Threshold,
		float64(cfg.Breeding.Cooldown),
		cfg.Skills.EvolveRequirement,
		float64(cfg.Food.SpawnInterval),
		cfg.Food.EnergyMax,
	})
}
