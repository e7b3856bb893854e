package main

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/slimes/config"
	"github.com/pthm-cable/slimes/game"
	"github.com/pthm-cable/slimes/telemetry"
)

// A single slime cannot breed, so a colony below two is functionally extinct
// once it has stayed there for the grace period.
const (
	minViablePop       = 2
	extinctionGraceSec = 20.0
	warmupSec          = 5.0
)

// Quality component weights.
const (
	qualityWeightPopulation = 0.35
	qualityWeightStability  = 0.25
	qualityWeightSkills     = 0.20
	qualityWeightEnergy     = 0.20

	qualityWarmupWindows = 2
	targetSlimes         = 40.0
)

// FitnessEvaluator runs headless simulations and scores a parameter vector.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int64
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	mu          sync.Mutex
	lastQuality float64
	lastSurvive float64 // mean survival in sim-seconds
}

// NewFitnessEvaluator creates an evaluator. baseCfg is never mutated.
func NewFitnessEvaluator(params *ParamVector, maxTicks int64, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 10.0,
	}
}

// LastQuality returns the mean quality from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// LastSurvival returns the mean survival in sim-seconds from the most recent evaluation.
func (fe *FitnessEvaluator) LastSurvival() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSurvive
}

// runResult holds the results of a single simulation run.
type runResult struct {
	survivalTicks int64
	windows       []telemetry.WindowStats
	err           error
}

// Evaluate computes fitness for raw parameter values (lower = better).
// Seeds run in parallel, each on its own config copy.
func (fe *FitnessEvaluator) Evaluate(raw []float64) float64 {
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(raw, s)
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality, totalSurvival float64
	for _, r := range results {
		if r.err != nil {
			// Invalid parameter combinations score as immediate extinction.
			continue
		}
		q := computeQuality(r.windows, fe.baseConfig.Skills.Cap)
		totalFitness += computeFitness(r.survivalTicks, q)
		totalQuality += q
		totalSurvival += float64(r.survivalTicks) * fe.baseConfig.Physics.DT
	}

	n := float64(len(fe.seeds))
	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.lastSurvive = totalSurvival / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation executes one headless run until functional extinction or maxTicks.
func (fe *FitnessEvaluator) runSimulation(raw []float64, seed int64) runResult {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, raw)

	var result runResult
	g, err := game.NewGame(cfg, game.Options{
		Seed:           seed,
		Headless:       true,
		StepsPerUpdate: 1,
		StatsWindow:    fe.statsWindow,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windows = append(result.windows, stats)
		},
	})
	if err != nil {
		result.err = fmt.Errorf("seed %d: %w", seed, err)
		return result
	}
	defer g.Close()

	dt := cfg.Physics.DT
	graceTicks := int64(math.Round(extinctionGraceSec / dt))
	warmupTicks := int64(math.Round(warmupSec / dt))
	var belowTicks int64

	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()
		tick := g.Tick()
		slimes := g.Status().Slimes

		if slimes == 0 {
			result.survivalTicks = tick
			return result
		}
		if tick < warmupTicks {
			continue
		}
		if slimes < minViablePop {
			belowTicks++
		} else {
			belowTicks = 0
		}
		if belowTicks >= graceTicks {
			result.survivalTicks = tick
			return result
		}
	}

	result.survivalTicks = fe.maxTicks
	return result
}

// computeFitness folds survival and quality into one score (lower = better).
// Survival dominates; quality adds up to a 20% bonus to separate runs that
// survive equally long.
func computeFitness(survivalTicks int64, quality float64) float64 {
	return -(float64(survivalTicks) * (1.0 + 0.2*quality))
}

// computeQuality scores colony health in [0, 1] from window stats.
func computeQuality(windows []telemetry.WindowStats, skillCap int) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	counts := make([]float64, 0, len(valid))
	var popSum, energySum float64
	maxSkill := 0
	for _, w := range valid {
		if w.Slimes < minViablePop {
			continue
		}
		n := float64(w.Slimes)
		counts = append(counts, n)

		// Population size: log-normal bump around the target.
		logErr := math.Log(n / targetSlimes)
		popSum += math.Exp(-logErr * logErr)

		// Median energy halfway to the breeding threshold region is healthy.
		energySum += 1.0 - math.Exp(-w.EnergyP50/50.0)

		maxSkill = max(maxSkill, w.MaxSkill)
	}
	if len(counts) == 0 {
		return 0
	}

	k := float64(len(counts))
	popScore := popSum / k
	energyScore := energySum / k

	stabilityScore := 0.0
	if len(counts) >= 2 {
		mean, std := stat.MeanStdDev(counts, nil)
		if mean > 0 {
			cv := std / mean
			stabilityScore = math.Exp(-cv * cv)
		}
	}

	skillScore := 0.0
	if skillCap > 0 {
		skillScore = float64(maxSkill) / float64(skillCap)
	}

	quality := qualityWeightPopulation*popScore +
		qualityWeightStability*stabilityScore +
		qualityWeightSkills*skillScore +
		qualityWeightEnergy*energyScore
	return min(max(quality, 0), 1)
}
