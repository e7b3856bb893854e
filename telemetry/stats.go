package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population counts at window end
	Slimes int `csv:"slimes"`
	Food   int `csv:"food"`

	// Events during window
	Births      int     `csv:"births"`
	Deaths      int     `csv:"deaths"`
	Breedings   int     `csv:"breedings"`
	Jumps       int     `csv:"jumps"`
	Evolutions  int     `csv:"evolutions"`
	FoodSpawned int     `csv:"food_spawned"`
	FoodEaten   int     `csv:"food_eaten"`
	EnergyEaten float64 `csv:"energy_eaten"`

	// Slime energy distribution (sampled at window end)
	EnergyMean float64 `csv:"energy_mean"`
	EnergyStd  float64 `csv:"energy_std"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`

	// Energy pools
	SlimeEnergy float64 `csv:"slime_energy"`
	FoodEnergy  float64 `csv:"food_energy"`

	// Skills
	VisionTotal     int `csv:"vision_total"`
	EfficiencyTotal int `csv:"efficiency_total"`
	JumperTotal     int `csv:"jumper_total"`
	MaxSkill        int `csv:"max_skill"`
	MaxGeneration   int `csv:"max_generation"`
}

// EnergyStats summarizes a set of energy values.
type EnergyStats struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// ComputeEnergyStats calculates mean, standard deviation and empirical
// percentiles. An empty input yields zeros; a single value has zero spread.
func ComputeEnergyStats(values []float64) EnergyStats {
	n := len(values)
	if n == 0 {
		return EnergyStats{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	var es EnergyStats
	if n == 1 {
		es.Mean = sorted[0]
	} else {
		es.Mean, es.Std = stat.MeanStdDev(sorted, nil)
	}
	es.P10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	es.P50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	es.P90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return es
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("slimes", s.Slimes),
		slog.Int("food", s.Food),
		slog.Int("births", s.Births),
		slog.Int("deaths", s.Deaths),
		slog.Int("breedings", s.Breedings),
		slog.Int("jumps", s.Jumps),
		slog.Int("evolutions", s.Evolutions),
		slog.Int("food_spawned", s.FoodSpawned),
		slog.Int("food_eaten", s.FoodEaten),
		slog.Float64("energy_eaten", s.EnergyEaten),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_std", s.EnergyStd),
		slog.Float64("energy_p10", s.EnergyP10),
		slog.Float64("energy_p50", s.EnergyP50),
		slog.Float64("energy_p90", s.EnergyP90),
		slog.Float64("slime_energy", s.SlimeEnergy),
		slog.Float64("food_energy", s.FoodEnergy),
		slog.Int("vision_total", s.VisionTotal),
		slog.Int("efficiency_total", s.EfficiencyTotal),
		slog.Int("jumper_total", s.JumperTotal),
		slog.Int("max_skill", s.MaxSkill),
		slog.Int("max_generation", s.MaxGeneration),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
