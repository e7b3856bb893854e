package game

import (
	"log/slog"

	"github.com/pthm-cable/slimes/systems"
	"github.com/pthm-cable/slimes/telemetry"
)

// recordReport feeds one tick's slime events to the collector.
func (g *Game) recordReport(r systems.TickReport) {
	g.collector.RecordBirths(r.Births)
	g.collector.RecordDeaths(r.Deaths)
	g.collector.RecordBreedings(r.Breedings)
	g.collector.RecordJumps(r.Jumps)
	g.collector.RecordEvolutions(r.Evolutions)
	g.collector.RecordFoodEaten(r.FoodEaten, r.EnergyEaten)
}

// flushTelemetry closes the stats window when it is due.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}
	g.writeWindow()
}

// writeWindow flushes the current window, logs it, writes it out and checks
// for bookmarks.
func (g *Game) writeWindow() {
	stats := g.collector.Flush(g.tick, g.samplePopulation())
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}

// samplePopulation reads the population state for the window sample.
func (g *Game) samplePopulation() telemetry.Population {
	g.energyBuf = g.slimes.Energies(g.energyBuf[:0])
	maxSkill, maxGen := g.slimes.Extremes()
	return telemetry.Population{
		Slimes:      g.slimes.Count(),
		Food:        g.food.Live(),
		FoodEnergy:  float64(g.food.TotalEnergy()),
		Energies:    g.energyBuf,
		SkillTotals: g.slimes.SkillTotals(),
		MaxSkill:    maxSkill,
		MaxGen:      maxGen,
	}
}
