package game

import (
	"log/slog"
)

// seedPopulation creates the starting food and slimes from the config counts.
func (g *Game) seedPopulation() {
	pop := g.cfg.Population
	spawned := g.food.SpawnN(pop.InitialFood)
	g.food.ResetTime(g.tick)
	g.slimes.SpawnN(pop.InitialSlimes, g.tick)

	if spawned < pop.InitialFood {
		slog.Warn("initial food limited by cap",
			"requested", pop.InitialFood,
			"spawned", spawned,
			"cap", g.food.Config().Cap,
		)
	}
}

// Reset clears both populations, restarts the clock at tick 0 and reseeds
// from the configured initial counts.
func (g *Game) Reset() {
	g.food.Reset()
	g.slimes.Reset()
	g.tick = 0
	g.hovering = false

	g.syncConfig()
	g.collector.Reset(0)
	g.bookmarkDetector.Reset()
	g.seedPopulation()

	slog.Info("simulation reset",
		"food", g.food.Live(),
		"slimes", g.slimes.Count(),
	)
}

// SpawnFood adds one food item at a random point. Returns false at the cap.
func (g *Game) SpawnFood() bool {
	if !g.food.Spawn() {
		return false
	}
	g.collector.RecordFoodSpawn(1)
	return true
}

// SpawnSlime adds one slime at a random point with the initial energy.
func (g *Game) SpawnSlime() {
	g.slimes.Spawn(g.tick)
}

// syncConfig pushes edited food parameters to the food controller. An
// invalid edit is rolled back so the config always matches what runs.
func (g *Game) syncConfig() {
	if g.cfg.Food == g.food.Config() {
		return
	}
	if err := g.food.SetConfig(g.cfg.Food); err != nil {
		slog.Warn("rejected food config", "error", err)
		g.cfg.Food = g.food.Config()
	}
}
