package game

// updateHover tracks the slime under the field point (x, y) for the inspector.
func (g *Game) updateHover(x, y float32, active bool) {
	if !active || !g.bounds.Contains(x, y) {
		g.hovering = false
		return
	}
	g.hovered, g.hovering = g.Inspect(x, y)
}

// PlaceFood drops a stationary food item at (x, y) with the midpoint of the
// configured energy range. Returns false at the cap.
func (g *Game) PlaceFood(x, y float32) bool {
	fc := g.food.Config()
	energy := float32(fc.EnergyMin+fc.EnergyMax) / 2
	if !g.food.Place(x, y, energy) {
		return false
	}
	g.collector.RecordFoodSpawn(1)
	return true
}
