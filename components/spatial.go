package components

// Position represents an entity's world position.
type Position struct {
	X, Y float32
}

// Velocity holds the persisted heading of a slime as a per-tick displacement.
// Slimes without a target keep moving along it.
type Velocity struct {
	X, Y float32
}
