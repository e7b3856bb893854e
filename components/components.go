// Package components defines ECS components for the simulation.
package components

import "math"

// State is a slime's per-tick activity. It is reset to Normal at the start of
// every tick.
type State uint8

const (
	StateNormal State = iota
	StateJumping
	StateBreeding
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateJumping:
		return "jumping"
	case StateBreeding:
		return "breeding"
	default:
		return "normal"
	}
}

// Energy holds an entity's energy reserve.
type Energy struct {
	Value float32
}

// Slime holds slime-specific data.
type Slime struct {
	ID    uint32
	State State

	// Evolution
	Skills        Skills
	Path          SkillKind // skill that gains a level at every evolution
	NextEvolution float32   // energy at which the next level is gained (+Inf once capped)
	Generation    int32

	// Cooldown timers (tick of last action)
	LastJump  int64
	LastBreed int64
}

// Capped reports whether the slime can no longer evolve.
func (s *Slime) Capped() bool {
	return math.IsInf(float64(s.NextEvolution), 1)
}

// Size returns the radius derived from energy: energy/divisor clamped to [min, max].
func Size(energy, divisor, minSize, maxSize float32) float32 {
	s := energy / divisor
	if s < minSize {
		return minSize
	}
	if s > maxSize {
		return maxSize
	}
	return s
}
