// Package systems contains the population controllers that drive the simulation.
package systems

import (
	"math"
	"math/rand"
)

// Bounds represents the simulation field. Coordinates live in the half-open
// rectangle [0, Width) x [0, Height).
type Bounds struct {
	Width, Height float32
}

// Wrap resets a coordinate that left the field to the opposite edge.
// A coordinate at or past the far edge becomes 0; a negative coordinate becomes
// the largest value below the far edge. Wrap is idempotent.
func (b Bounds) Wrap(x, y float32) (float32, float32) {
	return wrapAxis(x, b.Width), wrapAxis(y, b.Height)
}

func wrapAxis(v, size float32) float32 {
	if v >= size {
		return 0
	}
	if v < 0 {
		return math.Nextafter32(size, 0)
	}
	return v
}

// Contains reports whether the point lies inside the field.
func (b Bounds) Contains(x, y float32) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

// RandomPoint returns a uniformly distributed point inside the field.
func (b Bounds) RandomPoint(rng *rand.Rand) (float32, float32) {
	x := rng.Float32() * b.Width
	y := rng.Float32() * b.Height
	// Float32 rounding can land exactly on the far edge.
	return b.Wrap(x, y)
}

// PolarToCartesian converts a magnitude and angle (radians) to a vector.
func PolarToCartesian(magnitude, angle float32) (float32, float32) {
	sin, cos := math.Sincos(float64(angle))
	return magnitude * float32(cos), magnitude * float32(sin)
}

// AngleBetween returns the direction from a to b in radians.
func AngleBetween(ax, ay, bx, by float32) float32 {
	return float32(math.Atan2(float64(by-ay), float64(bx-ax)))
}

// RandomAngle returns a uniform angle in [0, 2*Pi).
func RandomAngle(rng *rand.Rand) float32 {
	return rng.Float32() * 2 * math.Pi
}

// Lerp linearly interpolates between a and b.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// clampFloat clamps a float32 value between min and max.
func clampFloat(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// distanceSq returns the squared distance between two points.
func distanceSq(x1, y1, x2, y2 float32) float32 {
	dx := x1 - x2
	dy := y1 - y2
	return dx*dx + dy*dy
}

// Distance returns the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float32) float32 {
	return float32(math.Sqrt(float64(distanceSq(x1, y1, x2, y2))))
}

// velocityMagnitude returns the magnitude of a velocity vector.
func velocityMagnitude(vx, vy float32) float32 {
	return float32(math.Sqrt(float64(vx*vx + vy*vy)))
}
