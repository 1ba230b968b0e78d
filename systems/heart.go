package systems

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// Heart surface search parameters.
const (
	heartSearchMax  = 3.0 // Ray parameter upper bound; the surface lies well inside
	heartIterations = 15  // Bisection steps, error <= heartSearchMax / 2^15
	heartScale      = 1.5
	heartLift       = 0.5 // Added to y after scaling to recentre the shape

	// HeartTolerance bounds the radial error of a generated heart point
	// in unscaled surface coordinates.
	HeartTolerance = heartSearchMax / (1 << heartIterations)
)

// HeartField evaluates the implicit heart surface
// (x² + 2.25z² + y² − 1)³ − x²y³ − 0.1125z²y³.
// Negative values are inside the surface.
func HeartField(x, y, z float64) float64 {
	x2 := x * x
	y2 := y * y
	z2 := z * z
	y3 := y2 * y

	a := x2 + 2.25*z2 + y2 - 1
	return a*a*a - x2*y3 - 0.1125*z2*y3
}

// HeartRadius finds where a ray from the origin along dir crosses the heart
// surface by bisection over [0, heartSearchMax]. dir should be a unit vector.
// The origin is always inside, so one pass always brackets the root.
func HeartRadius(dir r3.Vec) float64 {
	minT, maxT := 0.0, heartSearchMax
	t := 0.0
	for step := 0; step < heartIterations; step++ {
		t = (minT + maxT) * 0.5
		if HeartField(dir.X*t, dir.Y*t, dir.Z*t) < 0 {
			minT = t
		} else {
			maxT = t
		}
	}
	return t
}

// heartPoint places a point on the heart surface along a random direction.
func heartPoint(_ int, rng *rand.Rand) r3.Vec {
	dir := unitDirection(rng)
	p := r3.Scale(HeartRadius(dir)*heartScale, dir)
	p.Y += heartLift
	return p
}

// HeartResidual evaluates the surface equation at a generated heart point,
// undoing the scale and lift. Values near zero mean the point is on the surface.
func HeartResidual(x, y, z float64) float64 {
	return HeartField(x/heartScale, (y-heartLift)/heartScale, z/heartScale)
}
