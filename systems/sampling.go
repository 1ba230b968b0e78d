package systems

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// unitDirection samples a direction uniformly on the unit sphere
// using the inverse CDF of the polar angle.
func unitDirection(rng *rand.Rand) r3.Vec {
	theta := 2 * math.Pi * rng.Float64()
	phi := math.Acos(2*rng.Float64() - 1)
	sinPhi := math.Sin(phi)
	return r3.Vec{
		X: sinPhi * math.Cos(theta),
		Y: sinPhi * math.Sin(theta),
		Z: math.Cos(phi),
	}
}

// inSphere samples a point uniformly by volume inside a sphere of the given radius.
func inSphere(rng *rand.Rand, radius float64) r3.Vec {
	dir := unitDirection(rng)
	return r3.Scale(radius*math.Cbrt(rng.Float64()), dir)
}
