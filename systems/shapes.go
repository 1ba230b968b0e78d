package systems

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// ShapeKind identifies a target point cloud.
type ShapeKind uint8

const (
	ShapeHeart ShapeKind = iota
	ShapeFlower
	ShapeSaturn
	ShapeSpiral
	ShapeFirework

	numShapeKinds
)

var (
	// ErrUnknownShape is returned for shape kinds outside the closed set.
	ErrUnknownShape = errors.New("unknown shape kind")
	// ErrInvalidCount is returned for negative particle counts.
	ErrInvalidCount = errors.New("invalid particle count")
)

var shapeNames = [numShapeKinds]string{"HEART", "FLOWER", "SATURN", "SPIRAL", "FIREWORK"}

// Labels shown on the shape selector.
var shapeLabels = [numShapeKinds]string{"Love", "Bloom", "Saturn", "Galaxy", "Spark"}

// pointFunc produces the target point for particle i.
type pointFunc func(i int, rng *rand.Rand) r3.Vec

// shapeGenerators is indexed by ShapeKind; every kind must have an entry.
var shapeGenerators = [numShapeKinds]pointFunc{
	ShapeHeart:    heartPoint,
	ShapeFlower:   flowerPoint,
	ShapeSaturn:   saturnPoint,
	ShapeSpiral:   spiralPoint,
	ShapeFirework: fireworkPoint,
}

// Valid reports whether k is one of the defined shapes.
func (k ShapeKind) Valid() bool {
	return k < numShapeKinds
}

// String returns the canonical upper-case name.
func (k ShapeKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("ShapeKind(%d)", uint8(k))
	}
	return shapeNames[k]
}

// Label returns the display label used by the UI.
func (k ShapeKind) Label() string {
	if !k.Valid() {
		return k.String()
	}
	return shapeLabels[k]
}

// ShapeKinds returns all shapes in selector order.
func ShapeKinds() []ShapeKind {
	kinds := make([]ShapeKind, numShapeKinds)
	for i := range kinds {
		kinds[i] = ShapeKind(i)
	}
	return kinds
}

// ParseShapeKind accepts a shape name or label, case-insensitively.
func ParseShapeKind(s string) (ShapeKind, error) {
	s = strings.TrimSpace(s)
	for i := ShapeKind(0); i < numShapeKinds; i++ {
		if strings.EqualFold(s, shapeNames[i]) || strings.EqualFold(s, shapeLabels[i]) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownShape, s)
}

// GenerateShape returns n target points for kind as a flat xyz buffer of length 3n.
func GenerateShape(kind ShapeKind, n int, rng *rand.Rand) ([]float32, error) {
	return GenerateShapeContext(context.Background(), kind, n, rng)
}

// cancelCheckInterval is how many points are generated between context checks.
const cancelCheckInterval = 256

// GenerateShapeContext is GenerateShape with cancellation. A cancelled run
// returns ctx.Err() and no buffer.
func GenerateShapeContext(ctx context.Context, kind ShapeKind, n int, rng *rand.Rand) ([]float32, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownShape, uint8(kind))
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, n)
	}

	gen := shapeGenerators[kind]
	buf := make([]float32, n*3)
	for i := 0; i < n; i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		p := gen(i, rng)
		j := i * 3
		buf[j] = float32(p.X)
		buf[j+1] = float32(p.Y)
		buf[j+2] = float32(p.Z)
	}
	return buf, nil
}

// Flower parameters.
const (
	flowerPetals = 5
	flowerRadius = 2.0
	flowerDepth  = 1.5
	flowerJitter = 0.1
)

// flowerPoint samples a rose curve swept over a sphere, with a little volume.
func flowerPoint(_ int, rng *rand.Rand) r3.Vec {
	theta := rng.Float64() * 2 * math.Pi
	phi := rng.Float64() * math.Pi
	r := flowerRadius * math.Sin(flowerPetals*theta)

	p := r3.Vec{
		X: r * math.Cos(theta) * math.Sin(phi),
		Y: r * math.Sin(theta) * math.Sin(phi),
		Z: math.Cos(phi) * flowerDepth,
	}
	return r3.Add(p, inSphere(rng, flowerJitter))
}

// Saturn parameters.
const (
	saturnRingChance = 0.6
	saturnRingInner  = 2.5
	saturnRingWidth  = 1.5
	saturnRingHeight = 0.1 // total thickness, centred on y=0
	saturnTiltAngle  = 0.4
	saturnPlanet     = 1.2
)

// saturnTilt rotates ring points about the x axis.
var saturnTilt = r3.NewRotation(saturnTiltAngle, r3.Vec{X: 1})

// saturnPoint samples either the tilted ring or the planet body.
func saturnPoint(_ int, rng *rand.Rand) r3.Vec {
	if rng.Float64() > 1-saturnRingChance {
		angle := rng.Float64() * 2 * math.Pi
		dist := saturnRingInner + rng.Float64()*saturnRingWidth
		p := r3.Vec{
			X: math.Cos(angle) * dist,
			Y: (rng.Float64() - 0.5) * saturnRingHeight,
			Z: math.Sin(angle) * dist,
		}
		return saturnTilt.Rotate(p)
	}
	return inSphere(rng, saturnPlanet)
}

// Spiral galaxy parameters.
const (
	spiralBranches  = 3
	spiralRadius    = 4.0
	spiralSpin      = 5.0
	spiralJitter    = 0.5
	spiralThickness = 2.0
)

// spiralPoint places particle i on one of three arms chosen by index.
func spiralPoint(i int, rng *rand.Rand) r3.Vec {
	radius := rng.Float64() * spiralRadius
	spinAngle := radius * spiralSpin
	branchAngle := float64(i%spiralBranches) * (2 * math.Pi / spiralBranches)

	jx := signedCube(rng.Float64(), rng.Float64() < 0.5, spiralJitter)
	jy := signedCube(rng.Float64(), rng.Float64() < 0.5, spiralJitter)
	jz := signedCube(rng.Float64(), rng.Float64() < 0.5, spiralJitter)

	return r3.Vec{
		X: math.Cos(branchAngle+spinAngle)*radius + jx,
		Y: jy * spiralThickness,
		Z: math.Sin(branchAngle+spinAngle)*radius + jz,
	}
}

const fireworkRadius = 3.0

func fireworkPoint(_ int, rng *rand.Rand) r3.Vec {
	return inSphere(rng, fireworkRadius)
}
