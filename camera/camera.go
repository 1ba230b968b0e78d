// Package camera provides an orbit camera for viewing the particle cloud.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/zen/config"
)

const (
	// minPolar keeps the camera off the poles where the up vector degenerates.
	minPolar = 0.01
	maxPolar = math.Pi - minPolar

	// zoomStep is the distance multiplier per wheel notch.
	zoomStep = 0.95
)

// Orbit circles the origin at a fixed distance. Angles are spherical:
// Azimuth about +Y (0 looks down -Z from +Z), Polar from +Y.
type Orbit struct {
	Azimuth  float64
	Polar    float64
	Distance float64

	// Vertical field of view in degrees
	FOV float64

	// Distance constraints
	MinDistance, MaxDistance float64

	// AutoRotateSpeed of 1.0 completes one orbit per 60 seconds
	AutoRotateSpeed float64
	AutoRotate      bool

	// Viewport height in pixels, used to scale drag input
	ViewportH float64
}

// New creates an orbit camera on the +Z axis looking at the origin.
func New(cfg config.CameraConfig, viewportH float64) *Orbit {
	o := &Orbit{
		Polar:           math.Pi / 2,
		Distance:        cfg.Distance,
		FOV:             cfg.FOV,
		MinDistance:     cfg.MinDistance,
		MaxDistance:     cfg.MaxDistance,
		AutoRotateSpeed: cfg.AutoRotateSpeed,
		AutoRotate:      cfg.AutoRotateSpeed != 0,
		ViewportH:       viewportH,
	}
	o.Distance = clamp(o.Distance, o.MinDistance, o.MaxDistance)
	return o
}

// Update advances auto-rotation by dt seconds.
func (o *Orbit) Update(dt float64) {
	if !o.AutoRotate || dt <= 0 || math.IsNaN(dt) {
		return
	}
	o.Azimuth = wrapAngle(o.Azimuth + 2*math.Pi/60*o.AutoRotateSpeed*dt)
}

// Zoom moves the camera in (positive delta) or out by wheel notches.
func (o *Orbit) Zoom(delta float64) {
	o.Distance = clamp(o.Distance*math.Pow(zoomStep, delta), o.MinDistance, o.MaxDistance)
}

// Drag rotates the camera by a pointer movement in pixels. A drag across the
// full viewport height turns the camera by one full circle.
func (o *Orbit) Drag(dx, dy float64) {
	h := o.ViewportH
	if h <= 0 {
		h = 1
	}
	o.Azimuth = wrapAngle(o.Azimuth - 2*math.Pi*dx/h)
	o.Polar = clamp(o.Polar-2*math.Pi*dy/h, minPolar, maxPolar)
}

// Resize updates the viewport height used by Drag.
func (o *Orbit) Resize(viewportH float64) {
	o.ViewportH = viewportH
}

// Position returns the camera position in world space.
func (o *Orbit) Position() r3.Vec {
	sinP := math.Sin(o.Polar)
	return r3.Vec{
		X: o.Distance * sinP * math.Sin(o.Azimuth),
		Y: o.Distance * math.Cos(o.Polar),
		Z: o.Distance * sinP * math.Cos(o.Azimuth),
	}
}

// Reset returns the camera to its starting angles at the given distance.
func (o *Orbit) Reset(distance float64) {
	o.Azimuth = 0
	o.Polar = math.Pi / 2
	o.Distance = clamp(distance, o.MinDistance, o.MaxDistance)
}

// wrapAngle maps an angle into [0, 2π).
func wrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
