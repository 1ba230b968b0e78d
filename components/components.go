// Package components defines the plain data types shared by the simulation,
// the signal sources and the renderer.
package components

import "math"

// Signal is one reading of the hand-openness control.
// Openness is 0 for a pinched hand and 1 for a fully open hand.
type Signal struct {
	Detected bool
	Openness float32
}

// NeutralSignal is the reading used before the first update and whenever
// tracking is lost: not detected, fully open.
func NeutralSignal() Signal {
	return Signal{Detected: false, Openness: 1}
}

// Effective returns the openness the integrator should use.
// Lost tracking snaps to fully open; detected readings are clamped to [0, 1].
func (s Signal) Effective() float32 {
	if !s.Detected {
		return 1
	}
	o := s.Openness
	if math.IsNaN(float64(o)) {
		return 1
	}
	if o < 0 {
		return 0
	}
	if o > 1 {
		return 1
	}
	return o
}

// Appearance holds the rendering parameters of the cloud.
// The simulation never reads it.
type Appearance struct {
	Color     string  // #rrggbb
	Opacity   float32 // 0-1 alpha
	PointSize float32 // world units
}
