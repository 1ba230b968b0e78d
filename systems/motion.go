package systems

import (
	"math"

	"gonum.org/v1/gonum/blas/blas32"

	"github.com/pthm-cable/zen/components"
	"github.com/pthm-cable/zen/config"
)

// MotionParams controls how the cloud responds to the openness signal.
type MotionParams struct {
	MinExpansion   float64 // Scale at openness 0
	ExpansionSpan  float64 // Added scale at openness 1
	NoiseAmplitude float64 // Breathing amplitude at openness 1
	SmoothingRate  float64 // Blend factor per second before clamping
	RotationRate   float64 // Radians per second per unit of (openness + bias)
	RotationBias   float64
}

// DefaultMotionParams returns the tuned defaults.
func DefaultMotionParams() MotionParams {
	return MotionParams{
		MinExpansion:   0.2,
		ExpansionSpan:  0.8,
		NoiseAmplitude: 0.05,
		SmoothingRate:  4,
		RotationRate:   0.1,
		RotationBias:   0.1,
	}
}

// MotionParamsFromConfig reads motion parameters from the loaded config.
func MotionParamsFromConfig(cfg *config.Config) MotionParams {
	m := cfg.Motion
	return MotionParams{
		MinExpansion:   m.MinExpansion,
		ExpansionSpan:  m.ExpansionSpan,
		NoiseAmplitude: m.NoiseAmplitude,
		SmoothingRate:  m.SmoothingRate,
		RotationRate:   m.RotationRate,
		RotationBias:   m.RotationBias,
	}
}

// Frame holds the per-frame scalars shared by every particle.
type Frame struct {
	Openness  float32 // clamped, 1 when tracking is lost
	Expansion float32
	NoiseAmp  float32
	Blend     float32 // smoothing factor, always in [0, 1]
	DT        float64 // clamped to [0, MaxFrameDT]
	Clock     float64
}

// Integrator eases a Cloud toward its target under the control signal.
type Integrator struct {
	params MotionParams
}

// NewIntegrator creates an integrator with the given parameters.
func NewIntegrator(params MotionParams) *Integrator {
	return &Integrator{params: params}
}

// Params returns the integrator's motion parameters.
func (in *Integrator) Params() MotionParams {
	return in.params
}

// Prepare computes the frame scalars for one update.
func (in *Integrator) Prepare(sig components.Signal, dt, clock float64) Frame {
	p := &in.params
	openness := sig.Effective()

	return Frame{
		Openness:  openness,
		Expansion: float32(p.MinExpansion + p.ExpansionSpan*float64(openness)),
		NoiseAmp:  float32(p.NoiseAmplitude * float64(openness)),
		Blend:     blendFactor(p.SmoothingRate, dt),
		DT:        ClampFrameDT(dt),
		Clock:     finiteOr(clock, 0),
	}
}

// Advance eases particles [start, end) toward their effective targets.
// Disjoint ranges touch disjoint memory and may run concurrently.
func (in *Integrator) Advance(c *Cloud, f Frame, start, end int) {
	lo, hi := start*3, end*3
	if hi <= lo {
		return
	}
	n := hi - lo

	target := blas32.Vector{N: n, Inc: 1, Data: c.target[lo:hi]}
	scratch := blas32.Vector{N: n, Inc: 1, Data: c.scratch[lo:hi]}
	live := blas32.Vector{N: n, Inc: 1, Data: c.live[lo:hi]}

	// scratch = target * expansion + noise
	blas32.Copy(target, scratch)
	blas32.Scal(f.Expansion, scratch)
	if f.NoiseAmp != 0 {
		buf := c.scratch
		phase := finiteOr(f.Clock, 0)
		for i := start; i < end; i++ {
			noise := float32(math.Sin(phase+float64(i))) * f.NoiseAmp
			j := i * 3
			buf[j] += noise
			buf[j+1] += noise
			buf[j+2] += noise
		}
	}

	if f.Blend == 0 {
		return
	}
	// live = (1-k)*live + k*scratch
	blas32.Scal(1-f.Blend, live)
	blas32.Axpy(f.Blend, scratch, live)
}

// Rotate accumulates the rigid rotation of the cloud for one frame.
func (in *Integrator) Rotate(c *Cloud, f Frame) {
	p := &in.params
	c.rotation += p.RotationRate * (float64(f.Openness) + p.RotationBias) * f.DT
}

// Step runs a full frame update over every particle.
func (in *Integrator) Step(c *Cloud, sig components.Signal, dt, clock float64) Frame {
	f := in.Prepare(sig, dt, clock)
	in.Advance(c, f, 0, c.Len())
	in.Rotate(c, f)
	return f
}
