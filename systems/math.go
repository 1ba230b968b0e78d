package systems

import "math"

// clamp01 clamps a float32 value to the [0, 1] range.
// NaN maps to 0 so degenerate inputs never reach the buffers.
func clamp01(v float32) float32 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// MaxFrameDT caps a single frame delta. Longer stalls advance the clock and
// rotation by this much only.
const MaxFrameDT = 0.25

// ClampFrameDT maps NaN, -Inf and negative frame deltas to zero and caps
// everything else, +Inf included, at MaxFrameDT.
func ClampFrameDT(dt float64) float64 {
	if !(dt > 0) {
		return 0
	}
	if dt > MaxFrameDT {
		return MaxFrameDT
	}
	return dt
}

// blendFactor returns clamp(rate*dt, 0, 1) for the raw frame delta.
// +Inf saturates to 1; NaN and non-positive deltas give 0.
func blendFactor(rate, dt float64) float32 {
	if math.IsInf(dt, 1) {
		return 1
	}
	if !(dt > 0) {
		return 0
	}
	return clamp01(float32(rate * dt))
}

// finiteOr returns v, or fallback when v is NaN or infinite.
func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

// signedCube returns u³ with a random sign, scaled by amp.
// Cubing biases samples toward zero.
func signedCube(u float64, negative bool, amp float64) float64 {
	v := u * u * u * amp
	if negative {
		return -v
	}
	return v
}
