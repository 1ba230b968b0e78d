package signal

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/zen/config"
)

// PinchRange maps the thumb-to-index fingertip distance, in normalized image
// coordinates, onto openness. Distances at or below Min read as closed and
// at or above Max as fully open.
type PinchRange struct {
	Min, Max float64
}

// DefaultPinchRange returns the range tuned for a webcam at arm's length.
func DefaultPinchRange() PinchRange {
	return PinchRange{Min: 0.02, Max: 0.25}
}

// PinchRangeFromConfig reads the range from the signal config.
func PinchRangeFromConfig(cfg config.SignalConfig) PinchRange {
	return PinchRange{Min: cfg.PinchMin, Max: cfg.PinchMax}
}

// Openness converts two fingertip landmarks into an openness in [0, 1].
func (r PinchRange) Openness(thumb, index r3.Vec) float32 {
	d := r3.Norm(r3.Sub(thumb, index))
	if d < r.Min {
		d = r.Min
	}
	if d > r.Max {
		d = r.Max
	}
	return float32((d - r.Min) / (r.Max - r.Min))
}
