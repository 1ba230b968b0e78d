package signal

import (
	"math"

	"github.com/pthm-cable/zen/components"
	"github.com/pthm-cable/zen/config"
)

// Script is a deterministic signal for headless runs: an oscillating
// openness with optional periodic tracking loss.
type Script struct {
	cfg config.ScriptConfig
}

// NewScript creates a scripted source.
func NewScript(cfg config.ScriptConfig) *Script {
	return &Script{cfg: cfg}
}

// At returns the reading at simulation time t (seconds).
func (s *Script) At(t float64) components.Signal {
	c := &s.cfg
	if c.DropoutEvery > 0 && c.Dropout > 0 {
		// Loss occupies the tail of each cycle
		if math.Mod(t, c.DropoutEvery) >= c.DropoutEvery-c.Dropout {
			return components.NeutralSignal()
		}
	}

	o := c.Base
	if c.Period > 0 {
		o += c.Amplitude * math.Sin(2*math.Pi*t/c.Period)
	}
	o = math.Max(0, math.Min(1, o))
	return components.Signal{Detected: true, Openness: float32(o)}
}
