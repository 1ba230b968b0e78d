package telemetry

import "github.com/pthm-cable/zen/components"

// Collector accumulates per-frame signal readings and regeneration events
// within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	// Signal accumulators for current window
	frames         int
	detectedFrames int
	opennessSum    float64
	trackingLosses int
	wasDetected    bool

	// Event counters for current window
	shapeSelections int
	regenerations   int
	regenDiscarded  int

	// Reused between flushes
	radii []float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordSignal records the reading used for one frame.
func (c *Collector) RecordSignal(sig components.Signal) {
	c.frames++
	if sig.Detected {
		c.detectedFrames++
	} else if c.wasDetected {
		c.trackingLosses++
	}
	c.wasDetected = sig.Detected
	c.opennessSum += float64(sig.Effective())
}

// RecordShapeSelection records a shape change request.
func (c *Collector) RecordShapeSelection() {
	c.shapeSelections++
}

// RecordRegeneration records a target buffer swap.
func (c *Collector) RecordRegeneration() {
	c.regenerations++
}

// RecordRegenDiscarded records a generation result superseded before it landed.
func (c *Collector) RecordRegenDiscarded() {
	c.regenDiscarded++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// CloudState is the cloud snapshot sampled at window end.
type CloudState struct {
	Shape    string
	Live     []float32
	Rotation float64
	// Sample every Stride-th particle for the radius distribution (0 = all)
	Stride int
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, cloud CloudState) WindowStats {
	c.radii = Radii(cloud.Live, cloud.Stride, c.radii)
	mean, p10, p50, p90, maxR := ComputeRadiusStats(c.radii)

	var opennessMean, detectedFrac float64
	if c.frames > 0 {
		opennessMean = c.opennessSum / float64(c.frames)
		detectedFrac = float64(c.detectedFrames) / float64(c.frames)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Shape:     cloud.Shape,
		Particles: len(cloud.Live) / 3,

		RadiusMean: mean,
		RadiusP10:  p10,
		RadiusP50:  p50,
		RadiusP90:  p90,
		RadiusMax:  maxR,

		OpennessMean:     opennessMean,
		DetectedFraction: detectedFrac,
		TrackingLosses:   c.trackingLosses,

		Rotation: cloud.Rotation,

		ShapeSelections: c.shapeSelections,
		Regenerations:   c.regenerations,
		RegenDiscarded:  c.regenDiscarded,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.frames = 0
	c.detectedFrames = 0
	c.opennessSum = 0
	c.trackingLosses = 0
	c.shapeSelections = 0
	c.regenerations = 0
	c.regenDiscarded = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
