package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Cloud state at window end
	Shape     string `csv:"shape"`
	Particles int    `csv:"particles"`

	// Radius distribution of the live buffer (sampled at window end)
	RadiusMean float64 `csv:"radius_mean"`
	RadiusP10  float64 `csv:"radius_p10"`
	RadiusP50  float64 `csv:"radius_p50"`
	RadiusP90  float64 `csv:"radius_p90"`
	RadiusMax  float64 `csv:"radius_max"`

	// Control signal over the window
	OpennessMean     float64 `csv:"openness_mean"`
	DetectedFraction float64 `csv:"detected_fraction"`
	TrackingLosses   int     `csv:"tracking_losses"`

	// Cumulative rotation about Y in radians
	Rotation float64 `csv:"rotation"`

	// Regeneration activity during the window
	ShapeSelections int `csv:"shape_selections"`
	Regenerations   int `csv:"regenerations"`
	RegenDiscarded  int `csv:"regen_discarded"`
}

// Radii writes the distance from the origin of every stride-th particle in
// the live buffer into dst and returns it. stride < 1 samples every particle.
func Radii(live []float32, stride int, dst []float64) []float64 {
	if stride < 1 {
		stride = 1
	}
	dst = dst[:0]
	n := len(live) / 3
	for i := 0; i < n; i += stride {
		x, y, z := float64(live[i*3]), float64(live[i*3+1]), float64(live[i*3+2])
		dst = append(dst, math.Sqrt(x*x+y*y+z*z))
	}
	return dst
}

// ComputeRadiusStats calculates mean, percentiles and maximum from radius
// values. The slice is sorted in place.
func ComputeRadiusStats(values []float64) (mean, p10, p50, p90, maxR float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}

	sort.Float64s(values)
	mean = stat.Mean(values, nil)
	p10 = stat.Quantile(0.10, stat.Empirical, values, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, values, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, values, nil)
	maxR = values[len(values)-1]

	return mean, p10, p50, p90, maxR
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.String("shape", s.Shape),
		slog.Int("particles", s.Particles),
		slog.Float64("radius_mean", s.RadiusMean),
		slog.Float64("radius_p50", s.RadiusP50),
		slog.Float64("radius_p90", s.RadiusP90),
		slog.Float64("openness_mean", s.OpennessMean),
		slog.Float64("detected_fraction", s.DetectedFraction),
		slog.Float64("rotation", s.Rotation),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"shape", s.Shape,
		"particles", s.Particles,
		"radius_mean", s.RadiusMean,
		"radius_p10", s.RadiusP10,
		"radius_p50", s.RadiusP50,
		"radius_p90", s.RadiusP90,
		"radius_max", s.RadiusMax,
		"openness_mean", s.OpennessMean,
		"detected_fraction", s.DetectedFraction,
		"tracking_losses", s.TrackingLosses,
		"rotation", s.Rotation,
		"shape_selections", s.ShapeSelections,
		"regenerations", s.Regenerations,
		"regen_discarded", s.RegenDiscarded,
	)
}
