package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/zen/components"
)

func TestComputeRadiusStats(t *testing.T) {
	values := []float64{1.0, 0.9, 0.8, 0.7, 0.6, 0.5, 0.4, 0.3, 0.2, 0.1}
	mean, p10, p50, p90, maxR := ComputeRadiusStats(values)

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"mean", mean, 0.55},
		{"p10", p10, 0.1},
		{"p50", p50, 0.5},
		{"p90", p90, 0.9},
		{"max", maxR, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.got-tt.want) > 1e-9 {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestComputeRadiusStatsEmpty(t *testing.T) {
	mean, p10, p50, p90, maxR := ComputeRadiusStats(nil)

	if mean != 0 || p10 != 0 || p50 != 0 || p90 != 0 || maxR != 0 {
		t.Error("empty slice should return all zeros")
	}
}

func TestRadii(t *testing.T) {
	live := []float32{
		3, 4, 0,
		0, 0, 2,
		1, 0, 0,
		0, -5, 0,
	}

	all := Radii(live, 0, nil)
	want := []float64{5, 2, 1, 5}
	if len(all) != len(want) {
		t.Fatalf("expected %d radii, got %d", len(want), len(all))
	}
	for i := range want {
		if math.Abs(all[i]-want[i]) > 1e-6 {
			t.Errorf("radius[%d] = %v, want %v", i, all[i], want[i])
		}
	}

	// Stride 2 picks particles 0 and 2, reusing the buffer
	sampled := Radii(live, 2, all)
	if len(sampled) != 2 || sampled[0] != 5 || sampled[1] != 1 {
		t.Errorf("strided radii = %v, want [5 1]", sampled)
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(1.0, 0.5)
	if c.WindowDurationTicks() != 2 {
		t.Fatalf("expected 2 ticks per window, got %d", c.WindowDurationTicks())
	}

	c.RecordSignal(components.Signal{Detected: true, Openness: 0.2})
	c.RecordSignal(components.Signal{Detected: true, Openness: 0.4})
	c.RecordSignal(components.Signal{Detected: false, Openness: 0.0})
	c.RecordSignal(components.Signal{Detected: true, Openness: 0.6})
	c.RecordShapeSelection()
	c.RecordRegeneration()
	c.RecordRegenDiscarded()

	if c.ShouldFlush(1) {
		t.Error("should not flush before window ends")
	}
	if !c.ShouldFlush(2) {
		t.Error("should flush at window end")
	}

	stats := c.Flush(2, CloudState{
		Shape:    "HEART",
		Live:     []float32{1, 0, 0, 0, 3, 0},
		Rotation: 0.25,
	})

	if stats.SimTimeSec != 1.0 {
		t.Errorf("sim time = %v, want 1.0", stats.SimTimeSec)
	}
	if stats.Particles != 2 || stats.Shape != "HEART" {
		t.Errorf("cloud fields = %d %q", stats.Particles, stats.Shape)
	}
	if math.Abs(stats.RadiusMean-2) > 1e-9 || stats.RadiusMax != 3 {
		t.Errorf("radius mean/max = %v/%v, want 2/3", stats.RadiusMean, stats.RadiusMax)
	}
	// Lost tracking reads as fully open
	if math.Abs(stats.OpennessMean-(0.2+0.4+1.0+0.6)/4) > 1e-6 {
		t.Errorf("openness mean = %v", stats.OpennessMean)
	}
	if stats.DetectedFraction != 0.75 {
		t.Errorf("detected fraction = %v, want 0.75", stats.DetectedFraction)
	}
	if stats.TrackingLosses != 1 {
		t.Errorf("tracking losses = %d, want 1", stats.TrackingLosses)
	}
	if stats.ShapeSelections != 1 || stats.Regenerations != 1 || stats.RegenDiscarded != 1 {
		t.Errorf("regen counters = %d/%d/%d", stats.ShapeSelections, stats.Regenerations, stats.RegenDiscarded)
	}

	// Counters reset for the next window
	next := c.Flush(4, CloudState{})
	if next.WindowStartTick != 2 || next.Regenerations != 0 || next.DetectedFraction != 0 {
		t.Errorf("expected reset window, got %+v", next)
	}
}
