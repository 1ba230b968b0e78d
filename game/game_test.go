package game

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pthm-cable/zen/config"
	"github.com/pthm-cable/zen/renderer"
	"github.com/pthm-cable/zen/systems"
	"github.com/pthm-cable/zen/telemetry"
)

func init() {
	// Initialize config for tests
	config.MustInit("")
}

// newTestGame builds a headless game driven by the scripted signal.
func newTestGame(t *testing.T, opts Options, mutate func(*config.Config)) *Game {
	t.Helper()
	cfg := *config.Cfg()
	cfg.Particles.Count = 500
	cfg.Motion.ParallelThreshold = 0
	if mutate != nil {
		mutate(&cfg)
	}

	opts.Config = &cfg
	opts.Headless = true
	if opts.SignalSource == "" {
		opts.SignalSource = "script"
	}
	if opts.Seed == 0 {
		opts.Seed = 42
	}

	g, err := NewGameWithOptions(opts)
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	t.Cleanup(g.Unload)
	return g
}

// waitForTarget polls the regeneration channel until nothing is pending.
func waitForTarget(t *testing.T, g *Game) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for g.RegenPending() {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for regenerated target")
		}
		g.applyPendingTarget()
		time.Sleep(time.Millisecond)
	}
}

func TestNewGameRejectsBadOptions(t *testing.T) {
	tests := []struct {
		name   string
		opts   Options
		mutate func(*config.Config)
	}{
		{"unknown shape", Options{Shape: "CUBE"}, nil},
		{"unknown source", Options{SignalSource: "telepathy"}, nil},
		{"bad color", Options{}, func(c *config.Config) { c.Render.Color = "red" }},
		{"bad palette", Options{}, func(c *config.Config) { c.Render.Palette = []string{"#ffffff", "#12345"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *config.Cfg()
			cfg.Particles.Count = 100
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}
			tt.opts.Config = &cfg
			tt.opts.Headless = true
			if tt.opts.SignalSource == "" {
				tt.opts.SignalSource = "script"
			}

			g, err := NewGameWithOptions(tt.opts)
			if err == nil {
				g.Unload()
				t.Fatal("expected error")
			}
		})
	}
}

func TestInitialCloud(t *testing.T) {
	g := newTestGame(t, Options{Shape: "SATURN"}, nil)

	if g.Cloud().Len() != 500 {
		t.Errorf("particles = %d, want 500", g.Cloud().Len())
	}
	if g.Shape() != systems.ShapeSaturn || g.TargetShape() != systems.ShapeSaturn {
		t.Errorf("shape = %v/%v, want SATURN", g.Shape(), g.TargetShape())
	}
	if g.RegenPending() {
		t.Error("initial target should be complete on return")
	}
	if g.Signal().Detected {
		t.Error("signal should be neutral before the first step")
	}
}

func TestUpdateHeadlessAdvancesClock(t *testing.T) {
	g := newTestGame(t, Options{StepsPerUpdate: 2}, nil)
	dt := config.Cfg().Physics.DT

	for i := 0; i < 3; i++ {
		g.UpdateHeadless()
	}

	if g.Tick() != 6 {
		t.Errorf("tick = %d, want 6", g.Tick())
	}
	if math.Abs(g.Clock()-6*dt) > 1e-9 {
		t.Errorf("clock = %v, want %v", g.Clock(), 6*dt)
	}
	if g.Rotation() <= 0 {
		t.Errorf("rotation = %v, want > 0", g.Rotation())
	}

	sig := g.Signal()
	if !sig.Detected || math.Abs(float64(sig.Openness)-0.5) > 1e-6 {
		t.Errorf("scripted signal = %+v, want detected at 0.5", sig)
	}
}

func TestStepSurvivesInfiniteFrameTime(t *testing.T) {
	g := newTestGame(t, Options{}, nil)

	for _, dt := range []float64{math.Inf(1), 1.0 / 60, math.NaN(), math.Inf(-1), 1.0 / 60, 1.0 / 60} {
		g.step(dt)
	}

	want := systems.MaxFrameDT + 3.0/60
	if math.Abs(g.Clock()-want) > 1e-9 {
		t.Errorf("clock = %v, want %v", g.Clock(), want)
	}
	if math.IsNaN(g.Rotation()) || math.IsInf(g.Rotation(), 0) {
		t.Errorf("rotation = %v, want finite", g.Rotation())
	}
	for j, v := range g.Cloud().Live() {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("live float %d = %v after infinite frame time", j, v)
		}
	}
}

func TestCloudSettlesOnScaledTarget(t *testing.T) {
	g := newTestGame(t, Options{StepsPerUpdate: 60}, func(c *config.Config) {
		c.Motion.NoiseAmplitude = 0
		c.Signal.Script.Base = 1
	})

	// 10 simulated seconds at smoothing 4/s leaves a negligible gap
	for i := 0; i < 10; i++ {
		g.UpdateHeadless()
	}

	live := g.Cloud().Live()
	target := g.Cloud().Target()
	for i := range live {
		if math.Abs(float64(live[i]-target[i])) > 1e-3 {
			t.Fatalf("live[%d] = %v, want %v", i, live[i], target[i])
		}
	}
}

func TestSelectShapeUnknown(t *testing.T) {
	g := newTestGame(t, Options{}, nil)

	err := g.SelectShape(systems.ShapeKind(99))
	if !errors.Is(err, systems.ErrUnknownShape) {
		t.Fatalf("err = %v, want ErrUnknownShape", err)
	}
	if g.Shape() != systems.ShapeHeart {
		t.Errorf("shape changed to %v", g.Shape())
	}
	if g.RegenPending() {
		t.Error("rejected selection should not start a regeneration")
	}
}

func TestSelectSameShapeIsNoop(t *testing.T) {
	var events []telemetry.Event
	g := newTestGame(t, Options{EventCallback: func(e telemetry.Event) { events = append(events, e) }}, nil)

	if err := g.SelectShape(systems.ShapeHeart); err != nil {
		t.Fatal(err)
	}
	if g.RegenPending() || len(events) != 0 {
		t.Errorf("pending = %v, events = %d; want no-op", g.RegenPending(), len(events))
	}
}

func TestSelectShapeSwapsTarget(t *testing.T) {
	var events []telemetry.Event
	g := newTestGame(t, Options{EventCallback: func(e telemetry.Event) { events = append(events, e) }}, nil)

	g.UpdateHeadless()
	liveBefore := append([]float32(nil), g.Cloud().Live()...)
	oldTarget := g.Cloud().Target()

	if err := g.SelectShape(systems.ShapeSaturn); err != nil {
		t.Fatal(err)
	}
	if g.Shape() != systems.ShapeSaturn || g.TargetShape() != systems.ShapeHeart {
		t.Fatalf("before swap: shape %v target %v", g.Shape(), g.TargetShape())
	}

	waitForTarget(t, g)

	if g.TargetShape() != systems.ShapeSaturn {
		t.Errorf("target shape = %v, want SATURN", g.TargetShape())
	}
	if len(g.Cloud().Target()) != len(oldTarget) {
		t.Errorf("target length = %d, want %d", len(g.Cloud().Target()), len(oldTarget))
	}
	if &g.Cloud().Target()[0] == &oldTarget[0] {
		t.Error("target buffer was not replaced")
	}

	// The swap leaves live positions alone; the cloud morphs from where it is
	for i, v := range g.Cloud().Live() {
		if v != liveBefore[i] {
			t.Fatalf("live[%d] changed during swap: %v -> %v", i, liveBefore[i], v)
		}
	}

	var selected, ready int
	for _, e := range events {
		switch e.Type {
		case telemetry.EventShapeSelected:
			selected++
		case telemetry.EventShapeReady:
			ready++
			if e.Detail != "SATURN" || e.Generation != 1 {
				t.Errorf("ready event = %+v, want SATURN generation 1", e)
			}
		}
	}
	if selected != 1 || ready != 1 {
		t.Errorf("selected=%d ready=%d, want 1 each", selected, ready)
	}
}

func TestRapidSelectionKeepsLatest(t *testing.T) {
	var ready []telemetry.Event
	g := newTestGame(t, Options{EventCallback: func(e telemetry.Event) {
		if e.Type == telemetry.EventShapeReady {
			ready = append(ready, e)
		}
	}}, nil)

	for _, kind := range []systems.ShapeKind{systems.ShapeFlower, systems.ShapeSaturn, systems.ShapeSpiral} {
		if err := g.SelectShape(kind); err != nil {
			t.Fatal(err)
		}
	}
	waitForTarget(t, g)

	if g.TargetShape() != systems.ShapeSpiral {
		t.Errorf("target shape = %v, want SPIRAL", g.TargetShape())
	}
	if len(ready) != 1 || ready[0].Generation != 3 {
		t.Errorf("ready events = %+v, want only generation 3", ready)
	}
}

func TestStaleResultDiscarded(t *testing.T) {
	var discarded int
	g := newTestGame(t, Options{EventCallback: func(e telemetry.Event) {
		if e.Type == telemetry.EventRegenDiscarded {
			discarded++
		}
	}}, nil)

	oldTarget := g.Cloud().Target()

	// A result from generation 1 arriving after generation 2 was requested
	g.regen.gen = 2
	g.regen.results <- regenResult{
		gen:    1,
		kind:   systems.ShapeFlower,
		target: make([]float32, len(oldTarget)),
	}
	g.applyPendingTarget()

	if discarded != 1 {
		t.Errorf("discarded = %d, want 1", discarded)
	}
	if g.TargetShape() != systems.ShapeHeart {
		t.Errorf("target shape = %v, want HEART", g.TargetShape())
	}
	if &g.Cloud().Target()[0] != &oldTarget[0] {
		t.Error("stale result replaced the target")
	}
	if !g.RegenPending() {
		t.Error("generation 2 should still be pending")
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	script := func(c *config.Config) {
		c.Particles.Count = 3000
		c.Signal.Script.Amplitude = 0.4
		c.Signal.Script.Period = 1.5
		c.Signal.Script.DropoutEvery = 2
		c.Signal.Script.Dropout = 0.3
	}

	serial := newTestGame(t, Options{Seed: 7, StepsPerUpdate: 10}, script)
	parallel := newTestGame(t, Options{Seed: 7, StepsPerUpdate: 10}, func(c *config.Config) {
		script(c)
		c.Motion.ParallelThreshold = 256
	})

	if serial.parallel != nil || parallel.parallel == nil {
		t.Fatal("expected one serial and one parallel game")
	}

	for i := 0; i < 15; i++ {
		serial.UpdateHeadless()
		parallel.UpdateHeadless()
	}

	a, b := serial.Cloud().Live(), parallel.Cloud().Live()
	for i := range a {
		if math.Float32bits(a[i]) != math.Float32bits(b[i]) {
			t.Fatalf("live[%d]: serial %v parallel %v", i, a[i], b[i])
		}
	}
	if serial.Rotation() != parallel.Rotation() {
		t.Errorf("rotation: serial %v parallel %v", serial.Rotation(), parallel.Rotation())
	}
}

func TestTrackingEvents(t *testing.T) {
	counts := map[telemetry.EventType]int{}
	g := newTestGame(t, Options{
		StepsPerUpdate: 72, // 1.2 seconds
		EventCallback:  func(e telemetry.Event) { counts[e.Type]++ },
	}, func(c *config.Config) {
		c.Signal.Script.DropoutEvery = 1
		c.Signal.Script.Dropout = 0.5
	})

	g.UpdateHeadless()

	if counts[telemetry.EventTrackingAcquired] != 2 || counts[telemetry.EventTrackingLost] != 1 {
		t.Errorf("acquired=%d lost=%d, want 2 and 1",
			counts[telemetry.EventTrackingAcquired], counts[telemetry.EventTrackingLost])
	}
}

func TestSelectColor(t *testing.T) {
	g := newTestGame(t, Options{}, nil)

	if err := g.SelectColor("#00ffff"); err != nil {
		t.Fatal(err)
	}
	if g.Appearance().Color != "#00ffff" {
		t.Errorf("color = %q", g.Appearance().Color)
	}

	err := g.SelectColor("cyan")
	if !errors.Is(err, renderer.ErrInvalidColor) {
		t.Errorf("err = %v, want ErrInvalidColor", err)
	}
	if g.Appearance().Color != "#00ffff" {
		t.Errorf("invalid colour changed appearance to %q", g.Appearance().Color)
	}
}

func TestStatsCallback(t *testing.T) {
	var windows []telemetry.WindowStats
	g := newTestGame(t, Options{
		StatsWindowSec: 0.5,
		StatsCallback:  func(s telemetry.WindowStats) { windows = append(windows, s) },
	}, nil)

	perWindow := int(g.collector.WindowDurationTicks())
	for i := 0; i < perWindow*3; i++ {
		g.UpdateHeadless()
	}

	if len(windows) != 3 {
		t.Fatalf("windows = %d, want 3", len(windows))
	}
	for _, w := range windows {
		if w.Particles != 500 || w.Shape != "HEART" {
			t.Errorf("window = %+v", w)
		}
		if w.DetectedFraction != 1 {
			t.Errorf("detected fraction = %v, want 1", w.DetectedFraction)
		}
		if math.Abs(w.OpennessMean-0.5) > 1e-6 {
			t.Errorf("openness mean = %v, want 0.5", w.OpennessMean)
		}
		if w.RadiusMax <= 0 || w.RadiusP10 > w.RadiusP90 {
			t.Errorf("radius stats = %+v", w)
		}
	}
}

func TestOutputFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	g := newTestGame(t, Options{OutputDir: dir, StatsWindowSec: 0.2}, nil)

	if err := g.SelectShape(systems.ShapeFirework); err != nil {
		t.Fatal(err)
	}
	waitForTarget(t, g)
	for i := 0; i < 30; i++ {
		g.UpdateHeadless()
	}
	g.Unload()

	for _, name := range []string{"config.yaml", "telemetry.csv", "perf.csv", "events.csv"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestRadiusStride(t *testing.T) {
	tests := []struct {
		sample int
		want   int
	}{
		{0, 0},
		{500, 0},
		{1000, 0},
		{100, 5},
		{200, 2},
	}

	for _, tt := range tests {
		g := newTestGame(t, Options{}, func(c *config.Config) { c.Telemetry.RadiusSample = tt.sample })
		if got := g.radiusStride(); got != tt.want {
			t.Errorf("sample %d: stride = %d, want %d", tt.sample, got, tt.want)
		}
	}
}

func TestKeyboardSignal(t *testing.T) {
	k := newKeyboardSignal(0.8)
	if k.signal().Detected || k.signal().Openness != 1 {
		t.Fatalf("initial = %+v, want hidden and open", k.signal())
	}

	tests := []struct {
		name         string
		delta        float32
		toggle       bool
		wantDetected bool
		wantOpenness float32
	}{
		{"raise hand", 0, true, true, 1},
		{"pinch", -0.3, false, true, 0.7},
		{"clamp low", -5, false, true, 0},
		{"clamp high", 5, false, true, 1},
		{"lower hand", 0, true, false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k.apply(tt.delta, tt.toggle)
			sig := k.signal()
			if sig.Detected != tt.wantDetected {
				t.Errorf("detected = %v, want %v", sig.Detected, tt.wantDetected)
			}
			if math.Abs(float64(sig.Openness-tt.wantOpenness)) > 1e-6 {
				t.Errorf("openness = %v, want %v", sig.Openness, tt.wantOpenness)
			}
		})
	}
}
