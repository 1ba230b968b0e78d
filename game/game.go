package game

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/zen/camera"
	"github.com/pthm-cable/zen/components"
	"github.com/pthm-cable/zen/config"
	"github.com/pthm-cable/zen/renderer"
	"github.com/pthm-cable/zen/signal"
	"github.com/pthm-cable/zen/systems"
	"github.com/pthm-cable/zen/telemetry"
	"github.com/pthm-cable/zen/ui"
)

// Game holds the complete viewer state: the particle cloud, its signal
// source, background shape regeneration, telemetry and (in graphical mode)
// the renderer and UI.
type Game struct {
	cfg *config.Config
	rng *rand.Rand

	// Simulation
	cloud      *systems.Cloud
	integrator *systems.Integrator
	parallel   *parallelState

	// Shape selection. shape is the latest request, targetShape the buffer
	// the cloud is currently easing toward.
	shape       systems.ShapeKind
	targetShape systems.ShapeKind
	regen       *regenerator
	appliedGen  uint64

	// Control signal
	source     string
	cell       *signal.Cell
	script     *signal.Script
	keyboard   *keyboardSignal
	bridge     *signal.Server
	bridgeStop context.CancelFunc
	bridgeDone chan struct{}
	lastSignal components.Signal

	// State
	clock          float64
	tick           int32
	headless       bool
	stepsPerUpdate int

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)
	eventCallback func(telemetry.Event)

	// Rendering (graphical mode only)
	appearance   components.Appearance
	palette      []rl.Color
	camera       *camera.Orbit
	points       *renderer.PointCloudRenderer
	background   *renderer.Background
	hud          *ui.HUD
	controls     *ui.ControlsPanel
	showUI       bool
	fullscreen   bool
	screenWidth  float32
	screenHeight float32
}

// NewGameWithOptions creates a game with the given options. The initial
// target is generated synchronously so the cloud is complete on return.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.resolveConfig()

	shape, err := systems.ParseShapeKind(cfg.Particles.InitialShape)
	if err != nil {
		return nil, fmt.Errorf("initial shape: %w", err)
	}
	palette, err := renderer.ParsePalette(cfg.Render.Palette)
	if err != nil {
		return nil, fmt.Errorf("render palette: %w", err)
	}
	if _, err := renderer.ParseHexColor(cfg.Render.Color); err != nil {
		return nil, fmt.Errorf("render color: %w", err)
	}

	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	g := &Game{
		cfg:            cfg,
		rng:            rand.New(rand.NewSource(opts.Seed)),
		integrator:     systems.NewIntegrator(systems.MotionParamsFromConfig(cfg)),
		shape:          shape,
		targetShape:    shape,
		regen:          newRegenerator(cfg.Particles.Count),
		source:         cfg.Signal.Source,
		cell:           signal.NewCell(time.Duration(cfg.Signal.StaleAfter * float64(time.Second))),
		lastSignal:     components.NeutralSignal(),
		headless:       opts.Headless,
		stepsPerUpdate: steps,
		collector:      telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Derived.DT32),
		perfCollector:  telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		logStats:       opts.LogStats,
		statsCallback:  opts.StatsCallback,
		eventCallback:  opts.EventCallback,
		appearance: components.Appearance{
			Color:     cfg.Render.Color,
			Opacity:   float32(cfg.Render.Opacity),
			PointSize: float32(cfg.Render.PointSize),
		},
		palette:      palette,
		showUI:       true,
		screenWidth:  cfg.Derived.ScreenW32,
		screenHeight: cfg.Derived.ScreenH32,
	}

	if err := g.spawnCloud(); err != nil {
		return nil, err
	}

	if cfg.Motion.ParallelThreshold > 0 && g.cloud.Len() >= cfg.Motion.ParallelThreshold {
		g.parallel = newParallelState()
	}

	if err := g.initSignalSource(); err != nil {
		g.Unload()
		return nil, err
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		g.Unload()
		return nil, err
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		g.Unload()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	if !g.headless {
		g.initRendering()
	}

	g.logStartup()
	return g, nil
}

// Update runs one graphical frame: input, then simulation steps using the
// raylib frame time. The perf tick stays open until Draw.
func (g *Game) Update() {
	g.perfCollector.StartTick()
	g.handleInput()

	dt := float64(rl.GetFrameTime())
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step(dt)
	}
}

// UpdateHeadless runs stepsPerUpdate fixed-dt steps without graphics.
func (g *Game) UpdateHeadless() {
	dt := g.cfg.Physics.DT
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.perfCollector.StartTick()
		g.step(dt)
		g.perfCollector.EndTick()
	}
}

// step advances the simulation by dt seconds.
func (g *Game) step(dt float64) {
	g.perfCollector.StartPhase(telemetry.PhaseSignal)
	g.clock += systems.ClampFrameDT(dt)
	sig := g.readSignal()
	g.trackSignal(sig)

	g.perfCollector.StartPhase(telemetry.PhaseRegen)
	g.applyPendingTarget()

	g.perfCollector.StartPhase(telemetry.PhaseIntegrate)
	f := g.integrator.Prepare(sig, dt, g.clock)
	g.advance(f)

	g.perfCollector.StartPhase(telemetry.PhaseRotate)
	g.integrator.Rotate(g.cloud, f)

	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()
}

// SelectShape requests a new target shape. Generation runs in the
// background; the cloud keeps easing toward the previous target until the
// new buffer is ready. Selecting the shape already requested is a no-op.
func (g *Game) SelectShape(kind systems.ShapeKind) error {
	if !kind.Valid() {
		return fmt.Errorf("selecting shape: %w: %v", systems.ErrUnknownShape, kind)
	}
	if kind == g.shape {
		return nil
	}

	g.shape = kind
	gen := g.regen.start(kind, g.rng.Int63())
	g.collector.RecordShapeSelection()
	g.emit(telemetry.NewRegenEvent(telemetry.EventShapeSelected, g.tick, kind.String(), gen))
	return nil
}

// SelectColor sets the point colour. It affects rendering only.
func (g *Game) SelectColor(hex string) error {
	c, err := renderer.ParseHexColor(hex)
	if err != nil {
		return fmt.Errorf("selecting color: %w", err)
	}
	g.appearance.Color = hex
	if g.points != nil {
		g.points.SetColor(c)
	}
	g.emit(telemetry.NewEvent(telemetry.EventColorSelected, g.tick, hex))
	return nil
}

// Cloud returns the particle cloud. Callers must treat it as read-only.
func (g *Game) Cloud() *systems.Cloud {
	return g.cloud
}

// Rotation returns the cumulative cloud rotation about +Y in radians.
func (g *Game) Rotation() float64 {
	return g.cloud.Rotation()
}

// Shape returns the most recently selected shape.
func (g *Game) Shape() systems.ShapeKind {
	return g.shape
}

// TargetShape returns the shape of the buffer the cloud is easing toward.
func (g *Game) TargetShape() systems.ShapeKind {
	return g.targetShape
}

// RegenPending reports whether a selected shape has not been swapped in yet.
func (g *Game) RegenPending() bool {
	return g.regen.pending(g.appliedGen)
}

// Signal returns the reading used by the most recent step.
func (g *Game) Signal() components.Signal {
	return g.lastSignal
}

// SignalCell returns the cell external sources write into.
func (g *Game) SignalCell() *signal.Cell {
	return g.cell
}

// Appearance returns the current rendering parameters.
func (g *Game) Appearance() components.Appearance {
	return g.appearance
}

// Clock returns simulated seconds since start.
func (g *Game) Clock() float64 {
	return g.clock
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.tick
}
