package game

import (
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/zen/camera"
	"github.com/pthm-cable/zen/renderer"
	"github.com/pthm-cable/zen/telemetry"
	"github.com/pthm-cable/zen/ui"
)

// initRendering builds the camera, renderers and UI. Requires an open window.
func (g *Game) initRendering() {
	cfg := g.config()
	w, h := int32(g.screenWidth), int32(g.screenHeight)

	g.camera = camera.New(cfg.Camera, float64(g.screenHeight))

	color := renderer.MustParseHexColor(g.appearance.Color)
	g.points = renderer.NewPointCloudRenderer(color, g.appearance.Opacity, g.appearance.PointSize)

	bg, err := renderer.ParseHexColor(cfg.Render.Background)
	if err != nil {
		slog.Warn("invalid background color, using black", "value", cfg.Render.Background, "error", err)
		bg = rl.Black
	}
	g.background = renderer.NewBackground(w, h, bg)

	g.hud = ui.NewHUD()
	g.controls = ui.NewControlsPanel(w, h)
}

// Draw renders the frame and closes the perf tick opened by Update.
func (g *Game) Draw() {
	g.perfCollector.StartPhase(telemetry.PhaseRender)

	rl.BeginDrawing()
	g.background.Draw()

	rl.BeginMode3D(renderer.Camera3D(g.camera))
	g.points.Draw(g.cloud.Live(), g.cloud.Rotation())
	rl.EndMode3D()

	if g.showUI {
		g.drawUI()
	}

	rl.EndDrawing()

	g.perfCollector.EndTick()
	g.perfCollector.RecordFrame()
}

// drawUI draws the HUD and controls panel and applies panel clicks.
func (g *Game) drawUI() {
	sig := g.lastSignal

	g.hud.Draw(ui.HUDData{
		Title:        "ZEN PARTICLE",
		Detected:     sig.Detected,
		Openness:     sig.Effective(),
		Source:       g.source,
		BridgeStatus: g.bridgeStatus(),
		Shape:        g.shape.Label(),
		Pending:      g.RegenPending(),
		Particles:    g.cloud.Len(),
		Speed:        g.stepsPerUpdate,
		FPS:          rl.GetFPS(),
		Hints:        g.gestureHints(),
		ScreenWidth:  int32(g.screenWidth),
		ScreenHeight: int32(g.screenHeight),
	})

	res := g.controls.Draw(ui.ControlsData{
		Active:     g.shape,
		Pending:    g.RegenPending(),
		Palette:    g.palette,
		PaletteHex: g.cfg.Render.Palette,
		Color:      g.appearance.Color,
		Fullscreen: g.fullscreen,
	})
	if res.ShapeClicked {
		g.selectShapeLogged(res.Shape)
	}
	if res.ColorClicked {
		if err := g.SelectColor(res.Color); err != nil {
			slog.Warn("color selection rejected", "error", err)
		}
	}
	if res.ToggleFullscreen {
		g.toggleFullscreen()
	}

	g.hud.DrawControls(int32(g.screenWidth), int32(g.screenHeight),
		"1-5: Shape | C: Color | Drag: Orbit | Wheel: Zoom | Home: Reset View | < >: Speed | H: Hide UI | F: Fullscreen")
}

// bridgeStatus describes the WebSocket bridge, or returns "" for other sources.
func (g *Game) bridgeStatus() string {
	if g.bridge == nil {
		return ""
	}
	if !g.bridge.Listening() {
		return "Starting tracker bridge..."
	}
	if n := g.bridge.Clients(); n > 0 {
		return fmt.Sprintf("Tracker connected (%d)", n)
	}
	return "Waiting for tracker on " + g.cfg.Signal.ListenAddr + g.cfg.Signal.Path
}

// gestureHints returns the instructions shown while no hand is detected.
func (g *Game) gestureHints() []string {
	if g.keyboard != nil {
		return []string{
			"Press Space to raise the hand.",
			"Up opens it to expand particles. Down pinches to shrink them.",
		}
	}
	return []string{
		"Pinch thumb & index finger to shrink particles.",
		"Open hand to expand.",
	}
}
