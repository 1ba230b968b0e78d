package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/zen/components"
	"github.com/pthm-cable/zen/systems"
)

// keyboardSignal stands in for a hand tracker: Space shows or hides the
// "hand", Up/Down (or Shift + wheel) open and close it.
type keyboardSignal struct {
	detected bool
	openness float32
	step     float32 // openness per second while a key is held
}

func newKeyboardSignal(step float32) *keyboardSignal {
	return &keyboardSignal{openness: 1, step: step}
}

// apply changes the reading by delta openness and optionally toggles detection.
func (k *keyboardSignal) apply(delta float32, toggle bool) {
	if toggle {
		k.detected = !k.detected
	}
	k.openness += delta
	if k.openness < 0 {
		k.openness = 0
	}
	if k.openness > 1 {
		k.openness = 1
	}
}

func (k *keyboardSignal) signal() components.Signal {
	return components.Signal{Detected: k.detected, Openness: k.openness}
}

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) || rl.IsKeyPressed(rl.KeyF) {
		g.toggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeyH) {
		g.showUI = !g.showUI
	}

	// Number keys select shapes in UI order
	kinds := systems.ShapeKinds()
	for i, kind := range kinds {
		if rl.IsKeyPressed(rl.KeyOne + int32(i)) {
			g.selectShapeLogged(kind)
		}
	}
	if rl.IsKeyPressed(rl.KeyC) {
		g.cycleColor()
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}

	shift := rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift)
	g.handleKeyboardSignal(shift)
	g.handleCameraInput(shift)
}

// handleKeyboardSignal feeds the keyboard source into the signal cell.
func (g *Game) handleKeyboardSignal(shift bool) {
	if g.keyboard == nil {
		return
	}

	dt := rl.GetFrameTime()
	var delta float32
	if rl.IsKeyDown(rl.KeyUp) {
		delta += g.keyboard.step * dt
	}
	if rl.IsKeyDown(rl.KeyDown) {
		delta -= g.keyboard.step * dt
	}
	if shift {
		delta += rl.GetMouseWheelMove() * 0.05
	}

	g.keyboard.apply(delta, rl.IsKeyPressed(rl.KeySpace))
	g.cell.Store(g.keyboard.signal())
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	if g.camera != nil {
		g.camera.Resize(float64(h))
	}
	if g.background != nil {
		g.background.Resize(int32(w), int32(h))
	}
	if g.controls != nil {
		g.controls.Resize(int32(w), int32(h))
	}
}

// handleCameraInput processes orbit drag and zoom.
func (g *Game) handleCameraInput(shift bool) {
	if g.camera == nil {
		return
	}

	g.camera.Update(float64(rl.GetFrameTime()))

	mouse := rl.GetMousePosition()
	overUI := g.showUI && g.controls != nil && g.controls.Contains(mouse.X, mouse.Y)

	if rl.IsMouseButtonDown(rl.MouseButtonLeft) && !overUI {
		d := rl.GetMouseDelta()
		g.camera.Drag(float64(d.X), float64(d.Y))
	}

	if !shift {
		if wheel := rl.GetMouseWheelMove(); wheel != 0 {
			g.camera.Zoom(float64(wheel))
		}
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset(g.cfg.Camera.Distance)
	}
}

// selectShapeLogged selects a shape from UI input, logging rejections.
func (g *Game) selectShapeLogged(kind systems.ShapeKind) {
	if err := g.SelectShape(kind); err != nil {
		slog.Warn("shape selection rejected", "error", err)
	}
}

// cycleColor advances to the next palette colour.
func (g *Game) cycleColor() {
	hexes := g.cfg.Render.Palette
	if len(hexes) == 0 {
		return
	}
	next := 0
	for i, h := range hexes {
		if h == g.appearance.Color {
			next = (i + 1) % len(hexes)
			break
		}
	}
	if err := g.SelectColor(hexes[next]); err != nil {
		slog.Warn("color selection rejected", "error", err)
	}
}

func (g *Game) toggleFullscreen() {
	rl.ToggleFullscreen()
	g.fullscreen = !g.fullscreen
}
