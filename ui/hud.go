package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Detected     bool
	Openness     float32 // effective openness driving the cloud
	Source       string
	BridgeStatus string // empty unless the WebSocket bridge is in use
	Shape        string
	Pending      bool // a selected shape is still being generated
	Particles    int
	Speed        int
	FPS          int32
	Hints        []string // instructions shown while no hand is detected
	ScreenWidth  int32
	ScreenHeight int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	t := r.Theme
	x := t.Padding + 12
	y := t.Padding + 12

	rl.DrawText(data.Title, x, y, t.TitleFontSize, t.ValueColor)
	y += t.TitleFontSize + 8

	status := "Show hand to control"
	if data.Detected {
		status = fmt.Sprintf("Hand Control Active (%d%%)", int(data.Openness*100+0.5))
	}
	y = r.DrawStatusDot(x, y, data.Detected, status)

	if data.BridgeStatus != "" {
		rl.DrawText(data.BridgeStatus, x+16, y, t.FontSize-2, t.MutedColor)
		y += t.LineHeight
	}
	y += 4

	y = r.DrawBar(x, y, "Openness", data.Openness, 260)

	shape := data.Shape
	if data.Pending {
		shape += " (generating)"
	}
	y = r.DrawLabelValue(x, y, "Shape", shape)
	r.DrawLabelValue(x, y, "Stats",
		fmt.Sprintf("%d pts | %dx | %d FPS | %s", data.Particles, data.Speed, data.FPS, data.Source))

	if !data.Detected && len(data.Hints) > 0 {
		r.DrawTextBox(data.ScreenWidth/2, data.ScreenHeight-150, "Gesture Control", data.Hints, 460)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, h.renderer.Theme.MutedColor)
}
