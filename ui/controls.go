package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/zen/systems"
)

const (
	controlsWidth  = 200
	buttonHeight   = 32
	buttonGap      = 6
	swatchRadius   = 10
	swatchSpacing  = 26
	swatchesPerRow = 7
)

// ControlsData holds the state shown by the controls panel.
type ControlsData struct {
	Active     systems.ShapeKind
	Pending    bool
	Palette    []rl.Color
	PaletteHex []string
	Color      string
	Fullscreen bool
}

// ControlsResult reports what the user clicked this frame.
type ControlsResult struct {
	ShapeClicked     bool
	Shape            systems.ShapeKind
	ColorClicked     bool
	Color            string
	ToggleFullscreen bool
}

// ControlsPanel renders the right-side panel with shape buttons, colour
// swatches and the fullscreen toggle.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	height   int32
}

// NewControlsPanel creates a controls panel anchored to the top right.
func NewControlsPanel(screenW, screenH int32) *ControlsPanel {
	c := &ControlsPanel{
		renderer: NewRenderer(),
		width:    controlsWidth,
	}
	c.Resize(screenW, screenH)
	return c
}

// Resize re-anchors the panel for new screen dimensions.
func (c *ControlsPanel) Resize(screenW, _ int32) {
	t := c.renderer.Theme
	c.x = screenW - c.width - t.Padding - 12
	c.y = t.Padding + 12

	shapes := int32(len(systems.ShapeKinds()))
	c.height = t.Padding*2 +
		t.LineHeight + shapes*(buttonHeight+buttonGap) +
		t.LineHeight + swatchSpacing + buttonGap +
		buttonHeight
}

// Contains reports whether a screen point lies over the panel.
func (c *ControlsPanel) Contains(x, y float32) bool {
	return x >= float32(c.x) && x < float32(c.x+c.width) &&
		y >= float32(c.y) && y < float32(c.y+c.height)
}

// Draw renders the panel and returns the clicks made this frame.
func (c *ControlsPanel) Draw(data ControlsData) ControlsResult {
	var res ControlsResult
	r := c.renderer
	t := r.Theme

	r.DrawPanel(c.x, c.y, c.width, c.height)

	x := float32(c.x + t.Padding)
	y := c.y + t.Padding
	inner := float32(c.width - t.Padding*2)

	y = r.DrawSectionHeader(int32(x), y, "SHAPE")
	for _, kind := range systems.ShapeKinds() {
		label := kind.Label()
		if kind == data.Active {
			label = "> " + label
			if data.Pending {
				label += " ..."
			}
		}
		rec := rl.Rectangle{X: x, Y: float32(y), Width: inner, Height: buttonHeight}
		if gui.Button(rec, label) {
			res.ShapeClicked = true
			res.Shape = kind
		}
		y += buttonHeight + buttonGap
	}

	y = r.DrawSectionHeader(int32(x), y, "COLOR")
	mouse := rl.GetMousePosition()
	clicked := rl.IsMouseButtonPressed(rl.MouseButtonLeft)
	for i, col := range data.Palette {
		if i >= swatchesPerRow || i >= len(data.PaletteHex) {
			break
		}
		cx := x + swatchRadius + float32(i)*swatchSpacing
		cy := float32(y) + swatchRadius
		selected := data.PaletteHex[i] == data.Color
		r.DrawColorSwatch(cx, cy, swatchRadius, col, selected)

		if clicked && rl.CheckCollisionPointCircle(mouse, rl.Vector2{X: cx, Y: cy}, swatchRadius) {
			res.ColorClicked = true
			res.Color = data.PaletteHex[i]
		}
	}
	y += swatchSpacing + buttonGap

	label := "Fullscreen"
	if data.Fullscreen {
		label = "Exit Fullscreen"
	}
	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: inner, Height: buttonHeight}, label) {
		res.ToggleFullscreen = true
	}

	return res
}
