package renderer

import rl "github.com/gen2brain/raylib-go/raylib"

// Background clears the frame and draws a soft vertical gradient behind the cloud.
type Background struct {
	clear       rl.Color
	top, bottom rl.Color
	screenW     int32
	screenH     int32
}

// NewBackground creates a background for the given screen size. clear is the
// scene clear colour; the gradient runs from slate at the top to black.
func NewBackground(screenW, screenH int32, clear rl.Color) *Background {
	return &Background{
		clear:   clear,
		top:     rl.Color{R: 0x11, G: 0x18, B: 0x27, A: 90},
		bottom:  rl.Color{R: 0, G: 0, B: 0, A: 90},
		screenW: screenW,
		screenH: screenH,
	}
}

// Resize updates the gradient extent.
func (b *Background) Resize(screenW, screenH int32) {
	b.screenW = screenW
	b.screenH = screenH
}

// Draw clears the screen and paints the gradient. Call before BeginMode3D.
func (b *Background) Draw() {
	rl.ClearBackground(b.clear)
	rl.DrawRectangleGradientV(0, 0, b.screenW, b.screenH, b.top, b.bottom)
}
