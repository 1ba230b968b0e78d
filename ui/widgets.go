package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawBar draws a progress bar for [0, 1] values.
func (r *Renderer) DrawBar(x, y int32, label string, value float32, width int32) int32 {
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}

	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth - 50

	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(barX, y+3, barWidth, r.Theme.BarHeight, r.Theme.BarBg)

	fillWidth := int32(float32(barWidth) * value)
	rl.DrawRectangle(barX, y+3, fillWidth, r.Theme.BarHeight, r.Theme.BarFill)

	rl.DrawText(fmt.Sprintf("%.2f", value), barX+barWidth+5, y, r.Theme.FontSize, r.Theme.ValueColor)

	return y + r.Theme.LineHeight + 2
}

// DrawStatusDot draws a filled status indicator followed by text.
func (r *Renderer) DrawStatusDot(x, y int32, on bool, text string) int32 {
	c := r.Theme.StatusOff
	if on {
		c = r.Theme.StatusOn
	}
	rl.DrawCircle(x+5, y+r.Theme.FontSize/2, 5, c)
	rl.DrawText(text, x+16, y, r.Theme.FontSize, r.Theme.LabelColor)
	return y + r.Theme.LineHeight
}

// DrawColorSwatch draws a round swatch, ringed when selected.
func (r *Renderer) DrawColorSwatch(cx, cy, radius float32, color rl.Color, selected bool) {
	rl.DrawCircleV(rl.Vector2{X: cx, Y: cy}, radius, color)
	if selected {
		rl.DrawCircleLines(int32(cx), int32(cy), radius+3, r.Theme.Highlight)
	}
}

// DrawTextBox draws a multi-line text box centered horizontally at y.
func (r *Renderer) DrawTextBox(centerX, y int32, title string, lines []string, width int32) {
	height := r.Theme.Padding*2 + r.Theme.LineHeight*int32(len(lines)+1)
	x := centerX - width/2
	r.DrawPanel(x, y, width, height)

	ty := y + r.Theme.Padding
	tw := rl.MeasureText(title, r.Theme.FontSize+2)
	rl.DrawText(title, centerX-tw/2, ty, r.Theme.FontSize+2, r.Theme.ValueColor)
	ty += r.Theme.LineHeight + 2
	for _, line := range lines {
		lw := rl.MeasureText(line, r.Theme.FontSize-2)
		rl.DrawText(line, centerX-lw/2, ty, r.Theme.FontSize-2, r.Theme.LabelColor)
		ty += r.Theme.LineHeight
	}
}
