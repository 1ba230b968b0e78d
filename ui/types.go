// Package ui draws the viewer overlay: the status HUD and the shape and
// colour controls.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	MutedColor     rl.Color
	BarBg          rl.Color
	BarFill        rl.Color
	StatusOn       rl.Color
	StatusOff      rl.Color
	Highlight      rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
	TitleFontSize  int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 0, G: 0, B: 0, A: 128},
		PanelBorder:    rl.Color{R: 255, G: 255, B: 255, A: 26},
		SectionHeader:  rl.Color{R: 156, G: 163, B: 175, A: 255},
		LabelColor:     rl.Color{R: 209, G: 213, B: 219, A: 255},
		ValueColor:     rl.White,
		MutedColor:     rl.Color{R: 107, G: 114, B: 128, A: 255},
		BarBg:          rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:        rl.Color{R: 100, G: 150, B: 200, A: 255},
		StatusOn:       rl.Color{R: 74, G: 222, B: 128, A: 255},
		StatusOff:      rl.Color{R: 248, G: 113, B: 113, A: 255},
		Highlight:      rl.White,
		Padding:        12,
		LineHeight:     18,
		LabelWidth:     80,
		BarHeight:      10,
		FontSize:       14,
		HeaderFontSize: 12,
		TitleFontSize:  28,
	}
}
