package renderer

import (
	"errors"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    rl.Color
		wantErr bool
	}{
		{"#ff0066", rl.Color{R: 255, G: 0, B: 102, A: 255}, false},
		{"#00FFFF", rl.Color{R: 0, G: 255, B: 255, A: 255}, false},
		{"#050505", rl.Color{R: 5, G: 5, B: 5, A: 255}, false},
		{"ff0066", rl.Color{}, true},
		{"#ff006", rl.Color{}, true},
		{"#ff00667", rl.Color{}, true},
		{"#gg0066", rl.Color{}, true},
		{"", rl.Color{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHexColor(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidColor) {
					t.Errorf("ParseHexColor(%q) error = %v, want ErrInvalidColor", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHexColor(%q) unexpected error %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseHexColor(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParsePalette(t *testing.T) {
	colors, err := ParsePalette([]string{"#ff0066", "#ffffff"})
	if err != nil {
		t.Fatal(err)
	}
	if len(colors) != 2 || colors[1] != rl.White {
		t.Errorf("unexpected palette %+v", colors)
	}

	if _, err := ParsePalette([]string{"#ff0066", "nope"}); !errors.Is(err, ErrInvalidColor) {
		t.Errorf("expected ErrInvalidColor for bad entry, got %v", err)
	}
}

func TestWithOpacity(t *testing.T) {
	tests := []struct {
		opacity float32
		want    uint8
	}{
		{0.8, 204},
		{1, 255},
		{0, 0},
		{-1, 0},
		{2, 255},
	}

	for _, tt := range tests {
		if got := WithOpacity(rl.Red, tt.opacity).A; got != tt.want {
			t.Errorf("WithOpacity(%v).A = %d, want %d", tt.opacity, got, tt.want)
		}
	}
}

func TestPointCloudRendererSetColorKeepsOpacity(t *testing.T) {
	r := NewPointCloudRenderer(MustParseHexColor("#ff0066"), 0.8, 0)
	r.SetColor(MustParseHexColor("#00ffff"))

	got := r.Color()
	if got.R != 0 || got.G != 255 || got.B != 255 || got.A != 204 {
		t.Errorf("Color() = %+v, want cyan at alpha 204", got)
	}
}
