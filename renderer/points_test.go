package renderer

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestPointPass(t *testing.T) {
	tests := []struct {
		name      string
		pointSize float32
		wantCubes bool
	}{
		{"pixel points", 0, false},
		{"negative size", -1, false},
		{"default size", 0.06, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewPointCloudRenderer(rl.White, 0.8, tt.pointSize)
			pass := r.pass()
			if pass.Blend != rl.BlendAdditive {
				t.Errorf("blend = %v, want additive", pass.Blend)
			}
			if pass.DepthWrite {
				t.Error("depth writes enabled; overlapping particles would occlude instead of accumulating")
			}
			if pass.Cubes != tt.wantCubes {
				t.Errorf("cubes = %v, want %v", pass.Cubes, tt.wantCubes)
			}
		})
	}
}
