package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/zen/camera"
)

// pointPass describes the GL state one cloud draw runs under.
type pointPass struct {
	Blend      rl.BlendMode
	DepthWrite bool
	Cubes      bool // sized cubes instead of single-pixel points
}

// PointCloudRenderer draws the live particle buffer as additive points.
type PointCloudRenderer struct {
	color     rl.Color
	pointSize float32
}

// NewPointCloudRenderer creates a renderer with the given colour, opacity and
// point size in world units. A point size of zero draws single pixels.
func NewPointCloudRenderer(color rl.Color, opacity, pointSize float32) *PointCloudRenderer {
	return &PointCloudRenderer{
		color:     WithOpacity(color, opacity),
		pointSize: pointSize,
	}
}

// SetColor changes the point colour, keeping the current opacity.
func (r *PointCloudRenderer) SetColor(c rl.Color) {
	c.A = r.color.A
	r.color = c
}

// Color returns the current point colour including alpha.
func (r *PointCloudRenderer) Color() rl.Color {
	return r.color
}

// Camera3D converts an orbit camera into a raylib camera looking at the origin.
func Camera3D(o *camera.Orbit) rl.Camera3D {
	p := o.Position()
	return rl.Camera3D{
		Position:   rl.Vector3{X: float32(p.X), Y: float32(p.Y), Z: float32(p.Z)},
		Target:     rl.Vector3{},
		Up:         rl.Vector3{Y: 1},
		Fovy:       float32(o.FOV),
		Projection: rl.CameraPerspective,
	}
}

// Draw renders live (3 floats per particle) rotated by rotation radians about
// +Y. Must be called between BeginMode3D and EndMode3D. Depth writes are off
// so overlapping particles accumulate instead of occluding each other.
func (r *PointCloudRenderer) Draw(live []float32, rotation float64) {
	pass := r.pass()

	rl.DrawRenderBatchActive()
	if !pass.DepthWrite {
		rl.DisableDepthMask()
	}
	rl.BeginBlendMode(pass.Blend)
	rl.PushMatrix()
	rl.Rotatef(float32(rotation*180/math.Pi), 0, 1, 0)

	n := len(live) / 3
	if !pass.Cubes {
		for i := 0; i < n; i++ {
			j := i * 3
			rl.DrawPoint3D(rl.Vector3{X: live[j], Y: live[j+1], Z: live[j+2]}, r.color)
		}
	} else {
		size := rl.Vector3{X: r.pointSize, Y: r.pointSize, Z: r.pointSize}
		for i := 0; i < n; i++ {
			j := i * 3
			rl.DrawCubeV(rl.Vector3{X: live[j], Y: live[j+1], Z: live[j+2]}, size, r.color)
		}
	}

	rl.PopMatrix()
	rl.EndBlendMode()
	rl.DrawRenderBatchActive()
	if !pass.DepthWrite {
		rl.EnableDepthMask()
	}
}

func (r *PointCloudRenderer) pass() pointPass {
	return pointPass{
		Blend:      rl.BlendAdditive,
		DepthWrite: false,
		Cubes:      r.pointSize > 0,
	}
}
