// Shape preview tool - inspect generated target clouds with sliders.
//
// Usage: go run ./cmd/shapepreview
package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/zen/camera"
	"github.com/pthm-cable/zen/config"
	"github.com/pthm-cable/zen/renderer"
	"github.com/pthm-cable/zen/systems"
	"github.com/pthm-cable/zen/telemetry"
)

const (
	windowWidth  = 1200
	windowHeight = 760
	panelWidth   = 300
)

// PreviewParams holds the generation and drawing parameters.
type PreviewParams struct {
	Shape     systems.ShapeKind
	Count     int
	Seed      int64
	Expansion float32
	PointSize float32
}

func defaultParams(cfg *config.Config) PreviewParams {
	kind, err := systems.ParseShapeKind(cfg.Particles.InitialShape)
	if err != nil {
		kind = systems.ShapeHeart
	}
	return PreviewParams{
		Shape:     kind,
		Count:     cfg.Particles.Count,
		Seed:      1,
		Expansion: 1,
		PointSize: float32(cfg.Render.PointSize),
	}
}

func main() {
	if err := config.Init(""); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rl.SetConfigFlags(rl.FlagMsaa4xHint)
	rl.InitWindow(windowWidth, windowHeight, "Shape Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	params := defaultParams(cfg)
	orbit := camera.New(cfg.Camera, windowHeight)
	color := renderer.MustParseHexColor(cfg.Render.Color)
	points := renderer.NewPointCloudRenderer(color, float32(cfg.Render.Opacity), params.PointSize)

	var (
		buf        []float32
		scaled     []float32
		radii      []float64
		mean, p50  float64
		maxR       float64
		needsRegen = true
	)

	for !rl.WindowShouldClose() {
		if needsRegen {
			var err error
			buf, err = systems.GenerateShape(params.Shape, params.Count, rand.New(rand.NewSource(params.Seed)))
			if err != nil {
				slog.Error("generation failed", "error", err)
				buf = buf[:0]
			}
			radii = telemetry.Radii(buf, 1, radii)
			mean, _, p50, _, maxR = telemetry.ComputeRadiusStats(radii)
			needsRegen = false
		}

		// Apply expansion the same way the integrator scales targets
		if cap(scaled) < len(buf) {
			scaled = make([]float32, len(buf))
		}
		scaled = scaled[:len(buf)]
		for i, v := range buf {
			scaled[i] = v * params.Expansion
		}

		// Camera input outside the panel
		orbit.Update(float64(rl.GetFrameTime()))
		mouse := rl.GetMousePosition()
		if mouse.X < windowWidth-panelWidth {
			if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
				d := rl.GetMouseDelta()
				orbit.Drag(float64(d.X), float64(d.Y))
			}
			if wheel := rl.GetMouseWheelMove(); wheel != 0 {
				orbit.Zoom(float64(wheel))
			}
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.Color{R: 5, G: 5, B: 5, A: 255})

		rl.BeginMode3D(renderer.Camera3D(orbit))
		points.Draw(scaled, 0)
		rl.DrawGrid(10, 1)
		rl.EndMode3D()

		rl.DrawText(fmt.Sprintf("%s  n=%d  seed=%d", params.Shape, params.Count, params.Seed), 15, 15, 18, rl.LightGray)
		rl.DrawText(fmt.Sprintf("Radius mean: %.3f  p50: %.3f  max: %.3f", mean, p50, maxR), 15, 40, 16, rl.Gray)

		// Control panel
		panelX := float32(windowWidth - panelWidth + 10)
		panelY := float32(15)
		inner := float32(panelWidth - 20)
		rl.DrawRectangle(int32(panelX-10), 0, panelWidth, windowHeight, rl.Color{R: 20, G: 25, B: 30, A: 240})

		rl.DrawText("Shape", int32(panelX), int32(panelY), 20, rl.RayWhite)
		panelY += 30
		for _, kind := range systems.ShapeKinds() {
			label := kind.Label() + " (" + kind.String() + ")"
			if kind == params.Shape {
				label = "> " + label
			}
			if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: inner, Height: 28}, label) && kind != params.Shape {
				params.Shape = kind
				needsRegen = true
			}
			panelY += 34
		}
		panelY += 10

		rl.DrawText("Particles", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newCount := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: inner - 60, Height: 20},
			"", "",
			float32(params.Count), 100, 20000,
		)
		rl.DrawText(fmt.Sprintf("%d", params.Count), int32(panelX+inner-55), int32(panelY+2), 16, rl.LightGray)
		if int(newCount) != params.Count {
			params.Count = int(newCount)
			needsRegen = true
		}
		panelY += 35

		rl.DrawText("Expansion (openness)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		params.Expansion = gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: inner - 60, Height: 20},
			"", "",
			params.Expansion, float32(cfg.Motion.MinExpansion), float32(cfg.Motion.MinExpansion+cfg.Motion.ExpansionSpan),
		)
		rl.DrawText(fmt.Sprintf("%.2f", params.Expansion), int32(panelX+inner-55), int32(panelY+2), 16, rl.LightGray)
		panelY += 35

		rl.DrawText("Point size", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSize := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: inner - 60, Height: 20},
			"", "",
			params.PointSize, 0, 0.2,
		)
		rl.DrawText(fmt.Sprintf("%.3f", params.PointSize), int32(panelX+inner-55), int32(panelY+2), 16, rl.LightGray)
		if newSize != params.PointSize {
			params.PointSize = newSize
			points = renderer.NewPointCloudRenderer(color, float32(cfg.Render.Opacity), params.PointSize)
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: inner/2 - 5, Height: 30}, "Random Seed") {
			params.Seed = rand.Int63n(99999) + 1
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + inner/2 + 5, Y: panelY, Width: inner/2 - 5, Height: 30}, "Reset All") {
			params = defaultParams(cfg)
			points = renderer.NewPointCloudRenderer(color, float32(cfg.Render.Opacity), params.PointSize)
			orbit.Reset(cfg.Camera.Distance)
			needsRegen = true
		}

		rl.DrawText("Drag: orbit | Wheel: zoom", int32(panelX), windowHeight-30, 12, rl.Gray)

		rl.EndDrawing()
	}
}
