package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/zen/systems"
)

// spawnCloud generates the initial target and scatters the particles
// around the origin. Generation is synchronous so the first frame already
// has a complete target.
func (g *Game) spawnCloud() error {
	cfg := g.config()

	target, err := systems.GenerateShape(g.shape, cfg.Particles.Count, g.rng)
	if err != nil {
		return fmt.Errorf("generating %v: %w", g.shape, err)
	}
	cloud, err := systems.NewCloud(target, cfg.Particles.Scatter, g.rng)
	if err != nil {
		return fmt.Errorf("creating cloud: %w", err)
	}
	g.cloud = cloud
	return nil
}

// Unload stops background work and releases resources. Safe to call on a
// partially constructed game.
func (g *Game) Unload() {
	if g.regen != nil {
		g.regen.stop()
	}
	g.stopParallelWorkers()
	g.stopBridge()

	if g.outputManager != nil {
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
		g.outputManager = nil
	}
}
