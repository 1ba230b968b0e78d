package game

import (
	"log/slog"

	"github.com/pthm-cable/zen/telemetry"
)

// flushTelemetry closes the stats window when it is due.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, telemetry.CloudState{
		Shape:    g.targetShape.String(),
		Live:     g.cloud.Live(),
		Rotation: g.cloud.Rotation(),
		Stride:   g.radiusStride(),
	})
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// radiusStride returns the sampling stride that keeps roughly
// telemetry.radius_sample particles in the radius distribution.
func (g *Game) radiusStride() int {
	sample := g.config().Telemetry.RadiusSample
	n := g.cloud.Len()
	if sample <= 0 || sample >= n {
		return 0
	}
	return n / sample
}
