package game

import (
	"log/slog"

	"github.com/pthm-cable/zen/telemetry"
)

// logStartup logs the resolved run parameters once.
func (g *Game) logStartup() {
	cfg := g.config()
	attrs := []any{
		"particles", g.cloud.Len(),
		"shape", g.shape.String(),
		"signal", g.source,
		"headless", g.headless,
		"parallel", g.parallel != nil,
		"stats_window", cfg.Telemetry.StatsWindow,
	}
	if g.bridge != nil {
		attrs = append(attrs, "listen", cfg.Signal.ListenAddr, "path", cfg.Signal.Path)
	}
	if dir := g.outputManager.Dir(); dir != "" {
		attrs = append(attrs, "output", dir)
	}
	slog.Info("zen started", attrs...)
}

// emit routes a telemetry event to the log, the events CSV and the callback.
func (g *Game) emit(e telemetry.Event) {
	if g.logStats {
		e.LogEvent()
	}
	if err := g.outputManager.WriteEvent(e); err != nil {
		slog.Error("failed to write event", "error", err)
	}
	if g.eventCallback != nil {
		g.eventCallback(e)
	}
}
