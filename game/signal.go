package game

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pthm-cable/zen/components"
	"github.com/pthm-cable/zen/signal"
	"github.com/pthm-cable/zen/telemetry"
)

// initSignalSource wires the configured control source.
func (g *Game) initSignalSource() error {
	switch g.source {
	case "keyboard":
		g.keyboard = newKeyboardSignal(float32(g.cfg.Signal.KeyStep))
	case "script":
		g.script = signal.NewScript(g.cfg.Signal.Script)
	case "websocket":
		g.startBridge()
	default:
		return fmt.Errorf("unknown signal source %q", g.source)
	}
	return nil
}

// startBridge runs the WebSocket bridge until Unload.
func (g *Game) startBridge() {
	g.bridge = signal.NewServer(g.cell, g.cfg.Signal)

	ctx, cancel := context.WithCancel(context.Background())
	g.bridgeStop = cancel
	g.bridgeDone = make(chan struct{})

	go func() {
		defer close(g.bridgeDone)
		if err := g.bridge.Run(ctx); err != nil {
			slog.Error("signal bridge stopped", "error", err)
		}
	}()
}

// stopBridge shuts the bridge down and waits for it to exit.
func (g *Game) stopBridge() {
	if g.bridgeStop == nil {
		return
	}
	g.bridgeStop()
	<-g.bridgeDone
	g.bridgeStop = nil
}

// readSignal returns the reading for the current step. The cell is read once
// per step; sources never block the frame loop.
func (g *Game) readSignal() components.Signal {
	if g.script != nil {
		g.cell.Store(g.script.At(g.clock))
	}
	return g.cell.Load(time.Now())
}

// trackSignal records the reading and emits tracking transitions.
func (g *Game) trackSignal(sig components.Signal) {
	if sig.Detected != g.lastSignal.Detected {
		typ := telemetry.EventTrackingLost
		if sig.Detected {
			typ = telemetry.EventTrackingAcquired
		}
		g.emit(telemetry.NewEvent(typ, g.tick, g.source))
	}
	g.lastSignal = sig
	g.collector.RecordSignal(sig)
}
