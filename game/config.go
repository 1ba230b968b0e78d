package game

import (
	"github.com/pthm-cable/zen/config"
	"github.com/pthm-cable/zen/telemetry"
)

// Options configures a Game.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	OutputDir      string
	Headless       bool
	StepsPerUpdate int

	// Config overrides the global configuration when non-nil.
	Config *config.Config

	// Overrides for config values; empty means use config.
	Shape        string
	SignalSource string
	ListenAddr   string

	// StatsCallback receives every flushed stats window.
	StatsCallback func(telemetry.WindowStats)
	// EventCallback receives every telemetry event.
	EventCallback func(telemetry.Event)
}

// resolveConfig returns a private copy of the configuration with the
// option overrides applied.
func (o Options) resolveConfig() *config.Config {
	base := o.Config
	if base == nil {
		base = config.Cfg()
	}
	cfg := *base

	if o.Shape != "" {
		cfg.Particles.InitialShape = o.Shape
	}
	if o.SignalSource != "" {
		cfg.Signal.Source = o.SignalSource
	}
	if o.ListenAddr != "" {
		cfg.Signal.ListenAddr = o.ListenAddr
	}
	if o.StatsWindowSec > 0 {
		cfg.Telemetry.StatsWindow = o.StatsWindowSec
	}
	return &cfg
}

// config returns the game's resolved configuration.
func (g *Game) config() *config.Config {
	return g.cfg
}
