// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Particles ParticlesConfig `yaml:"particles"`
	Motion    MotionConfig    `yaml:"motion"`
	Signal    SignalConfig    `yaml:"signal"`
	Camera    CameraConfig    `yaml:"camera"`
	Render    RenderConfig    `yaml:"render"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PhysicsConfig holds the fixed headless timestep.
type PhysicsConfig struct {
	DT float64 `yaml:"dt"` // Seconds per headless tick
}

// ParticlesConfig holds particle buffer settings.
type ParticlesConfig struct {
	Count        int     `yaml:"count"`         // N, identical for every shape
	Scatter      float64 `yaml:"scatter"`       // Edge length of the startup scatter cube
	InitialShape string  `yaml:"initial_shape"` // Shape name or label
}

// MotionConfig holds frame integrator parameters.
type MotionConfig struct {
	MinExpansion      float64 `yaml:"min_expansion"`      // Scale at openness 0
	ExpansionSpan     float64 `yaml:"expansion_span"`     // Added scale at openness 1
	NoiseAmplitude    float64 `yaml:"noise_amplitude"`    // Breathing amplitude at openness 1
	SmoothingRate     float64 `yaml:"smoothing_rate"`     // Blend factor per second, clamped to [0,1] per frame
	RotationRate      float64 `yaml:"rotation_rate"`      // Radians per second per unit of (openness + bias)
	RotationBias      float64 `yaml:"rotation_bias"`      // Keeps the cloud turning when pinched
	ParallelThreshold int     `yaml:"parallel_threshold"` // Particle count at which Advance is chunked across workers
}

// SignalConfig holds control-signal source parameters.
type SignalConfig struct {
	Source     string       `yaml:"source"`      // keyboard, websocket or script
	ListenAddr string       `yaml:"listen_addr"` // WebSocket bridge address
	Path       string       `yaml:"path"`        // WebSocket endpoint path
	StaleAfter float64      `yaml:"stale_after"` // Seconds without updates before the signal reads as lost (<=0 disables)
	PinchMin   float64      `yaml:"pinch_min"`   // Thumb-index distance treated as fully closed
	PinchMax   float64      `yaml:"pinch_max"`   // Thumb-index distance treated as fully open
	KeyStep    float64      `yaml:"key_step"`    // Openness change per second while a key is held
	Script     ScriptConfig `yaml:"script"`
}

// ScriptConfig drives the deterministic headless signal.
type ScriptConfig struct {
	Base         float64 `yaml:"base"`
	Amplitude    float64 `yaml:"amplitude"`
	Period       float64 `yaml:"period"`        // Seconds per oscillation (0 = constant)
	DropoutEvery float64 `yaml:"dropout_every"` // Seconds between tracking losses (0 = never)
	Dropout      float64 `yaml:"dropout"`       // Seconds each loss lasts
}

// CameraConfig holds orbit camera settings.
type CameraConfig struct {
	Distance        float64 `yaml:"distance"`
	MinDistance     float64 `yaml:"min_distance"`
	MaxDistance     float64 `yaml:"max_distance"`
	FOV             float64 `yaml:"fov"`
	AutoRotateSpeed float64 `yaml:"auto_rotate_speed"` // 1.0 = one orbit per 60 seconds
}

// RenderConfig holds point drawing parameters.
type RenderConfig struct {
	Color      string   `yaml:"color"`
	Palette    []string `yaml:"palette"`
	Opacity    float64  `yaml:"opacity"`
	PointSize  float64  `yaml:"point_size"`
	Background string   `yaml:"background"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
	RadiusSample        int     `yaml:"radius_sample"` // Particles sampled per window for radius quantiles (0 = all)
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32         float32 // Physics.DT as float32
	BufferLen    int     // Particles.Count * 3
	ScreenW32    float32 // Screen.Width as float32
	ScreenH32    float32 // Screen.Height as float32
	TicksPerStat int     // Telemetry.StatsWindow in headless ticks
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects values the simulation cannot run with.
func (c *Config) validate() error {
	if c.Particles.Count < 1 {
		return fmt.Errorf("particles.count must be positive, got %d", c.Particles.Count)
	}
	if c.Physics.DT <= 0 {
		return fmt.Errorf("physics.dt must be positive, got %v", c.Physics.DT)
	}
	if c.Signal.PinchMax <= c.Signal.PinchMin {
		return fmt.Errorf("signal.pinch_max (%v) must exceed signal.pinch_min (%v)",
			c.Signal.PinchMax, c.Signal.PinchMin)
	}
	if c.Camera.MinDistance <= 0 || c.Camera.MaxDistance < c.Camera.MinDistance {
		return fmt.Errorf("camera distance bounds invalid: [%v, %v]",
			c.Camera.MinDistance, c.Camera.MaxDistance)
	}
	switch c.Signal.Source {
	case "keyboard", "websocket", "script":
	default:
		return fmt.Errorf("signal.source must be keyboard, websocket or script, got %q", c.Signal.Source)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.BufferLen = c.Particles.Count * 3
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	ticks := int(c.Telemetry.StatsWindow / c.Physics.DT)
	if ticks < 1 {
		ticks = 1
	}
	c.Derived.TicksPerStat = ticks

	if len(c.Render.Palette) == 0 {
		c.Render.Palette = []string{c.Render.Color}
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
