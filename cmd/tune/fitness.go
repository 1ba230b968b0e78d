package main

import (
	"math"

	"github.com/pthm-cable/zen/components"
	"github.com/pthm-cable/zen/config"
	"github.com/pthm-cable/zen/game"
	"github.com/pthm-cable/zen/systems"
)

// Targets is the requested response of the cloud.
type Targets struct {
	SettleSec        float64 // time to close 95% of the gap after a pinch
	OpenPeriodSec    float64 // seconds per turn with the hand open
	PinchedPeriodSec float64 // seconds per turn with the hand closed
}

// Response is the measured behaviour of one run.
type Response struct {
	SettleSec        float64
	OpenPeriodSec    float64
	PinchedPeriodSec float64
}

const (
	warmupSec   = 10.0 // open hand before the pinch
	maxSettle   = 30.0 // settle time cap
	settleGap   = 0.05 // fraction of the open-to-pinched gap still allowed
	evalCount   = 800  // particles per evaluation run
	periodFloor = 1e-6
)

// FitnessEvaluator runs headless simulations and scores the response.
type FitnessEvaluator struct {
	params     *ParamVector
	targets    Targets
	seeds      []int64
	baseConfig *config.Config

	last Response
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, targets Targets, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		targets:    targets,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// LastResponse returns the response averaged over seeds in the most recent
// Evaluate call.
func (fe *FitnessEvaluator) LastResponse() Response {
	return fe.last
}

// Evaluate computes fitness for raw parameter values (lower = better): the
// summed squared relative error of each measured quantity.
func (fe *FitnessEvaluator) Evaluate(raw []float64) float64 {
	cfg := *fe.baseConfig
	fe.params.ApplyToConfig(&cfg, raw)
	cfg.Particles.Count = evalCount
	cfg.Motion.NoiseAmplitude = 0
	cfg.Motion.ParallelThreshold = 0

	var avg Response
	for _, seed := range fe.seeds {
		r, err := measure(&cfg, seed)
		if err != nil {
			return math.Inf(1)
		}
		avg.SettleSec += r.SettleSec
		avg.OpenPeriodSec += r.OpenPeriodSec
		avg.PinchedPeriodSec += r.PinchedPeriodSec
	}
	n := float64(len(fe.seeds))
	avg.SettleSec /= n
	avg.OpenPeriodSec /= n
	avg.PinchedPeriodSec /= n
	fe.last = avg

	return relErr2(avg.SettleSec, fe.targets.SettleSec) +
		relErr2(avg.OpenPeriodSec, fe.targets.OpenPeriodSec) +
		relErr2(avg.PinchedPeriodSec, fe.targets.PinchedPeriodSec)
}

func relErr2(got, want float64) float64 {
	if want <= 0 {
		return 0
	}
	d := (got - want) / want
	return d * d
}

// measure drives one headless game through an open hand, then a pinch.
func measure(cfg *config.Config, seed int64) (Response, error) {
	g, err := game.NewGameWithOptions(game.Options{
		Seed:           seed,
		Headless:       true,
		Config:         cfg,
		SignalSource:   "keyboard",
		StatsWindowSec: 1e6,
	})
	if err != nil {
		return Response{}, err
	}
	defer g.Unload()

	dt := cfg.Physics.DT
	cell := g.SignalCell()
	step := func(sig components.Signal) {
		cell.Store(sig)
		g.UpdateHeadless()
	}

	open := components.Signal{Detected: true, Openness: 1}
	pinched := components.Signal{Detected: true, Openness: 0}

	for t := 0.0; t < warmupSec; t += dt {
		step(open)
	}

	// Rotation per second at openness 1
	rot0, clock0 := g.Rotation(), g.Clock()
	step(open)
	openRate := (g.Rotation() - rot0) / (g.Clock() - clock0)

	rOpen := g.Cloud().MeanRadius()
	m := systems.MotionParamsFromConfig(cfg)
	rPinched := rOpen * m.MinExpansion / (m.MinExpansion + m.ExpansionSpan)
	gap := math.Abs(rOpen - rPinched)

	settle := maxSettle
	for t := 0.0; t < maxSettle; t += dt {
		step(pinched)
		if math.Abs(g.Cloud().MeanRadius()-rPinched) <= settleGap*gap {
			settle = t + dt
			break
		}
	}

	rot1, clock1 := g.Rotation(), g.Clock()
	step(pinched)
	pinchedRate := (g.Rotation() - rot1) / (g.Clock() - clock1)

	return Response{
		SettleSec:        settle,
		OpenPeriodSec:    2 * math.Pi / math.Max(openRate, periodFloor),
		PinchedPeriodSec: 2 * math.Pi / math.Max(pinchedRate, periodFloor),
	}, nil
}
