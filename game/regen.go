package game

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/pthm-cable/zen/systems"
	"github.com/pthm-cable/zen/telemetry"
)

// regenResult is a finished target buffer and the request it answers.
type regenResult struct {
	gen    uint64
	kind   systems.ShapeKind
	target []float32
	err    error
}

// regenerator builds target buffers off the frame loop. Only the latest
// request matters: starting a new one cancels the previous job, and any
// result that still arrives from an older request is discarded by
// generation number.
type regenerator struct {
	n       int
	gen     uint64 // latest requested generation; frame loop only
	cancel  context.CancelFunc
	results chan regenResult
	wg      sync.WaitGroup
}

func newRegenerator(n int) *regenerator {
	return &regenerator{
		n:       n,
		results: make(chan regenResult, 1),
	}
}

// start launches generation of kind with its own RNG and returns the
// generation number of the request.
func (r *regenerator) start(kind systems.ShapeKind, seed int64) uint64 {
	if r.cancel != nil {
		r.cancel()
	}
	r.gen++
	gen := r.gen

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		rng := rand.New(rand.NewSource(seed))
		target, err := systems.GenerateShapeContext(ctx, kind, r.n, rng)
		if ctx.Err() != nil {
			return
		}

		// Blocks only while an older result waits to be drained by the frame loop
		select {
		case r.results <- regenResult{gen: gen, kind: kind, target: target, err: err}:
		case <-ctx.Done():
		}
	}()
	return gen
}

// poll returns a finished result without blocking.
func (r *regenerator) poll() (regenResult, bool) {
	select {
	case res := <-r.results:
		return res, true
	default:
		return regenResult{}, false
	}
}

// pending reports whether the latest request has not been applied yet.
func (r *regenerator) pending(applied uint64) bool {
	return r.gen != applied
}

// stop cancels any running job and waits for it to exit.
func (r *regenerator) stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
}

// applyPendingTarget swaps in a finished target buffer, if any. Runs on the
// frame loop between integrator steps, so the integrator never sees a
// partially written buffer.
func (g *Game) applyPendingTarget() {
	res, ok := g.regen.poll()
	if !ok {
		return
	}

	if res.gen != g.regen.gen {
		g.collector.RecordRegenDiscarded()
		g.emit(telemetry.NewRegenEvent(telemetry.EventRegenDiscarded, g.tick, res.kind.String(), res.gen))
		return
	}
	if res.err != nil {
		slog.Error("shape generation failed", "shape", res.kind.String(), "generation", res.gen, "error", res.err)
		return
	}
	if err := g.cloud.Retarget(res.target); err != nil {
		slog.Error("failed to apply target", "shape", res.kind.String(), "error", err)
		return
	}

	g.targetShape = res.kind
	g.appliedGen = res.gen
	g.collector.RecordRegeneration()
	g.emit(telemetry.NewRegenEvent(telemetry.EventShapeReady, g.tick, res.kind.String(), res.gen))
}
