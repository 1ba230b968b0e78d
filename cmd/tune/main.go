package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/zen/config"
)

// evalRecord is one row of tune_log.csv.
type evalRecord struct {
	Eval          int     `csv:"eval"`
	Fitness       float64 `csv:"fitness"`
	SmoothingRate float64 `csv:"smoothing_rate"`
	RotationRate  float64 `csv:"rotation_rate"`
	RotationBias  float64 `csv:"rotation_bias"`
	SettleSec     float64 `csv:"settle_sec"`
	OpenPeriod    float64 `csv:"open_period_sec"`
	PinchedPeriod float64 `csv:"pinched_period_sec"`
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	settle := flag.Float64("settle", 0.75, "Target seconds to settle after a pinch")
	openPeriod := flag.Float64("open-period", 60, "Target seconds per turn with the hand open")
	pinchedPeriod := flag.Float64("pinched-period", 180, "Target seconds per turn with the hand closed")
	seeds := flag.Int("seeds", 2, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 150, "Maximum number of evaluations")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	// Evaluation runs log their startup; keep only warnings
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg()

	params := NewParamVector()
	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	targets := Targets{
		SettleSec:        *settle,
		OpenPeriodSec:    *openPeriod,
		PinchedPeriodSec: *pinchedPeriod,
	}
	evaluator := NewFitnessEvaluator(params, targets, evalSeeds, baseCfg)

	logPath := filepath.Join(*outputDir, "tune_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	evalCount := 0
	bestFitness := 1e9
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(raw)
			evalCount++

			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = raw
			}

			resp := evaluator.LastResponse()
			rec := []evalRecord{{
				Eval:          evalCount,
				Fitness:       fitness,
				SmoothingRate: raw[0],
				RotationRate:  raw[1],
				RotationBias:  raw[2],
				SettleSec:     resp.SettleSec,
				OpenPeriod:    resp.OpenPeriodSec,
				PinchedPeriod: resp.PinchedPeriodSec,
			}}
			var werr error
			if evalCount == 1 {
				werr = gocsv.Marshal(rec, logFile)
			} else {
				werr = gocsv.MarshalWithoutHeaders(rec, logFile)
			}
			if werr != nil {
				log.Printf("failed to write log row: %v", werr)
			}

			fmt.Printf("Eval %d/%d: settle=%.2fs open=%.0fs pinched=%.0fs fitness=%.4f (best=%.4f) | elapsed: %s\n",
				evalCount, *maxEvals, resp.SettleSec, resp.OpenPeriodSec, resp.PinchedPeriodSec,
				fitness, bestFitness, time.Since(startTime).Round(time.Second))

			return fitness
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // Sequential evaluation
	}
	method := &optimize.NelderMead{}

	initX := params.Normalize(params.ExtractFromConfig(baseCfg))

	fmt.Printf("Tuning %d parameters, max_evals=%d, seeds=%d\n", params.Dim(), *maxEvals, *seeds)
	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("tuning ended: %v", err)
	}
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		log.Fatal("no evaluations completed")
	}

	fmt.Printf("\nTuning complete after %d evaluations in %s\n", evalCount, time.Since(startTime).Round(time.Second))
	fmt.Printf("Best fitness: %.6f\n", bestFitness)
	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Path, bestParams[i])
	}

	bestCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to reload config: %v", err)
	}
	params.ApplyToConfig(bestCfg, bestParams)

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}
}
