package main

import (
	"context"
	"log/slog"
	"math"
	"math/rand"

	"github.com/pthm-cable/flap/assets"
	"github.com/pthm-cable/flap/config"
	"github.com/pthm-cable/flap/game"
	"github.com/pthm-cable/flap/neural"
	"github.com/pthm-cable/flap/telemetry"
	"github.com/pthm-cable/flap/ui"
)

// trainer wires a fresh population, evaluator and scheduler for every run
// and records each generation through telemetry.
type trainer struct {
	cfg    *config.Config
	bundle *assets.Bundle
	seed   int64
	runID  string
	out    *telemetry.OutputManager
	hall   *telemetry.HallOfFame

	runs      int
	evolver   *neural.Evolver
	evaluator *game.Evaluator
	bestScore int
}

func newTrainer(cfg *config.Config, bundle *assets.Bundle, seed int64, runID string, out *telemetry.OutputManager) *trainer {
	return &trainer{
		cfg:    cfg,
		bundle: bundle,
		seed:   seed,
		runID:  runID,
		out:    out,
		hall:   telemetry.NewHallOfFame(10),
	}
}

// Run trains for up to Training.MaxGenerations generations, drawing every
// tick into obs.
func (t *trainer) Run(ctx context.Context, obs game.Observer) (game.Summary, error) {
	rng := rand.New(rand.NewSource(t.seed + int64(t.runs)))
	t.runs++
	t.bestScore = 0

	t.evolver = neural.NewEvolver(t.cfg, rng)
	t.evaluator = game.NewEvaluator(t.cfg, t.bundle, rng, obs)
	rec := telemetry.NewRecorder(t.runID, t.cfg.Telemetry.LogEvery, t.out, t.evaluator.Perf(), t.evolver, t.hall)

	sched := game.NewScheduler(t.evolver, t.evaluator, t.cfg.Training.MaxGenerations)
	sched.OnGeneration = func(rep game.GenerationReport) {
		rec.Record(rep)
		t.bestScore = max(t.bestScore, rep.Outcome.Score)
	}

	slog.Info("training started",
		"run_id", t.runID,
		"run", t.runs,
		"population", t.cfg.NEAT.PopSize,
		"max_generations", t.cfg.Training.MaxGenerations,
	)

	sum, err := sched.Run(ctx)
	if cerr := rec.Close(); cerr != nil {
		slog.Warn("writing hall of fame failed", "error", cerr)
	}
	if err != nil {
		return sum, err
	}

	_, bestFit := t.evolver.Champion()
	slog.Info("training finished",
		"generations", sum.Generations,
		"best_score", sum.BestScore,
		"best_fitness", bestFit,
		"cancelled", sum.Cancelled,
		"hall_of_fame", t.hall.Size(),
	)
	return sum, nil
}

// Stats reports the evolution state for the training overlay.
func (t *trainer) Stats() ui.TrainingStats {
	if t.evolver == nil {
		return ui.TrainingStats{}
	}
	sp := t.evolver.Species().GetStats()
	champ, best := t.evolver.Champion()
	if math.IsInf(best, -1) {
		best = 0
	}
	return ui.TrainingStats{
		Generation:     sp.Generation,
		Population:     len(t.evolver.Population()),
		Species:        sp.Count,
		LargestSpecies: sp.LargestSize,
		BestFitness:    best,
		BestScore:      t.bestScore,
		Champion:       champ,
	}
}

// Perf returns the current evaluator's tick timings.
func (t *trainer) Perf() *game.PerfStats {
	if t.evaluator == nil {
		return nil
	}
	return t.evaluator.Perf()
}
