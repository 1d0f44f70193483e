package game

import (
	"context"
	"fmt"
	"log/slog"
)

// EvalFunc evaluates one generation of candidates and reports how it ended.
type EvalFunc func(ctx context.Context, candidates []Candidate) (Outcome, error)

// Evolver is the evolutionary black box. RunGeneration builds a candidate
// per genome, calls eval exactly once, breeds the next population from the
// fitness written to the sinks and returns that fitness, one value per genome.
type Evolver interface {
	RunGeneration(ctx context.Context, generation int, eval EvalFunc) ([]float64, error)
}

// GenerationReport is produced after every evaluated generation.
type GenerationReport struct {
	Generation int
	Outcome    Outcome
	Fitness    []float64
}

// Summary describes a finished training run.
type Summary struct {
	Generations int
	BestScore   int
	Cancelled   bool
}

// Scheduler drives up to MaxGenerations generations through an Evolver,
// using the Evaluator as the evaluation callback.
type Scheduler struct {
	evolver        Evolver
	evaluator      *Evaluator
	maxGenerations int
	generation     int

	// OnGeneration, if set, is called after each generation.
	OnGeneration func(GenerationReport)
}

// NewScheduler creates a scheduler.
func NewScheduler(evolver Evolver, evaluator *Evaluator, maxGenerations int) *Scheduler {
	return &Scheduler{
		evolver:        evolver,
		evaluator:      evaluator,
		maxGenerations: maxGenerations,
	}
}

// Generation returns the index of the last attempted generation.
func (s *Scheduler) Generation() int {
	return s.generation
}

// Run trains until the generation limit or until ctx is cancelled.
// Cancellation is observed between generations and, through the evaluator,
// between ticks.
func (s *Scheduler) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	for i := 0; i < s.maxGenerations; i++ {
		if ctx.Err() != nil {
			sum.Cancelled = true
			break
		}

		s.generation++
		gen := s.generation

		var outcome Outcome
		eval := func(ctx context.Context, candidates []Candidate) (Outcome, error) {
			o, err := s.evaluator.Run(ctx, gen, candidates)
			outcome = o
			return o, err
		}

		fitness, err := s.evolver.RunGeneration(ctx, gen, eval)
		if err != nil {
			return sum, fmt.Errorf("generation %d: %w", gen, err)
		}

		sum.Generations++
		if outcome.Score > sum.BestScore {
			sum.BestScore = outcome.Score
		}

		slog.Debug("generation finished",
			"generation", gen,
			"state", outcome.State.String(),
			"score", outcome.Score,
			"ticks", outcome.Ticks,
			"perf", s.evaluator.Perf(),
		)

		if s.OnGeneration != nil {
			s.OnGeneration(GenerationReport{Generation: gen, Outcome: outcome, Fitness: fitness})
		}

		if outcome.State == StateCancelled {
			sum.Cancelled = true
			break
		}
	}

	return sum, nil
}
