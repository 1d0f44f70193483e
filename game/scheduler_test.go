package game

import (
	"context"
	"errors"
	"testing"
)

// fakeEvolver hands out constant deciders and records the generations it saw.
type fakeEvolver struct {
	pop      int
	gens     []int
	onGen    func(gen int)
	evalErr  error
	outcomes []Outcome
}

func (f *fakeEvolver) RunGeneration(ctx context.Context, gen int, eval EvalFunc) ([]float64, error) {
	f.gens = append(f.gens, gen)
	if f.onGen != nil {
		f.onGen(gen)
	}

	sinks := make([]*tally, f.pop)
	cands := make([]Candidate, f.pop)
	for i := range cands {
		sinks[i] = &tally{}
		cands[i] = Candidate{Decider: constant(0), Sink: sinks[i]}
	}

	o, err := eval(ctx, cands)
	if err != nil {
		return nil, err
	}
	f.outcomes = append(f.outcomes, o)

	fitness := make([]float64, f.pop)
	for i, s := range sinks {
		fitness[i] = s.total
	}
	return fitness, f.evalErr
}

func TestSchedulerRunsAllGenerations(t *testing.T) {
	evo := &fakeEvolver{pop: 3}
	s := NewScheduler(evo, testEvaluator(5, nil), 4)

	var reports []GenerationReport
	s.OnGeneration = func(r GenerationReport) { reports = append(reports, r) }

	sum, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Generations != 4 || sum.Cancelled {
		t.Errorf("summary = %+v, want 4 generations", sum)
	}
	if len(evo.gens) != 4 || evo.gens[0] != 1 || evo.gens[3] != 4 {
		t.Errorf("generations = %v, want [1 2 3 4]", evo.gens)
	}
	if len(reports) != 4 {
		t.Fatalf("reports = %d, want 4", len(reports))
	}
	for i, r := range reports {
		if r.Generation != i+1 || len(r.Fitness) != 3 || r.Outcome.State != StateDone {
			t.Errorf("report %d = %+v", i, r)
		}
	}
}

func TestSchedulerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	evo := &fakeEvolver{pop: 2}
	evo.onGen = func(gen int) {
		if gen == 2 {
			cancel()
		}
	}
	s := NewScheduler(evo, testEvaluator(5, nil), 10)

	sum, err := s.Run(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !sum.Cancelled {
		t.Error("summary should report cancellation")
	}
	// Generation 2 was attempted and counted even though it ran no ticks
	if s.Generation() != 2 || len(evo.gens) != 2 {
		t.Errorf("generation = %d, attempts = %v, want 2", s.Generation(), evo.gens)
	}
	if last := evo.outcomes[len(evo.outcomes)-1]; last.State != StateCancelled || last.Ticks != 0 {
		t.Errorf("last outcome = %+v, want cancelled at tick 0", last)
	}
}

func TestSchedulerPreCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	evo := &fakeEvolver{pop: 1}
	s := NewScheduler(evo, testEvaluator(5, nil), 3)
	sum, err := s.Run(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Generations != 0 || s.Generation() != 0 || len(evo.gens) != 0 {
		t.Errorf("no generation should start: %+v, gens %v", sum, evo.gens)
	}
}

func TestSchedulerPropagatesErrors(t *testing.T) {
	boom := errors.New("breeding failed")
	evo := &fakeEvolver{pop: 1, evalErr: boom}
	s := NewScheduler(evo, testEvaluator(5, nil), 3)

	_, err := s.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if len(evo.gens) != 1 {
		t.Errorf("attempts = %v, want stop after first", evo.gens)
	}
}
