package game

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/flap/assets"
	"github.com/pthm-cable/flap/components"
	"github.com/pthm-cable/flap/config"
	"github.com/pthm-cable/flap/systems"
)

// Outcome summarizes one evaluated generation.
type Outcome struct {
	State     State
	Score     int
	Ticks     int
	Survivors int // agents still live when the generation stopped
}

// Evaluator runs one generation of agents through a shared arena in lockstep.
// Each agent is an ECS entity carrying its bird, brain and genome together.
type Evaluator struct {
	cfg      *config.Config
	bundle   *assets.Bundle
	field    *systems.CollisionField
	rng      *rand.Rand
	observer Observer
	perf     *PerfStats

	world  *ecs.World
	agents *ecs.Map3[components.Bird, components.Brain, components.Genome]
	filter *ecs.Filter3[components.Bird, components.Brain, components.Genome]
	active []ecs.Entity // live agents in spawn order

	arena      *systems.Arena
	kin        systems.Kinematics
	state      State
	tick       int
	generation int
}

// NewEvaluator creates an evaluator. The rng drives pipe placement and is
// shared across generations. A nil bundle is replaced by the procedural one
// and a nil observer by NopObserver.
func NewEvaluator(cfg *config.Config, bundle *assets.Bundle, rng *rand.Rand, observer Observer) *Evaluator {
	if bundle == nil {
		bundle = assets.Procedural()
	}
	if observer == nil {
		observer = NopObserver{}
	}
	return &Evaluator{
		cfg:      cfg,
		bundle:   bundle,
		field:    bundle.CollisionField(),
		rng:      rng,
		observer: observer,
		perf:     NewPerfStats(0),
		kin:      systems.NewKinematics(cfg.Bird),
	}
}

// Perf returns the rolling tick phase timings.
func (e *Evaluator) Perf() *PerfStats {
	return e.perf
}

// State returns the current lifecycle state.
func (e *Evaluator) State() State {
	return e.state
}

// Alive returns the number of live agents.
func (e *Evaluator) Alive() int {
	return len(e.active)
}

// Ticks returns the number of completed ticks in the current generation.
func (e *Evaluator) Ticks() int {
	return e.tick
}

// Arena returns the arena of the current generation (nil before Start).
func (e *Evaluator) Arena() *systems.Arena {
	return e.arena
}

// Birds returns copies of the live birds in spawn order.
func (e *Evaluator) Birds() []components.Bird {
	out := make([]components.Bird, len(e.active))
	for i, ent := range e.active {
		b, _, _ := e.agents.Get(ent)
		out[i] = *b
	}
	return out
}

// Run evaluates one generation to completion.
// Cancellation and extinction are reported in the outcome, not as errors.
// An error means a decision function failed.
func (e *Evaluator) Run(ctx context.Context, generation int, candidates []Candidate) (Outcome, error) {
	e.Start(generation, candidates)
	for !e.state.Terminal() {
		if err := e.Step(ctx); err != nil {
			return e.outcome(), err
		}
	}
	return e.outcome(), nil
}

// Start loads a new generation: one agent per candidate, all at the spawn point.
func (e *Evaluator) Start(generation int, candidates []Candidate) {
	e.world = ecs.NewWorld()
	e.agents = ecs.NewMap3[components.Bird, components.Brain, components.Genome](e.world)
	e.filter = ecs.NewFilter3[components.Bird, components.Brain, components.Genome](e.world)
	e.active = make([]ecs.Entity, 0, len(candidates))

	for _, c := range candidates {
		bird := e.kin.Spawn()
		brain := components.Brain{Decider: c.Decider}
		genome := components.Genome{Sink: c.Sink}
		e.active = append(e.active, e.agents.NewEntity(&bird, &brain, &genome))
	}

	e.arena = systems.NewArena(e.cfg, e.field, e.bundle.GroundW, e.rng)
	e.generation = generation
	e.tick = 0
	e.state = StateRunning
}

// Step runs one tick. Cancellation is only observed here, before any work,
// so a tick that has started always completes. A failing decision function
// aborts the tick before anything is applied.
func (e *Evaluator) Step(ctx context.Context) error {
	if e.state.Terminal() || e.state == StateIdle {
		return nil
	}
	if ctx.Err() != nil {
		e.state = StateCancelled
		return nil
	}
	if len(e.active) == 0 {
		e.state = StateDone
		return nil
	}
	if limit := e.cfg.Training.MaxTicks; limit > 0 && e.tick >= limit {
		e.state = StateDone
		return nil
	}

	fit := e.cfg.Fitness

	n := len(e.active)
	birds := make([]*components.Bird, n)
	brains := make([]*components.Brain, n)
	genomes := make([]*components.Genome, n)
	for i, ent := range e.active {
		birds[i], brains[i], genomes[i] = e.agents.Get(ent)
	}

	start := time.Now()
	look := e.arena.LookaheadIndex(birds[0].X)
	flap := make([]bool, n)
	for i, b := range birds {
		out, err := brains[i].Decider.Decide(e.arena.Observe(b, look))
		if err != nil {
			return fmt.Errorf("agent %d: decide: %w", i, err)
		}
		flap[i] = out > fit.DecideThreshold
	}

	e.tick++
	for _, g := range genomes {
		g.Sink.AddFitness(fit.AliveReward)
	}
	for i, b := range birds {
		if flap[i] {
			e.kin.Impulse(b)
		}
	}
	e.perf.Record(PhaseDecide, time.Since(start))

	start = time.Now()
	res := e.arena.Tick(birds)

	dead := make([]bool, n)
	for _, i := range res.Collided {
		genomes[i].Sink.AddFitness(-fit.CollisionPenalty)
		dead[i] = true
	}
	if res.Scored() {
		for i, g := range genomes {
			if !dead[i] {
				g.Sink.AddFitness(fit.GapBonus)
			}
		}
	}
	for _, i := range res.OutOfBounds {
		dead[i] = true
	}
	e.removeDead(dead)
	e.perf.Record(PhaseArena, time.Since(start))

	if len(e.active) == 0 {
		e.state = StateDraining
	}

	start = time.Now()
	e.observer.Observe(e.frame())
	e.perf.Record(PhaseObserve, time.Since(start))
	return nil
}

// removeDead drops every agent flagged in dead, keeping the order of survivors.
func (e *Evaluator) removeDead(dead []bool) {
	kept := e.active[:0]
	var removed []ecs.Entity
	for i, ent := range e.active {
		if dead[i] {
			removed = append(removed, ent)
			continue
		}
		kept = append(kept, ent)
	}
	e.active = kept

	for _, ent := range removed {
		e.world.RemoveEntity(ent)
	}
	e.assertConsistent()
}

// assertConsistent panics if the live agent list and the ECS world disagree.
func (e *Evaluator) assertConsistent() {
	count := 0
	query := e.filter.Query()
	for query.Next() {
		count++
	}
	if count != len(e.active) {
		panic(fmt.Sprintf("game: agent desync: %d entities in world, %d live agents", count, len(e.active)))
	}
	for _, ent := range e.active {
		if !e.world.Alive(ent) {
			panic(fmt.Sprintf("game: agent desync: live agent %v missing from world", ent))
		}
	}
}

func (e *Evaluator) frame() Frame {
	return Frame{
		Birds:      e.Birds(),
		Pipes:      append([]components.Pipe(nil), e.arena.Pipes...),
		Ground:     e.arena.Ground,
		Score:      e.arena.Score,
		Generation: e.generation,
		Tick:       e.tick,
	}
}

func (e *Evaluator) outcome() Outcome {
	o := Outcome{State: e.state, Ticks: e.tick, Survivors: len(e.active)}
	if e.arena != nil {
		o.Score = e.arena.Score
	}
	return o
}
