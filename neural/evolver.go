package neural

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sort"

	"github.com/yaricom/goNEAT/v4/neat"
	"github.com/yaricom/goNEAT/v4/neat/genetics"

	"github.com/pthm-cable/flap/config"
	"github.com/pthm-cable/flap/game"
)

// fitnessFloor keeps shifted fitness strictly positive so the weakest
// species still gets a share of the offspring.
const fitnessFloor = 1e-3

// Organism pairs a genome with the fitness it earned this generation.
type Organism struct {
	Genome    *genetics.Genome
	Fitness   float64
	SpeciesID int
}

// AddFitness accumulates a reward or penalty.
func (o *Organism) AddFitness(delta float64) {
	o.Fitness += delta
}

// Evolver runs NEAT generations over a fixed-size population.
type Evolver struct {
	opts    *neat.Options
	rng     *rand.Rand
	idGen   *GenomeIDGenerator
	species *SpeciesManager

	population []*Organism
	champion   *genetics.Genome
	bestEver   float64
}

// NewEvolver creates the starting population of minimal genomes.
func NewEvolver(cfg *config.Config, rng *rand.Rand) *Evolver {
	opts := NEATOptions(cfg.NEAT)
	ev := &Evolver{
		opts:     opts,
		rng:      rng,
		idGen:    NewGenomeIDGenerator(),
		species:  NewSpeciesManager(opts),
		bestEver: math.Inf(-1),
	}

	ev.population = make([]*Organism, opts.PopSize)
	for i := range ev.population {
		g := CreateBrainGenome(ev.idGen.NextID(), cfg.NEAT.InitialWeightRange, rng)
		ev.population[i] = &Organism{Genome: g}
	}
	return ev
}

// Population returns the organisms of the current generation.
func (ev *Evolver) Population() []*Organism {
	return ev.population
}

// Species returns the species manager.
func (ev *Evolver) Species() *SpeciesManager {
	return ev.species
}

// Champion returns the best genome seen so far and its fitness.
func (ev *Evolver) Champion() (*genetics.Genome, float64) {
	return ev.champion, ev.bestEver
}

// RunGeneration evaluates the current population once and, unless the
// evaluation was cancelled, replaces it with the next generation.
// The returned fitness is indexed like the evaluated population.
func (ev *Evolver) RunGeneration(ctx context.Context, generation int, eval game.EvalFunc) ([]float64, error) {
	candidates := make([]game.Candidate, len(ev.population))
	for i, org := range ev.population {
		org.Fitness = 0
		brain, err := NewBrainController(org.Genome)
		if err != nil {
			return nil, fmt.Errorf("genome %d: %w", org.Genome.Id, err)
		}
		candidates[i] = game.Candidate{Decider: brain, Sink: org}
	}

	outcome, err := eval(ctx, candidates)
	if err != nil {
		return nil, err
	}

	fitness := make([]float64, len(ev.population))
	for i, org := range ev.population {
		fitness[i] = org.Fitness
	}

	if ctx.Err() != nil || outcome.State == game.StateCancelled {
		return fitness, nil
	}

	if err := ev.epoch(); err != nil {
		return fitness, fmt.Errorf("reproduce: %w", err)
	}

	stats := ev.species.GetStats()
	slog.Debug("epoch",
		"generation", generation,
		"species", stats.Count,
		"largest_species", stats.LargestSize,
		"best_ever", ev.bestEver,
	)
	return fitness, nil
}

// epoch speciates the evaluated population and breeds its replacement.
func (ev *Evolver) epoch() error {
	if len(ev.population) == 0 {
		return nil
	}

	minFit := math.Inf(1)
	for _, org := range ev.population {
		minFit = math.Min(minFit, org.Fitness)
		if org.Fitness > ev.bestEver {
			ev.bestEver = org.Fitness
			ev.champion = org.Genome
		}
	}
	adjusted := func(f float64) float64 { return f - minFit + fitnessFloor }

	ev.species.Speciate(ev.population)
	ev.species.EndGeneration(adjusted)
	counts := ev.species.Allot(len(ev.population))

	// Survivors of every species, fittest first
	pools := make([][]*Organism, len(ev.species.Species))
	for i, sp := range ev.species.Species {
		members := append([]*Organism(nil), sp.Members...)
		sort.SliceStable(members, func(a, b int) bool { return members[a].Fitness > members[b].Fitness })
		keep := max(1, int(math.Ceil(ev.opts.SurvivalThresh*float64(len(members)))))
		pools[i] = members[:min(keep, len(members))]
	}

	next := make([]*Organism, 0, len(ev.population))
	for i, sp := range ev.species.Species {
		pool := pools[i]
		for n := 0; n < counts[i]; n++ {
			var child *genetics.Genome
			var err error
			if n == 0 {
				// Species champion survives unchanged
				child, err = CloneGenome(pool[0].Genome, ev.idGen.NextID())
			} else {
				child, err = ev.breed(pool, pools, i)
			}
			if err != nil {
				return err
			}
			next = append(next, &Organism{Genome: child})
		}
		// The champion stands in for the species next generation
		sp.Representative = pool[0].Genome
	}

	ev.population = next
	return nil
}

// breed produces one offspring from the survivors of species idx.
func (ev *Evolver) breed(pool []*Organism, pools [][]*Organism, idx int) (*genetics.Genome, error) {
	mom := pool[ev.rng.Intn(len(pool))]
	id := ev.idGen.NextID()

	if (len(pool) == 1 && len(pools) == 1) || ev.rng.Float64() < ev.opts.MutateOnlyProb {
		child, err := CloneGenome(mom.Genome, id)
		if err != nil {
			return nil, err
		}
		if _, err := MutateGenome(child, ev.opts, ev.idGen, ev.rng); err != nil {
			return nil, err
		}
		return child, nil
	}

	dadPool := pool
	if len(pools) > 1 && ev.rng.Float64() < ev.opts.InterspeciesMateRate {
		other := ev.rng.Intn(len(pools) - 1)
		if other >= idx {
			other++
		}
		dadPool = pools[other]
	}
	dad := dadPool[ev.rng.Intn(len(dadPool))]

	child, err := CrossoverGenomes(mom.Genome, dad.Genome, mom.Fitness, dad.Fitness, id, ev.rng)
	if err != nil {
		return nil, err
	}
	if ev.rng.Float64() >= ev.opts.MateOnlyProb {
		if _, err := MutateGenome(child, ev.opts, ev.idGen, ev.rng); err != nil {
			return nil, err
		}
	}
	return child, nil
}
