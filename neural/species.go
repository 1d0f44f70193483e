package neural

import (
	"math"
	"sort"

	"github.com/yaricom/goNEAT/v4/neat"
	"github.com/yaricom/goNEAT/v4/neat/genetics"
)

// Species represents a group of genetically similar organisms.
type Species struct {
	ID             int
	Representative *genetics.Genome // Used for compatibility comparisons
	Members        []*Organism
	BestFitness    float64 // Best raw fitness ever seen in the species
	AvgFitness     float64 // Mean adjusted fitness of the last generation
	Age            int     // Generations since species was created
	Staleness      int     // Generations without improvement of BestFitness
}

// SpeciesManager assigns organisms to species between generations.
type SpeciesManager struct {
	Species       []*Species
	opts          *neat.Options
	nextSpeciesID int
	generation    int
}

// NewSpeciesManager creates a new species manager.
func NewSpeciesManager(opts *neat.Options) *SpeciesManager {
	return &SpeciesManager{
		Species:       make([]*Species, 0),
		opts:          opts,
		nextSpeciesID: 1,
	}
}

// AssignSpecies returns the first species whose representative is within
// CompatThreshold of genome, creating one if none is.
func (sm *SpeciesManager) AssignSpecies(genome *genetics.Genome) *Species {
	for _, sp := range sm.Species {
		if sp.Representative == nil {
			continue
		}
		if GenomeCompatibility(genome, sp.Representative, sm.opts) < sm.opts.CompatThreshold {
			return sp
		}
	}

	sp := &Species{
		ID:             sm.nextSpeciesID,
		Representative: genome,
		BestFitness:    math.Inf(-1),
	}
	sm.nextSpeciesID++
	sm.Species = append(sm.Species, sp)
	return sp
}

// Speciate clears membership and places every organism into a species,
// dropping species left without members.
func (sm *SpeciesManager) Speciate(orgs []*Organism) {
	for _, sp := range sm.Species {
		sp.Members = sp.Members[:0]
	}
	for _, org := range orgs {
		sp := sm.AssignSpecies(org.Genome)
		sp.Members = append(sp.Members, org)
		org.SpeciesID = sp.ID
	}

	active := sm.Species[:0]
	for _, sp := range sm.Species {
		if len(sp.Members) > 0 {
			active = append(active, sp)
		}
	}
	sm.Species = active
}

// EndGeneration updates per-species fitness and staleness, then removes
// species that have not improved for DropOffAge generations. The species
// holding the best organism is never removed. adjusted maps raw fitness to
// a strictly positive value.
func (sm *SpeciesManager) EndGeneration(adjusted func(float64) float64) {
	sm.generation++

	var champion *Species
	best := math.Inf(-1)

	for _, sp := range sm.Species {
		sp.Age++
		sp.Staleness++

		total := 0.0
		for _, m := range sp.Members {
			total += adjusted(m.Fitness)
			if m.Fitness > sp.BestFitness {
				sp.BestFitness = m.Fitness
				sp.Staleness = 0
			}
			if m.Fitness > best {
				best = m.Fitness
				champion = sp
			}
		}
		// Fitness sharing: members split the species' total
		sp.AvgFitness = total / float64(len(sp.Members))
	}

	active := make([]*Species, 0, len(sm.Species))
	for _, sp := range sm.Species {
		if sp == champion || sp.Staleness < sm.opts.DropOffAge {
			active = append(active, sp)
		}
	}
	sm.Species = active
}

// Allot divides total offspring between species in proportion to their
// shared fitness. Rounding leftovers go to the largest remainders.
func (sm *SpeciesManager) Allot(total int) []int {
	counts := make([]int, len(sm.Species))
	if len(sm.Species) == 0 || total <= 0 {
		return counts
	}

	sum := 0.0
	for _, sp := range sm.Species {
		sum += sp.AvgFitness
	}

	type remainder struct {
		idx  int
		frac float64
	}
	rems := make([]remainder, len(sm.Species))
	given := 0
	for i, sp := range sm.Species {
		share := float64(total) / float64(len(sm.Species))
		if sum > 0 {
			share = float64(total) * sp.AvgFitness / sum
		}
		counts[i] = int(share)
		given += counts[i]
		rems[i] = remainder{idx: i, frac: share - float64(counts[i])}
	}

	sort.SliceStable(rems, func(i, j int) bool { return rems[i].frac > rems[j].frac })
	for i := 0; given < total; i++ {
		counts[rems[i%len(rems)].idx]++
		given++
	}
	return counts
}

// SpeciesStats contains summary statistics about all species.
type SpeciesStats struct {
	Count        int
	LargestSize  int
	SmallestSize int
	Generation   int
	BestFitness  float64
}

// GetStats returns summary statistics about species distribution.
func (sm *SpeciesManager) GetStats() SpeciesStats {
	if len(sm.Species) == 0 {
		return SpeciesStats{Generation: sm.generation}
	}

	stats := SpeciesStats{
		Count:        len(sm.Species),
		SmallestSize: math.MaxInt,
		Generation:   sm.generation,
		BestFitness:  math.Inf(-1),
	}
	for _, sp := range sm.Species {
		size := len(sp.Members)
		stats.LargestSize = max(stats.LargestSize, size)
		stats.SmallestSize = min(stats.SmallestSize, size)
		stats.BestFitness = math.Max(stats.BestFitness, sp.BestFitness)
	}
	return stats
}
