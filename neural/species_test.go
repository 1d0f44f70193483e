package neural

import (
	"math/rand"
	"testing"
)

func shifted(f float64) float64 { return f + 10 }

func TestSpeciesManagerAssignSpecies(t *testing.T) {
	sm := NewSpeciesManager(NEATOptions(testNEATConfig()))
	genome := CreateBrainGenome(1, 0.3, rand.New(rand.NewSource(1)))

	sp := sm.AssignSpecies(genome)
	if sp.ID != 1 {
		t.Errorf("expected species ID 1, got %d", sp.ID)
	}
	if len(sm.Species) != 1 {
		t.Errorf("expected 1 species, got %d", len(sm.Species))
	}

	// Same genome should get same species
	if again := sm.AssignSpecies(genome); again != sp {
		t.Errorf("same genome should get same species: %d != %d", again.ID, sp.ID)
	}
}

func TestSpeciateSplitsIncompatibleGenomes(t *testing.T) {
	opts := NEATOptions(testNEATConfig())
	opts.CompatThreshold = 0.5
	sm := NewSpeciesManager(opts)

	rng := rand.New(rand.NewSource(2))
	a := CreateBrainGenome(1, 0, rng)
	b := CreateBrainGenome(2, 0, rng)
	far, _ := CloneGenome(a, 3)
	for _, g := range far.Genes {
		g.Link.ConnectionWeight = maxConnectionWeight
	}

	orgs := []*Organism{{Genome: a}, {Genome: b}, {Genome: far}}
	sm.Speciate(orgs)

	if len(sm.Species) != 2 {
		t.Fatalf("species = %d, want 2", len(sm.Species))
	}
	if orgs[0].SpeciesID != orgs[1].SpeciesID {
		t.Error("identical topologies with equal weights split")
	}
	if orgs[0].SpeciesID == orgs[2].SpeciesID {
		t.Error("distant genome shares a species")
	}

	// Re-speciating only the close pair drops the empty species
	sm.Speciate(orgs[:2])
	if len(sm.Species) != 1 {
		t.Errorf("species = %d after dropping members, want 1", len(sm.Species))
	}
}

func TestEndGenerationStaleness(t *testing.T) {
	opts := NEATOptions(testNEATConfig())
	opts.CompatThreshold = 0.5
	opts.DropOffAge = 2
	sm := NewSpeciesManager(opts)

	rng := rand.New(rand.NewSource(3))
	best := &Organism{Genome: CreateBrainGenome(1, 0, rng), Fitness: 5}
	farGenome, _ := CloneGenome(best.Genome, 2)
	for _, g := range farGenome.Genes {
		g.Link.ConnectionWeight = maxConnectionWeight
	}
	stale := &Organism{Genome: farGenome, Fitness: 1}

	orgs := []*Organism{best, stale}
	for gen := 0; gen < 3; gen++ {
		sm.Speciate(orgs)
		sm.EndGeneration(shifted)
	}

	// Neither improved after the first generation, but the champion's species stays
	if len(sm.Species) != 1 {
		t.Fatalf("species = %d, want 1", len(sm.Species))
	}
	if sm.Species[0].Members[0] != best {
		t.Error("champion species was removed")
	}
	if got := sm.GetStats().Generation; got != 3 {
		t.Errorf("generation = %d, want 3", got)
	}
}

func TestAllot(t *testing.T) {
	sm := NewSpeciesManager(NEATOptions(testNEATConfig()))
	sm.Species = []*Species{
		{ID: 1, AvgFitness: 3},
		{ID: 2, AvgFitness: 1},
		{ID: 3, AvgFitness: 1},
	}

	tests := []struct {
		total int
		want  []int
	}{
		{total: 5, want: []int{3, 1, 1}},
		{total: 10, want: []int{6, 2, 2}},
		{total: 7, want: []int{4, 2, 1}},
		{total: 0, want: []int{0, 0, 0}},
	}

	for _, tt := range tests {
		got := sm.Allot(tt.total)
		sum := 0
		for i := range got {
			sum += got[i]
			if got[i] != tt.want[i] {
				t.Errorf("Allot(%d) = %v, want %v", tt.total, got, tt.want)
				break
			}
		}
		if sum != tt.total {
			t.Errorf("Allot(%d) sums to %d", tt.total, sum)
		}
	}
}

func TestGetStats(t *testing.T) {
	sm := NewSpeciesManager(NEATOptions(testNEATConfig()))
	if stats := sm.GetStats(); stats.Count != 0 {
		t.Errorf("empty manager count = %d", stats.Count)
	}

	sm.Species = []*Species{
		{ID: 1, Members: make([]*Organism, 4), BestFitness: 2},
		{ID: 2, Members: make([]*Organism, 1), BestFitness: 7},
	}
	stats := sm.GetStats()
	if stats.Count != 2 || stats.LargestSize != 4 || stats.SmallestSize != 1 || stats.BestFitness != 7 {
		t.Errorf("stats = %+v", stats)
	}
}
