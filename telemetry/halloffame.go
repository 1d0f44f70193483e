package telemetry

import (
	"encoding/json"
	"sort"

	"github.com/yaricom/goNEAT/v4/neat/genetics"
)

// GeneRecord is one connection of a recorded genome.
type GeneRecord struct {
	In         int     `json:"in"`
	Out        int     `json:"out"`
	Weight     float64 `json:"weight"`
	Enabled    bool    `json:"enabled"`
	Innovation int64   `json:"innovation"`
}

// HallEntry is a champion genome and the generation it was found in.
type HallEntry struct {
	GenomeID   int          `json:"genome_id"`
	Generation int          `json:"generation"`
	Fitness    float64      `json:"fitness"`
	Nodes      int          `json:"nodes"`
	Genes      []GeneRecord `json:"genes"`
}

// EntryFromGenome snapshots a genome's topology and weights.
func EntryFromGenome(generation int, fitness float64, g *genetics.Genome) HallEntry {
	genes := make([]GeneRecord, 0, len(g.Genes))
	for _, gene := range g.Genes {
		genes = append(genes, GeneRecord{
			In:         gene.Link.InNode.Id,
			Out:        gene.Link.OutNode.Id,
			Weight:     gene.Link.ConnectionWeight,
			Enabled:    gene.IsEnabled,
			Innovation: gene.InnovationNum,
		})
	}
	return HallEntry{
		GenomeID:   g.Id,
		Generation: generation,
		Fitness:    fitness,
		Nodes:      len(g.Nodes),
		Genes:      genes,
	}
}

// HallOfFame keeps the fittest distinct genomes of a run, best first.
type HallOfFame struct {
	hall    []HallEntry
	maxSize int
}

// NewHallOfFame creates a new hall of fame with the given capacity.
func NewHallOfFame(maxSize int) *HallOfFame {
	return &HallOfFame{
		hall:    make([]HallEntry, 0, maxSize),
		maxSize: maxSize,
	}
}

// Consider offers an entry to the hall.
// Returns true if the entry was added. A genome already in the hall is skipped.
func (hof *HallOfFame) Consider(entry HallEntry) bool {
	if hof == nil {
		return false
	}
	if hof.contains(entry.GenomeID) {
		return false
	}
	hof.hall = hof.insertEntry(hof.hall, entry)
	return hof.contains(entry.GenomeID)
}

func (hof *HallOfFame) contains(id int) bool {
	for _, e := range hof.hall {
		if e.GenomeID == id {
			return true
		}
	}
	return false
}

// insertEntry adds an entry to the hall, maintaining sorted order by fitness.
// If the hall is full, the lowest-fitness entry is removed.
func (hof *HallOfFame) insertEntry(hall []HallEntry, entry HallEntry) []HallEntry {
	// Find insertion point (sorted descending by fitness)
	idx := sort.Search(len(hall), func(i int) bool {
		return hall[i].Fitness < entry.Fitness
	})

	// If hall is full and entry would be last (lowest), skip it
	if len(hall) >= hof.maxSize && idx >= hof.maxSize {
		return hall
	}

	hall = append(hall, HallEntry{})
	copy(hall[idx+1:], hall[idx:])
	hall[idx] = entry

	if len(hall) > hof.maxSize {
		hall = hall[:hof.maxSize]
	}
	return hall
}

// Entries returns the hall, best first.
func (hof *HallOfFame) Entries() []HallEntry {
	if hof == nil {
		return nil
	}
	return hof.hall
}

// Size returns the number of entries.
func (hof *HallOfFame) Size() int {
	if hof == nil {
		return 0
	}
	return len(hof.hall)
}

// TopFitness returns the highest fitness in the hall, or 0 if it is empty.
func (hof *HallOfFame) TopFitness() float64 {
	if hof == nil || len(hof.hall) == 0 {
		return 0
	}
	return hof.hall[0].Fitness
}

// MarshalJSON serializes the hall of fame to JSON.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	return json.MarshalIndent(struct {
		Champions []HallEntry `json:"champions"`
	}{hof.Entries()}, "", "  ")
}
