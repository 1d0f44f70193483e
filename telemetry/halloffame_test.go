package telemetry

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/pthm-cable/flap/neural"
)

func TestHallOfFameOrdering(t *testing.T) {
	hof := NewHallOfFame(3)

	for i, fit := range []float64{2, 9, 4, 1, 7} {
		hof.Consider(HallEntry{GenomeID: i + 1, Fitness: fit})
	}

	entries := hof.Entries()
	if len(entries) != 3 {
		t.Fatalf("size = %d, want 3", len(entries))
	}
	want := []float64{9, 7, 4}
	for i, e := range entries {
		if e.Fitness != want[i] {
			t.Errorf("entry %d fitness = %v, want %v", i, e.Fitness, want[i])
		}
	}
	if hof.TopFitness() != 9 {
		t.Errorf("top = %v, want 9", hof.TopFitness())
	}
}

func TestHallOfFameConsider(t *testing.T) {
	hof := NewHallOfFame(2)

	tests := []struct {
		name  string
		entry HallEntry
		want  bool
	}{
		{"first", HallEntry{GenomeID: 1, Fitness: 5}, true},
		{"second", HallEntry{GenomeID: 2, Fitness: 3}, true},
		{"same genome again", HallEntry{GenomeID: 1, Fitness: 5}, false},
		{"too weak for a full hall", HallEntry{GenomeID: 3, Fitness: 1}, false},
		{"displaces the weakest", HallEntry{GenomeID: 4, Fitness: 4}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hof.Consider(tt.entry); got != tt.want {
				t.Errorf("Consider = %v, want %v", got, tt.want)
			}
		})
	}
	if hof.Size() != 2 {
		t.Errorf("size = %d, want 2", hof.Size())
	}
}

func TestHallOfFameNil(t *testing.T) {
	var hof *HallOfFame
	if hof.Consider(HallEntry{GenomeID: 1}) || hof.Size() != 0 || hof.TopFitness() != 0 {
		t.Error("nil hall should ignore entries")
	}
}

func TestEntryFromGenomeJSON(t *testing.T) {
	g := neural.CreateBrainGenome(11, 0.5, rand.New(rand.NewSource(1)))
	entry := EntryFromGenome(3, 1.25, g)

	if entry.GenomeID != 11 || entry.Generation != 3 || entry.Nodes != len(g.Nodes) {
		t.Errorf("entry = %+v", entry)
	}
	if len(entry.Genes) != len(g.Genes) {
		t.Fatalf("genes = %d, want %d", len(entry.Genes), len(g.Genes))
	}

	hof := NewHallOfFame(5)
	hof.Consider(entry)
	data, err := hof.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}

	var decoded struct {
		Champions []HallEntry `json:"champions"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(decoded.Champions) != 1 || decoded.Champions[0].Genes[0].Weight != entry.Genes[0].Weight {
		t.Errorf("decoded = %+v", decoded)
	}
}
