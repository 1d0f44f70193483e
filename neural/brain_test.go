package neural

import (
	"math"
	"math/rand"
	"testing"

	"github.com/yaricom/goNEAT/v4/neat/network"

	"github.com/pthm-cable/flap/components"
)

func TestCreateBrainGenome(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	genome := CreateBrainGenome(1, 0.3, rng)

	if genome.Id != 1 {
		t.Errorf("expected genome ID 1, got %d", genome.Id)
	}

	// Sensors + bias + output
	if want := BrainInputs + 1 + BrainOutputs; len(genome.Nodes) != want {
		t.Errorf("expected %d nodes, got %d", want, len(genome.Nodes))
	}

	// Fully connected: (sensors + bias) * outputs genes
	if want := (BrainInputs + 1) * BrainOutputs; len(genome.Genes) != want {
		t.Errorf("expected %d genes, got %d", want, len(genome.Genes))
	}

	for i, gene := range genome.Genes {
		if math.Abs(gene.Link.ConnectionWeight) > 0.3 {
			t.Errorf("gene %d weight %f outside [-0.3, 0.3]", i, gene.Link.ConnectionWeight)
		}
		if gene.Link.OutNode.NeuronType != network.OutputNeuron {
			t.Errorf("gene %d does not end at the output", i)
		}
		if gene.InnovationNum != int64(i+1) {
			t.Errorf("gene %d innovation = %d", i, gene.InnovationNum)
		}
	}
}

func TestNewBrainController(t *testing.T) {
	genome := CreateBrainGenome(1, 1.0, rand.New(rand.NewSource(2)))

	controller, err := NewBrainController(genome)
	if err != nil {
		t.Fatalf("NewBrainController failed: %v", err)
	}
	if controller.Genome != genome {
		t.Error("controller genome mismatch")
	}

	t.Logf("Created controller with %d nodes and %d links",
		controller.NodeCount(), controller.LinkCount())
}

func TestDecideZeroWeights(t *testing.T) {
	genome := CreateBrainGenome(1, 0, rand.New(rand.NewSource(3)))
	controller, err := NewBrainController(genome)
	if err != nil {
		t.Fatalf("failed to create controller: %v", err)
	}

	// Zero input into a sigmoid sits exactly at the midpoint
	out, err := controller.Decide(components.Observation{Y: 350, DTop: 100, DBottom: -100})
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if math.Abs(out-0.5) > 1e-9 {
		t.Errorf("output = %f, want 0.5", out)
	}
}

func TestDecideBiasDrivesOutput(t *testing.T) {
	genome := CreateBrainGenome(1, 0, rand.New(rand.NewSource(4)))
	for _, gene := range genome.Genes {
		if gene.Link.InNode.NeuronType == network.BiasNeuron {
			gene.Link.ConnectionWeight = 3
		}
	}
	controller, err := NewBrainController(genome)
	if err != nil {
		t.Fatalf("failed to create controller: %v", err)
	}

	out, err := controller.Decide(components.Observation{})
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if out <= 0.5 || out > 1 {
		t.Errorf("output = %f, want in (0.5, 1]", out)
	}
}

func TestDecideIsStateless(t *testing.T) {
	genome := CreateBrainGenome(1, 1.0, rand.New(rand.NewSource(5)))
	controller, err := NewBrainController(genome)
	if err != nil {
		t.Fatalf("failed to create controller: %v", err)
	}

	testCases := []components.Observation{
		{Y: 0, DTop: 0, DBottom: 0},
		{Y: 350, DTop: 120, DBottom: -80},
		{Y: 700, DTop: -300, DBottom: -500},
	}

	for _, obs := range testCases {
		first, err := controller.Decide(obs)
		if err != nil {
			t.Fatalf("Decide failed: %v", err)
		}
		// Interleave another observation; the network is flushed between calls
		if _, err := controller.Decide(components.Observation{Y: 1}); err != nil {
			t.Fatalf("Decide failed: %v", err)
		}
		second, err := controller.Decide(obs)
		if err != nil {
			t.Fatalf("Decide failed: %v", err)
		}
		if first != second {
			t.Errorf("Decide(%+v) = %f then %f", obs, first, second)
		}
		if math.IsNaN(first) || first < 0 || first > 1 {
			t.Errorf("Decide(%+v) = %f, outside sigmoid range", obs, first)
		}
	}
}

func TestDecideAfterAddNode(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	genome := CreateBrainGenome(1, 1.0, rng)
	opts := NEATOptions(testNEATConfig())
	idGen := NewGenomeIDGenerator()

	for i := 0; i < 5; i++ {
		addNode(genome, idGen, opts.NodeActivators, rng)
	}

	controller, err := NewBrainController(genome)
	if err != nil {
		t.Fatalf("failed to create controller: %v", err)
	}
	out, err := controller.Decide(components.Observation{Y: 300, DTop: 50, DBottom: -150})
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if math.IsNaN(out) {
		t.Error("output is NaN")
	}
}
