package neural

import (
	"fmt"
	"math/rand"

	"github.com/yaricom/goNEAT/v4/neat/genetics"
	neatmath "github.com/yaricom/goNEAT/v4/neat/math"
	"github.com/yaricom/goNEAT/v4/neat/network"

	"github.com/pthm-cable/flap/components"
)

// defaultActivationDepth is used when the network depth cannot be measured.
const defaultActivationDepth = 5

// BrainController wraps a goNEAT network as a decision function.
type BrainController struct {
	Genome  *genetics.Genome
	network *network.Network
	depth   int
	sensors []float64
}

// NewBrainController creates a controller from a genome.
func NewBrainController(genome *genetics.Genome) (*BrainController, error) {
	phenotype, err := genome.Genesis(genome.Id)
	if err != nil {
		return nil, fmt.Errorf("failed to build network from genome: %w", err)
	}

	// Activate with depth-based steps for proper signal propagation
	depth, err := phenotype.MaxActivationDepth()
	if err != nil || depth < 1 {
		depth = defaultActivationDepth
	}

	return &BrainController{
		Genome:  genome,
		network: phenotype,
		depth:   depth,
		sensors: make([]float64, BrainInputs+1),
	}, nil
}

// Decide feeds the observation through the network and returns its single output.
func (b *BrainController) Decide(obs components.Observation) (float64, error) {
	b.sensors[0], b.sensors[1], b.sensors[2] = obs.Y, obs.DTop, obs.DBottom
	b.sensors[BrainInputs] = biasValue

	if err := b.network.LoadSensors(b.sensors); err != nil {
		return 0, fmt.Errorf("failed to load sensors: %w", err)
	}

	for i := 0; i < b.depth; i++ {
		if _, err := b.network.Activate(); err != nil {
			return 0, fmt.Errorf("activation failed: %w", err)
		}
	}

	outputs := b.network.ReadOutputs()
	if len(outputs) < BrainOutputs {
		return 0, fmt.Errorf("expected %d outputs, got %d", BrainOutputs, len(outputs))
	}
	out := outputs[0]

	// Flush network state for next tick
	if _, err := b.network.Flush(); err != nil {
		return 0, fmt.Errorf("flush failed: %w", err)
	}

	return out, nil
}

// NodeCount returns the number of nodes in the network.
func (b *BrainController) NodeCount() int {
	return b.network.NodeCount()
}

// LinkCount returns the number of links (connections) in the network.
func (b *BrainController) LinkCount() int {
	return b.network.LinkCount()
}

// CreateBrainGenome creates a start genome: every input and the bias wired
// directly to the output with weights drawn from [-weightRange, weightRange].
// Node IDs are 1..BrainInputs for sensors, then the bias, then the output.
func CreateBrainGenome(id int, weightRange float64, rng *rand.Rand) *genetics.Genome {
	nodes := make([]*network.NNode, 0, BrainInputs+1+BrainOutputs)

	for i := 1; i <= BrainInputs; i++ {
		node := network.NewNNode(i, network.InputNeuron)
		node.ActivationType = neatmath.LinearActivation
		nodes = append(nodes, node)
	}

	bias := network.NewNNode(BrainInputs+1, network.BiasNeuron)
	bias.ActivationType = neatmath.LinearActivation
	nodes = append(nodes, bias)

	inputCount := len(nodes)
	for i := 1; i <= BrainOutputs; i++ {
		node := network.NewNNode(inputCount+i, network.OutputNeuron)
		node.ActivationType = neatmath.SigmoidSteepenedActivation
		nodes = append(nodes, node)
	}

	genes := make([]*genetics.Gene, 0, inputCount*BrainOutputs)
	innovNum := int64(1)
	for i := 0; i < inputCount; i++ {
		for j := 0; j < BrainOutputs; j++ {
			weight := (rng.Float64()*2 - 1) * weightRange
			genes = append(genes, genetics.NewGeneWithTrait(
				nil,
				weight,
				nodes[i],
				nodes[inputCount+j],
				false,
				innovNum,
				0,
			))
			innovNum++
		}
	}

	return genetics.NewGenome(id, nil, nodes, genes)
}
