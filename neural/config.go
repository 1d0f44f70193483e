package neural

import (
	"github.com/yaricom/goNEAT/v4/neat"
	neatmath "github.com/yaricom/goNEAT/v4/neat/math"

	"github.com/pthm-cable/flap/config"
)

// BrainInputs is the number of sensor inputs (bird y, distance to the gap top,
// distance to the gap bottom). A bias node is added on top.
const BrainInputs = 3

// BrainOutputs is the number of network outputs (flap score).
const BrainOutputs = 1

// biasValue is loaded into the bias node on every activation.
const biasValue = 1.0

// NEATOptions maps the configured NEAT subset onto goNEAT options.
func NEATOptions(cfg config.NEATConfig) *neat.Options {
	return &neat.Options{
		// Weight mutation
		WeightMutPower: cfg.WeightMutPower,

		// Structural mutation rates
		MutateAddNodeProb:      cfg.MutateAddNodeProb,
		MutateAddLinkProb:      cfg.MutateAddLinkProb,
		MutateToggleEnableProb: cfg.MutateToggleEnableProb,

		// Weight mutation probability
		MutateLinkWeightsProb: cfg.MutateLinkWeightsProb,
		MutateOnlyProb:        cfg.MutateOnlyProb,

		// Mating probabilities
		MateOnlyProb:         cfg.MateOnlyProb,
		InterspeciesMateRate: cfg.InterspeciesMateRate,

		// Speciation
		CompatThreshold: cfg.CompatThreshold,
		DisjointCoeff:   cfg.DisjointCoeff,
		ExcessCoeff:     cfg.ExcessCoeff,
		MutdiffCoeff:    cfg.MutdiffCoeff,

		// Species management
		DropOffAge:     cfg.DropOffAge,
		SurvivalThresh: cfg.SurvivalThresh,

		PopSize: cfg.PopSize,

		NodeActivators:     []neatmath.NodeActivationType{neatmath.SigmoidSteepenedActivation},
		NodeActivatorsProb: []float64{1.0},
	}
}
