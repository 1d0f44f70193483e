// Package components defines ECS components for the simulation.
package components

// Bird is the kinematic state of one flapping body.
// X stays fixed for the lifetime of the bird; only Y moves.
type Bird struct {
	X, Y         float64
	Vel          float64 // velocity at the last impulse (negative = up)
	TickCount    int     // ticks since the last impulse
	Tilt         float64 // degrees, display only
	LaunchHeight float64 // Y at the last impulse
}

// NewBird creates a bird at rest at the given spawn point.
func NewBird(x, y float64) Bird {
	return Bird{X: x, Y: y, LaunchHeight: y}
}

// Brain holds the decision function driving one agent.
type Brain struct {
	Decider Decider
}

// Genome holds the fitness accumulator of one agent.
type Genome struct {
	Sink FitnessSink
}

// Decider maps an observation to a single output in [0, 1].
// An output above the flap threshold triggers an impulse.
type Decider interface {
	Decide(obs Observation) (float64, error)
}

// DeciderFunc adapts a plain function to the Decider interface.
type DeciderFunc func(obs Observation) (float64, error)

// Decide calls f(obs).
func (f DeciderFunc) Decide(obs Observation) (float64, error) {
	return f(obs)
}

// FitnessSink receives additive fitness deltas. It is never read back.
type FitnessSink interface {
	AddFitness(delta float64)
}

// Observation is the sensor vector handed to a Decider each tick.
type Observation struct {
	Y       float64 // bird height
	DTop    float64 // |Y - pipe.Height|
	DBottom float64 // |Y - pipe.Bottom|
}

// Slice returns the observation as network sensor values.
func (o Observation) Slice() []float64 {
	return []float64{o.Y, o.DTop, o.DBottom}
}
