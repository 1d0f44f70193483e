package game

import "github.com/pthm-cable/flap/components"

// Re-exported so callers driving the evaluator only need this package.
type (
	Decider     = components.Decider
	DeciderFunc = components.DeciderFunc
	FitnessSink = components.FitnessSink
	Observation = components.Observation
)

// Candidate is one genome offered for evaluation: its decision function and
// the sink that receives its fitness.
type Candidate struct {
	Decider Decider
	Sink    FitnessSink
}

// Frame is the read-only view of the simulation handed to observers.
type Frame struct {
	Birds      []components.Bird
	Pipes      []components.Pipe
	Ground     components.Ground
	Score      int
	Generation int
	Tick       int
}

// Observer receives a frame after every completed tick. Implementations must
// return promptly and must not retain the slices past the call.
type Observer interface {
	Observe(f Frame)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(f Frame)

// Observe calls fn(f).
func (fn ObserverFunc) Observe(f Frame) {
	fn(f)
}

// NopObserver discards frames. Used for headless runs.
type NopObserver struct{}

// Observe does nothing.
func (NopObserver) Observe(Frame) {}
