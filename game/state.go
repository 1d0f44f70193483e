package game

// State is the evaluator's lifecycle state.
type State uint8

const (
	StateIdle      State = iota // no generation loaded
	StateRunning                // ticking with at least one live agent
	StateDraining               // last tick emptied the population
	StateCancelled              // stopped by the host
	StateDone                   // population empty or tick cap reached
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateCancelled:
		return "cancelled"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further ticks will run.
func (s State) Terminal() bool {
	return s == StateCancelled || s == StateDone
}
