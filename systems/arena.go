package systems

import (
	"math"
	"math/rand"
	"slices"

	"github.com/pthm-cable/flap/components"
	"github.com/pthm-cable/flap/config"
)

// TickResult reports what happened during one arena tick.
// Indices refer to the bird slice passed to Tick.
type TickResult struct {
	Collided    []int // hit a pipe
	OutOfBounds []int // hit the floor or left the top of the screen
	Cleared     int   // pipes passed for the first time this tick
}

// Scored reports whether at least one gap was cleared.
func (r TickResult) Scored() bool {
	return r.Cleared > 0
}

// Arena owns the pipe queue and ground and advances a set of birds through them.
type Arena struct {
	kin   Kinematics
	pipes *PipeFactory
	field *CollisionField

	firstX      float64
	spawnX      float64
	floorY      float64
	birdH       float64
	groundY     float64
	groundW     float64
	groundSpeed float64

	// Pipes is ordered by creation, which is also left-to-right order.
	Pipes  []components.Pipe
	Ground components.Ground
	Score  int
}

// NewArena creates an arena with its first pipe in place.
func NewArena(cfg *config.Config, field *CollisionField, groundW int, rng *rand.Rand) *Arena {
	pipeW, pipeH := field.PipeSize()
	_, birdH := field.BirdSize()

	a := &Arena{
		kin:         NewKinematics(cfg.Bird),
		pipes:       NewPipeFactory(cfg.Pipe, pipeW, pipeH, rng),
		field:       field,
		firstX:      cfg.Pipe.FirstX,
		spawnX:      cfg.Pipe.SpawnX,
		floorY:      cfg.Derived.FloorY,
		birdH:       float64(birdH),
		groundY:     cfg.Ground.Y,
		groundW:     float64(groundW),
		groundSpeed: cfg.Ground.Speed,
	}
	a.Reset()
	return a
}

// Reset restores the arena to its starting layout. The pipe RNG keeps its state.
func (a *Arena) Reset() {
	a.Pipes = []components.Pipe{a.pipes.New(a.firstX)}
	a.Ground = components.NewGround(a.groundY, a.groundW)
	a.Score = 0
}

// Kinematics returns the kinematics used for birds in this arena.
func (a *Arena) Kinematics() Kinematics {
	return a.kin
}

// Tick advances every bird, the ground and the pipes by one step.
// Birds that die are reported, not removed; callers filter them out.
func (a *Arena) Tick(birds []*components.Bird) TickResult {
	var res TickResult

	for _, b := range birds {
		a.kin.Advance(b)
	}
	AdvanceGround(&a.Ground, a.groundSpeed)

	dead := make([]bool, len(birds))
	for i := range a.Pipes {
		p := &a.Pipes[i]
		a.pipes.Advance(p)

		for j, b := range birds {
			if dead[j] {
				continue
			}
			if a.field.Overlaps(b, p) {
				dead[j] = true
				res.Collided = append(res.Collided, j)
				continue
			}
			if PassedBy(p, b.X) {
				res.Cleared++
			}
		}
	}
	slices.Sort(res.Collided)

	// At most one point and one new pipe per tick, however many gaps cleared
	if res.Scored() {
		a.Score++
		a.Pipes = append(a.Pipes, a.pipes.New(a.spawnX))
	}

	kept := a.Pipes[:0]
	for _, p := range a.Pipes {
		if !a.pipes.Offscreen(p) {
			kept = append(kept, p)
		}
	}
	a.Pipes = kept

	for j, b := range birds {
		if dead[j] {
			continue
		}
		if b.Y+a.birdH >= a.floorY || b.Y < 0 {
			res.OutOfBounds = append(res.OutOfBounds, j)
		}
	}

	return res
}

// LookaheadIndex picks the pipe a bird at leadX should steer for: the second
// pipe once the lead bird is past the first pipe's right edge.
func (a *Arena) LookaheadIndex(leadX float64) int {
	if len(a.Pipes) > 1 && leadX > a.Pipes[0].X+a.pipes.Width() {
		return 1
	}
	return 0
}

// Observe builds the sensor vector for b relative to the pipe at idx.
// With no such pipe the distances are zero.
func (a *Arena) Observe(b *components.Bird, idx int) components.Observation {
	if idx < 0 || idx >= len(a.Pipes) {
		return components.Observation{Y: b.Y}
	}
	p := a.Pipes[idx]
	return components.Observation{
		Y:       b.Y,
		DTop:    math.Abs(b.Y - p.Height),
		DBottom: math.Abs(b.Y - p.Bottom),
	}
}
