package game

import (
	"math/rand"

	"github.com/pthm-cable/flap/assets"
	"github.com/pthm-cable/flap/components"
	"github.com/pthm-cable/flap/config"
	"github.com/pthm-cable/flap/systems"
)

// Session is a single human-controlled game on the same physics as training.
type Session struct {
	arena *systems.Arena
	kin   systems.Kinematics
	bird  components.Bird
	alive bool
	tick  int
}

// NewSession creates a session ready for its first tick.
func NewSession(cfg *config.Config, bundle *assets.Bundle, rng *rand.Rand) *Session {
	s := &Session{
		arena: systems.NewArena(cfg, bundle.CollisionField(), bundle.GroundW, rng),
		kin:   systems.NewKinematics(cfg.Bird),
	}
	s.Reset()
	return s
}

// Reset starts a fresh game.
func (s *Session) Reset() {
	s.arena.Reset()
	s.bird = s.kin.Spawn()
	s.alive = true
	s.tick = 0
}

// Step advances one tick, flapping first if requested.
// It returns false once the bird has died; further steps do nothing.
func (s *Session) Step(flap bool) bool {
	if !s.alive {
		return false
	}
	if flap {
		s.kin.Impulse(&s.bird)
	}

	s.tick++
	res := s.arena.Tick([]*components.Bird{&s.bird})
	if len(res.Collided) > 0 || len(res.OutOfBounds) > 0 {
		s.alive = false
	}
	return s.alive
}

// Alive reports whether the bird is still flying.
func (s *Session) Alive() bool {
	return s.alive
}

// Score returns the number of pipes cleared.
func (s *Session) Score() int {
	return s.arena.Score
}

// Frame returns the current view for rendering.
func (s *Session) Frame() Frame {
	return Frame{
		Birds:  []components.Bird{s.bird},
		Pipes:  append([]components.Pipe(nil), s.arena.Pipes...),
		Ground: s.arena.Ground,
		Score:  s.arena.Score,
		Tick:   s.tick,
	}
}
