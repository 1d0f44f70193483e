package game

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/flap/assets"
	"github.com/pthm-cable/flap/config"
)

func TestSessionFallsToDeath(t *testing.T) {
	s := NewSession(config.Default(), assets.Procedural(), rand.New(rand.NewSource(3)))

	steps := 0
	for s.Step(false) {
		steps++
		if steps > 1000 {
			t.Fatal("bird never died")
		}
	}
	if s.Alive() {
		t.Error("session should be over")
	}
	if s.Step(true) {
		t.Error("steps after death should report dead")
	}
	if f := s.Frame(); len(f.Birds) != 1 || f.Score != s.Score() {
		t.Errorf("frame = %+v", f)
	}

	s.Reset()
	if !s.Alive() || s.Score() != 0 || s.Frame().Tick != 0 {
		t.Error("reset should start a fresh game")
	}
}

func TestSessionFlapRises(t *testing.T) {
	s := NewSession(config.Default(), assets.Procedural(), rand.New(rand.NewSource(3)))
	y := s.Frame().Birds[0].Y
	s.Step(true)
	if got := s.Frame().Birds[0].Y; got >= y {
		t.Errorf("y after flap = %v, want < %v", got, y)
	}
}
