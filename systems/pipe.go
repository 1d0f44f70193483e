package systems

import (
	"math/rand"

	"github.com/pthm-cable/flap/components"
	"github.com/pthm-cable/flap/config"
)

// PipeFactory creates and moves pipes. All pipes share one speed and gap.
type PipeFactory struct {
	cfg     config.PipeConfig
	width   float64
	spriteH float64
	rng     *rand.Rand
}

// NewPipeFactory creates a pipe factory for sprites of the given size.
func NewPipeFactory(cfg config.PipeConfig, width, spriteH int, rng *rand.Rand) *PipeFactory {
	return &PipeFactory{
		cfg:     cfg,
		width:   float64(width),
		spriteH: float64(spriteH),
		rng:     rng,
	}
}

// New creates a pipe at x with a gap height drawn from [MinHeight, MaxHeight).
func (f *PipeFactory) New(x float64) components.Pipe {
	h := float64(f.rng.Intn(f.cfg.MaxHeight-f.cfg.MinHeight) + f.cfg.MinHeight)
	return components.Pipe{
		X:      x,
		Height: h,
		Top:    h - f.spriteH,
		Bottom: h + f.cfg.Gap,
	}
}

// Advance scrolls the pipe left by the constant pipe speed.
func (f *PipeFactory) Advance(p *components.Pipe) {
	p.X -= f.cfg.Speed
}

// Offscreen reports whether the pipe's right edge has left the screen.
func (f *PipeFactory) Offscreen(p components.Pipe) bool {
	return p.X+f.width < 0
}

// Width returns the pipe sprite width.
func (f *PipeFactory) Width() float64 {
	return f.width
}

// PassedBy flips the passed flag the first time bodyX moves beyond the pipe.
// It returns true only on the call that flipped it.
func PassedBy(p *components.Pipe, bodyX float64) bool {
	if p.Passed || p.X >= bodyX {
		return false
	}
	p.Passed = true
	return true
}

// AdvanceGround scrolls both ground tiles and wraps whichever has left the screen
// to the right of the other.
func AdvanceGround(g *components.Ground, speed float64) {
	g.X1 -= speed
	g.X2 -= speed

	if g.X1+g.Width < 0 {
		g.X1 = g.X2 + g.Width
	}
	if g.X2+g.Width < 0 {
		g.X2 = g.X1 + g.Width
	}
}
