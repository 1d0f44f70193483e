package systems

import (
	"math"

	"github.com/pthm-cable/flap/components"
)

// CollisionField answers pixel-exact bird/pipe overlap queries. It holds no
// per-tick state.
type CollisionField struct {
	bird       *Mask
	pipeTop    *Mask
	pipeBottom *Mask
}

// NewCollisionField creates a collision field from sprite silhouettes.
func NewCollisionField(bird, pipeTop, pipeBottom *Mask) *CollisionField {
	return &CollisionField{bird: bird, pipeTop: pipeTop, pipeBottom: pipeBottom}
}

// BirdSize returns the bird silhouette dimensions.
func (c *CollisionField) BirdSize() (w, h int) {
	return c.bird.W, c.bird.H
}

// PipeSize returns the pipe silhouette dimensions.
func (c *CollisionField) PipeSize() (w, h int) {
	return c.pipeBottom.W, c.pipeBottom.H
}

// Overlaps reports whether the bird touches either half of the pipe.
func (c *CollisionField) Overlaps(b *components.Bird, p *components.Pipe) bool {
	by := int(math.RoundToEven(b.Y))
	dx := int(math.RoundToEven(p.X - b.X))

	if c.bird.Overlap(c.pipeTop, dx, int(math.RoundToEven(p.Top))-by) {
		return true
	}
	return c.bird.Overlap(c.pipeBottom, dx, int(math.RoundToEven(p.Bottom))-by)
}
