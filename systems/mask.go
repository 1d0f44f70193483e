package systems

import "math/bits"

// Mask is a 1-bit silhouette of a sprite, stored row-major in 64-bit words.
type Mask struct {
	W, H  int
	words int // words per row
	bits  []uint64
}

// NewMask creates an empty w x h mask.
func NewMask(w, h int) *Mask {
	words := (w + 63) / 64
	return &Mask{W: w, H: h, words: words, bits: make([]uint64, words*h)}
}

// Set marks the pixel at (x, y). Out-of-range coordinates are ignored.
func (m *Mask) Set(x, y int) {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return
	}
	m.bits[y*m.words+x/64] |= 1 << uint(x%64)
}

// Get reports whether the pixel at (x, y) is set.
func (m *Mask) Get(x, y int) bool {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return false
	}
	return m.bits[y*m.words+x/64]&(1<<uint(x%64)) != 0
}

// Count returns the number of set pixels.
func (m *Mask) Count() int {
	n := 0
	for _, w := range m.bits {
		n += bits.OnesCount64(w)
	}
	return n
}

// FlipVertical returns a copy of the mask mirrored top to bottom.
func (m *Mask) FlipVertical() *Mask {
	out := NewMask(m.W, m.H)
	for y := 0; y < m.H; y++ {
		copy(out.bits[(m.H-1-y)*m.words:(m.H-y)*m.words], m.bits[y*m.words:(y+1)*m.words])
	}
	return out
}

// Overlap reports whether any set pixel of m coincides with a set pixel of o
// when o's top-left corner is placed at (offX, offY) in m's coordinates.
func (m *Mask) Overlap(o *Mask, offX, offY int) bool {
	x0, x1 := max(0, offX), min(m.W, offX+o.W)
	y0, y1 := max(0, offY), min(m.H, offY+o.H)
	if x0 >= x1 || y0 >= y1 {
		return false
	}

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if m.Get(x, y) && o.Get(x-offX, y-offY) {
				return true
			}
		}
	}
	return false
}
