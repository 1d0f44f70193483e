package systems

import "testing"

func rectMask(w, h int) *Mask {
	m := NewMask(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(x, y)
		}
	}
	return m
}

func TestMaskSetGet(t *testing.T) {
	m := NewMask(130, 3) // spans three words per row
	m.Set(0, 0)
	m.Set(64, 1)
	m.Set(129, 2)
	m.Set(-1, 0)  // ignored
	m.Set(130, 0) // ignored

	for _, p := range [][2]int{{0, 0}, {64, 1}, {129, 2}} {
		if !m.Get(p[0], p[1]) {
			t.Errorf("Get(%d, %d) = false, want true", p[0], p[1])
		}
	}
	if m.Get(1, 0) || m.Get(63, 1) {
		t.Error("unset pixel reported as set")
	}
	if got := m.Count(); got != 3 {
		t.Errorf("Count() = %d, want 3", got)
	}
}

func TestMaskFlipVertical(t *testing.T) {
	m := NewMask(4, 3)
	m.Set(1, 0)
	f := m.FlipVertical()

	if !f.Get(1, 2) || f.Get(1, 0) {
		t.Error("flip did not mirror rows")
	}
	if f.Count() != m.Count() {
		t.Errorf("flip changed pixel count: %d vs %d", f.Count(), m.Count())
	}
}

func TestMaskOverlap(t *testing.T) {
	a := rectMask(10, 10)

	tests := []struct {
		name       string
		other      *Mask
		offX, offY int
		want       bool
	}{
		{"identical position", rectMask(10, 10), 0, 0, true},
		{"touching corner pixel", rectMask(10, 10), 9, 9, true},
		{"adjacent right", rectMask(10, 10), 10, 0, false},
		{"adjacent above", rectMask(10, 10), 0, -10, false},
		{"negative offset overlap", rectMask(10, 10), -5, -5, true},
		{"empty other", NewMask(10, 10), 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Overlap(tt.other, tt.offX, tt.offY); got != tt.want {
				t.Errorf("Overlap(off %d,%d) = %v, want %v", tt.offX, tt.offY, got, tt.want)
			}
		})
	}
}

func TestMaskOverlapHoles(t *testing.T) {
	// Ring: bounding boxes overlap but the centre pixel is empty
	ring := rectMask(3, 3)
	ring.bits[1*ring.words] &^= 1 << 1

	dot := NewMask(1, 1)
	dot.Set(0, 0)

	if ring.Overlap(dot, 1, 1) {
		t.Error("dot in the hole should not overlap")
	}
	if !ring.Overlap(dot, 0, 1) {
		t.Error("dot on the ring should overlap")
	}
}
