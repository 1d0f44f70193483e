package renderer

import "testing"

func TestBirdFrame(t *testing.T) {
	tests := []struct {
		tick int
		tilt float64
		want int
	}{
		{0, 0, 0},
		{4, 0, 0},
		{5, 0, 1},
		{10, 0, 2},
		{15, 0, 1},
		{20, 0, 0},
		{21, 0, 0},
		{26, 0, 1},
		{12, -80, 1},
		{0, -90, 1},
		{12, -79, 2},
	}
	for _, tt := range tests {
		if got := BirdFrame(tt.tick, tt.tilt); got != tt.want {
			t.Errorf("BirdFrame(%d, %v) = %d, want %d", tt.tick, tt.tilt, got, tt.want)
		}
	}
}

func TestSkyImage(t *testing.T) {
	img := SkyImage(64, 48, 3)
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Fatalf("bounds = %v", b)
	}

	again := SkyImage(64, 48, 3)
	for i := range img.Pix {
		if img.Pix[i] != again.Pix[i] {
			t.Fatal("same seed produced a different sky")
		}
	}

	// The bottom row has no cloud cover and sits on the horizon colour.
	for x := 0; x < 64; x++ {
		if got := img.RGBAAt(x, 47); got != horizonColor {
			t.Fatalf("horizon pixel %d = %v, want %v", x, got, horizonColor)
		}
	}
	if got := img.RGBAAt(0, 0); got.A != 255 {
		t.Errorf("sky must be opaque, got %v", got)
	}
}

func TestPerlinRange(t *testing.T) {
	p := newPerlin(9)
	if n := p.noise(3, 7); n != 0 {
		t.Errorf("noise at lattice point = %v, want 0", n)
	}
	for i := 0; i < 500; i++ {
		x, y := float64(i)*0.37, float64(i)*0.91
		if n := p.fbm(x, y, 4); n < -2 || n > 2 {
			t.Fatalf("fbm(%v, %v) = %v out of range", x, y, n)
		}
	}
}
