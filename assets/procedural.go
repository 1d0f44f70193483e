package assets

import "github.com/pthm-cable/flap/systems"

// Sprite sizes after scaling, matching the stock artwork.
const (
	BirdW   = 68
	BirdH   = 48
	PipeW   = 104
	PipeH   = 640
	GroundW = 672
	GroundH = 224

	pipeCapH      = 46
	pipeBodyInset = 4
	birdCorner    = 14
)

// Procedural returns a bundle with generated silhouettes of the stock sprite
// sizes, for headless runs and tests. The result is deterministic.
func Procedural() *Bundle {
	bird := systems.NewMask(BirdW, BirdH)
	for y := 0; y < BirdH; y++ {
		for x := 0; x < BirdW; x++ {
			if insideRounded(x, y, BirdW, BirdH, birdCorner) {
				bird.Set(x, y)
			}
		}
	}

	// Bottom pipe: cap at the top spanning the full width, narrower body below
	pipe := systems.NewMask(PipeW, PipeH)
	for y := 0; y < PipeH; y++ {
		x0, x1 := pipeBodyInset, PipeW-pipeBodyInset
		if y < pipeCapH {
			x0, x1 = 0, PipeW
		}
		for x := x0; x < x1; x++ {
			pipe.Set(x, y)
		}
	}

	return &Bundle{
		Bird:       bird,
		PipeTop:    pipe.FlipVertical(),
		PipeBottom: pipe,
		GroundW:    GroundW,
		GroundH:    GroundH,
	}
}

// insideRounded reports whether (x, y) lies inside a w x h rectangle with
// corners of radius r cut away.
func insideRounded(x, y, w, h, r int) bool {
	cx, cy := x, y
	switch {
	case x < r:
		cx = r
	case x >= w-r:
		cx = w - r - 1
	}
	switch {
	case y < r:
		cy = r
	case y >= h-r:
		cy = h - r - 1
	}
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy <= r*r
}
