package components

// Pipe is a top/bottom obstacle pair sharing one gap.
type Pipe struct {
	X      float64
	Height float64 // lower edge of the top pipe, drawn once at creation
	Top    float64 // Y of the top pipe sprite (Height - sprite height)
	Bottom float64 // Y of the bottom pipe sprite (Height + gap)
	Passed bool
}

// Ground is the scrolling floor, drawn as two tiles laid end to end.
type Ground struct {
	Y      float64
	X1, X2 float64
	Width  float64
}

// NewGround places both tiles side by side starting at x = 0.
func NewGround(y, width float64) Ground {
	return Ground{Y: y, X1: 0, X2: width, Width: width}
}
