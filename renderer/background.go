package renderer

import (
	"image"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Sky generation parameters.
const (
	skySeed    = 1
	skyOctaves = 4
	cloudScale = 1.0 / 180 // noise units per pixel
	cloudCut   = 0.1       // noise below this is clear sky
)

var horizonColor = color.RGBA{R: 200, G: 236, B: 236, A: 255}

// SkyImage renders a gradient sky with soft noise clouds. Cloud cover thins
// toward the horizon so the pipes stay readable.
func SkyImage(w, h int, seed int64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	p := newPerlin(seed)
	top := color.RGBA{R: skyColor.R, G: skyColor.G, B: skyColor.B, A: 255}

	for y := 0; y < h; y++ {
		t := float64(y) / float64(max(h-1, 1))
		base := mix(top, horizonColor, t*t)
		for x := 0; x < w; x++ {
			n := p.fbm(float64(x)*cloudScale, float64(y)*cloudScale*2, skyOctaves)
			cover := (n - cloudCut) / (1 - cloudCut) * (1 - t)
			if cover <= 0 {
				img.SetRGBA(x, y, base)
				continue
			}
			img.SetRGBA(x, y, mix(base, color.RGBA{R: 255, G: 255, B: 255, A: 255}, min(cover*2, 0.85)))
		}
	}
	return img
}

func mix(a, b color.RGBA, t float64) color.RGBA {
	ch := func(x, y uint8) uint8 {
		return uint8(float64(x) + t*(float64(y)-float64(x)) + 0.5)
	}
	return color.RGBA{R: ch(a.R, b.R), G: ch(a.G, b.G), B: ch(a.B, b.B), A: 255}
}

// loadSky uploads a generated sky as a texture. Requires an open window.
func loadSky(w, h int) rl.Texture2D {
	img := rl.NewImageFromImage(SkyImage(w, h, skySeed))
	defer rl.UnloadImage(img)
	return rl.LoadTextureFromImage(img)
}
