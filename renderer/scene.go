// Package renderer draws simulation frames with raylib.
package renderer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flap/assets"
	"github.com/pthm-cable/flap/config"
	"github.com/pthm-cable/flap/game"
)

// animationTime is the number of ticks each wing frame is shown.
const animationTime = 5

// Fallback colors for procedural bundles.
var (
	skyColor    = rl.Color{R: 78, G: 192, B: 202, A: 255}
	pipeColor   = rl.Color{R: 84, G: 170, B: 56, A: 255}
	pipeEdge    = rl.Color{R: 48, G: 96, B: 32, A: 255}
	groundColor = rl.Color{R: 222, G: 216, B: 149, A: 255}
	birdColor   = rl.Color{R: 250, G: 200, B: 40, A: 255}
)

// Scene draws frames into the current raylib render target.
// It must be created after the window is open and used on the same goroutine.
type Scene struct {
	cfg    *config.Config
	bundle *assets.Bundle

	textured bool
	birds    []rl.Texture2D
	pipe     rl.Texture2D
	base     rl.Texture2D
	bg       rl.Texture2D
}

// NewScene loads the bundle's sprites as textures. Procedural bundles are
// drawn with flat shapes over a generated sky instead.
func NewScene(cfg *config.Config, bundle *assets.Bundle) (*Scene, error) {
	s := &Scene{cfg: cfg, bundle: bundle}
	if bundle.Dir == "" {
		s.bg = loadSky(cfg.Screen.Width, cfg.Screen.Height)
		return s, nil
	}

	load := func(name string) (rl.Texture2D, error) {
		tex := rl.LoadTexture(bundle.Path(name))
		if !rl.IsTextureValid(tex) {
			return tex, fmt.Errorf("loading texture %s", bundle.Path(name))
		}
		return tex, nil
	}

	var err error
	for _, name := range assets.BirdFrames {
		tex, lerr := load(name)
		if lerr != nil {
			s.Unload()
			return nil, lerr
		}
		s.birds = append(s.birds, tex)
	}
	if s.pipe, err = load(assets.PipeFile); err != nil {
		s.Unload()
		return nil, err
	}
	if s.base, err = load(assets.BaseFile); err != nil {
		s.Unload()
		return nil, err
	}
	if s.bg, err = load(assets.BackgroundFile); err != nil {
		s.Unload()
		return nil, err
	}
	s.textured = true
	return s, nil
}

// Unload frees every loaded texture.
func (s *Scene) Unload() {
	for _, tex := range s.birds {
		rl.UnloadTexture(tex)
	}
	s.birds = nil
	for _, tex := range []rl.Texture2D{s.pipe, s.base, s.bg} {
		if rl.IsTextureValid(tex) {
			rl.UnloadTexture(tex)
		}
	}
	s.textured = false
}

// Draw renders the world part of f: background, pipes, ground and birds.
// The caller owns BeginDrawing/EndDrawing.
func (s *Scene) Draw(f game.Frame) {
	s.DrawBackground()
	for _, p := range f.Pipes {
		s.drawPipe(p.X, p.Top, true)
		s.drawPipe(p.X, p.Bottom, false)
	}
	s.drawGround(f.Ground.X1, f.Ground.Y)
	s.drawGround(f.Ground.X2, f.Ground.Y)
	for _, b := range f.Birds {
		s.drawBird(b.X, b.Y, b.Tilt, BirdFrame(f.Tick, b.Tilt))
	}
}

// DrawScore draws the score in the top right corner and, when positive,
// the generation and live bird count below it.
func (s *Scene) DrawScore(f game.Frame) {
	w := int32(s.cfg.Screen.Width)
	text := fmt.Sprintf("Score: %d", f.Score)
	rl.DrawText(text, w-10-rl.MeasureText(text, 32), 10, 32, rl.White)

	if f.Generation > 0 {
		rl.DrawText(fmt.Sprintf("Gen: %d", f.Generation), 10, 10, 32, rl.White)
		rl.DrawText(fmt.Sprintf("Alive: %d", len(f.Birds)), 10, 46, 32, rl.White)
	}
}

// DrawBackground fills the screen with the backdrop only.
func (s *Scene) DrawBackground() {
	if !rl.IsTextureValid(s.bg) {
		rl.ClearBackground(skyColor)
		return
	}
	rl.ClearBackground(rl.Black)
	sw, sh := s.cfg.Derived.ScreenW32, s.cfg.Derived.ScreenH32
	src := rl.NewRectangle(0, 0, float32(s.bg.Width), float32(s.bg.Height))
	rl.DrawTexturePro(s.bg, src, rl.NewRectangle(0, 0, sw, sh), rl.Vector2{}, 0, rl.White)
}

func (s *Scene) drawPipe(x, y float64, flipped bool) {
	w, h := float32(s.bundle.PipeBottom.W), float32(s.bundle.PipeBottom.H)
	dst := rl.NewRectangle(float32(x), float32(y), w, h)
	if !s.textured {
		rl.DrawRectangleRec(dst, pipeColor)
		rl.DrawRectangleLinesEx(dst, 3, pipeEdge)
		return
	}
	src := rl.NewRectangle(0, 0, float32(s.pipe.Width), float32(s.pipe.Height))
	if flipped {
		src.Height = -src.Height
	}
	rl.DrawTexturePro(s.pipe, src, dst, rl.Vector2{}, 0, rl.White)
}

func (s *Scene) drawGround(x, y float64) {
	dst := rl.NewRectangle(float32(x), float32(y), float32(s.bundle.GroundW), float32(s.bundle.GroundH))
	if !s.textured {
		rl.DrawRectangleRec(dst, groundColor)
		return
	}
	src := rl.NewRectangle(0, 0, float32(s.base.Width), float32(s.base.Height))
	rl.DrawTexturePro(s.base, src, dst, rl.Vector2{}, 0, rl.White)
}

// drawBird rotates the sprite about its center; positive tilt is nose up.
func (s *Scene) drawBird(x, y, tilt float64, frame int) {
	w, h := float32(s.bundle.Bird.W), float32(s.bundle.Bird.H)
	dst := rl.NewRectangle(float32(x)+w/2, float32(y)+h/2, w, h)
	origin := rl.NewVector2(w/2, h/2)
	rot := float32(-tilt)

	if !s.textured {
		rl.DrawRectanglePro(dst, origin, rot, birdColor)
		return
	}
	tex := s.birds[frame%len(s.birds)]
	src := rl.NewRectangle(0, 0, float32(tex.Width), float32(tex.Height))
	rl.DrawTexturePro(tex, src, dst, origin, rot, rl.White)
}

// BirdFrame picks the wing frame for a tick: up, level, down, level, up.
// A bird diving at -80 degrees or steeper holds its wings level.
func BirdFrame(tick int, tilt float64) int {
	if tilt <= -80 {
		return 1
	}
	switch phase := tick % (animationTime*4 + 1); {
	case phase < animationTime:
		return 0
	case phase < animationTime*2:
		return 1
	case phase < animationTime*3:
		return 2
	case phase < animationTime*4:
		return 1
	default:
		return 0
	}
}
