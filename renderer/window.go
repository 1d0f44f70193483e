package renderer

import (
	"context"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flap/assets"
	"github.com/pthm-cable/flap/config"
	"github.com/pthm-cable/flap/game"
)

// Window owns the raylib window and the scene drawn into it.
// Every method must be called from the goroutine that opened it.
type Window struct {
	cfg    *config.Config
	scene  *Scene
	closed bool
}

// Open creates the window and loads the sprites. ESC is left to the
// caller; only the window close button ends the raylib loop.
func Open(cfg *config.Config, bundle *assets.Bundle, title string) (*Window, error) {
	rl.SetTraceLogLevel(rl.LogWarning)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), title)
	rl.SetExitKey(0)
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPSAI))

	scene, err := NewScene(cfg, bundle)
	if err != nil {
		rl.CloseWindow()
		return nil, err
	}
	return &Window{cfg: cfg, scene: scene}, nil
}

// Scene returns the scene bound to this window.
func (w *Window) Scene() *Scene {
	return w.scene
}

// SetFPS changes the frame cap, which also paces the simulation when the
// window is used as an observer.
func (w *Window) SetFPS(fps int) {
	rl.SetTargetFPS(int32(fps))
}

// ShouldClose reports whether the user closed the window. Once true it stays
// true.
func (w *Window) ShouldClose() bool {
	if !w.closed && rl.WindowShouldClose() {
		w.closed = true
	}
	return w.closed
}

// Close unloads the sprites and destroys the window.
func (w *Window) Close() {
	w.scene.Unload()
	rl.CloseWindow()
}

// Observer returns a game.Observer that draws one frame per tick.
// ESC or closing the window calls cancel. overlay, if set, replaces the
// default score display.
func (w *Window) Observer(cancel context.CancelFunc, overlay func(game.Frame)) game.Observer {
	return &trainingView{w: w, cancel: cancel, overlay: overlay}
}

type trainingView struct {
	w       *Window
	cancel  context.CancelFunc
	overlay func(game.Frame)
}

func (v *trainingView) Observe(f game.Frame) {
	if v.w.ShouldClose() || rl.IsKeyPressed(rl.KeyEscape) {
		v.cancel()
	}

	rl.BeginDrawing()
	v.w.scene.Draw(f)
	if v.overlay != nil {
		v.overlay(f)
	} else {
		v.w.scene.DrawScore(f)
	}
	rl.DrawText("ESC: stop", 10, int32(v.w.cfg.Screen.Height)-24, 16, rl.White)
	rl.EndDrawing()
}
