package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flap/assets"
	"github.com/pthm-cable/flap/config"
	"github.com/pthm-cable/flap/game"
	"github.com/pthm-cable/flap/renderer"
	"github.com/pthm-cable/flap/scores"
	"github.com/pthm-cable/flap/storage"
)

// Trainer runs AI training into an observer until it finishes or ctx is
// cancelled.
type Trainer interface {
	Run(ctx context.Context, obs game.Observer) (game.Summary, error)
	Stats() TrainingStats
	Perf() *game.PerfStats
}

// Sounds plays the manual game's effects.
type Sounds interface {
	Flap()
	Score()
	Crash()
}

type nopSounds struct{}

func (nopSounds) Flap()  {}
func (nopSounds) Score() {}
func (nopSounds) Crash() {}

// Options wires an App to its collaborators. Table, Store, Trainer and
// Sounds are optional.
type Options struct {
	Config  *config.Config
	Window  *renderer.Window
	Bundle  *assets.Bundle
	Rng     *rand.Rand
	Table   *scores.Table
	Store   storage.Store
	Trainer Trainer
	Sounds  Sounds
	RunID   string
}

// App is the title menu and everything reachable from it.
type App struct {
	opts   Options
	cfg    *config.Config
	win    *renderer.Window
	r      *Renderer
	screen Screen
	menu   *Menu

	name      string
	session   *game.Session
	over      GameOver
	pendingAI bool

	overlays *OverlayRegistry
	stats    *StatsPanel
	perf     *PerfPanel
	brain    *BrainPanel
	controls *ControlsPanel
}

// NewApp creates the app on an open window.
func NewApp(opts Options) *App {
	if opts.Sounds == nil {
		opts.Sounds = nopSounds{}
	}
	r := NewRenderer(int32(opts.Config.Screen.Width))
	return &App{
		opts:      opts,
		cfg:       opts.Config,
		win:       opts.Window,
		r:         r,
		menu:      NewMenu(),
		overlays: NewOverlayRegistry(),
		stats:    NewStatsPanel(r, 10, 90, 240),
		perf:     NewPerfPanel(r, 10, 260),
		brain:    NewBrainPanel(r, int32(opts.Config.Screen.Width)-330, 90, 320, 260),
		controls: NewControlsPanel(r, int32(opts.Config.Screen.Width)-330, 360, 320),
	}
}

// Screen returns the active screen.
func (a *App) Screen() Screen {
	return a.screen
}

// Run shows the title menu until the user quits, the window is closed or
// ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	gui.SetStyle(gui.DEFAULT, gui.TEXT_SIZE, 20)

	for a.screen != ScreenQuit && ctx.Err() == nil && !a.win.ShouldClose() {
		switch a.screen {
		case ScreenMenu:
			a.menuFrame()
		case ScreenName:
			a.nameFrame()
		case ScreenPlay:
			a.playFrame(ctx)
		case ScreenGameOver:
			a.gameOverFrame()
		case ScreenScores:
			a.scoresFrame()
		}
		if a.pendingAI {
			a.pendingAI = false
			if err := a.runAI(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *App) choose(item int) {
	switch item {
	case ItemPlay:
		a.name = ""
		a.screen = ScreenName
	case ItemAI:
		a.pendingAI = true
	case ItemScores:
		a.screen = ScreenScores
	case ItemQuit:
		a.screen = ScreenQuit
	}
}

func (a *App) menuFrame() {
	a.win.SetFPS(a.cfg.Screen.TargetFPSManual)

	switch {
	case rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyS):
		a.menu.Move(1)
	case rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyW):
		a.menu.Move(-1)
	case rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyKpEnter):
		a.choose(a.menu.Selected)
	case rl.IsKeyPressed(rl.KeyEscape):
		a.screen = ScreenQuit
	}
	if item, ok := QuickKey(rl.GetCharPressed()); ok {
		a.choose(item)
	}

	rl.BeginDrawing()
	a.win.Scene().DrawBackground()
	th := a.r.Theme
	a.r.DrawCentered("Flappy Bird", 120, th.TitleFontSize, rl.White)

	const btnW, btnH, gap = 300, 56, 80
	x := float32(a.cfg.Screen.Width-btnW) / 2
	for i := range a.menu.Items {
		bounds := rl.NewRectangle(x, float32(260+i*gap), btnW, btnH)
		if gui.Button(bounds, a.menu.Label(i)) {
			a.menu.Selected = i
			a.choose(i)
		}
	}
	a.r.DrawCentered("Up/Down or W/S, Enter to select. 1/2/3 quick keys.", int32(a.cfg.Screen.Height)-40, th.FontSize, th.Muted)
	rl.EndDrawing()
}

// Screen changes take effect after EndDrawing so a key press is never seen
// by two screens.
func (a *App) nameFrame() {
	maxLen := a.cfg.Scores.MaxNameLen
	cancel := rl.IsKeyPressed(rl.KeyEscape)
	confirm := rl.IsKeyPressed(rl.KeyEnter)

	rl.BeginDrawing()
	a.win.Scene().DrawBackground()
	th := a.r.Theme
	a.r.DrawCentered("Play Yourself", 100, th.BigFontSize, rl.White)
	a.r.DrawCentered("Enter gamertag (Enter to confirm, ESC to cancel)", 170, th.FontSize, th.Muted)

	const boxW, boxH = 360, 56
	box := rl.NewRectangle(float32(a.cfg.Screen.Width-boxW)/2, 240, boxW, boxH)
	gui.TextBox(box, &a.name, maxLen, true)
	a.r.DrawCentered(fmt.Sprintf("(max %d characters)", maxLen), int32(box.Y+box.Height)+12, th.FontSize, th.Muted)
	rl.EndDrawing()

	switch {
	case cancel:
		a.screen = ScreenMenu
	case confirm:
		if name := scores.NormalizeName(a.name, maxLen); name != "" {
			a.name = name
			a.startGame()
		}
	}
}

func (a *App) startGame() {
	if a.session == nil {
		a.session = game.NewSession(a.cfg, a.opts.Bundle, a.opts.Rng)
	} else {
		a.session.Reset()
	}
	a.screen = ScreenPlay
}

func (a *App) playFrame(ctx context.Context) {
	a.win.SetFPS(a.cfg.Screen.TargetFPSManual)
	quit := rl.IsKeyPressed(rl.KeyEscape)

	flap := rl.IsKeyPressed(rl.KeySpace)
	if flap {
		a.opts.Sounds.Flap()
	}
	before := a.session.Score()
	alive := a.session.Step(flap)
	if a.session.Score() > before {
		a.opts.Sounds.Score()
	}

	f := a.session.Frame()
	rl.BeginDrawing()
	a.win.Scene().Draw(f)
	a.win.Scene().DrawScore(f)
	rl.EndDrawing()

	switch {
	case quit:
		a.screen = ScreenMenu
	case !alive:
		a.opts.Sounds.Crash()
		a.over = RecordGame(ctx, a.opts.Table, a.opts.Store, a.opts.RunID, a.name, a.session.Score(), time.Now())
		slog.Info("manual game over", "name", a.name, "score", a.over.Score, "top", a.over.TopTen, "db_saved", a.over.DBSaved)
		a.screen = ScreenGameOver
	}
}

func (a *App) gameOverFrame() {
	done := rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyEscape)

	rl.BeginDrawing()
	a.win.Scene().DrawBackground()
	th := a.r.Theme
	a.r.DrawCentered("Game Over", 100, th.TitleFontSize, rl.White)
	a.r.DrawCentered(fmt.Sprintf("%s scored: %d", a.over.Name, a.over.Score), 200, th.BigFontSize, th.Muted)
	if a.over.TopTen {
		a.r.DrawCentered("NEW TOP 10! Saved locally.", 280, th.HeaderFontSize, th.Gold)
	} else {
		a.r.DrawCentered("Press Enter or ESC to return to title", 280, th.HeaderFontSize, th.Muted)
	}
	a.r.DrawCentered(a.over.SavedLabel(), 320, th.HeaderFontSize, th.Muted)

	a.r.DrawCentered("Top highs (preview):", 360, th.HeaderFontSize, rl.White)
	for i, e := range a.over.Preview {
		a.r.DrawCentered(scores.FormatRank(i+1, e), int32(400+i*36), 24, rl.White)
	}
	rl.EndDrawing()

	if done {
		a.screen = ScreenMenu
	}
}

func (a *App) scoresFrame() {
	back := rl.IsKeyPressed(rl.KeyEscape)

	rl.BeginDrawing()
	a.win.Scene().DrawBackground()
	th := a.r.Theme
	a.r.DrawCentered("TOP 10 HIGHSCORES", 60, th.BigFontSize+8, rl.White)

	var entries []scores.Entry
	if a.opts.Table != nil {
		entries = a.opts.Table.Entries()
	}
	if len(entries) == 0 {
		a.r.DrawCentered("No scores yet", 150, 24, th.Muted)
	}
	for i, e := range entries {
		color := rl.White
		if i < 3 {
			color = th.Gold
		}
		a.r.DrawCentered(scores.FormatRank(i+1, e), int32(150+i*40), 24, color)
	}

	const btnW, btnH = 200, 48
	bounds := rl.NewRectangle(float32(a.cfg.Screen.Width-btnW)/2, float32(a.cfg.Screen.Height-btnH-30), btnW, btnH)
	if gui.Button(bounds, "Back") {
		back = true
	}
	rl.EndDrawing()

	if back {
		a.screen = ScreenMenu
	}
}

// runAI trains with the window as observer until the run ends or the user
// presses ESC, then returns to the menu.
func (a *App) runAI(ctx context.Context) error {
	if a.opts.Trainer == nil {
		slog.Warn("AI mode unavailable: no trainer configured")
		return nil
	}
	a.win.SetFPS(a.cfg.Screen.TargetFPSAI)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	obs := a.win.Observer(cancel, a.drawTrainingHUD)
	sum, err := a.opts.Trainer.Run(runCtx, obs)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("ai mode: %w", err)
	}
	slog.Info("ai mode finished", "generations", sum.Generations, "best_score", sum.BestScore, "cancelled", sum.Cancelled)

	a.screen = ScreenMenu
	return nil
}

func (a *App) drawTrainingHUD(f game.Frame) {
	a.overlays.PollKeys()

	a.win.Scene().DrawScore(f)
	stats := a.opts.Trainer.Stats()
	if a.overlays.IsEnabled(OverlayStats) {
		a.stats.Draw(stats, f)
	}
	if a.overlays.IsEnabled(OverlayPerf) {
		a.perf.Draw(a.opts.Trainer.Perf())
	}
	if a.overlays.IsEnabled(OverlayBrain) {
		a.brain.Draw(stats.Champion, stats.BestFitness)
	}
	if a.overlays.IsEnabled(OverlayControls) {
		a.controls.Draw(a.overlays)
	}
	a.r.DrawCentered("H: controls", int32(a.cfg.Screen.Height)-24, a.r.Theme.FontSize, rl.White)
}
