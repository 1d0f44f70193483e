// Package terminal renders training frames as text with tcell.
package terminal

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/flap/assets"
	"github.com/pthm-cable/flap/config"
	"github.com/pthm-cable/flap/game"
)

const (
	birdGlyph   = '@'
	pipeGlyph   = '█'
	groundGlyph = '▒'
)

var (
	birdStyle   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	pipeStyle   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	groundStyle = tcell.StyleDefault.Foreground(tcell.ColorOlive)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
)

// View is a game.Observer that scales the arena onto the terminal grid.
// ESC, q or Ctrl-C calls cancel.
type View struct {
	screen tcell.Screen
	cancel context.CancelFunc

	worldW, worldH float64
	pipeW          float64

	frame *time.Ticker
}

// Open initialises the terminal and returns a view paced at fps frames per
// second. fps <= 0 draws as fast as frames arrive.
func Open(cfg *config.Config, bundle *assets.Bundle, fps int, cancel context.CancelFunc) (*View, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initialising terminal screen: %w", err)
	}
	return New(screen, cfg, bundle, fps, cancel), nil
}

// New wraps an initialised screen.
func New(screen tcell.Screen, cfg *config.Config, bundle *assets.Bundle, fps int, cancel context.CancelFunc) *View {
	v := &View{
		screen: screen,
		cancel: cancel,
		worldW: float64(cfg.Screen.Width),
		worldH: float64(cfg.Screen.Height),
		pipeW:  float64(bundle.PipeBottom.W),
	}
	if fps > 0 {
		v.frame = time.NewTicker(time.Second / time.Duration(fps))
	}
	v.screen.HideCursor()
	return v
}

// Close restores the terminal.
func (v *View) Close() {
	if v.frame != nil {
		v.frame.Stop()
	}
	v.screen.Fini()
}

// Observe handles pending key presses and draws f.
func (v *View) Observe(f game.Frame) {
	v.pollInput()
	if v.frame != nil {
		<-v.frame.C
	}

	v.screen.Clear()
	w, h := v.screen.Size()
	if w == 0 || h < 2 {
		return
	}

	for _, p := range f.Pipes {
		x0, _ := v.cell(p.X, 0, w, h)
		x1, _ := v.cell(p.X+v.pipeW, 0, w, h)
		_, top := v.cell(0, p.Height, w, h)
		_, bottom := v.cell(0, p.Bottom, w, h)
		_, ground := v.cell(0, f.Ground.Y, w, h)
		for x := max(x0, 0); x < min(x1, w); x++ {
			for y := 1; y < top; y++ {
				v.screen.SetContent(x, y, pipeGlyph, nil, pipeStyle)
			}
			for y := bottom; y < ground; y++ {
				v.screen.SetContent(x, y, pipeGlyph, nil, pipeStyle)
			}
		}
	}

	_, ground := v.cell(0, f.Ground.Y, w, h)
	for y := ground; y < h; y++ {
		for x := 0; x < w; x++ {
			v.screen.SetContent(x, y, groundGlyph, nil, groundStyle)
		}
	}

	for _, b := range f.Birds {
		x, y := v.cell(b.X, b.Y, w, h)
		if x >= 0 && x < w && y >= 1 && y < h {
			v.screen.SetContent(x, y, birdGlyph, nil, birdStyle)
		}
	}

	v.drawStatus(f, w)
	v.screen.Show()
}

// cell maps world coordinates to a grid cell. Row 0 is the status line.
func (v *View) cell(x, y float64, w, h int) (int, int) {
	cx := int(x * float64(w) / v.worldW)
	cy := 1 + int(y*float64(h-1)/v.worldH)
	return cx, cy
}

func (v *View) drawStatus(f game.Frame, w int) {
	status := fmt.Sprintf(" gen %d  score %d  alive %d  tick %d  [q] stop ", f.Generation, f.Score, len(f.Birds), f.Tick)
	x := 0
	for _, r := range status {
		if x >= w {
			break
		}
		v.screen.SetContent(x, 0, r, nil, statusStyle)
		x++
	}
	for ; x < w; x++ {
		v.screen.SetContent(x, 0, ' ', nil, statusStyle)
	}
}

func (v *View) pollInput() {
	for v.screen.HasPendingEvent() {
		switch ev := v.screen.PollEvent().(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
				(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
				v.cancel()
			}
		case *tcell.EventResize:
			v.screen.Sync()
		}
	}
}
