package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/yaricom/goNEAT/v4/neat/genetics"

	"github.com/pthm-cable/flap/game"
)

// TrainingStats is the evolution summary shown while the AI plays.
type TrainingStats struct {
	Generation     int
	Population     int
	Species        int
	LargestSpecies int
	BestFitness    float64
	BestScore      int
	Champion       *genetics.Genome // nil until a generation has been scored
}

// StatsPanel renders the evolution statistics.
type StatsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewStatsPanel creates a new stats panel.
func NewStatsPanel(r *Renderer, x, y, width int32) *StatsPanel {
	return &StatsPanel{renderer: r, x: x, y: y, width: width}
}

// Draw renders the panel for the current frame.
func (p *StatsPanel) Draw(stats TrainingStats, f game.Frame) {
	r := p.renderer
	height := r.Theme.LineHeight*7 + r.Theme.Padding*2
	r.DrawPanel(p.x, p.y, p.width, height)

	x := p.x + r.Theme.Padding
	y := p.y + r.Theme.Padding
	y = r.DrawSectionHeader(x, y, "Evolution")
	y = r.DrawLabelValue(x, y, "Generation", fmt.Sprintf("%d", f.Generation))
	y = r.DrawLabelValue(x, y, "Species", fmt.Sprintf("%d (largest %d)", stats.Species, stats.LargestSpecies))
	y = r.DrawLabelValue(x, y, "Best fit", fmt.Sprintf("%.1f", stats.BestFitness))
	y = r.DrawLabelValue(x, y, "Best score", fmt.Sprintf("%d", stats.BestScore))

	alive := float32(0)
	if stats.Population > 0 {
		alive = float32(len(f.Birds)) / float32(stats.Population)
	}
	r.DrawBar(x, y, "Alive", alive, p.width-r.Theme.Padding*2)
}

// PerfPanel renders the per-phase tick timings.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(r *Renderer, x, y int32) *PerfPanel {
	return &PerfPanel{renderer: r, x: x, y: y}
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(perf *game.PerfStats) {
	x, y := p.x, p.y
	total := perf.Total()

	rl.DrawText("Tick Performance", x, y, 16, rl.White)
	y += 20
	rl.DrawText(fmt.Sprintf("Total: %s", total.Round(time.Microsecond)), x, y, 14, p.renderer.Theme.SectionHeader)
	y += 16

	for _, name := range perf.SortedNames() {
		avg := perf.Avg(name)
		pct := float64(0)
		if total > 0 {
			pct = float64(avg) / float64(total) * 100
		}

		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}

		rl.DrawText(fmt.Sprintf("%-8s %8s %5.1f%%", name, avg.Round(time.Microsecond), pct), x, y, 12, color)
		y += 14
	}
}
