package ui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/yaricom/goNEAT/v4/neat/genetics"
	"github.com/yaricom/goNEAT/v4/neat/network"
)

// hiddenRows is the number of hidden nodes stacked per column.
const hiddenRows = 8

// BrainPanel draws the champion genome as a node/link graph.
type BrainPanel struct {
	renderer      *Renderer
	x, y          int32
	width, height int32
}

// NewBrainPanel creates a new network panel.
func NewBrainPanel(r *Renderer, x, y, width, height int32) *BrainPanel {
	return &BrainPanel{renderer: r, x: x, y: y, width: width, height: height}
}

// Draw renders the genome. A nil genome draws an empty panel.
func (b *BrainPanel) Draw(genome *genetics.Genome, fitness float64) {
	r := b.renderer
	r.DrawPanel(b.x, b.y, b.width, b.height)
	y := r.DrawSectionHeader(b.x+r.Theme.Padding, b.y+r.Theme.Padding, "Champion")
	if genome == nil {
		rl.DrawText("no champion yet", b.x+r.Theme.Padding, y, r.Theme.FontSize, r.Theme.LabelColor)
		return
	}
	rl.DrawText(fmt.Sprintf("fitness %.1f  nodes %d  links %d", fitness, len(genome.Nodes), len(genome.Genes)),
		b.x+r.Theme.Padding, y, r.Theme.FontSize, r.Theme.LabelColor)
	y += r.Theme.LineHeight

	area := rl.NewRectangle(float32(b.x), float32(y), float32(b.width), float32(b.y+b.height-y))
	pos := brainLayout(genome, area)

	for _, gene := range genome.Genes {
		if !gene.IsEnabled || gene.Link == nil {
			continue
		}
		in, ok1 := pos[gene.Link.InNode.Id]
		out, ok2 := pos[gene.Link.OutNode.Id]
		if !ok1 || !ok2 {
			continue
		}
		rl.DrawLineV(in, out, linkColor(gene.Link.ConnectionWeight))
	}

	for _, node := range genome.Nodes {
		p, ok := pos[node.Id]
		if !ok {
			continue
		}
		rl.DrawCircleV(p, 4, nodeColor(node))
	}
}

// brainLayout places inputs and bias on the left edge of area, outputs on the
// right edge and hidden nodes in columns between them.
func brainLayout(genome *genetics.Genome, area rl.Rectangle) map[int]rl.Vector2 {
	var inputs, outputs, hidden []*network.NNode
	for _, node := range genome.Nodes {
		switch node.NeuronType {
		case network.InputNeuron, network.BiasNeuron:
			inputs = append(inputs, node)
		case network.OutputNeuron:
			outputs = append(outputs, node)
		case network.HiddenNeuron:
			hidden = append(hidden, node)
		}
	}

	const padding = 15
	pos := make(map[int]rl.Vector2, len(genome.Nodes))
	inner := area.Height - padding*2

	column := func(nodes []*network.NNode, x float32) {
		spacing := inner / float32(max(len(nodes), 1))
		for i, node := range nodes {
			pos[node.Id] = rl.Vector2{X: x, Y: area.Y + padding + float32(i)*spacing + spacing/2}
		}
	}
	column(inputs, area.X+padding)
	column(outputs, area.X+area.Width-padding)

	if len(hidden) > 0 {
		cols := (len(hidden) + hiddenRows - 1) / hiddenRows
		colWidth := (area.Width - padding*4) / float32(cols+1)
		rowHeight := inner / hiddenRows
		for i, node := range hidden {
			col, row := i/hiddenRows, i%hiddenRows
			pos[node.Id] = rl.Vector2{
				X: area.X + padding*2 + colWidth*float32(col+1),
				Y: area.Y + padding + float32(row)*rowHeight + rowHeight/2,
			}
		}
	}
	return pos
}

func linkColor(weight float64) rl.Color {
	alpha := uint8(min(255, int(math.Abs(weight)*100)+50))
	if weight > 0 {
		return rl.Color{R: 100, G: 200, B: 100, A: alpha}
	}
	return rl.Color{R: 200, G: 100, B: 100, A: alpha}
}

func nodeColor(node *network.NNode) rl.Color {
	switch node.NeuronType {
	case network.InputNeuron, network.BiasNeuron:
		return rl.Color{R: 100, G: 150, B: 255, A: 255}
	case network.OutputNeuron:
		return rl.Color{R: 255, G: 180, B: 100, A: 255}
	default:
		return rl.Color{R: 180, G: 180, B: 180, A: 255}
	}
}
