package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"rectlink/internal/app"
	"rectlink/internal/scene"
	"rectlink/pkg/colorutil"
	"rectlink/pkg/geometry"
)

const lineRune = '·'

// box runes: corners top-left, top-right, bottom-left, bottom-right, then
// horizontal and vertical edges
var (
	plainBox     = [6]rune{'┌', '┐', '└', '┘', '─', '│'}
	highlightBox = [6]rune{'╔', '╗', '╚', '╝', '═', '║'}
)

type cell struct {
	ch   rune
	node scene.NodeID
}

// grid is a snapshot rasterized to terminal cells, one canvas unit per cell.
type grid struct {
	width, height int
	cells         []cell
	styles        map[scene.NodeID]lipgloss.Style
}

func rasterize(snap app.Snapshot, width, height int) *grid {
	g := &grid{
		width:  max(width, 0),
		height: max(height, 0),
		styles: make(map[scene.NodeID]lipgloss.Style, len(snap.Nodes)),
	}
	g.cells = make([]cell, g.width*g.height)
	for i := range g.cells {
		g.cells[i] = cell{ch: ' ', node: scene.NoNode}
	}

	for _, c := range snap.Connections {
		g.line(c.From, c.To)
	}
	for _, n := range snap.Nodes {
		g.node(n)
	}
	return g
}

func (g *grid) set(x, y int, ch rune, node scene.NodeID) {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return
	}
	g.cells[y*g.width+x] = cell{ch: ch, node: node}
}

// line plots the cells between a and b with Bresenham's algorithm.
func (g *grid) line(a, b geometry.Point) {
	dx, dy := geometry.Abs(b.X-a.X), -geometry.Abs(b.Y-a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	err := dx + dy
	x, y := a.X, a.Y
	for {
		g.set(x, y, lineRune, scene.NoNode)
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func (g *grid) node(n scene.Node) {
	box := plainBox
	if n.Highlighted {
		box = highlightBox
	}
	r := n.Rect
	for y := r.Top(); y < r.Bottom(); y++ {
		for x := r.Left(); x < r.Right(); x++ {
			top, bottom := y == r.Top(), y == r.Bottom()-1
			left, right := x == r.Left(), x == r.Right()-1
			ch := ' '
			switch {
			case top && left:
				ch = box[0]
			case top && right:
				ch = box[1]
			case bottom && left:
				ch = box[2]
			case bottom && right:
				ch = box[3]
			case top || bottom:
				ch = box[4]
			case left || right:
				ch = box[5]
			}
			g.set(x, y, ch, n.ID)
		}
	}

	label := strconv.Itoa(int(n.ID))
	c := r.Center()
	start := c.X - len(label)/2
	for i, ch := range label {
		if x := start + i; x > r.Left() && x < r.Right()-1 {
			g.set(x, c.Y, ch, n.ID)
		}
	}

	g.styles[n.ID] = lipgloss.NewStyle().
		Background(lipgloss.Color(colorutil.Hex(n.Color))).
		Foreground(lipgloss.Color(colorutil.Hex(colorutil.Contrast(n.Color))))
}

// Row returns row y as plain text.
func (g *grid) Row(y int) string {
	var b strings.Builder
	for _, c := range g.cells[y*g.width : (y+1)*g.width] {
		b.WriteRune(c.ch)
	}
	return b.String()
}

// Render returns the grid with node cells colored, one line per row.
func (g *grid) Render() string {
	var b strings.Builder
	for y := 0; y < g.height; y++ {
		row := g.cells[y*g.width : (y+1)*g.width]
		for start := 0; start < len(row); {
			end := start + 1
			for end < len(row) && row[end].node == row[start].node {
				end++
			}
			var run strings.Builder
			for _, c := range row[start:end] {
				run.WriteRune(c.ch)
			}
			if style, ok := g.styles[row[start].node]; ok {
				b.WriteString(style.Render(run.String()))
			} else {
				b.WriteString(run.String())
			}
			start = end
		}
		if y < g.height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
