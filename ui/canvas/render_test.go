package canvas

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rectlink/internal/app"
	"rectlink/internal/scene"
	"rectlink/pkg/colorutil"
	"rectlink/pkg/geometry"
)

var red = color.RGBA{R: 200, G: 30, B: 30, A: 255}

func snapshot() app.Snapshot {
	return app.Snapshot{
		Canvas: geometry.NewSize(600, 400),
		Nodes: []scene.Node{
			{ID: 0, Rect: geometry.NewRect(120, 160, 160, 80), Color: red},
			{ID: 1, Rect: geometry.NewRect(420, 260, 160, 80), Color: colorutil.Gray, Highlighted: true},
		},
		Connections: []app.ConnectionView{
			{A: 0, B: 1, From: geometry.Pt(200, 200), To: geometry.Pt(500, 300)},
		},
		Pending:  1,
		Dragging: scene.NoNode,
	}
}

func TestRenderBackgroundAndNodes(t *testing.T) {
	img := Render(snapshot(), 600, 400, 1)
	require.Equal(t, 600, img.Bounds().Dx())

	assert.Equal(t, colorutil.White, img.RGBAAt(5, 5))
	assert.Equal(t, red, img.RGBAAt(125, 165))
	// node fill hides the connection where it starts under the node
	assert.Equal(t, red, img.RGBAAt(270, 223))
}

func TestRenderHighlightBorder(t *testing.T) {
	img := Render(snapshot(), 600, 400, 1)

	assert.Equal(t, colorutil.HighlightBorder, img.RGBAAt(420, 300))
	assert.Equal(t, colorutil.HighlightBorder, img.RGBAAt(421, 300))
	assert.Equal(t, colorutil.Gray, img.RGBAAt(422, 300))
	assert.Equal(t, colorutil.HighlightBorder, img.RGBAAt(579, 339))

	// the unhighlighted node has no border
	assert.Equal(t, red, img.RGBAAt(120, 160))
}

func TestRenderConnectionLine(t *testing.T) {
	snap := snapshot()
	snap.Connections = []app.ConnectionView{{A: 0, B: 1, From: geometry.Pt(200, 200), To: geometry.Pt(500, 200)}}
	img := Render(snap, 600, 400, 1)

	// a horizontal 2px line covers the pixel rows 199 and 200
	assert.Equal(t, colorutil.Black, img.RGBAAt(350, 199))
	assert.Equal(t, colorutil.Black, img.RGBAAt(350, 200))
	assert.Equal(t, colorutil.White, img.RGBAAt(350, 197))
	assert.Equal(t, colorutil.White, img.RGBAAt(350, 202))
}

func TestRenderScaled(t *testing.T) {
	img := Render(snapshot(), 1200, 800, 2)
	assert.Equal(t, red, img.RGBAAt(245, 325))
	assert.Equal(t, colorutil.White, img.RGBAAt(235, 315))
}

func TestRenderLabelsNodeIDs(t *testing.T) {
	img := Render(snapshot(), 600, 400, 1)

	// the digit 0 is drawn in a 3x5 grid of 4px blocks centered on (200,200)
	label := colorutil.Contrast(red)
	assert.Equal(t, label, img.RGBAAt(195, 191))
	// the middle of the 0 is open
	assert.Equal(t, red, img.RGBAAt(200, 200))
}

func TestStrokeRectFillsSmallRects(t *testing.T) {
	snap := app.Snapshot{Nodes: []scene.Node{
		{ID: 0, Rect: geometry.NewRect(10, 10, 2, 2), Color: red, Highlighted: true},
	}}
	img := Render(snap, 20, 20, 1)
	assert.Equal(t, colorutil.Black, img.RGBAAt(11, 11))
}
