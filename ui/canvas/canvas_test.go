package canvas

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rectlink/internal/app"
	"rectlink/pkg/geometry"
)

func mouse(x, y float32, button desktop.MouseButton) *desktop.MouseEvent {
	return &desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     button,
	}
}

func newBoundCanvas(t *testing.T) (*NodeCanvas, *app.State) {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)

	nc := NewNodeCanvas(geometry.NewSize(600, 400))
	state := app.NewState(nc.Surface(), app.Options{NodeHeight: 40})
	nc.Bind(state)
	nc.Resize(fyne.NewSize(800, 600))
	return nc, state
}

func TestSurfaceFollowsResize(t *testing.T) {
	nc, state := newBoundCanvas(t)
	assert.Equal(t, geometry.NewSize(800, 600), state.Size())

	nc.Resize(fyne.NewSize(300, 200))
	assert.Equal(t, geometry.NewSize(300, 200), nc.Surface().Size())
}

func TestMouseGestures(t *testing.T) {
	nc, state := newBoundCanvas(t)

	nc.DoubleTapped(&fyne.PointEvent{Position: fyne.NewPos(100, 100)})
	nc.DoubleTapped(&fyne.PointEvent{Position: fyne.NewPos(400, 100)})
	require.Len(t, state.Snapshot().Nodes, 2)

	nc.MouseDown(mouse(100, 100, desktop.MouseButtonPrimary))
	nc.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(120, 300)}})
	nc.MouseUp(mouse(120, 300, desktop.MouseButtonPrimary))
	nc.DragEnd()

	snap := state.Snapshot()
	assert.Equal(t, geometry.Pt(120, 300), snap.Nodes[0].Rect.Center())
	assert.Equal(t, "idle", snap.Phase)

	nc.MouseDown(mouse(120, 300, desktop.MouseButtonSecondary))
	nc.MouseDown(mouse(400, 100, desktop.MouseButtonSecondary))
	assert.Len(t, state.Snapshot().Connections, 1)
}

func TestDrawRendersSnapshot(t *testing.T) {
	nc, state := newBoundCanvas(t)
	state.OnPrimaryDoubleClick(geometry.Pt(100, 100))

	img := nc.draw(1600, 1200)
	require.NotNil(t, img)
	assert.Same(t, nc.GetRenderedOutput(), img)

	n := state.Snapshot().Nodes[0]
	// drawn at twice the logical size
	assert.Equal(t, n.Color, nc.GetRenderedOutput().RGBAAt(2*n.Rect.X+3, 2*n.Rect.Y+3))
}

func TestUnboundCanvasIgnoresInput(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	nc := NewNodeCanvas(geometry.NewSize(100, 100))
	assert.NotPanics(t, func() {
		nc.MouseDown(mouse(1, 1, desktop.MouseButtonPrimary))
		nc.Dragged(&fyne.DragEvent{})
		nc.DragEnd()
		nc.DoubleTapped(&fyne.PointEvent{})
		_ = nc.draw(10, 10)
	})
}
