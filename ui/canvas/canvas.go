// Package canvas provides the node canvas widget and its software renderer.
package canvas

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"rectlink/internal/app"
	"rectlink/pkg/geometry"
)

// NodeCanvas displays the nodes and connections of an app.State and forwards
// mouse input to it.
//
// Double-click with the primary button creates a node, primary press-drag-release
// moves one, and a secondary click links or unlinks nodes.
type NodeCanvas struct {
	widget.BaseWidget

	state  *app.State
	raster *fynecanvas.Raster

	mu   sync.Mutex
	size geometry.Size // logical size, read by the controller on every gesture

	// Last rendered output
	lastOutput *image.RGBA
}

var (
	_ fyne.Widget            = (*NodeCanvas)(nil)
	_ fyne.Draggable         = (*NodeCanvas)(nil)
	_ fyne.DoubleTappable    = (*NodeCanvas)(nil)
	_ fyne.SecondaryTappable = (*NodeCanvas)(nil)
	_ desktop.Mouseable      = (*NodeCanvas)(nil)
)

// NewNodeCanvas creates a canvas with the given initial size. Call Bind before
// showing it.
func NewNodeCanvas(initial geometry.Size) *NodeCanvas {
	nc := &NodeCanvas{size: initial}

	// Create the raster for drawing
	nc.raster = fynecanvas.NewRaster(nc.draw)
	nc.raster.ScaleMode = fynecanvas.ImageScalePixels
	nc.raster.SetMinSize(fyne.NewSize(float32(initial.Width), float32(initial.Height)))

	nc.ExtendBaseWidget(nc)
	return nc
}

// Surface returns the app.Surface tracking this widget's size.
func (nc *NodeCanvas) Surface() app.Surface {
	return surface{nc}
}

type surface struct{ nc *NodeCanvas }

func (s surface) Size() geometry.Size {
	s.nc.mu.Lock()
	defer s.nc.mu.Unlock()
	return s.nc.size
}

// Bind connects the canvas to state and redraws whenever it changes.
func (nc *NodeCanvas) Bind(state *app.State) {
	nc.state = state
	state.OnChange(func(interface{}) { nc.Refresh() })
}

// Resize records the new logical size for the controller.
func (nc *NodeCanvas) Resize(size fyne.Size) {
	nc.mu.Lock()
	nc.size = geometry.NewSize(int(size.Width), int(size.Height))
	nc.mu.Unlock()
	nc.BaseWidget.Resize(size)
}

func toPoint(pos fyne.Position) geometry.Point {
	return geometry.Pt(int(pos.X), int(pos.Y))
}

// MouseDown starts a drag or a link gesture depending on the button.
func (nc *NodeCanvas) MouseDown(ev *desktop.MouseEvent) {
	if nc.state == nil {
		return
	}
	switch ev.Button {
	case desktop.MouseButtonPrimary:
		nc.state.OnPrimaryDown(toPoint(ev.Position))
	case desktop.MouseButtonSecondary:
		nc.state.OnSecondaryDown(toPoint(ev.Position))
	}
}

// MouseUp ends a drag.
func (nc *NodeCanvas) MouseUp(ev *desktop.MouseEvent) {
	if nc.state == nil || ev.Button != desktop.MouseButtonPrimary {
		return
	}
	nc.state.OnPrimaryUp(toPoint(ev.Position))
}

// Dragged moves the dragged node with the pointer.
func (nc *NodeCanvas) Dragged(ev *fyne.DragEvent) {
	if nc.state == nil {
		return
	}
	nc.state.OnPrimaryMove(toPoint(ev.Position))
}

// DragEnd ends a drag. Some drivers deliver it instead of MouseUp.
func (nc *NodeCanvas) DragEnd() {
	if nc.state == nil {
		return
	}
	nc.state.OnPrimaryUp(geometry.Point{})
}

// DoubleTapped creates a node centered on the pointer.
func (nc *NodeCanvas) DoubleTapped(ev *fyne.PointEvent) {
	if nc.state == nil {
		return
	}
	nc.state.OnPrimaryDoubleClick(toPoint(ev.Position))
}

// TappedSecondary is handled by MouseDown; it is implemented so that fyne
// does not pass right clicks to the parent.
func (nc *NodeCanvas) TappedSecondary(*fyne.PointEvent) {}

// GetRenderedOutput returns the last rendered image.
func (nc *NodeCanvas) GetRenderedOutput() *image.RGBA {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return nc.lastOutput
}

// draw is the raster drawing function. w and h are in device pixels.
func (nc *NodeCanvas) draw(w, h int) image.Image {
	var snap app.Snapshot
	if nc.state != nil {
		snap = nc.state.Snapshot()
	}

	scale := 1.0
	if logical := nc.Surface().Size(); logical.Width > 0 {
		scale = float64(w) / float64(logical.Width)
	}
	output := Render(snap, w, h, scale)

	nc.mu.Lock()
	nc.lastOutput = output
	nc.mu.Unlock()
	return output
}

// CreateRenderer implements fyne.Widget.
func (nc *NodeCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &nodeCanvasRenderer{canvas: nc}
}

type nodeCanvasRenderer struct {
	canvas *NodeCanvas
}

func (r *nodeCanvasRenderer) Layout(size fyne.Size) {
	r.canvas.raster.Resize(size)
}

func (r *nodeCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *nodeCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *nodeCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.raster}
}

func (r *nodeCanvasRenderer) Destroy() {}
