package canvas

import (
	"image"
	"strconv"

	"rectlink/internal/app"
	"rectlink/pkg/colorutil"
	"rectlink/pkg/geometry"
)

// Line and border widths in canvas pixels.
const (
	LineWidth   = 2
	BorderWidth = 2
)

// Render draws snap onto a new w×h image. scale converts canvas coordinates to
// image pixels. Connections are drawn beneath the nodes.
func Render(snap app.Snapshot, w, h int, scale float64) *image.RGBA {
	if scale <= 0 {
		scale = 1
	}
	output := image.NewRGBA(image.Rect(0, 0, w, h))
	fillRect(output, output.Bounds(), colorutil.White)

	for _, c := range snap.Connections {
		drawSegment(output,
			float64(c.From.X)*scale, float64(c.From.Y)*scale,
			float64(c.To.X)*scale, float64(c.To.Y)*scale,
			LineWidth*scale, colorutil.Black)
	}

	border := max(1, int(BorderWidth*scale))
	for _, n := range snap.Nodes {
		r := pixelRect(n.Rect, scale)
		fillRect(output, r, n.Color)
		if n.Highlighted {
			strokeRect(output, r, colorutil.HighlightBorder, border)
		}

		// node ids, sized to a quarter of the node height
		center := n.Rect.Center()
		textScale := max(1, int(float64(n.Rect.Height)*scale)/20)
		drawLabel(output, strconv.Itoa(int(n.ID)),
			int(float64(center.X)*scale), int(float64(center.Y)*scale),
			colorutil.Contrast(n.Color), textScale)
	}
	return output
}

func pixelRect(r geometry.Rect, scale float64) image.Rectangle {
	return image.Rect(
		int(float64(r.Left())*scale), int(float64(r.Top())*scale),
		int(float64(r.Right())*scale), int(float64(r.Bottom())*scale),
	)
}
