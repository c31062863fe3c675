package canvas

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// digitPatterns contains 3x5 pixel patterns for digits 0-9.
// Each digit is represented as 5 rows of 3 bits.
var digitPatterns = [10][5]uint8{
	{0b111, 0b101, 0b101, 0b101, 0b111}, // 0
	{0b010, 0b110, 0b010, 0b010, 0b111}, // 1
	{0b111, 0b001, 0b111, 0b100, 0b111}, // 2
	{0b111, 0b001, 0b111, 0b001, 0b111}, // 3
	{0b101, 0b101, 0b111, 0b001, 0b001}, // 4
	{0b111, 0b100, 0b111, 0b001, 0b111}, // 5
	{0b111, 0b100, 0b111, 0b101, 0b111}, // 6
	{0b111, 0b001, 0b001, 0b001, 0b001}, // 7
	{0b111, 0b101, 0b111, 0b101, 0b111}, // 8
	{0b111, 0b101, 0b111, 0b001, 0b111}, // 9
}

// fillRect fills r, clipped to output.
func fillRect(output *image.RGBA, r image.Rectangle, col color.RGBA) {
	draw.Draw(output, r.Intersect(output.Bounds()), image.NewUniform(col), image.Point{}, draw.Src)
}

// strokeRect draws a border of the given width along the inside of r.
func strokeRect(output *image.RGBA, r image.Rectangle, col color.RGBA, width int) {
	if width*2 >= r.Dx() || width*2 >= r.Dy() {
		fillRect(output, r, col)
		return
	}
	fillRect(output, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width), col)
	fillRect(output, image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y), col)
	fillRect(output, image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y), col)
	fillRect(output, image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y), col)
}

// drawSegment draws an anti-aliased line of the given width from (x1,y1) to (x2,y2).
func drawSegment(output *image.RGBA, x1, y1, x2, y2, width float64, col color.RGBA) {
	dx, dy := x2-x1, y2-y1
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	// half-width normal
	nx, ny := -dy/length*width/2, dx/length*width/2

	b := output.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Over
	z.MoveTo(float32(x1+nx), float32(y1+ny))
	z.LineTo(float32(x2+nx), float32(y2+ny))
	z.LineTo(float32(x2-nx), float32(y2-ny))
	z.LineTo(float32(x1-nx), float32(y1-ny))
	z.ClosePath()
	z.Draw(output, b, image.NewUniform(col), image.Point{})
}

// drawLabel draws the digits of label centered at (centerX, centerY), each font
// pixel scaled to a scale×scale block. Other characters are skipped.
func drawLabel(output *image.RGBA, label string, centerX, centerY int, col color.RGBA, scale int) {
	if scale < 1 {
		scale = 1
	}

	// Calculate total width of label (3 pixels per digit + 1 pixel spacing)
	charWidth := 3 * scale
	charHeight := 5 * scale
	spacing := scale
	labelWidth := len(label)*charWidth + (len(label)-1)*spacing

	startX := centerX - labelWidth/2
	startY := centerY - charHeight/2

	for i, ch := range label {
		if ch < '0' || ch > '9' {
			continue
		}
		pattern := digitPatterns[ch-'0']
		charX := startX + i*(charWidth+spacing)

		for row := 0; row < 5; row++ {
			for c := 0; c < 3; c++ {
				if pattern[row]&(1<<(2-c)) == 0 {
					continue
				}
				x := charX + c*scale
				y := startY + row*scale
				fillRect(output, image.Rect(x, y, x+scale, y+scale), col)
			}
		}
	}
}
