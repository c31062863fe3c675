// Package colorutil provides shared color utilities for the canvas.
package colorutil

import (
	"fmt"
	"image/color"
	"math/rand/v2"
	"slices"
)

// Common colors used throughout the application.
var (
	Black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Gray  = color.RGBA{R: 128, G: 128, B: 128, A: 255}
)

// HighlightBorder outlines a node selected as the first end of a new connection.
// It is never handed out as a node color.
var HighlightBorder = Black

// DefaultMaxRetries bounds the number of rolls spent looking for an unused color.
const DefaultMaxRetries = 64

// Picker draws opaque colors uniformly from the full RGB space.
type Picker struct {
	roll       func() color.RGBA
	maxRetries int
	reserved   []color.RGBA
}

// NewPicker creates a Picker backed by a PCG generator seeded with seed.
func NewPicker(seed uint64, maxRetries int) *Picker {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return NewPickerFunc(func() color.RGBA {
		v := rng.Uint32()
		return color.RGBA{R: uint8(v), G: uint8(v >> 8), B: uint8(v >> 16), A: 255}
	}, maxRetries)
}

// NewPickerFunc creates a Picker that takes its candidate colors from roll.
func NewPickerFunc(roll func() color.RGBA, maxRetries int) *Picker {
	if maxRetries < 1 {
		maxRetries = DefaultMaxRetries
	}
	return &Picker{
		roll:       roll,
		maxRetries: maxRetries,
		reserved:   []color.RGBA{HighlightBorder},
	}
}

// Pick returns a color that differs from every color in taken and from the
// highlight border. After maxRetries rolls the last roll is returned even if it
// collides, so Pick always terminates.
func (p *Picker) Pick(taken []color.RGBA) color.RGBA {
	var c color.RGBA
	for i := 0; i < p.maxRetries; i++ {
		c = p.roll()
		if !slices.Contains(taken, c) && !slices.Contains(p.reserved, c) {
			return c
		}
	}
	return c
}

// Hex formats c as #rrggbb.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Contrast returns Black or White, whichever reads better on c.
func Contrast(c color.RGBA) color.RGBA {
	// ITU-R BT.601 luma
	luma := 299*int(c.R) + 587*int(c.G) + 114*int(c.B)
	if luma >= 128*1000 {
		return Black
	}
	return White
}
