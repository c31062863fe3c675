package scene

import (
	"errors"
	"fmt"
	"image/color"

	"rectlink/pkg/geometry"
)

// Placement rejection reasons.
var (
	ErrOutOfBounds = errors.New("node would extend outside the canvas")
	ErrOverlap     = errors.New("node would overlap an existing node")
)

// ColorPicker chooses the color of a new node given the colors already in use.
type ColorPicker interface {
	Pick(taken []color.RGBA) color.RGBA
}

// NodeSize returns the size of a node with the given height. Nodes are twice as wide as tall.
func NodeSize(height int) geometry.Size {
	return geometry.NewSize(2*height, height)
}

// Validator decides whether a node may be placed at a candidate rectangle.
type Validator struct {
	registry *Registry
}

// NewValidator creates a validator checking against the nodes of registry.
func NewValidator(registry *Registry) Validator {
	return Validator{registry: registry}
}

// Check returns nil if rect lies within a canvas of size bounds and does not
// intersect any existing node.
func (v Validator) Check(rect geometry.Rect, bounds geometry.Size) error {
	if !rect.Within(geometry.Bounds(bounds)) {
		return fmt.Errorf("%w: %v on %dx%d", ErrOutOfBounds, rect, bounds.Width, bounds.Height)
	}
	if id, ok := v.registry.FirstIntersecting(rect, NoNode); ok {
		return fmt.Errorf("%w: node %d", ErrOverlap, id)
	}
	return nil
}

// Create places a node of the given height centered on center. On rejection
// the registry is left unchanged.
func (r *Registry) Create(center geometry.Point, height int, bounds geometry.Size, colors ColorPicker) (NodeID, error) {
	rect := geometry.CenteredRect(center, NodeSize(height))
	if err := NewValidator(r).Check(rect, bounds); err != nil {
		return NoNode, err
	}
	return r.add(rect, colors.Pick(r.Colors())), nil
}
