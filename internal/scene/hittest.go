package scene

import (
	"math"

	"rectlink/pkg/geometry"

	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultPickTolerance is the maximum distance, in pixels, between a click and
// a connection line for the click to pick the connection.
const DefaultPickTolerance = 10.0

// PickNode returns the first node whose rectangle contains p.
func (r *Registry) PickNode(p geometry.Point) (NodeID, bool) {
	for _, n := range r.nodes {
		if n.Rect.Contains(p) {
			return n.ID, true
		}
	}
	return NoNode, false
}

// PickConnection returns the index of the first connection whose line between
// node centers passes within tolerance of p.
func (g *Graph) PickConnection(nodes *Registry, p geometry.Point, tolerance float64) (int, bool) {
	for i, c := range g.conns {
		a, okA := nodes.Node(c.A)
		b, okB := nodes.Node(c.B)
		if !okA || !okB {
			continue
		}
		if SegmentDistance(vec(a.Rect.Center()), vec(b.Rect.Center()), vec(p)) <= tolerance {
			return i, true
		}
	}
	return -1, false
}

// SegmentDistance returns the perpendicular distance from p to the line through
// a and b, provided the foot of the perpendicular lies within the bounding box
// of the segment. Otherwise, and for a zero-length segment, it returns +Inf.
func SegmentDistance(a, b, p r2.Vec) float64 {
	ab := r2.Sub(b, a)
	length := r2.Norm(ab)
	if length == 0 {
		return math.Inf(1)
	}

	ap := r2.Sub(p, a)
	foot := r2.Add(a, r2.Scale(r2.Dot(ap, ab)/(length*length), ab))
	if !inSegmentBox(a, b, foot) {
		return math.Inf(1)
	}
	return math.Abs(r2.Cross(ab, ap)) / length
}

// inSegmentBox is an inclusive bounds check. r2.Box treats degenerate boxes of
// horizontal or vertical segments as empty, so it cannot be used here.
func inSegmentBox(a, b, v r2.Vec) bool {
	const eps = 1e-9
	return v.X >= math.Min(a.X, b.X)-eps && v.X <= math.Max(a.X, b.X)+eps &&
		v.Y >= math.Min(a.Y, b.Y)-eps && v.Y <= math.Max(a.Y, b.Y)+eps
}

func vec(p geometry.Point) r2.Vec {
	return r2.Vec{X: float64(p.X), Y: float64(p.Y)}
}
