package drag

import (
	"math"
	"slices"

	"rectlink/internal/scene"
	"rectlink/pkg/geometry"
)

// SweptRegion returns the smallest rectangle covering rect at its current
// position and at the top-left position to.
func SweptRegion(rect geometry.Rect, to geometry.Point) geometry.Rect {
	return rect.Union(rect.MoveTo(to))
}

// ClosestCandidate returns the node whose origin is nearest to the origin of
// swept, among the nodes intersecting swept other than active and those in
// exclude. Ties go to the node that comes first in nodes.
func ClosestCandidate(nodes []scene.Node, active scene.NodeID, swept geometry.Rect, exclude ...scene.NodeID) (scene.Node, bool) {
	var (
		best  scene.Node
		dist  = math.Inf(1)
		found bool
	)
	origin := swept.TopLeft()
	for _, n := range nodes {
		if n.ID == active || slices.Contains(exclude, n.ID) || !n.Rect.Intersects(swept) {
			continue
		}
		if d := origin.Distance(n.Rect.TopLeft()); d < dist {
			best, dist, found = n, d, true
		}
	}
	return best, found
}

// Adjacency reports which edge of other rect touches, within tolerance, testing
// in order right-touches-left, left-touches-right, bottom-touches-top and
// top-touches-bottom. Edges only touch when the perpendicular spans overlap.
// allowX and allowY restrict the test to the given axes.
func Adjacency(rect, other geometry.Rect, tolerance int, allowX, allowY bool) (Direction, bool) {
	if allowX && rect.OverlapsY(other) {
		if geometry.Abs(rect.Right()-other.Left()) <= tolerance {
			return LeftBlocksRightward, true
		}
		if geometry.Abs(rect.Left()-other.Right()) <= tolerance {
			return RightBlocksLeftward, true
		}
	}
	if allowY && rect.OverlapsX(other) {
		if geometry.Abs(rect.Bottom()-other.Top()) <= tolerance {
			return TopBlocksDownward, true
		}
		if geometry.Abs(rect.Top()-other.Bottom()) <= tolerance {
			return BottomBlocksUpward, true
		}
	}
	return 0, false
}

// Presses reports whether a node occupying rect pushes into blocker through the
// edge named by d: it reaches or crosses that edge while its perpendicular span
// still overlaps the blocker's.
func Presses(rect, blocker geometry.Rect, d Direction) bool {
	switch d {
	case LeftBlocksRightward:
		return rect.Right() >= blocker.Left() && rect.OverlapsY(blocker)
	case RightBlocksLeftward:
		return rect.Left() <= blocker.Right() && rect.OverlapsY(blocker)
	case TopBlocksDownward:
		return rect.Bottom() >= blocker.Top() && rect.OverlapsX(blocker)
	case BottomBlocksUpward:
		return rect.Top() <= blocker.Bottom() && rect.OverlapsX(blocker)
	}
	return false
}

// Contact returns the coordinate, on d's axis, of the top-left corner of a node
// of the given size resting flush against blocker.
func Contact(size geometry.Size, blocker geometry.Rect, d Direction) int {
	switch d {
	case LeftBlocksRightward:
		return blocker.Left() - size.Width
	case RightBlocksLeftward:
		return blocker.Right()
	case TopBlocksDownward:
		return blocker.Top() - size.Height
	default:
		return blocker.Bottom()
	}
}

// TimeOfImpact returns the fraction t in [0, 1) of the straight move of rect to
// the top-left position to at which rect first touches obstacle in a way that
// would make them overlap, and the axis of the contact.
func TimeOfImpact(rect geometry.Rect, to geometry.Point, obstacle geometry.Rect) (float64, Axis, bool) {
	ex, xx, okX := axisTimes(rect.Left(), rect.Right(), obstacle.Left(), obstacle.Right(), to.X-rect.X)
	ey, xy, okY := axisTimes(rect.Top(), rect.Bottom(), obstacle.Top(), obstacle.Bottom(), to.Y-rect.Y)
	if !okX || !okY {
		return 0, AxisX, false
	}

	entry, axis := ex, AxisX
	if ey > ex {
		entry, axis = ey, AxisY
	}
	if entry < 0 || entry >= 1 || entry >= math.Min(xx, xy) {
		return 0, axis, false
	}
	return entry, axis, true
}

// axisTimes returns the fractions of a move by d at which the span [lo, hi)
// starts and stops overlapping [olo, ohi). ok is false if the spans never overlap.
func axisTimes(lo, hi, olo, ohi, d int) (entry, exit float64, ok bool) {
	switch {
	case d > 0:
		return float64(olo-hi) / float64(d), float64(ohi-lo) / float64(d), true
	case d < 0:
		return float64(lo-ohi) / float64(-d), float64(hi-olo) / float64(-d), true
	}
	if lo < ohi && olo < hi {
		return math.Inf(-1), math.Inf(1), true
	}
	return 0, 0, false
}

// Approach moves rect in a straight line toward to and stops at the first
// contact with any of the obstacles. It returns the reached top-left position
// and the index of the obstacle that stopped it, or -1 if the path was clear.
// If the contact position cannot be reached without overlap, rect stays put.
func Approach(rect geometry.Rect, to geometry.Point, obstacles []geometry.Rect) (geometry.Point, int) {
	first, best := -1, 1.0
	var axis Axis
	for i, o := range obstacles {
		if t, a, ok := TimeOfImpact(rect, to, o); ok && t < best {
			first, best, axis = i, t, a
		}
	}
	if first < 0 {
		return to, -1
	}

	dx, dy := to.X-rect.X, to.Y-rect.Y
	at := geometry.Point{
		X: rect.X + int(best*float64(dx)),
		Y: rect.Y + int(best*float64(dy)),
	}
	blocker := obstacles[first]
	if axis == AxisX {
		if dx > 0 {
			at.X = Contact(rect.Size(), blocker, LeftBlocksRightward)
		} else {
			at.X = Contact(rect.Size(), blocker, RightBlocksLeftward)
		}
	} else {
		if dy > 0 {
			at.Y = Contact(rect.Size(), blocker, TopBlocksDownward)
		} else {
			at.Y = Contact(rect.Size(), blocker, BottomBlocksUpward)
		}
	}

	moved := rect.MoveTo(at)
	for _, o := range obstacles {
		if moved.Intersects(o) {
			return rect.TopLeft(), first
		}
	}
	return at, first
}
