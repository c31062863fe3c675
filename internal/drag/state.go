// Package drag moves a grabbed node under the pointer while keeping it from
// overlapping other nodes. A node pushed into an obstacle slides along the
// obstacle's edge until it clears it.
//
// Collisions are tracked per axis. While the node rests against an obstacle on
// the X axis, the obstacle is recorded as an X constraint; likewise for Y. The
// set of active constraints is the drag State.
package drag

import (
	"fmt"

	"rectlink/internal/scene"
)

// Axis identifies a coordinate axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "y"
}

// Direction names the blocker edge that stops motion, and the motion it stops.
type Direction int

const (
	// LeftBlocksRightward: the node's right edge rests on the blocker's left edge.
	LeftBlocksRightward Direction = iota + 1
	// RightBlocksLeftward: the node's left edge rests on the blocker's right edge.
	RightBlocksLeftward
	// TopBlocksDownward: the node's bottom edge rests on the blocker's top edge.
	TopBlocksDownward
	// BottomBlocksUpward: the node's top edge rests on the blocker's bottom edge.
	BottomBlocksUpward
)

// Axis returns the axis along which d blocks motion.
func (d Direction) Axis() Axis {
	if d == TopBlocksDownward || d == BottomBlocksUpward {
		return AxisY
	}
	return AxisX
}

func (d Direction) String() string {
	switch d {
	case LeftBlocksRightward:
		return "left_blocks_rightward"
	case RightBlocksLeftward:
		return "right_blocks_leftward"
	case TopBlocksDownward:
		return "top_blocks_downward"
	case BottomBlocksUpward:
		return "bottom_blocks_upward"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// Constraint records an obstacle blocking motion along one axis.
type Constraint struct {
	Blocker   scene.NodeID
	Direction Direction
}

func (c Constraint) String() string {
	return fmt.Sprintf("%s by node %d", c.Direction, c.Blocker)
}

// Phase is the name of a drag state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseFree
	PhaseConstrainedX
	PhaseConstrainedY
	PhaseConstrainedXY
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseFree:
		return "free"
	case PhaseConstrainedX:
		return "constrained_x"
	case PhaseConstrainedY:
		return "constrained_y"
	case PhaseConstrainedXY:
		return "constrained_xy"
	}
	return "unknown"
}

// State is one of Idle, Free, ConstrainedX, ConstrainedY or ConstrainedXY.
type State interface {
	Phase() Phase
	isState()
}

// Idle means no drag is in progress.
type Idle struct{}

// Free means the active node follows the pointer unobstructed.
type Free struct{}

// ConstrainedX means an obstacle blocks the node along X; Y follows the pointer.
type ConstrainedX struct{ X Constraint }

// ConstrainedY means an obstacle blocks the node along Y; X follows the pointer.
type ConstrainedY struct{ Y Constraint }

// ConstrainedXY means the node sits in a corner formed by one obstacle per axis.
type ConstrainedXY struct{ X, Y Constraint }

func (Idle) Phase() Phase          { return PhaseIdle }
func (Free) Phase() Phase          { return PhaseFree }
func (ConstrainedX) Phase() Phase  { return PhaseConstrainedX }
func (ConstrainedY) Phase() Phase  { return PhaseConstrainedY }
func (ConstrainedXY) Phase() Phase { return PhaseConstrainedXY }

func (Idle) isState()          {}
func (Free) isState()          {}
func (ConstrainedX) isState()  {}
func (ConstrainedY) isState()  {}
func (ConstrainedXY) isState() {}

// axes is the per-axis view of a State used while resolving a move.
type axes struct {
	x, y       Constraint
	hasX, hasY bool
}

func axesOf(s State) axes {
	switch s := s.(type) {
	case ConstrainedX:
		return axes{x: s.X, hasX: true}
	case ConstrainedY:
		return axes{y: s.Y, hasY: true}
	case ConstrainedXY:
		return axes{x: s.X, y: s.Y, hasX: true, hasY: true}
	}
	return axes{}
}

func (a axes) blockers() []scene.NodeID {
	var ids []scene.NodeID
	if a.hasX {
		ids = append(ids, a.x.Blocker)
	}
	if a.hasY {
		ids = append(ids, a.y.Blocker)
	}
	return ids
}

func (a axes) with(c Constraint) axes {
	if c.Direction.Axis() == AxisX {
		a.x, a.hasX = c, true
	} else {
		a.y, a.hasY = c, true
	}
	return a
}

func (a axes) state() State {
	switch {
	case a.hasX && a.hasY:
		return ConstrainedXY{X: a.x, Y: a.y}
	case a.hasX:
		return ConstrainedX{X: a.x}
	case a.hasY:
		return ConstrainedY{Y: a.y}
	}
	return Free{}
}
