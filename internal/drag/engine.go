package drag

import (
	"slices"

	"rectlink/internal/scene"
	"rectlink/pkg/geometry"
)

// DefaultAdjacencyTolerance is the largest gap, in pixels, at which two edges
// still count as touching. It absorbs jitter between discrete pointer samples.
const DefaultAdjacencyTolerance = 1

// Board is the node storage the engine reads from and moves nodes in.
type Board interface {
	Node(id scene.NodeID) (scene.Node, bool)
	Nodes() []scene.Node
	Move(id scene.NodeID, topLeft geometry.Point) error
}

// Session is an in-progress drag of one node.
type Session struct {
	Node scene.NodeID
	// Offset is the pointer position minus the node's top-left corner at grab
	// time, so the node keeps the grabbed point under the pointer.
	Offset geometry.Point
	State  State
}

// Step describes the outcome of one pointer move.
type Step struct {
	Node     scene.NodeID
	From     geometry.Point
	Desired  geometry.Point
	To       geometry.Point
	Phase    Phase
	Engaged  []Constraint
	Released []Constraint
}

// Moved reports whether the node changed position.
func (s Step) Moved() bool {
	return s.From != s.To
}

// Engine resolves pointer moves of the dragged node.
type Engine struct {
	board     Board
	tolerance int
	session   *Session

	// constraints of the last finished session, reused if the same node is grabbed again
	last      scene.NodeID
	lastState State
}

// NewEngine creates an engine moving nodes of board. A negative tolerance
// selects DefaultAdjacencyTolerance.
func NewEngine(board Board, tolerance int) *Engine {
	if tolerance < 0 {
		tolerance = DefaultAdjacencyTolerance
	}
	return &Engine{board: board, tolerance: tolerance, last: scene.NoNode}
}

// Begin starts dragging node id grabbed at pointer. Constraints are carried
// over from the previous session only when it dragged the same node.
func (e *Engine) Begin(id scene.NodeID, pointer geometry.Point) bool {
	n, ok := e.board.Node(id)
	if !ok {
		return false
	}
	e.End()

	var state State = Free{}
	if id == e.last && e.lastState != nil {
		state = e.lastState
	}
	e.session = &Session{Node: id, Offset: pointer.Sub(n.Rect.TopLeft()), State: state}
	e.last = id
	return true
}

// End finishes the current session and returns it.
func (e *Engine) End() (Session, bool) {
	if e.session == nil {
		return Session{}, false
	}
	s := *e.session
	e.lastState = s.State
	e.session = nil
	return s, true
}

// Active returns the current session.
func (e *Engine) Active() (Session, bool) {
	if e.session == nil {
		return Session{}, false
	}
	return *e.session, true
}

// State returns the drag state, Idle when no session is active.
func (e *Engine) State() State {
	if e.session == nil {
		return Idle{}
	}
	return e.session.State
}

// Move resolves a pointer move to pointer on a canvas of size bounds and moves
// the dragged node. It returns false when no drag is in progress.
//
// A tick that discovers a new contact only records the constraint; the node
// slides along the obstacle from the next tick on. The node's rectangle never
// ends a tick overlapping another node.
func (e *Engine) Move(pointer geometry.Point, bounds geometry.Size) (Step, bool) {
	s := e.session
	if s == nil {
		return Step{}, false
	}
	node, ok := e.board.Node(s.Node)
	if !ok {
		e.session = nil
		return Step{}, false
	}

	cur := node.Rect
	desired := geometry.ClampTopLeft(pointer.Sub(s.Offset), cur.Size(), bounds)
	step := Step{Node: s.Node, From: cur.TopLeft(), Desired: desired, To: cur.TopLeft()}

	others := e.others(s.Node)
	before := axesOf(s.State)
	swept := SweptRegion(cur, desired)
	cand, found := ClosestCandidate(others, s.Node, swept, before.blockers()...)

	var (
		target geometry.Point
		after  axes
	)
	switch {
	case found && !(before.hasX && before.hasY):
		if d, ok := Adjacency(cur, cand.Rect, e.tolerance, !before.hasX, !before.hasY); ok {
			c := Constraint{Blocker: cand.ID, Direction: d}
			s.State = before.with(c).state()
			step.Engaged = []Constraint{c}
			step.Phase = s.State.Phase()
			return step, true
		}

		target, after = e.slide(cur, desired, before)
		obstacles := inRegion(others, swept, after.blockers())
		var hit int
		target, hit = Approach(cur, target, rects(obstacles))
		if hit >= 0 && target == cur.TopLeft() {
			// stopped dead by an obstacle that was not the closest candidate
			if d, ok := Adjacency(cur, obstacles[hit].Rect, e.tolerance, !after.hasX, !after.hasY); ok {
				c := Constraint{Blocker: obstacles[hit].ID, Direction: d}
				after = after.with(c)
				step.Engaged = append(step.Engaged, c)
			}
		}
	default:
		target, after = e.slide(cur, desired, before)
	}

	target = geometry.ClampTopLeft(target, cur.Size(), bounds)
	target = settle(cur, target, rects(others))
	if target != cur.TopLeft() {
		if err := e.board.Move(s.Node, target); err != nil {
			target = cur.TopLeft()
		}
	}

	s.State = after.state()
	step.To = target
	step.Phase = s.State.Phase()
	step.Released = released(before, after)
	return step, true
}

// slide applies the recorded constraints to desired. An axis whose blocker is
// still pressed is clamped flush against it; an axis whose blocker has been
// cleared is released and follows desired.
func (e *Engine) slide(cur geometry.Rect, desired geometry.Point, a axes) (geometry.Point, axes) {
	size := cur.Size()
	target := desired
	probe := cur.MoveTo(desired)

	var (
		out    axes
		bx, by geometry.Rect
		okX    bool
		okY    bool
	)
	if a.hasX {
		if bx, okX = e.rect(a.x.Blocker); okX && Presses(probe, bx, a.x.Direction) {
			target.X = Contact(size, bx, a.x.Direction)
			out.x, out.hasX = a.x, true
		}
	}
	if a.hasY {
		if by, okY = e.rect(a.y.Blocker); okY && Presses(probe, by, a.y.Direction) {
			target.Y = Contact(size, by, a.y.Direction)
			out.y, out.hasY = a.y, true
		}
	}

	// In a corner, an axis that lets go is kept while the node, clamped on the
	// other axis, still presses that axis's blocker.
	if a.hasX && a.hasY && out.hasX != out.hasY {
		probe = cur.MoveTo(target)
		if !out.hasX && okX && Presses(probe, bx, a.x.Direction) {
			target.X = Contact(size, bx, a.x.Direction)
			out.x, out.hasX = a.x, true
		}
		if !out.hasY && okY && Presses(probe, by, a.y.Direction) {
			target.Y = Contact(size, by, a.y.Direction)
			out.y, out.hasY = a.y, true
		}
	}
	return target, out
}

func (e *Engine) rect(id scene.NodeID) (geometry.Rect, bool) {
	n, ok := e.board.Node(id)
	return n.Rect, ok
}

func (e *Engine) others(active scene.NodeID) []scene.Node {
	all := e.board.Nodes()
	out := all[:0]
	for _, n := range all {
		if n.ID != active {
			out = append(out, n)
		}
	}
	return out
}

// settle returns target unless the node would overlap another node there, in
// which case it returns the contact position on the way to target.
func settle(cur geometry.Rect, target geometry.Point, obstacles []geometry.Rect) geometry.Point {
	moved := cur.MoveTo(target)
	for _, o := range obstacles {
		if moved.Intersects(o) {
			at, _ := Approach(cur, target, obstacles)
			return at
		}
	}
	return target
}

func inRegion(nodes []scene.Node, region geometry.Rect, exclude []scene.NodeID) []scene.Node {
	var out []scene.Node
	for _, n := range nodes {
		if n.Rect.Intersects(region) && !slices.Contains(exclude, n.ID) {
			out = append(out, n)
		}
	}
	return out
}

func rects(nodes []scene.Node) []geometry.Rect {
	out := make([]geometry.Rect, len(nodes))
	for i, n := range nodes {
		out[i] = n.Rect
	}
	return out
}

func released(before, after axes) []Constraint {
	var out []Constraint
	if before.hasX && (!after.hasX || after.x != before.x) {
		out = append(out, before.x)
	}
	if before.hasY && (!after.hasY || after.y != before.y) {
		out = append(out, before.y)
	}
	return out
}
