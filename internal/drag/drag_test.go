package drag

import (
	"testing"

	"rectlink/internal/scene"
	"rectlink/pkg/colorutil"
	"rectlink/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var canvas = geometry.NewSize(1200, 800)

func newBoard(t *testing.T, centers ...geometry.Point) *scene.Registry {
	t.Helper()
	reg := scene.NewRegistry()
	picker := colorutil.NewPicker(1, colorutil.DefaultMaxRetries)
	for _, c := range centers {
		_, err := reg.Create(c, 80, canvas, picker)
		require.NoError(t, err)
	}
	return reg
}

func rectOf(t *testing.T, reg *scene.Registry, id scene.NodeID) geometry.Rect {
	t.Helper()
	n, ok := reg.Node(id)
	require.True(t, ok)
	return n.Rect
}

func TestSlideAlongObstacle(t *testing.T) {
	reg := newBoard(t, geometry.Pt(200, 200), geometry.Pt(500, 500))
	e := NewEngine(reg, DefaultAdjacencyTolerance)

	require.True(t, e.Begin(0, geometry.Pt(200, 200)))
	assert.Equal(t, PhaseFree, e.State().Phase())

	// line up with node 1 vertically
	step, ok := e.Move(geometry.Pt(200, 500), canvas)
	require.True(t, ok)
	assert.True(t, step.Moved())
	assert.Equal(t, geometry.NewRect(120, 460, 160, 80), rectOf(t, reg, 0))

	// walk right in 20px steps until the right edge touches node 1 at x=420
	for x := 220; x <= 340; x += 20 {
		step, _ = e.Move(geometry.Pt(x, 500), canvas)
		assert.Equal(t, PhaseFree, step.Phase, "x=%d", x)
	}
	assert.Equal(t, 420, rectOf(t, reg, 0).Right())

	// the next step finds the contact and records it without moving
	step, _ = e.Move(geometry.Pt(360, 500), canvas)
	assert.False(t, step.Moved())
	assert.Equal(t, PhaseConstrainedX, step.Phase)
	require.Len(t, step.Engaged, 1)
	assert.Equal(t, Constraint{Blocker: 1, Direction: LeftBlocksRightward}, step.Engaged[0])

	step, _ = e.Move(geometry.Pt(380, 500), canvas)
	assert.Equal(t, PhaseConstrainedX, step.Phase)
	assert.Equal(t, 420, rectOf(t, reg, 0).Right())

	// pushing further right keeps X while Y follows the pointer
	step, _ = e.Move(geometry.Pt(600, 520), canvas)
	assert.Equal(t, PhaseConstrainedX, step.Phase)
	assert.Equal(t, geometry.Pt(260, 480), rectOf(t, reg, 0).TopLeft())

	// sliding below node 1 releases the constraint
	step, _ = e.Move(geometry.Pt(380, 590), canvas)
	assert.Equal(t, PhaseFree, step.Phase)
	assert.Equal(t, []Constraint{{Blocker: 1, Direction: LeftBlocksRightward}}, step.Released)
	assert.Equal(t, geometry.Pt(300, 550), rectOf(t, reg, 0).TopLeft())
	assert.False(t, rectOf(t, reg, 0).Intersects(rectOf(t, reg, 1)))
}

func TestLargeJumpStopsAtContact(t *testing.T) {
	reg := newBoard(t, geometry.Pt(200, 500), geometry.Pt(500, 500))
	e := NewEngine(reg, DefaultAdjacencyTolerance)
	require.True(t, e.Begin(0, geometry.Pt(200, 500)))

	step, _ := e.Move(geometry.Pt(600, 500), canvas)
	assert.Equal(t, geometry.Pt(120, 460), step.From)
	assert.Equal(t, geometry.Pt(260, 460), step.To)
	assert.Equal(t, PhaseFree, step.Phase)

	// now flush; the next push engages the constraint
	step, _ = e.Move(geometry.Pt(620, 500), canvas)
	assert.Equal(t, PhaseConstrainedX, step.Phase)
	assert.False(t, step.Moved())
}

func TestMoveClampsToCanvas(t *testing.T) {
	reg := newBoard(t, geometry.Pt(200, 200))
	e := NewEngine(reg, DefaultAdjacencyTolerance)
	require.True(t, e.Begin(0, geometry.Pt(200, 200)))

	e.Move(geometry.Pt(-500, -500), canvas)
	assert.Equal(t, geometry.Pt(0, 0), rectOf(t, reg, 0).TopLeft())

	e.Move(geometry.Pt(5000, 5000), canvas)
	assert.Equal(t, geometry.Pt(1040, 720), rectOf(t, reg, 0).TopLeft())
}

// cornerBoard places node 0 at (100,100,160,80) with node 1 flush on its right
// and node 2 flush below it.
func cornerBoard(t *testing.T) (*scene.Registry, *Engine) {
	t.Helper()
	reg := newBoard(t, geometry.Pt(180, 140), geometry.Pt(340, 100), geometry.Pt(140, 220))
	e := NewEngine(reg, DefaultAdjacencyTolerance)
	require.True(t, e.Begin(0, geometry.Pt(180, 140)))

	// first push down-right finds the closer blocker below, the second the one on the right
	step, _ := e.Move(geometry.Pt(200, 160), canvas)
	require.Equal(t, PhaseConstrainedY, step.Phase)
	assert.Equal(t, []Constraint{{Blocker: 2, Direction: TopBlocksDownward}}, step.Engaged)

	step, _ = e.Move(geometry.Pt(200, 160), canvas)
	require.Equal(t, PhaseConstrainedXY, step.Phase)
	assert.Equal(t, []Constraint{{Blocker: 1, Direction: LeftBlocksRightward}}, step.Engaged)
	return reg, e
}

func TestCornerHoldsBothAxes(t *testing.T) {
	reg, e := cornerBoard(t)

	step, _ := e.Move(geometry.Pt(220, 180), canvas)
	assert.False(t, step.Moved())
	assert.Equal(t, PhaseConstrainedXY, step.Phase)
	assert.Equal(t, geometry.Pt(100, 100), rectOf(t, reg, 0).TopLeft())
}

func TestCornerKeepsAxisStillPressedAfterClamp(t *testing.T) {
	reg, e := cornerBoard(t)

	// at the desired position the node would pass under node 1, but the Y
	// clamp keeps it level with node 1 so X stays blocked
	step, _ := e.Move(geometry.Pt(200, 260), canvas)
	assert.Equal(t, PhaseConstrainedXY, step.Phase)
	assert.Empty(t, step.Released)
	assert.Equal(t, geometry.Pt(100, 100), rectOf(t, reg, 0).TopLeft())
}

func TestCornerReleasesWhenPulledAway(t *testing.T) {
	reg, e := cornerBoard(t)

	step, _ := e.Move(geometry.Pt(150, 120), canvas)
	assert.Equal(t, PhaseFree, step.Phase)
	assert.Len(t, step.Released, 2)
	assert.Equal(t, geometry.Pt(70, 80), rectOf(t, reg, 0).TopLeft())
}

func TestCornerPartialRelease(t *testing.T) {
	reg, e := cornerBoard(t)

	// moving up clears node 2 while node 1 still blocks X
	step, _ := e.Move(geometry.Pt(200, 130), canvas)
	assert.Equal(t, PhaseConstrainedX, step.Phase)
	assert.Equal(t, []Constraint{{Blocker: 2, Direction: TopBlocksDownward}}, step.Released)
	assert.Equal(t, geometry.Pt(100, 90), rectOf(t, reg, 0).TopLeft())
}

func TestConstraintsCarryOverForSameNode(t *testing.T) {
	reg, e := cornerBoard(t)

	s, ok := e.End()
	require.True(t, ok)
	assert.Equal(t, scene.NodeID(0), s.Node)
	assert.Equal(t, PhaseIdle, e.State().Phase())

	require.True(t, e.Begin(0, geometry.Pt(180, 140)))
	assert.Equal(t, PhaseConstrainedXY, e.State().Phase())
	e.End()

	// grabbing another node starts free, and so does returning to node 0 afterwards
	require.True(t, e.Begin(1, geometry.Pt(340, 100)))
	assert.Equal(t, PhaseFree, e.State().Phase())
	e.End()
	require.True(t, e.Begin(0, geometry.Pt(180, 140)))
	assert.Equal(t, PhaseFree, e.State().Phase())
	assert.Equal(t, geometry.Pt(100, 100), rectOf(t, reg, 0).TopLeft())
}

func TestEngineWithoutSession(t *testing.T) {
	reg := newBoard(t, geometry.Pt(200, 200))
	e := NewEngine(reg, -1)
	assert.Equal(t, DefaultAdjacencyTolerance, e.tolerance)

	_, ok := e.Move(geometry.Pt(10, 10), canvas)
	assert.False(t, ok)
	_, ok = e.End()
	assert.False(t, ok)
	_, ok = e.Active()
	assert.False(t, ok)
	assert.False(t, e.Begin(5, geometry.Pt(0, 0)))

	require.True(t, e.Begin(0, geometry.Pt(210, 190)))
	s, ok := e.Active()
	require.True(t, ok)
	assert.Equal(t, geometry.Pt(90, 30), s.Offset)
}

func TestAdjacency(t *testing.T) {
	r := geometry.NewRect(0, 0, 100, 50)

	tests := []struct {
		name  string
		other geometry.Rect
		want  Direction
		ok    bool
	}{
		{"right", geometry.NewRect(100, 10, 100, 50), LeftBlocksRightward, true},
		{"right with gap", geometry.NewRect(101, 10, 100, 50), LeftBlocksRightward, true},
		{"right too far", geometry.NewRect(102, 10, 100, 50), 0, false},
		{"left", geometry.NewRect(-100, -10, 100, 50), RightBlocksLeftward, true},
		{"below", geometry.NewRect(20, 50, 100, 50), TopBlocksDownward, true},
		{"above", geometry.NewRect(-20, -51, 100, 50), BottomBlocksUpward, true},
		{"diagonal corner", geometry.NewRect(100, 50, 100, 50), 0, false},
		{"right but no span overlap", geometry.NewRect(100, 60, 100, 50), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := Adjacency(r, tt.other, 1, true, true)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, d)
		})
	}

	_, ok := Adjacency(r, geometry.NewRect(100, 10, 100, 50), 1, false, true)
	assert.False(t, ok)
	_, ok = Adjacency(r, geometry.NewRect(20, 50, 100, 50), 1, true, false)
	assert.False(t, ok)
}

func TestPressesAndContact(t *testing.T) {
	blocker := geometry.NewRect(100, 0, 50, 50)
	size := geometry.NewSize(40, 20)

	assert.True(t, Presses(geometry.NewRect(70, 10, 40, 20), blocker, LeftBlocksRightward))
	assert.True(t, Presses(geometry.NewRect(60, 10, 40, 20), blocker, LeftBlocksRightward))
	assert.False(t, Presses(geometry.NewRect(59, 10, 40, 20), blocker, LeftBlocksRightward))
	assert.False(t, Presses(geometry.NewRect(70, 50, 40, 20), blocker, LeftBlocksRightward))

	assert.True(t, Presses(geometry.NewRect(110, 40, 40, 20), blocker, BottomBlocksUpward))
	assert.False(t, Presses(geometry.NewRect(110, 51, 40, 20), blocker, BottomBlocksUpward))

	assert.Equal(t, 60, Contact(size, blocker, LeftBlocksRightward))
	assert.Equal(t, 150, Contact(size, blocker, RightBlocksLeftward))
	assert.Equal(t, -20, Contact(size, blocker, TopBlocksDownward))
	assert.Equal(t, 50, Contact(size, blocker, BottomBlocksUpward))
}

func TestTimeOfImpact(t *testing.T) {
	r := geometry.NewRect(0, 0, 10, 10)

	tt, axis, ok := TimeOfImpact(r, geometry.Pt(20, 0), geometry.NewRect(15, 0, 10, 10))
	require.True(t, ok)
	assert.InDelta(t, 0.25, tt, 1e-9)
	assert.Equal(t, AxisX, axis)

	// touching and moving into it
	tt, _, ok = TimeOfImpact(r, geometry.Pt(20, 0), geometry.NewRect(10, 0, 10, 10))
	require.True(t, ok)
	assert.Zero(t, tt)

	// behind, or moving away from a touching obstacle
	_, _, ok = TimeOfImpact(r, geometry.Pt(20, 0), geometry.NewRect(-20, 0, 10, 10))
	assert.False(t, ok)
	_, _, ok = TimeOfImpact(r, geometry.Pt(20, 0), geometry.NewRect(-10, 0, 10, 10))
	assert.False(t, ok)

	// out of reach
	_, _, ok = TimeOfImpact(r, geometry.Pt(4, 0), geometry.NewRect(15, 0, 10, 10))
	assert.False(t, ok)

	// passing above
	_, _, ok = TimeOfImpact(r, geometry.Pt(20, 0), geometry.NewRect(15, 10, 10, 10))
	assert.False(t, ok)

	tt, axis, ok = TimeOfImpact(r, geometry.Pt(0, 40), geometry.NewRect(5, 20, 10, 10))
	require.True(t, ok)
	assert.InDelta(t, 0.25, tt, 1e-9)
	assert.Equal(t, AxisY, axis)
}

func TestApproach(t *testing.T) {
	r := geometry.NewRect(0, 0, 10, 10)
	obstacles := []geometry.Rect{
		geometry.NewRect(40, 0, 10, 10),
		geometry.NewRect(15, 0, 10, 10),
	}

	at, hit := Approach(r, geometry.Pt(20, 5), obstacles)
	assert.Equal(t, 1, hit)
	assert.Equal(t, geometry.Pt(5, 1), at)

	at, hit = Approach(r, geometry.Pt(0, 30), obstacles)
	assert.Equal(t, -1, hit)
	assert.Equal(t, geometry.Pt(0, 30), at)
}

func TestClosestCandidate(t *testing.T) {
	nodes := []scene.Node{
		{ID: 0, Rect: geometry.NewRect(0, 0, 10, 10)},
		{ID: 1, Rect: geometry.NewRect(50, 0, 10, 10)},
		{ID: 2, Rect: geometry.NewRect(30, 0, 10, 10)},
		{ID: 3, Rect: geometry.NewRect(30, 0, 10, 10)},
	}
	swept := SweptRegion(geometry.NewRect(0, 0, 10, 10), geometry.Pt(60, 0))
	assert.Equal(t, geometry.NewRect(0, 0, 70, 10), swept)

	n, ok := ClosestCandidate(nodes, 0, swept)
	require.True(t, ok)
	assert.Equal(t, scene.NodeID(2), n.ID)

	n, ok = ClosestCandidate(nodes, 0, swept, 2, 3)
	require.True(t, ok)
	assert.Equal(t, scene.NodeID(1), n.ID)

	_, ok = ClosestCandidate(nodes, 0, geometry.NewRect(100, 100, 5, 5))
	assert.False(t, ok)
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "constrained_xy", ConstrainedXY{}.Phase().String())
	assert.Equal(t, "left_blocks_rightward", LeftBlocksRightward.String())
	assert.Equal(t, AxisY, BottomBlocksUpward.Axis())
	assert.Equal(t, AxisX, RightBlocksLeftward.Axis())
	assert.Equal(t, "top_blocks_downward by node 3", Constraint{Blocker: 3, Direction: TopBlocksDownward}.String())
}
