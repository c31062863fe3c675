package app

import (
	"fmt"

	"rectlink/internal/scene"
	"rectlink/pkg/geometry"
)

// Snapshot is a read-only copy of the canvas state for rendering.
type Snapshot struct {
	Canvas      geometry.Size    `yaml:"canvas"`
	Nodes       []scene.Node     `yaml:"nodes"`
	Connections []ConnectionView `yaml:"connections"`
	// Pending is the selected first link endpoint, or scene.NoNode.
	Pending scene.NodeID `yaml:"pending"`
	// Dragging is the node being dragged, or scene.NoNode.
	Dragging scene.NodeID `yaml:"dragging"`
	Phase    string       `yaml:"phase"`
}

// ConnectionView is a connection with the centers of its endpoints.
type ConnectionView struct {
	A    scene.NodeID   `yaml:"a"`
	B    scene.NodeID   `yaml:"b"`
	From geometry.Point `yaml:"from"`
	To   geometry.Point `yaml:"to"`
}

// Snapshot returns a consistent copy of the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Canvas:   s.surface.Size(),
		Nodes:    s.nodes.Nodes(),
		Pending:  scene.NoNode,
		Dragging: scene.NoNode,
		Phase:    s.engine.State().Phase().String(),
	}
	if id, ok := s.linker.Pending(); ok {
		snap.Pending = id
	}
	if session, ok := s.engine.Active(); ok {
		snap.Dragging = session.Node
	}
	for _, c := range s.graph.Connections() {
		a, okA := s.nodes.Node(c.A)
		b, okB := s.nodes.Node(c.B)
		if !okA || !okB {
			continue
		}
		snap.Connections = append(snap.Connections, ConnectionView{
			A:    c.A,
			B:    c.B,
			From: a.Rect.Center(),
			To:   b.Rect.Center(),
		})
	}
	return snap
}

// Node returns the node with the given ID.
func (s Snapshot) Node(id scene.NodeID) (scene.Node, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return scene.Node{}, false
}

// Check verifies that every node lies on the canvas and that no two nodes overlap.
func (s Snapshot) Check() error {
	bounds := geometry.Bounds(s.Canvas)
	for i, n := range s.Nodes {
		if !n.Rect.Within(bounds) {
			return fmt.Errorf("node %d at %v lies outside the %dx%d canvas",
				n.ID, n.Rect, s.Canvas.Width, s.Canvas.Height)
		}
		for _, m := range s.Nodes[i+1:] {
			if n.Rect.Intersects(m.Rect) {
				return fmt.Errorf("nodes %d %v and %d %v overlap", n.ID, n.Rect, m.ID, m.Rect)
			}
		}
	}
	return nil
}

// Summary describes the snapshot in one line for status bars.
func (s Snapshot) Summary() string {
	text := fmt.Sprintf("%d nodes, %d connections", len(s.Nodes), len(s.Connections))
	switch {
	case s.Dragging != scene.NoNode:
		text += fmt.Sprintf(" | dragging node %d (%s)", s.Dragging, s.Phase)
	case s.Pending != scene.NoNode:
		text += fmt.Sprintf(" | linking from node %d", s.Pending)
	}
	return text
}
