// Package scene holds the nodes and connections placed on the canvas.
//
// Nodes live in an append-only arena and are referred to by NodeID. Nodes are
// never removed, so an ID stays valid for the lifetime of the Registry.
package scene

import (
	"errors"
	"image/color"

	"rectlink/pkg/geometry"
)

// NodeID is a stable handle to a node in a Registry.
type NodeID int

// NoNode is the zero handle returned when nothing was found.
const NoNode NodeID = -1

// ErrUnknownNode is returned for IDs that do not refer to a node.
var ErrUnknownNode = errors.New("unknown node")

// Node is an axis-aligned rectangle on the canvas.
type Node struct {
	ID          NodeID        `json:"id" yaml:"id"`
	Rect        geometry.Rect `json:"rect" yaml:"rect"`
	Color       color.RGBA    `json:"color" yaml:"color"`
	Highlighted bool          `json:"highlighted" yaml:"highlighted"`
}

// Registry is the ordered collection of nodes. Iteration order is creation order.
type Registry struct {
	nodes []Node
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Len returns the number of nodes.
func (r *Registry) Len() int {
	return len(r.nodes)
}

func (r *Registry) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(r.nodes)
}

// Node returns a copy of the node with the given ID.
func (r *Registry) Node(id NodeID) (Node, bool) {
	if !r.valid(id) {
		return Node{}, false
	}
	return r.nodes[id], true
}

// Nodes returns a copy of all nodes in creation order.
func (r *Registry) Nodes() []Node {
	out := make([]Node, len(r.nodes))
	copy(out, r.nodes)
	return out
}

// Colors returns the colors of all nodes.
func (r *Registry) Colors() []color.RGBA {
	out := make([]color.RGBA, len(r.nodes))
	for i, n := range r.nodes {
		out[i] = n.Color
	}
	return out
}

// Move sets the top-left corner of a node.
func (r *Registry) Move(id NodeID, topLeft geometry.Point) error {
	if !r.valid(id) {
		return ErrUnknownNode
	}
	r.nodes[id].Rect = r.nodes[id].Rect.MoveTo(topLeft)
	return nil
}

// SetHighlighted sets the highlight flag of a node.
func (r *Registry) SetHighlighted(id NodeID, on bool) error {
	if !r.valid(id) {
		return ErrUnknownNode
	}
	r.nodes[id].Highlighted = on
	return nil
}

// FirstIntersecting returns the first node other than except whose rectangle
// intersects rect.
func (r *Registry) FirstIntersecting(rect geometry.Rect, except NodeID) (NodeID, bool) {
	for _, n := range r.nodes {
		if n.ID != except && n.Rect.Intersects(rect) {
			return n.ID, true
		}
	}
	return NoNode, false
}

func (r *Registry) add(rect geometry.Rect, c color.RGBA) NodeID {
	id := NodeID(len(r.nodes))
	r.nodes = append(r.nodes, Node{ID: id, Rect: rect, Color: c})
	return id
}
