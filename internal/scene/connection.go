package scene

import (
	"errors"
	"fmt"
)

// Connection rejection reasons.
var (
	ErrDuplicateConnection = errors.New("connection already exists")
	ErrSelfConnection      = errors.New("cannot connect a node to itself")
)

// Connection is an undirected link between two nodes.
type Connection struct {
	A, B NodeID
}

// Joins reports whether c links a and b, in either order.
func (c Connection) Joins(a, b NodeID) bool {
	return (c.A == a && c.B == b) || (c.A == b && c.B == a)
}

// Graph is the ordered list of connections between nodes.
type Graph struct {
	conns []Connection
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{}
}

// Len returns the number of connections.
func (g *Graph) Len() int {
	return len(g.conns)
}

// Has reports whether a connection between a and b exists.
func (g *Graph) Has(a, b NodeID) bool {
	for _, c := range g.conns {
		if c.Joins(a, b) {
			return true
		}
	}
	return false
}

// Add appends a connection between a and b.
func (g *Graph) Add(a, b NodeID) error {
	if a == b {
		return fmt.Errorf("%w: node %d", ErrSelfConnection, a)
	}
	if g.Has(a, b) {
		return fmt.Errorf("%w: %d-%d", ErrDuplicateConnection, a, b)
	}
	g.conns = append(g.conns, Connection{A: a, B: b})
	return nil
}

// Remove deletes the connection at index i and returns it.
func (g *Graph) Remove(i int) (Connection, bool) {
	if i < 0 || i >= len(g.conns) {
		return Connection{}, false
	}
	c := g.conns[i]
	g.conns = append(g.conns[:i], g.conns[i+1:]...)
	return c, true
}

// Connections returns a copy of all connections.
func (g *Graph) Connections() []Connection {
	out := make([]Connection, len(g.conns))
	copy(out, g.conns)
	return out
}
