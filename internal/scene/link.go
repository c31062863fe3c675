package scene

import "errors"

// LinkOutcome describes what a link selection did.
type LinkOutcome int

const (
	LinkPending   LinkOutcome = iota // first endpoint selected and highlighted
	LinkCreated                      // connection added, pending endpoint cleared
	LinkDuplicate                    // pair already connected, nothing changed
	LinkCancelled                    // pending endpoint cleared without a connection
)

func (o LinkOutcome) String() string {
	switch o {
	case LinkPending:
		return "pending"
	case LinkCreated:
		return "created"
	case LinkDuplicate:
		return "duplicate"
	case LinkCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Linker implements the two-click gesture that connects nodes. The pending
// first endpoint is mirrored by its Highlighted flag.
type Linker struct {
	registry *Registry
	graph    *Graph
	pending  NodeID
}

// NewLinker creates a Linker adding connections to graph.
func NewLinker(registry *Registry, graph *Graph) *Linker {
	return &Linker{registry: registry, graph: graph, pending: NoNode}
}

// Pending returns the selected first endpoint, if any.
func (l *Linker) Pending() (NodeID, bool) {
	return l.pending, l.pending != NoNode
}

// Select handles a click on node id.
//
// With nothing pending, id becomes the pending endpoint. Clicking the pending
// node again cancels. Clicking another node connects the pair unless they are
// already connected, in which case ErrDuplicateConnection is returned and the
// pending endpoint stays selected.
func (l *Linker) Select(id NodeID) (LinkOutcome, error) {
	if !l.registry.valid(id) {
		return LinkCancelled, ErrUnknownNode
	}

	if l.pending == NoNode {
		l.pending = id
		_ = l.registry.SetHighlighted(id, true)
		return LinkPending, nil
	}

	if id == l.pending {
		l.Cancel()
		return LinkCancelled, nil
	}

	if err := l.graph.Add(l.pending, id); err != nil {
		if errors.Is(err, ErrDuplicateConnection) {
			return LinkDuplicate, err
		}
		return LinkCancelled, err
	}
	l.Cancel()
	return LinkCreated, nil
}

// Cancel clears the pending endpoint. It reports whether one was pending.
func (l *Linker) Cancel() bool {
	if l.pending == NoNode {
		return false
	}
	_ = l.registry.SetHighlighted(l.pending, false)
	l.pending = NoNode
	return true
}
