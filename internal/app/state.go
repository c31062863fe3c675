// Package app provides the interaction controller, its events and the
// application lifecycle helpers shared by the UI shells.
package app

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"rectlink/internal/config"
	"rectlink/internal/drag"
	"rectlink/internal/logging"
	"rectlink/internal/metrics"
	"rectlink/internal/scene"
	"rectlink/pkg/colorutil"
	"rectlink/pkg/geometry"
)

// Surface reports the size of the drawing area. It is queried on every
// placement and drag step, so resizing takes effect immediately.
type Surface interface {
	Size() geometry.Size
}

// FixedSurface is a Surface that never changes size.
type FixedSurface geometry.Size

// Size implements Surface.
func (f FixedSurface) Size() geometry.Size {
	return geometry.Size(f)
}

// Options configures a State. Zero or negative values select the defaults.
type Options struct {
	NodeHeight         int
	PickTolerance      float64
	AdjacencyTolerance int
	Colors             scene.ColorPicker
	Logger             *zap.Logger
	Metrics            *metrics.Registry
}

// OptionsFromConfig builds Options from a loaded configuration. seed feeds the
// node color picker.
func OptionsFromConfig(cfg config.Config, seed uint64) Options {
	return Options{
		NodeHeight:         cfg.Node.Height,
		PickTolerance:      cfg.Link.PickTolerance,
		AdjacencyTolerance: cfg.Drag.AdjacencyTolerance,
		Colors:             colorutil.NewPicker(seed, cfg.Color.MaxRetries),
	}
}

// State holds the nodes and connections on the canvas and turns pointer
// gestures into changes to them.
//
// Rejected gestures leave the state unchanged and are only logged and counted.
// Events are emitted once a gesture has been fully applied, outside the lock,
// so listeners may read a Snapshot.
type State struct {
	mu sync.RWMutex

	surface       Surface
	nodeHeight    int
	pickTolerance float64
	colors        scene.ColorPicker

	nodes  *scene.Registry
	graph  *scene.Graph
	linker *scene.Linker
	engine *drag.Engine

	log     *zap.Logger
	metrics *metrics.Registry

	// Event listeners
	listeners map[EventType][]EventListener
}

// NewState creates an empty canvas state on surface.
func NewState(surface Surface, opts Options) *State {
	defaults := config.Default()
	if opts.NodeHeight <= 0 {
		opts.NodeHeight = defaults.Node.Height
	}
	if opts.PickTolerance <= 0 {
		opts.PickTolerance = scene.DefaultPickTolerance
	}
	if opts.Colors == nil {
		opts.Colors = colorutil.NewPicker(1, defaults.Color.MaxRetries)
	}

	nodes := scene.NewRegistry()
	graph := scene.NewGraph()
	return &State{
		surface:       surface,
		nodeHeight:    opts.NodeHeight,
		pickTolerance: opts.PickTolerance,
		colors:        opts.Colors,
		nodes:         nodes,
		graph:         graph,
		linker:        scene.NewLinker(nodes, graph),
		engine:        drag.NewEngine(nodes, opts.AdjacencyTolerance),
		log:           logging.OrNop(opts.Logger),
		metrics:       opts.Metrics,
		listeners:     make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// OnChange registers listener for every event that changes what is drawn.
func (s *State) OnChange(listener EventListener) {
	for _, e := range ChangeEvents {
		s.On(e, listener)
	}
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// update runs fn under the write lock and emits the events it returns.
func (s *State) update(fn func() []event) {
	s.mu.Lock()
	events := fn()
	s.mu.Unlock()

	for _, e := range events {
		s.Emit(e.typ, e.data)
	}
}

// NodeHeight returns the height of new nodes.
func (s *State) NodeHeight() int {
	return s.nodeHeight
}

// Size returns the current surface size.
func (s *State) Size() geometry.Size {
	return s.surface.Size()
}

// OnPrimaryDoubleClick creates a node centered at p.
func (s *State) OnPrimaryDoubleClick(p geometry.Point) {
	s.update(func() []event {
		id, err := s.nodes.Create(p, s.nodeHeight, s.surface.Size(), s.colors)
		if err != nil {
			s.metrics.RecordPlacement(rejectionReason(err))
			s.log.Debug("placement rejected", zap.Stringer("at", p), zap.Error(err))
			return []event{{EventPlacementRejected, err}}
		}

		n, _ := s.nodes.Node(id)
		s.metrics.RecordPlacement("created")
		s.metrics.UpdateScene(s.nodes.Len(), s.graph.Len())
		s.log.Info("node created",
			zap.Int("node", int(id)),
			zap.Stringer("rect", n.Rect),
			zap.String("color", colorutil.Hex(n.Color)))
		return []event{{EventNodeCreated, n}}
	})
}

// OnPrimaryDown starts dragging the node under p, if any.
func (s *State) OnPrimaryDown(p geometry.Point) {
	s.update(func() []event {
		id, ok := s.nodes.PickNode(p)
		if !ok || !s.engine.Begin(id, p) {
			return nil
		}
		s.metrics.RecordDragSession()
		s.log.Debug("drag started",
			zap.Int("node", int(id)),
			zap.Stringer("phase", s.engine.State().Phase()))
		return []event{{EventDragStarted, id}}
	})
}

// OnPrimaryMove moves the dragged node toward p.
func (s *State) OnPrimaryMove(p geometry.Point) {
	s.update(func() []event {
		step, ok := s.engine.Move(p, s.surface.Size())
		if !ok {
			return nil
		}
		s.metrics.RecordDragMove()

		changed := len(step.Engaged) > 0 || len(step.Released) > 0
		if changed {
			s.metrics.RecordConstraints(directions(step.Engaged), directions(step.Released))
			s.log.Debug("drag constraints changed",
				zap.Int("node", int(step.Node)),
				zap.Stringer("phase", step.Phase),
				zap.Stringers("engaged", step.Engaged),
				zap.Stringers("released", step.Released))
		}
		if !step.Moved() && !changed {
			return nil
		}
		return []event{{EventNodeMoved, step}}
	})
}

// OnPrimaryUp ends the drag in progress.
func (s *State) OnPrimaryUp(geometry.Point) {
	s.update(func() []event {
		session, ok := s.engine.End()
		if !ok {
			return nil
		}
		s.log.Debug("drag ended",
			zap.Int("node", int(session.Node)),
			zap.Stringer("phase", session.State.Phase()))
		return []event{{EventDragEnded, session}}
	})
}

// OnSecondaryDown handles the link gesture. A click on a connection line
// removes it; a click on a node selects it as an endpoint; a click on empty
// canvas cancels a pending selection.
func (s *State) OnSecondaryDown(p geometry.Point) {
	s.update(func() []event {
		if i, ok := s.graph.PickConnection(s.nodes, p, s.pickTolerance); ok {
			c, _ := s.graph.Remove(i)
			s.metrics.RecordLinkGesture("removed")
			s.metrics.UpdateScene(s.nodes.Len(), s.graph.Len())
			s.log.Info("connection removed", zap.Int("a", int(c.A)), zap.Int("b", int(c.B)))
			return []event{{EventConnectionRemoved, c}}
		}

		id, ok := s.nodes.PickNode(p)
		if !ok {
			return s.cancelLink()
		}

		first, _ := s.linker.Pending()
		outcome, err := s.linker.Select(id)
		s.metrics.RecordLinkGesture(outcome.String())
		switch {
		case err != nil:
			s.log.Debug("link rejected",
				zap.Int("a", int(first)),
				zap.Int("b", int(id)),
				zap.Error(err))
			return nil
		case outcome == scene.LinkPending:
			return []event{{EventLinkPending, id}}
		case outcome == scene.LinkCancelled:
			return []event{{EventLinkCancelled, id}}
		}

		c := scene.Connection{A: first, B: id}
		s.metrics.UpdateScene(s.nodes.Len(), s.graph.Len())
		s.log.Info("connection added", zap.Int("a", int(c.A)), zap.Int("b", int(c.B)))
		return []event{{EventConnectionAdded, c}}
	})
}

// CancelLink clears a pending link selection.
func (s *State) CancelLink() {
	s.update(s.cancelLink)
}

func (s *State) cancelLink() []event {
	id, ok := s.linker.Pending()
	if !ok || !s.linker.Cancel() {
		return nil
	}
	s.metrics.RecordLinkGesture(scene.LinkCancelled.String())
	return []event{{EventLinkCancelled, id}}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, scene.ErrOutOfBounds):
		return "out_of_bounds"
	case errors.Is(err, scene.ErrOverlap):
		return "overlap"
	}
	return "error"
}

func directions(cs []drag.Constraint) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Direction.String()
	}
	return out
}
