package app

// EventType identifies different application events.
type EventType int

const (
	EventNodeCreated       EventType = iota // data: scene.Node
	EventPlacementRejected                  // data: error
	EventNodeMoved                          // data: drag.Step
	EventConnectionAdded                    // data: scene.Connection
	EventConnectionRemoved                  // data: scene.Connection
	EventLinkPending                        // data: scene.NodeID
	EventLinkCancelled                      // data: scene.NodeID
	EventDragStarted                        // data: scene.NodeID
	EventDragEnded                          // data: drag.Session
)

// ChangeEvents are the events after which the canvas must be redrawn.
var ChangeEvents = []EventType{
	EventNodeCreated,
	EventNodeMoved,
	EventConnectionAdded,
	EventConnectionRemoved,
	EventLinkPending,
	EventLinkCancelled,
	EventDragEnded,
}

func (e EventType) String() string {
	switch e {
	case EventNodeCreated:
		return "node_created"
	case EventPlacementRejected:
		return "placement_rejected"
	case EventNodeMoved:
		return "node_moved"
	case EventConnectionAdded:
		return "connection_added"
	case EventConnectionRemoved:
		return "connection_removed"
	case EventLinkPending:
		return "link_pending"
	case EventLinkCancelled:
		return "link_cancelled"
	case EventDragStarted:
		return "drag_started"
	case EventDragEnded:
		return "drag_ended"
	}
	return "unknown"
}

// EventListener is called when an event occurs.
type EventListener func(data interface{})

type event struct {
	typ  EventType
	data interface{}
}
