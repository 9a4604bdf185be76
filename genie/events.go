package genie

// EventType identifies a lifecycle event.
type EventType uint8

const (
	EventStarted   EventType = iota // instance created
	EventCaptured                   // snapshot ready, overlay attached
	EventPhase                      // phase changed; see Event.Phase
	EventCompleted                  // completion fired; see Event.Outcome
	EventCancelled                  // overlay removed by Cleanup
	EventSwept                      // deadline sweep removed leftover nodes
)

func (t EventType) String() string {
	switch t {
	case EventStarted:
		return "started"
	case EventCaptured:
		return "captured"
	case EventPhase:
		return "phase"
	case EventCompleted:
		return "completed"
	case EventCancelled:
		return "cancelled"
	case EventSwept:
		return "swept"
	default:
		return "unknown"
	}
}

// Event describes one step in an animation's life.
type Event struct {
	Type      EventType
	Instance  uint64
	Mode      Mode
	Direction Direction
	Phase     Phase
	Slices    int
	Outcome   Outcome
	Fallback  bool
	Removed   int
}

// EventSink receives lifecycle events on the scene's update goroutine.
type EventSink interface {
	GenieEvent(Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(Event)

// GenieEvent calls f.
func (f EventSinkFunc) GenieEvent(e Event) { f(e) }
