package countdown

import "time"

// EventType defines the type of Engine event.
type EventType string

const (
	EventStarted  EventType = "started"
	EventTick     EventType = "tick"
	EventComplete EventType = "complete"
	EventStopped  EventType = "stopped"
	EventReset    EventType = "reset"
)

// Event represents an Engine update for observers.
type Event struct {
	Type      EventType
	Remaining int
	Running   bool
	At        time.Time
}

// State is a snapshot of the countdown.
type State struct {
	Remaining int
	Running   bool
}
