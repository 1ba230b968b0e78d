// Package telemetry provides window statistics, performance timing, an event
// log and CSV output for the particle cloud.
package telemetry

import "log/slog"

// EventType identifies telemetry events.
type EventType uint8

const (
	EventShapeSelected EventType = iota
	EventShapeReady
	EventRegenDiscarded
	EventTrackingAcquired
	EventTrackingLost
	EventColorSelected
)

var eventNames = [...]string{
	EventShapeSelected:    "shape_selected",
	EventShapeReady:       "shape_ready",
	EventRegenDiscarded:   "regen_discarded",
	EventTrackingAcquired: "tracking_acquired",
	EventTrackingLost:     "tracking_lost",
	EventColorSelected:    "color_selected",
}

func (e EventType) String() string {
	if int(e) < len(eventNames) {
		return eventNames[e]
	}
	return "unknown"
}

// Event represents a single telemetry event.
type Event struct {
	Type   EventType `csv:"-"`
	Name   string    `csv:"event"`
	Tick   int32     `csv:"tick"`
	Detail string    `csv:"detail"` // shape name, colour, etc.
	// Generation number for regeneration events
	Generation uint64 `csv:"generation"`
}

// NewEvent creates an event of the given type.
func NewEvent(typ EventType, tick int32, detail string) Event {
	return Event{Type: typ, Name: typ.String(), Tick: tick, Detail: detail}
}

// NewRegenEvent creates a regeneration event tagged with its generation.
func NewRegenEvent(typ EventType, tick int32, shape string, generation uint64) Event {
	e := NewEvent(typ, tick, shape)
	e.Generation = generation
	return e
}

// LogEvent logs the event using slog.
func (e Event) LogEvent() {
	slog.Info("event",
		"type", e.Name,
		"tick", e.Tick,
		"detail", e.Detail,
		"generation", e.Generation,
	)
}
