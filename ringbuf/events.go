package ringbuf

import (
	"time"

	"github.com/rs/zerolog"
)

// Event is a diagnostic transition record emitted by a Buffer
type Event struct {
	// Name identifies the transition, e.g. "pausing" or "resuming"
	Name string

	// Time is when the transition occurred
	Time time.Time
}

// EventSink receives diagnostic events from a Buffer.  Sinks are called
// with the buffer's lock held and must not call back into the buffer.
type EventSink interface {
	Event(Event)
}

// NullSink discards all events
type NullSink struct{}

// Event satisfies EventSink
func (NullSink) Event(Event) {}

// ZerologSink forwards events to a zerolog logger at debug level
type ZerologSink struct {
	Log zerolog.Logger
}

// Event satisfies EventSink
func (s ZerologSink) Event(e Event) {
	s.Log.Debug().Time("at", e.Time).Str("event", e.Name).Msg("ring buffer recording transition")
}
