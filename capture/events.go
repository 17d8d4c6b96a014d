package capture

import (
	"fmt"
	"time"
)

// EventKind identifies the kind of capture notification.
type EventKind string

// Event kind constants.
const (
	// EventProgress carries the elapsed duration of a live session.
	EventProgress EventKind = "progress"

	// EventComplete carries the finished artifact of a session.
	EventComplete EventKind = "complete"

	// EventError carries a mid-session capture fault.
	EventError EventKind = "error"
)

// Artifact is the immutable audio payload produced by one completed
// capture session.
type Artifact struct {
	// Data is the encoded audio, all buffered chunks flushed in order.
	Data []byte

	// Duration is the elapsed capture time.
	Duration time.Duration

	// CapturedAt is when the session started.
	CapturedAt time.Time
}

// Event is a single capture notification. Progress events for one session
// are delivered in strictly increasing duration order, and the completion
// event is delivered after all of them.
type Event struct {
	Kind EventKind

	// Duration is the elapsed time, set on progress and complete events.
	Duration time.Duration

	// Formatted is the mm:ss rendering of Duration, set on progress events.
	Formatted string

	// Artifact is set on complete events.
	Artifact *Artifact

	// Err is set on error events.
	Err error
}

// FormatDuration renders an elapsed duration as mm:ss.
func FormatDuration(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
