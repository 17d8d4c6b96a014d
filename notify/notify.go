package notify

import (
	"context"
	"time"
)

// EventType represents the type of pipeline event.
type EventType string

// Event type constants.
const (
	EventRunStarted       EventType = "run_started"
	EventRunCompleted     EventType = "run_completed"
	EventCaptureError     EventType = "capture_error"
	EventProcessingFailed EventType = "processing_failed"
	EventRecordPersisted  EventType = "record_persisted"
)

// Severity constants for notifications.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Event describes a pipeline event for notification. Every terminal
// pipeline failure produces exactly one EventProcessingFailed carrying
// the stage and reason.
type Event struct {
	Type      EventType      `json:"type"`
	RunID     string         `json:"run_id,omitempty"`
	Stage     string         `json:"stage,omitempty"`
	Message   string         `json:"message"`
	Severity  string         `json:"severity"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Notifier sends notifications about pipeline events.
type Notifier interface {
	// Notify sends a notification. Implementations should be non-blocking
	// and handle errors gracefully (log, don't crash).
	Notify(ctx context.Context, event Event) error
}
