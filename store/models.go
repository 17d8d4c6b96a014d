package store

// Enhanced is the structured result of transcript enhancement. Any field
// may be empty when the remote response lacked the matching section.
type Enhanced struct {
	// Text is the polished transcript.
	Text string `json:"enhancedText"`

	// Tags are topic labels, each prefixed with "#".
	Tags []string `json:"tags"`

	// Thoughts is the reflection note.
	Thoughts string `json:"thoughts"`
}

// Memo is one persisted voice memo. Memos are created once at the end of
// a successful pipeline run and never mutated; correcting a memo means
// deleting and re-recording.
type Memo struct {
	// ID is assigned by the store on save. No other component mints ids.
	ID int64 `json:"id"`

	// Timestamp is the capture time in milliseconds since epoch.
	Timestamp int64 `json:"timestamp"`

	// Duration is the capture length in milliseconds.
	Duration int64 `json:"duration"`

	// Transcription is the raw recognized text.
	Transcription string `json:"transcription"`

	// Enhanced is the model-produced enhancement.
	Enhanced Enhanced `json:"enhanced"`
}
