// Package store persists memo records in a local SQLite database.
//
// Core types:
//   - Store: Transactional record store with asynchronous initialization
//   - Memo: The persisted unit (id, timestamp, duration, transcription, enhancement)
//   - Enhanced: The three-field enhancement result embedded in a memo
//
// Records are keyed by an auto-assigned integer id with a secondary index
// on timestamp. Initialization runs once in the background; operations
// issued before it completes fail fast with ErrUnavailable.
package store
