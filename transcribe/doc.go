// Package transcribe submits audio artifacts to a remote speech-to-text
// service and returns the recognized text.
//
// The client packages audio as a multipart payload with fixed model,
// language, and response-format parameters. No retry is performed; the
// caller decides what a failure means.
package transcribe
