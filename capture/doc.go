// Package capture drives audio capture sessions and produces finished
// audio artifacts.
//
// Core types:
//   - Recorder: The capture state machine (Idle, Capturing, Finalizing, Error)
//   - Device: Interface for acquiring an audio source with a constraint profile
//   - Source: Interface delivering encoded audio chunks from an open session
//   - Artifact: The immutable audio payload produced by one completed session
//   - Event: Progress, completion, and error notifications on a channel
//
// Example usage:
//
//	rec := capture.NewRecorder(device, capture.DefaultConfig(), nil)
//	if err := rec.Prepare(ctx); err != nil {
//	    // capture.ErrPermissionDenied or capture.ErrDeviceUnsupported
//	}
//	rec.Start()
//	for ev := range rec.Events() {
//	    if ev.Kind == capture.EventComplete {
//	        process(ev.Artifact)
//	    }
//	}
package capture
