// Package voicememo chains audio capture, speech-to-text, and transcript
// enhancement into locally persisted voice memos.
//
// The package is organized into subpackages by concern:
//
//   - capture: Audio capture sessions, chunk sources, progress events
//   - transcribe: Remote speech-to-text client
//   - enhance: Remote transcript enhancement client and response parser
//   - store: SQLite-backed memo persistence
//   - notify: Pipeline event notifications for the view layer
//   - config: Layered configuration resolution
//   - httpx: Shared HTTP client utilities
//   - testutil: Test utilities and fixtures
//
// The root package holds the Orchestrator, which reacts to capture
// completions and drives one run at a time through transcription,
// enhancement, and persistence.
//
// # Quick Start
//
//	rec := capture.NewRecorder(device, capture.DefaultConfig(), nil)
//	orc := voicememo.NewOrchestrator(transcriber, enhancer, memoStore, notifier, nil)
//
//	rec.Prepare(ctx)
//	rec.Start()
//	go orc.Listen(ctx, rec.Events())
//
// See individual package documentation for detailed usage.
package voicememo
