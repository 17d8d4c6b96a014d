package voicememo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/text/unicode/norm"

	"github.com/randalmurphal/voicememo/capture"
	"github.com/randalmurphal/voicememo/enhance"
	"github.com/randalmurphal/voicememo/notify"
	"github.com/randalmurphal/voicememo/store"
)

// =============================================================================
// Stages
// =============================================================================

// Stage identifies a position in one pipeline run.
type Stage string

// Pipeline run stages.
const (
	StageCapturing    Stage = "Capturing"
	StageTranscribing Stage = "Transcribing"
	StageEnhancing    Stage = "Enhancing"
	StagePersisting   Stage = "Persisting"
	StageDone         Stage = "Done"
	StageFailed       Stage = "Failed"
)

// StageError couples a failed run stage with its reason.
type StageError struct {
	Stage Stage
	Err   error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline stage %s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *StageError) Unwrap() error {
	return e.Err
}

// =============================================================================
// Collaborator Interfaces
// =============================================================================

// Transcriber converts an encoded audio payload to recognized text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Enhancer rewrites and annotates a transcript.
type Enhancer interface {
	Enhance(ctx context.Context, text string) (enhance.Result, error)
}

// Saver persists finished memo records.
type Saver interface {
	Save(ctx context.Context, m store.Memo) (int64, error)
}

// =============================================================================
// Orchestrator
// =============================================================================

// Orchestrator reacts to capture completions and drives runs through
// transcription, enhancement, and persistence. At most one run is in
// flight at a time; completion events arriving while a run is active are
// dropped, which makes duplicate event delivery idempotent.
type Orchestrator struct {
	transcriber Transcriber
	enhancer    Enhancer
	saver       Saver
	notifier    notify.Notifier
	logger      *slog.Logger

	inFlight atomic.Bool
	wg       sync.WaitGroup
}

// NewOrchestrator creates an orchestrator over explicit collaborators.
// If notifier is nil, notifications are discarded; if logger is nil, the
// default slog logger is used.
func NewOrchestrator(t Transcriber, e Enhancer, s Saver, n notify.Notifier, logger *slog.Logger) *Orchestrator {
	if n == nil {
		n = notify.NopNotifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		transcriber: t,
		enhancer:    e,
		saver:       s,
		notifier:    n,
		logger:      logger,
	}
}

// Listen consumes capture events until the channel closes or ctx is done.
// Completion events start pipeline runs; capture errors are forwarded to
// the notifier; progress events pass through untouched.
func (o *Orchestrator) Listen(ctx context.Context, events <-chan capture.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev.Kind {
			case capture.EventComplete:
				o.HandleCapture(ctx, ev.Artifact)
			case capture.EventError:
				o.notify(ctx, notify.Event{
					Type:     notify.EventCaptureError,
					Stage:    string(StageCapturing),
					Message:  fmt.Sprintf("capture failed: %v", ev.Err),
					Severity: notify.SeverityError,
				})
			}
		}
	}
}

// HandleCapture starts a run for a completed artifact. It reports whether
// a run was started; a false return means another run was already in
// flight and the event was silently dropped.
func (o *Orchestrator) HandleCapture(ctx context.Context, artifact *capture.Artifact) bool {
	if artifact == nil {
		return false
	}
	if !o.inFlight.CompareAndSwap(false, true) {
		o.logger.Debug("dropping capture completion, run already in flight")
		return false
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		defer o.inFlight.Store(false)
		o.Run(ctx, artifact)
	}()
	return true
}

// Wait blocks until all in-flight runs have finished.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// InFlight reports whether a run is currently executing.
func (o *Orchestrator) InFlight() bool {
	return o.inFlight.Load()
}

// Run executes one pipeline run synchronously: transcribe, enhance,
// persist. A failure at any stage aborts the run; nothing partial is
// persisted, and exactly one processing-failed notification is raised
// carrying the stage and reason. The captured audio is discarded either
// way.
func (o *Orchestrator) Run(ctx context.Context, artifact *capture.Artifact) (store.Memo, error) {
	runID := newRunID()
	logger := o.logger.With("runId", runID)

	logger.Info("pipeline run started",
		"duration", artifact.Duration,
		"bytes", len(artifact.Data),
	)
	o.notify(ctx, notify.Event{
		Type:     notify.EventRunStarted,
		RunID:    runID,
		Message:  "processing recording",
		Severity: notify.SeverityInfo,
		Metadata: map[string]any{"durationMs": artifact.Duration.Milliseconds()},
	})

	text, err := o.transcriber.Transcribe(ctx, artifact.Data)
	if err != nil {
		return store.Memo{}, o.fail(ctx, runID, StageTranscribing, err)
	}
	text = norm.NFC.String(text)

	result, err := o.enhancer.Enhance(ctx, text)
	if err != nil {
		return store.Memo{}, o.fail(ctx, runID, StageEnhancing, err)
	}

	memo := store.Memo{
		Timestamp:     artifact.CapturedAt.UnixMilli(),
		Duration:      artifact.Duration.Milliseconds(),
		Transcription: text,
		Enhanced: store.Enhanced{
			Text:     result.Text,
			Tags:     cleanTags(result.Tags),
			Thoughts: result.Thoughts,
		},
	}
	id, err := o.saver.Save(ctx, memo)
	if err != nil {
		return store.Memo{}, o.fail(ctx, runID, StagePersisting, err)
	}
	memo.ID = id

	logger.Info("pipeline run completed", "memoId", id, "tags", len(memo.Enhanced.Tags))
	o.notify(ctx, notify.Event{
		Type:     notify.EventRecordPersisted,
		RunID:    runID,
		Message:  fmt.Sprintf("memo %d persisted", id),
		Severity: notify.SeverityInfo,
		Metadata: map[string]any{"memoId": id},
	})
	o.notify(ctx, notify.Event{
		Type:     notify.EventRunCompleted,
		RunID:    runID,
		Stage:    string(StageDone),
		Message:  "run completed",
		Severity: notify.SeverityInfo,
	})
	return memo, nil
}

// fail aborts the run at the given stage with exactly one user-visible
// failure notification.
func (o *Orchestrator) fail(ctx context.Context, runID string, stage Stage, err error) error {
	stageErr := &StageError{Stage: stage, Err: err}
	o.logger.Error("pipeline run failed",
		"runId", runID,
		"stage", stage,
		"error", err,
	)
	o.notify(ctx, notify.Event{
		Type:     notify.EventProcessingFailed,
		RunID:    runID,
		Stage:    string(stage),
		Message:  stageErr.Error(),
		Severity: notify.SeverityError,
	})
	return stageErr
}

func (o *Orchestrator) notify(ctx context.Context, ev notify.Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	if err := o.notifier.Notify(ctx, ev); err != nil {
		o.logger.Warn("notification delivery failed", "error", err, "type", ev.Type)
	}
}

// cleanTags drops anything that is not a "#"-prefixed tag so raw model
// output never reaches the store.
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if strings.HasPrefix(t, "#") && len(t) > 1 {
			out = append(out, t)
		}
	}
	return out
}

func newRunID() string {
	id, err := nanoid.New()
	if err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return id
}
