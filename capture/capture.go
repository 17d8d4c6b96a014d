package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// State is the recorder state machine position.
type State string

// Recorder states.
const (
	StateIdle       State = "idle"
	StateCapturing  State = "capturing"
	StateFinalizing State = "finalizing"
	StateError      State = "error"
)

// Config holds the fixed capture parameters.
type Config struct {
	// Constraints is the device profile requested by Prepare.
	Constraints Constraints

	// TimeSlice is the chunk delivery interval.
	TimeSlice time.Duration

	// MaxDuration is the session ceiling. A session still capturing when
	// the ceiling elapses is force-stopped.
	MaxDuration time.Duration

	// ProgressInterval is the granularity of progress events.
	ProgressInterval time.Duration

	// EventBuffer is the capacity of the event channel (default: 64).
	EventBuffer int
}

// DefaultConfig returns the capture parameters used for voice memos.
func DefaultConfig() Config {
	return Config{
		Constraints:      DefaultConstraints(),
		TimeSlice:        time.Second,
		MaxDuration:      5 * time.Minute,
		ProgressInterval: 100 * time.Millisecond,
		EventBuffer:      64,
	}
}

// Recorder owns the capture session lifecycle. At most one session is
// active at a time; Start and Stop are no-ops when called out of state.
type Recorder struct {
	device Device
	cfg    Config
	logger *slog.Logger
	events chan Event

	mu       sync.Mutex
	state    State
	prepared bool
	source   Source
	stopc    chan struct{}
}

// NewRecorder creates a recorder over the given device. If logger is nil,
// the default slog logger is used.
func NewRecorder(device Device, cfg Config, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TimeSlice <= 0 {
		cfg.TimeSlice = time.Second
	}
	if cfg.MaxDuration <= 0 {
		cfg.MaxDuration = 5 * time.Minute
	}
	if cfg.ProgressInterval <= 0 {
		cfg.ProgressInterval = 100 * time.Millisecond
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = 64
	}
	return &Recorder{
		device: device,
		cfg:    cfg,
		logger: logger,
		events: make(chan Event, cfg.EventBuffer),
		state:  StateIdle,
	}
}

// Events returns the recorder's notification channel. Progress events are
// dropped rather than blocking a session when the consumer lags; complete
// and error events are always delivered, so the consumer must drain.
func (r *Recorder) Events() <-chan Event {
	return r.events
}

// State returns the current state machine position.
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Prepare acquires the capture device with the configured constraint
// profile. It must be called once before the first Start. It fails with
// ErrPermissionDenied or ErrDeviceUnsupported when the environment lacks
// the required capability.
func (r *Recorder) Prepare(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.prepared && r.source != nil {
		return nil
	}

	src, err := r.device.Open(ctx, r.cfg.Constraints)
	if err != nil {
		if errors.Is(err, ErrPermissionDenied) || errors.Is(err, ErrDeviceUnsupported) {
			return err
		}
		return fmt.Errorf("open capture device: %w", err)
	}

	r.source = src
	r.prepared = true
	return nil
}

// Start begins a capture session. It is a no-op when a session is already
// active. Starting after a mid-session error reacquires the device.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateCapturing || r.state == StateFinalizing {
		return nil
	}
	if !r.prepared {
		return ErrNotPrepared
	}
	if r.source == nil {
		// The previous session was force-closed on error.
		src, err := r.device.Open(context.Background(), r.cfg.Constraints)
		if err != nil {
			return fmt.Errorf("reopen capture device: %w", err)
		}
		r.source = src
	}

	r.stopc = make(chan struct{})
	r.state = StateCapturing
	go r.run(r.source, r.stopc, time.Now())

	r.logger.Debug("capture session started",
		"timeSlice", r.cfg.TimeSlice,
		"maxDuration", r.cfg.MaxDuration,
	)
	return nil
}

// Stop finalizes the active session, flushing buffered chunks into an
// artifact and emitting a completion event. It is a no-op when no session
// is capturing.
func (r *Recorder) Stop() error {
	r.mu.Lock()
	if r.state != StateCapturing {
		r.mu.Unlock()
		return nil
	}
	r.state = StateFinalizing
	stopc := r.stopc
	r.mu.Unlock()

	close(stopc)
	return nil
}

// run is the session goroutine. It owns the progress ticker, the ceiling
// timer, and the chunk buffer, and is the only emitter of this session's
// events, which keeps progress strictly ordered and completion last.
func (r *Recorder) run(src Source, stopc <-chan struct{}, start time.Time) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	chunkc := make(chan []byte)
	errc := make(chan error, 1)
	go r.pump(ctx, src, chunkc, errc)

	progress := time.NewTicker(r.cfg.ProgressInterval)
	defer progress.Stop()
	ceiling := time.NewTimer(r.cfg.MaxDuration)
	defer ceiling.Stop()

	var buf bytes.Buffer
	for {
		select {
		case <-progress.C:
			elapsed := time.Since(start)
			r.emit(Event{
				Kind:      EventProgress,
				Duration:  elapsed,
				Formatted: FormatDuration(elapsed),
			}, false)

		case b, ok := <-chunkc:
			if !ok {
				// Source exhausted: finalize as an implicit stop.
				r.finalize(&buf, start)
				return
			}
			buf.Write(b)

		case err := <-errc:
			r.fail(src, err)
			return

		case <-ceiling.C:
			r.logger.Warn("capture ceiling reached, forcing stop",
				"maxDuration", r.cfg.MaxDuration)
			r.finalize(&buf, start)
			return

		case <-stopc:
			r.finalize(&buf, start)
			return
		}
	}
}

// pump delivers chunks from the source at the configured slice interval.
func (r *Recorder) pump(ctx context.Context, src Source, chunkc chan<- []byte, errc chan<- error) {
	slice := time.NewTicker(r.cfg.TimeSlice)
	defer slice.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-slice.C:
		}

		b, err := src.Chunk(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				close(chunkc)
				return
			}
			if ctx.Err() != nil {
				return
			}
			errc <- err
			return
		}
		if len(b) == 0 {
			continue
		}

		select {
		case chunkc <- b:
		case <-ctx.Done():
			return
		}
	}
}

func (r *Recorder) finalize(buf *bytes.Buffer, start time.Time) {
	r.mu.Lock()
	r.state = StateFinalizing
	r.mu.Unlock()

	elapsed := time.Since(start)
	artifact := &Artifact{
		Data:       append([]byte(nil), buf.Bytes()...),
		Duration:   elapsed,
		CapturedAt: start,
	}
	r.emit(Event{Kind: EventComplete, Duration: elapsed, Artifact: artifact}, true)

	r.mu.Lock()
	r.state = StateIdle
	r.mu.Unlock()

	r.logger.Debug("capture session finalized",
		"duration", elapsed,
		"bytes", len(artifact.Data),
	)
}

func (r *Recorder) fail(src Source, err error) {
	r.mu.Lock()
	r.state = StateError
	r.source = nil
	r.mu.Unlock()

	// Force the underlying session closed before telling anyone.
	if cerr := src.Close(); cerr != nil {
		r.logger.Warn("closing failed capture source", "error", cerr)
	}

	r.emit(Event{Kind: EventError, Err: err}, true)
	r.logger.Warn("capture session failed", "error", err)
}

// emit sends an event. Progress events are best-effort; terminal events
// block until delivered.
func (r *Recorder) emit(ev Event, block bool) {
	if block {
		r.events <- ev
		return
	}
	select {
	case r.events <- ev:
	default:
	}
}
