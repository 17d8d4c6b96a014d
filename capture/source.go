package capture

import (
	"context"
	"errors"
	"io"
	"sync"
)

// Capture setup errors.
var (
	// ErrPermissionDenied indicates the environment refused microphone access.
	ErrPermissionDenied = errors.New("microphone permission denied")

	// ErrDeviceUnsupported indicates the capture device or codec is unavailable.
	ErrDeviceUnsupported = errors.New("capture device unsupported")

	// ErrNotPrepared indicates Start was called before Prepare.
	ErrNotPrepared = errors.New("recorder not prepared")
)

// Constraints is the fixed profile requested when opening a device.
type Constraints struct {
	EchoCancellation bool
	NoiseSuppression bool
	AutoGainControl  bool
	SampleRate       int
	Channels         int
}

// DefaultConstraints returns the capture profile used for voice memos.
func DefaultConstraints() Constraints {
	return Constraints{
		EchoCancellation: true,
		NoiseSuppression: true,
		AutoGainControl:  true,
		SampleRate:       44100,
		Channels:         1,
	}
}

// Source delivers encoded audio chunks from an open capture session.
type Source interface {
	// Chunk returns the next slice of encoded audio. It returns io.EOF
	// when the stream has no more data, and any other error on a
	// mid-session device fault.
	Chunk(ctx context.Context) ([]byte, error)

	// Close releases the underlying session. Safe to call more than once.
	Close() error
}

// Device acquires exclusive access to an audio source.
// Open returns ErrPermissionDenied or ErrDeviceUnsupported when the
// environment lacks the required capability.
type Device interface {
	Open(ctx context.Context, c Constraints) (Source, error)
}

// ReaderDevice adapts an io.Reader factory into a Device. Each Open call
// invokes the factory for a fresh stream, so a recorder can recover from
// an error state by reopening.
type ReaderDevice struct {
	// NewReader returns the stream for one capture session.
	NewReader func() (io.Reader, error)

	// ChunkSize bounds the bytes delivered per Chunk call.
	// Defaults to 32 KiB.
	ChunkSize int
}

// Open implements Device.
func (d *ReaderDevice) Open(ctx context.Context, c Constraints) (Source, error) {
	if d.NewReader == nil {
		return nil, ErrDeviceUnsupported
	}
	r, err := d.NewReader()
	if err != nil {
		return nil, err
	}
	size := d.ChunkSize
	if size <= 0 {
		size = 32 * 1024
	}
	return &readerSource{r: r, size: size}, nil
}

type readerSource struct {
	mu     sync.Mutex
	r      io.Reader
	size   int
	closed bool
}

func (s *readerSource) Chunk(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, io.EOF
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	buf := make([]byte, s.size)
	n, err := s.r.Read(buf)
	if n > 0 {
		return buf[:n], nil
	}
	if err == nil {
		err = io.EOF
	}
	return nil, err
}

func (s *readerSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
