// Package recorder drives the four-state voice capture lifecycle used by the
// admin console: idle -> warming_up -> recording -> processing -> idle. It
// owns the input stream, the encoder choice and the session timers, and
// delivers exactly one result per session from an awaitable Stop.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

type State int

const (
	StateIdle State = iota
	StateWarmingUp
	StateRecording
	StateProcessing
)

func (s State) String() string {
	switch s {
	case StateWarmingUp:
		return "warming_up"
	case StateRecording:
		return "recording"
	case StateProcessing:
		return "processing"
	default:
		return "idle"
	}
}

var (
	ErrDeviceUnavailable  = errors.New("audio input device unavailable")
	ErrAlreadyRecording   = errors.New("recording already in progress")
	ErrNotRecording       = errors.New("no recording in progress")
	ErrRecordingTimeLimit = errors.New("recording time limit reached (2 minutes)")
	ErrNoEncoder          = errors.New("no supported audio encoder")
	ErrClosed             = errors.New("recorder closed")
)

const (
	// DefaultTimeLimit is the hard ceiling on one recording.
	DefaultTimeLimit = 120 * time.Second
	// DefaultWarmupDelay is how long the visible state stays warming_up.
	// Capture starts immediately; this is cosmetic only.
	DefaultWarmupDelay = time.Second
	// DefaultStopGrace delays the actual stop so trailing audio isn't cut.
	DefaultStopGrace = time.Second
)

// Recording is one finished capture: the concatenated payload and the
// encoding selected at start time.
type Recording struct {
	Data     []byte
	MimeType string
}

type Options struct {
	Constraints StreamConstraints
	Encoders    []EncoderFactory
	WarmupDelay time.Duration
	StopGrace   time.Duration
	TimeLimit   time.Duration
}

// Recorder runs one capture session at a time. All state is instance-scoped:
// two recorders never share encoder registration or the active format tag.
type Recorder struct {
	source AudioSource
	opts   Options

	mu       sync.Mutex
	state    State
	closed   bool
	stream   AudioStream
	mimeType string
	encoder  Encoder

	warmupTimer *time.Timer
	limitTimer  *time.Timer
	graceTimer  *time.Timer

	timedOut  bool
	readErr   error
	done      chan struct{}
	delivered bool
	rec       *Recording
	err       error
}

func New(source AudioSource, opts Options) *Recorder {
	if opts.Constraints == (StreamConstraints{}) {
		opts.Constraints = DefaultConstraints()
	}
	if opts.Encoders == nil {
		opts.Encoders = DefaultEncoders()
	}
	if opts.WarmupDelay <= 0 {
		opts.WarmupDelay = DefaultWarmupDelay
	}
	if opts.StopGrace <= 0 {
		opts.StopGrace = DefaultStopGrace
	}
	if opts.TimeLimit <= 0 {
		opts.TimeLimit = DefaultTimeLimit
	}
	return &Recorder{source: source, opts: opts}
}

func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Start acquires the input stream, picks an encoding and begins capture.
// Capture runs from the moment the stream is open; the warming_up state is
// only what a UI should display for the first second. Starting while a
// session is active returns ErrAlreadyRecording.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	if r.state != StateIdle {
		r.mu.Unlock()
		return ErrAlreadyRecording
	}
	// Claim the session before the (possibly slow) device open so a second
	// Start can't acquire a second stream.
	r.state = StateWarmingUp
	r.mu.Unlock()

	stream, err := r.source.Open(ctx, r.opts.Constraints)
	if err != nil {
		r.mu.Lock()
		r.state = StateIdle
		r.mu.Unlock()
		if errors.Is(err, ErrDeviceUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	mimeType, encoder, err := probeEncoder(r.opts.Encoders, r.opts.Constraints)
	if err != nil {
		stream.Close()
		r.mu.Lock()
		r.state = StateIdle
		r.mu.Unlock()
		return err
	}

	r.mu.Lock()
	r.stream = stream
	r.mimeType = mimeType
	r.encoder = encoder
	r.timedOut = false
	r.readErr = nil
	r.delivered = false
	r.rec = nil
	r.err = nil
	r.done = make(chan struct{})

	r.warmupTimer = time.AfterFunc(r.opts.WarmupDelay, func() {
		r.mu.Lock()
		if r.state == StateWarmingUp {
			r.state = StateRecording
		}
		r.mu.Unlock()
	})

	r.limitTimer = time.AfterFunc(r.opts.TimeLimit, func() {
		r.mu.Lock()
		if r.state == StateWarmingUp || r.state == StateRecording {
			r.timedOut = true
			r.beginStopLocked()
		}
		r.mu.Unlock()
	})
	r.mu.Unlock()

	go r.pump(stream, encoder)
	return nil
}

// Stop requests the end of the session and waits for its single result. The
// underlying stream keeps running for the stop grace period first so trailing
// audio isn't truncated. Calling Stop again returns the same session result;
// Stop without a session returns ErrNotRecording. If the time ceiling fired,
// the result is ErrRecordingTimeLimit.
func (r *Recorder) Stop(ctx context.Context) (*Recording, error) {
	r.mu.Lock()
	done := r.done
	if done == nil {
		r.mu.Unlock()
		return nil, ErrNotRecording
	}
	if r.state == StateWarmingUp || r.state == StateRecording {
		r.beginStopLocked()
	}
	r.mu.Unlock()

	select {
	case <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rec, r.err
}

// Done is closed when the current session has delivered its result, whether
// through Stop, the time ceiling or Close. Nil before the first Start.
func (r *Recorder) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}

// Result reads the last session's outcome without blocking.
func (r *Recorder) Result() (*Recording, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.delivered {
		return nil, ErrNotRecording
	}
	return r.rec, r.err
}

// Close tears the recorder down from any state: timers cancelled, any active
// stream released. Idempotent and safe to call concurrently with a session;
// an in-flight session finalizes immediately without the stop grace.
func (r *Recorder) Close() error {
	r.mu.Lock()
	r.closed = true
	stopTimer(r.warmupTimer)
	stopTimer(r.limitTimer)
	stopTimer(r.graceTimer)
	stream := r.stream
	r.mu.Unlock()

	if stream != nil {
		stream.Close()
	}
	return nil
}

// beginStopLocked moves to processing and schedules the real stop after the
// grace delay. Caller holds the lock.
func (r *Recorder) beginStopLocked() {
	if r.state == StateProcessing || r.state == StateIdle {
		return
	}
	r.state = StateProcessing
	stopTimer(r.warmupTimer)
	stream := r.stream
	r.graceTimer = time.AfterFunc(r.opts.StopGrace, func() {
		if stream != nil {
			stream.Close()
		}
	})
}

// pump moves chunks from the stream into the encoder until the stream ends,
// then finalizes and delivers the session's one result.
func (r *Recorder) pump(stream AudioStream, encoder Encoder) {
	for {
		chunk, err := stream.Read()
		if len(chunk) > 0 {
			if werr := encoder.Write(chunk); werr != nil {
				r.mu.Lock()
				if r.readErr == nil {
					r.readErr = fmt.Errorf("encoder write failed: %w", werr)
				}
				r.mu.Unlock()
			}
		}
		if err != nil {
			if err != io.EOF {
				r.mu.Lock()
				if r.readErr == nil {
					r.readErr = fmt.Errorf("audio stream failed: %w", err)
				}
				r.mu.Unlock()
			}
			break
		}
	}

	data, ferr := encoder.Finalize()

	r.mu.Lock()
	defer r.mu.Unlock()

	stopTimer(r.warmupTimer)
	stopTimer(r.limitTimer)
	stopTimer(r.graceTimer)
	stream.Close()
	r.stream = nil
	r.state = StateIdle

	if r.delivered {
		return
	}
	r.delivered = true

	switch {
	case r.timedOut:
		r.err = ErrRecordingTimeLimit
	case r.readErr != nil:
		r.err = r.readErr
	case ferr != nil:
		r.err = fmt.Errorf("failed to assemble recording: %w", ferr)
	default:
		r.rec = &Recording{Data: data, MimeType: r.mimeType}
	}
	close(r.done)
}

func stopTimer(t *time.Timer) {
	if t != nil {
		t.Stop()
	}
}
