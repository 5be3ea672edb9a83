package recorder

import (
	"context"
	"io"
	"sync"
)

// StreamConstraints are hints passed to the audio source. Sources apply what
// they can; none of these are guarantees.
type StreamConstraints struct {
	SampleRate       int
	SampleSize       int
	ChannelCount     int
	EchoCancellation bool
	NoiseSuppression bool
	AutoGainControl  bool
}

// DefaultConstraints mirrors what the capture UI always asks for: mono 48kHz
// with the processing hints on.
func DefaultConstraints() StreamConstraints {
	return StreamConstraints{
		SampleRate:       48000,
		SampleSize:       16,
		ChannelCount:     1,
		EchoCancellation: true,
		NoiseSuppression: true,
		AutoGainControl:  true,
	}
}

// AudioSource acquires an input stream from the environment. Open fails when
// the device is missing or access is denied.
type AudioSource interface {
	Open(ctx context.Context, constraints StreamConstraints) (AudioStream, error)
}

// AudioStream yields raw PCM chunks. Read blocks until a chunk is available
// and returns io.EOF once the stream is stopped. Close releases the
// underlying device and must be safe to call more than once.
type AudioStream interface {
	Read() ([]byte, error)
	Close() error
}

// ReaderSource adapts any PCM byte stream (a pipe, a file, a capture tool's
// stdout) into an AudioSource. Chunks are fixed-size reads.
type ReaderSource struct {
	R         io.ReadCloser
	ChunkSize int
}

func (s *ReaderSource) Open(ctx context.Context, _ StreamConstraints) (AudioStream, error) {
	if s.R == nil {
		return nil, ErrDeviceUnavailable
	}
	size := s.ChunkSize
	if size <= 0 {
		size = 4096
	}
	return &readerStream{r: s.R, buf: make([]byte, size)}, nil
}

type readerStream struct {
	r   io.ReadCloser
	buf []byte

	mu     sync.Mutex
	closed bool
}

func (s *readerStream) Read() ([]byte, error) {
	n, err := s.r.Read(s.buf)
	if n > 0 {
		chunk := make([]byte, n)
		copy(chunk, s.buf[:n])
		return chunk, nil
	}
	if err == nil {
		err = io.EOF
	}
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		// A read error after Close is just the stream being torn down.
		return nil, io.EOF
	}
	return nil, err
}

func (s *readerStream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()
	return s.r.Close()
}
