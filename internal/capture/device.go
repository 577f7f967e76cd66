package capture

import (
	"context"
	"sync"
)

// Device is an audio input source. The server-side implementation is fed
// by chunks streamed from the browser over the WebSocket connection; tests
// use an in-memory device.
type Device interface {
	// Acquire opens the capture stream or fails if no input is available.
	Acquire(ctx context.Context) (Stream, error)
}

// Stream yields chunked binary audio data until closed.
type Stream interface {
	Chunks() <-chan []byte
	Close() error
}

// ChunkStream is a Stream backed by a channel that a producer pushes
// encoded audio chunks into. Used by the WebSocket voice path.
type ChunkStream struct {
	mu     sync.Mutex
	ch     chan []byte
	closed bool
}

func NewChunkStream() *ChunkStream {
	return &ChunkStream{ch: make(chan []byte, 64)}
}

// Push hands a chunk to the consumer. Chunks arriving after Close or into
// a full buffer are dropped; a lost tail chunk degrades the clip, it does
// not break the recording.
func (s *ChunkStream) Push(chunk []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- chunk:
	default:
	}
}

func (s *ChunkStream) Chunks() <-chan []byte { return s.ch }

func (s *ChunkStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
	return nil
}

// Acquire lets a ChunkStream double as its own single-stream Device.
func (s *ChunkStream) Acquire(ctx context.Context) (Stream, error) {
	return s, nil
}
