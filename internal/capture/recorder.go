package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	// ErrDeviceUnavailable means no capture-capable input device could be
	// acquired. The recorder stays Idle.
	ErrDeviceUnavailable = errors.New("capture device unavailable")
	// ErrTooShort is a policy rejection, not a failure: the recording was
	// stopped before the minimum duration and the buffered audio was
	// discarded.
	ErrTooShort = errors.New("recording too short")
)

const (
	// MaxDuration is the hard ceiling; a forced stop fires when it elapses.
	MaxDuration = 60 * time.Second
	// MinDuration is the minimum accepted recording length.
	MinDuration = 500 * time.Millisecond
)

// Clip is a finalized recording artifact.
type Clip struct {
	Data     []byte
	Duration time.Duration
}

type recorderState int

const (
	stateIdle recorderState = iota
	stateRecording
)

// Recorder is an explicit Idle → Recording → Idle state machine over a
// capture Device. Start while recording and Stop while idle are no-ops.
// A manual Stop clears the ceiling timer, so a stale forced stop can
// never fire into a later recording session.
type Recorder struct {
	device Device

	// test seams
	now    func() time.Time
	maxDur time.Duration
	minDur time.Duration

	onForcedStop func(*Clip, error)

	mu      sync.Mutex
	state   recorderState
	stream  Stream
	chunks  [][]byte
	started time.Time
	timer   *time.Timer
}

func NewRecorder(device Device) *Recorder {
	return &Recorder{
		device: device,
		now:    time.Now,
		maxDur: MaxDuration,
		minDur: MinDuration,
	}
}

// OnForcedStop registers a handler invoked when the ceiling timer stops
// the recording. The handler receives exactly what a manual Stop caller
// would have. Must be set before Start.
func (r *Recorder) OnForcedStop(fn func(*Clip, error)) {
	r.onForcedStop = fn
}

// Start acquires the device and begins buffering chunks.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.state == stateRecording {
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()

	stream, err := r.device.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	r.mu.Lock()
	if r.state == stateRecording {
		r.mu.Unlock()
		stream.Close()
		return nil
	}
	r.state = stateRecording
	r.stream = stream
	r.chunks = nil
	r.started = r.now()
	r.timer = time.AfterFunc(r.maxDur, r.forceStop)
	r.mu.Unlock()

	go r.drain(stream)
	return nil
}

// Stop finalizes the recording. Returns (nil, nil) when idle, (nil,
// ErrTooShort) below the minimum duration, otherwise the finished clip.
func (r *Recorder) Stop() (*Clip, error) {
	r.mu.Lock()
	if r.state != stateRecording {
		r.mu.Unlock()
		return nil, nil
	}
	r.state = stateIdle
	r.timer.Stop()
	stream := r.stream
	chunks := r.chunks
	elapsed := r.now().Sub(r.started)
	r.stream = nil
	r.chunks = nil
	r.mu.Unlock()

	stream.Close()

	if elapsed < r.minDur {
		return nil, ErrTooShort
	}

	var size int
	for _, c := range chunks {
		size += len(c)
	}
	data := make([]byte, 0, size)
	for _, c := range chunks {
		data = append(data, c...)
	}
	return &Clip{Data: data, Duration: elapsed}, nil
}

// Recording reports whether a capture is in progress.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == stateRecording
}

func (r *Recorder) drain(stream Stream) {
	for chunk := range stream.Chunks() {
		r.mu.Lock()
		if r.state == stateRecording && r.stream == stream {
			r.chunks = append(r.chunks, chunk)
		}
		r.mu.Unlock()
	}
}

func (r *Recorder) forceStop() {
	clip, err := r.Stop()
	// A manual Stop that won the race leaves nothing to report.
	if clip == nil && err == nil {
		return
	}
	if r.onForcedStop != nil {
		r.onForcedStop(clip, err)
	}
}
