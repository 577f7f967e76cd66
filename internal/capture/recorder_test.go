package capture

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClock struct {
	mu sync.Mutex
	t  time.Time
}

func newStubClock() *stubClock {
	return &stubClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *stubClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *stubClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type failingDevice struct{}

func (failingDevice) Acquire(ctx context.Context) (Stream, error) {
	return nil, errors.New("no input")
}

type countingDevice struct {
	stream   *ChunkStream
	acquires int
}

func (d *countingDevice) Acquire(ctx context.Context) (Stream, error) {
	d.acquires++
	return d.stream, nil
}

func (r *Recorder) bufferedChunks() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.chunks)
}

func TestRecorderStopBelowMinimumDiscards(t *testing.T) {
	clock := newStubClock()
	stream := NewChunkStream()
	r := NewRecorder(stream)
	r.now = clock.now

	require.NoError(t, r.Start(context.Background()))
	stream.Push([]byte("abc"))
	clock.advance(200 * time.Millisecond)

	clip, err := r.Stop()
	assert.ErrorIs(t, err, ErrTooShort)
	assert.Nil(t, clip, "buffered audio is discarded, not returned")
	assert.False(t, r.Recording())
}

func TestRecorderStopReturnsConcatenatedClip(t *testing.T) {
	clock := newStubClock()
	stream := NewChunkStream()
	r := NewRecorder(stream)
	r.now = clock.now

	require.NoError(t, r.Start(context.Background()))
	stream.Push([]byte("one."))
	stream.Push([]byte("two."))
	stream.Push([]byte("three"))
	require.Eventually(t, func() bool { return r.bufferedChunks() == 3 },
		time.Second, 5*time.Millisecond)

	clock.advance(2 * time.Second)
	clip, err := r.Stop()
	require.NoError(t, err)
	require.NotNil(t, clip)
	assert.Equal(t, []byte("one.two.three"), clip.Data)
	assert.Equal(t, 2*time.Second, clip.Duration)
	assert.False(t, r.Recording())
}

func TestRecorderForcedStopAtCeiling(t *testing.T) {
	clock := newStubClock()
	stream := NewChunkStream()
	r := NewRecorder(stream)
	r.now = clock.now
	r.maxDur = 100 * time.Millisecond

	done := make(chan struct{})
	var gotClip *Clip
	var gotErr error
	r.OnForcedStop(func(clip *Clip, err error) {
		gotClip = clip
		gotErr = err
		close(done)
	})

	require.NoError(t, r.Start(context.Background()))
	clock.advance(MaxDuration)
	stream.Push([]byte("audio"))
	require.Eventually(t, func() bool { return r.bufferedChunks() == 1 },
		50*time.Millisecond, time.Millisecond)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("forced stop never fired")
	}

	require.NoError(t, gotErr)
	require.NotNil(t, gotClip)
	assert.Equal(t, []byte("audio"), gotClip.Data)
	assert.False(t, r.Recording())
}

func TestRecorderForcedStopBelowMinimumReportsTooShort(t *testing.T) {
	clock := newStubClock()
	stream := NewChunkStream()
	r := NewRecorder(stream)
	r.now = clock.now
	r.maxDur = 20 * time.Millisecond

	done := make(chan struct{})
	var gotErr error
	r.OnForcedStop(func(clip *Clip, err error) {
		gotErr = err
		close(done)
	})

	require.NoError(t, r.Start(context.Background()))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("forced stop never fired")
	}
	assert.ErrorIs(t, gotErr, ErrTooShort)
}

func TestRecorderManualStopCancelsCeilingTimer(t *testing.T) {
	clock := newStubClock()
	stream := NewChunkStream()
	r := NewRecorder(stream)
	r.now = clock.now
	r.maxDur = 20 * time.Millisecond

	var forced int
	var mu sync.Mutex
	r.OnForcedStop(func(*Clip, error) {
		mu.Lock()
		forced++
		mu.Unlock()
	})

	require.NoError(t, r.Start(context.Background()))
	clock.advance(time.Second)
	_, err := r.Stop()
	require.NoError(t, err)

	time.Sleep(60 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, forced, "forced stop must not fire after a manual stop")
}

func TestRecorderStartIsIdempotent(t *testing.T) {
	device := &countingDevice{stream: NewChunkStream()}
	r := NewRecorder(device)

	require.NoError(t, r.Start(context.Background()))
	require.NoError(t, r.Start(context.Background()))
	assert.Equal(t, 1, device.acquires, "second Start while recording is a no-op")
	assert.True(t, r.Recording())
}

func TestRecorderStopWhileIdleIsNoOp(t *testing.T) {
	r := NewRecorder(NewChunkStream())

	clip, err := r.Stop()
	assert.NoError(t, err)
	assert.Nil(t, clip)
}

func TestRecorderStartDeviceUnavailable(t *testing.T) {
	r := NewRecorder(failingDevice{})

	err := r.Start(context.Background())
	assert.ErrorIs(t, err, ErrDeviceUnavailable)
	assert.False(t, r.Recording())
}

func TestChunkStreamDropsAfterClose(t *testing.T) {
	s := NewChunkStream()
	s.Push([]byte("kept"))
	require.NoError(t, s.Close())
	s.Push([]byte("dropped"))

	var got [][]byte
	for chunk := range s.Chunks() {
		got = append(got, chunk)
	}
	require.Len(t, got, 1)
	assert.Equal(t, []byte("kept"), got[0])
}
