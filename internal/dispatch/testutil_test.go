package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"audioevents/internal/audio"
)

// queueExecutor records posted units and runs them only when drained.
type queueExecutor struct {
	mu     sync.Mutex
	units  []func()
	posts  int
	reject error
}

func (q *queueExecutor) Post(unit func()) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.posts++
	if q.reject != nil {
		return q.reject
	}
	q.units = append(q.units, unit)
	return nil
}

func (q *queueExecutor) drain() int {
	q.mu.Lock()
	units := q.units
	q.units = nil
	q.mu.Unlock()
	for _, u := range units {
		u()
	}
	return len(units)
}

func (q *queueExecutor) postCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.posts
}

var errTornDown = errors.New("torn down")

// call is one listener invocation.
type call struct {
	kind audio.Kind
	args []int64
	name string
}

// recordingListener appends every callback to calls.
type recordingListener struct {
	mu    sync.Mutex
	calls []call
}

func (r *recordingListener) OnAudioCodecCounters(c *audio.CodecCounters) {
	r.mu.Lock()
	r.calls = append(r.calls, call{kind: audio.KindCodecCounters, args: []int64{c.Snapshot().InputBufferCount}})
	r.mu.Unlock()
}

func (r *recordingListener) OnAudioDecoderInitialized(name string, at, dur int64) {
	r.mu.Lock()
	r.calls = append(r.calls, call{kind: audio.KindDecoderInitialized, name: name, args: []int64{at, dur}})
	r.mu.Unlock()
}

func (r *recordingListener) OnAudioTrackUnderrun(size int32, ms, elapsed int64) {
	r.mu.Lock()
	r.calls = append(r.calls, call{kind: audio.KindTrackUnderrun, args: []int64{int64(size), ms, elapsed}})
	r.mu.Unlock()
}

func (r *recordingListener) snapshot() []call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]call(nil), r.calls...)
}

// testCtx returns a context with a short timeout, canceled on test cleanup.
func testCtx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return c
}
