package observer

import (
	"sync"
	"time"

	"audioevents/internal/audio"
)

const defaultRecorderCapacity = 256

// Record is one delivered event as seen by a Recorder.
type Record struct {
	Seq        uint64
	ReceivedAt time.Time
	Event      audio.Event
	// Counters is the counters snapshot taken at delivery, for
	// KindCodecCounters only.
	Counters audio.CounterValues
}

// Recorder keeps the most recent events in memory. Older events are
// overwritten once capacity is reached.
type Recorder struct {
	mu   sync.Mutex
	buf  []Record
	next int
	full bool
	seq  uint64
	now  func() time.Time
}

// NewRecorder returns a Recorder holding up to capacity events
// (256 when capacity <= 0).
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = defaultRecorderCapacity
	}
	return &Recorder{buf: make([]Record, capacity), now: time.Now}
}

func (r *Recorder) add(e audio.Event, counters audio.CounterValues) {
	r.mu.Lock()
	r.seq++
	r.buf[r.next] = Record{Seq: r.seq, ReceivedAt: r.now(), Event: e, Counters: counters}
	r.next++
	if r.next == len(r.buf) {
		r.next = 0
		r.full = true
	}
	r.mu.Unlock()
}

func (r *Recorder) OnAudioCodecCounters(counters *audio.CodecCounters) {
	r.add(audio.CodecCountersEvent{Counters: counters}, counters.Snapshot())
}

func (r *Recorder) OnAudioDecoderInitialized(decoderName string, initializedAtMs, initDurationMs int64) {
	r.add(audio.DecoderInitializedEvent{
		DecoderName:     decoderName,
		InitializedAtMs: initializedAtMs,
		InitDurationMs:  initDurationMs,
	}, audio.CounterValues{})
}

func (r *Recorder) OnAudioTrackUnderrun(bufferSizeBytes int32, bufferSizeMs, elapsedSinceLastFeedMs int64) {
	r.add(audio.TrackUnderrunEvent{
		BufferSizeBytes:        bufferSizeBytes,
		BufferSizeMs:           bufferSizeMs,
		ElapsedSinceLastFeedMs: elapsedSinceLastFeedMs,
	}, audio.CounterValues{})
}

// Events returns the retained events, oldest first.
func (r *Recorder) Events() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.full {
		out := make([]Record, r.next)
		copy(out, r.buf[:r.next])
		return out
	}
	out := make([]Record, 0, len(r.buf))
	out = append(out, r.buf[r.next:]...)
	return append(out, r.buf[:r.next]...)
}

// Len returns the number of retained events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.full {
		return len(r.buf)
	}
	return r.next
}

// Total returns how many events were recorded, including overwritten ones.
func (r *Recorder) Total() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seq
}

// Reset drops retained events. Sequence numbers keep increasing.
func (r *Recorder) Reset() {
	r.mu.Lock()
	for i := range r.buf {
		r.buf[i] = Record{}
	}
	r.next = 0
	r.full = false
	r.mu.Unlock()
}
