package dispatch

import (
	"time"

	"github.com/rs/zerolog"

	"audioevents/internal/audio"
	"audioevents/internal/metrics"
)

// Dispatcher forwards renderer events to a Listener on a target Executor.
// Its configuration is fixed by New; it holds no mutable state and is safe
// for concurrent use by any number of producers.
type Dispatcher struct {
	sink  sink
	clock func() int64
}

// sink is the configuration chosen at construction: inert or armed.
type sink interface {
	submit(e audio.Event)
	armed() bool
}

type inertSink struct{}

func (inertSink) submit(audio.Event) {}
func (inertSink) armed() bool        { return false }

type armedSink struct {
	target   Executor
	listener audio.Listener
	log      zerolog.Logger
}

func (armedSink) armed() bool { return true }

func (s armedSink) submit(e audio.Event) {
	listener := s.listener
	kind := e.Kind().String()
	if err := post(s.target, func() { e.Deliver(listener) }); err != nil {
		metrics.IncRejected(kind)
		s.log.Debug().
			Err(ErrDispatchRejected(e.Kind(), err)).
			Str("kind", kind).
			Msg("event dropped")
		return
	}
	metrics.IncEmitted(kind)
}

type options struct {
	log   zerolog.Logger
	clock func() int64
}

// Option configures a Dispatcher.
type Option func(*options)

// WithLogger sets the logger that records dropped events.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithClock overrides the millisecond clock used by DecoderInitializedNow.
func WithClock(now func() int64) Option {
	return func(o *options) {
		if now != nil {
			o.clock = now
		}
	}
}

var processStart = time.Now()

// elapsedMs is a monotonic millisecond clock starting at process start.
func elapsedMs() int64 { return time.Since(processStart).Milliseconds() }

// New builds a Dispatcher. With a nil listener the dispatcher is inert and
// target is ignored. With a listener, target must be non-nil or New returns
// ErrInvalidConfiguration. A typed nil pointer stored in listener counts as
// a listener.
func New(target Executor, listener audio.Listener, opts ...Option) (*Dispatcher, error) {
	o := options{log: zerolog.Nop(), clock: elapsedMs}
	for _, opt := range opts {
		opt(&o)
	}
	d := &Dispatcher{sink: inertSink{}, clock: o.clock}
	if listener == nil {
		return d, nil
	}
	if target == nil {
		return nil, ErrInvalidConfiguration
	}
	d.sink = armedSink{target: target, listener: listener, log: o.log}
	return d, nil
}

// MustNew is like New but panics on an invalid configuration.
func MustNew(target Executor, listener audio.Listener, opts ...Option) *Dispatcher {
	d, err := New(target, listener, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

// Armed reports whether the dispatcher has a listener.
func (d *Dispatcher) Armed() bool { return d.sink.armed() }

// Emit schedules delivery of e. It returns once the unit is queued (or
// dropped) and never calls the listener itself.
func (d *Dispatcher) Emit(e audio.Event) {
	d.sink.submit(e)
}

// CodecCounters reports the renderer's counters object. The pointer is
// shared with the listener; callers keep updating it through its methods.
func (d *Dispatcher) CodecCounters(counters *audio.CodecCounters) {
	d.Emit(audio.CodecCountersEvent{Counters: counters})
}

// DecoderInitialized reports that decoderName finished initializing at
// initializedAtMs after initDurationMs.
func (d *Dispatcher) DecoderInitialized(decoderName string, initializedAtMs, initDurationMs int64) {
	d.Emit(audio.DecoderInitializedEvent{
		DecoderName:     decoderName,
		InitializedAtMs: initializedAtMs,
		InitDurationMs:  initDurationMs,
	})
}

// DecoderInitializedNow is DecoderInitialized stamped with the current
// reading of the dispatcher clock.
func (d *Dispatcher) DecoderInitializedNow(decoderName string, initDurationMs int64) {
	d.DecoderInitialized(decoderName, d.clock(), initDurationMs)
}

// AudioTrackUnderrun reports an output underrun. Pass audio.BufferSizeUnknown
// as bufferSizeMs for passthrough output.
func (d *Dispatcher) AudioTrackUnderrun(bufferSize int32, bufferSizeMs, elapsedSinceLastFeedMs int64) {
	d.Emit(audio.TrackUnderrunEvent{
		BufferSizeBytes:        bufferSize,
		BufferSizeMs:           bufferSizeMs,
		ElapsedSinceLastFeedMs: elapsedSinceLastFeedMs,
	})
}
