package audio

// BufferSizeUnknown is reported as bufferSizeMs when the track is configured
// for passthrough output.
const BufferSizeUnknown int64 = -1

// Kind identifies one of the closed set of renderer events.
type Kind int

const (
	KindCodecCounters Kind = iota
	KindDecoderInitialized
	KindTrackUnderrun
)

// Kinds lists every event kind in declaration order.
var Kinds = []Kind{KindCodecCounters, KindDecoderInitialized, KindTrackUnderrun}

func (k Kind) String() string {
	switch k {
	case KindCodecCounters:
		return "codec_counters"
	case KindDecoderInitialized:
		return "decoder_initialized"
	case KindTrackUnderrun:
		return "track_underrun"
	default:
		return "unknown"
	}
}

// Event is one renderer event with its payload. The set of implementations
// is closed: CodecCountersEvent, DecoderInitializedEvent, TrackUnderrunEvent.
type Event interface {
	Kind() Kind
	// Deliver invokes the Listener callback matching the event kind.
	Deliver(l Listener)
	sealed()
}

// CodecCountersEvent carries the renderer's shared counters object.
type CodecCountersEvent struct {
	Counters *CodecCounters
}

func (CodecCountersEvent) Kind() Kind { return KindCodecCounters }

func (e CodecCountersEvent) Deliver(l Listener) { l.OnAudioCodecCounters(e.Counters) }

func (CodecCountersEvent) sealed() {}

// DecoderInitializedEvent reports a newly created decoder.
type DecoderInitializedEvent struct {
	DecoderName     string
	InitializedAtMs int64
	InitDurationMs  int64
}

func (DecoderInitializedEvent) Kind() Kind { return KindDecoderInitialized }

func (e DecoderInitializedEvent) Deliver(l Listener) {
	l.OnAudioDecoderInitialized(e.DecoderName, e.InitializedAtMs, e.InitDurationMs)
}

func (DecoderInitializedEvent) sealed() {}

// TrackUnderrunEvent reports an output track underrun.
type TrackUnderrunEvent struct {
	BufferSizeBytes        int32
	BufferSizeMs           int64
	ElapsedSinceLastFeedMs int64
}

func (TrackUnderrunEvent) Kind() Kind { return KindTrackUnderrun }

func (e TrackUnderrunEvent) Deliver(l Listener) {
	l.OnAudioTrackUnderrun(e.BufferSizeBytes, e.BufferSizeMs, e.ElapsedSinceLastFeedMs)
}

func (TrackUnderrunEvent) sealed() {}

// Passthrough reports whether the underrun came from a passthrough track.
func (e TrackUnderrunEvent) Passthrough() bool { return e.BufferSizeMs == BufferSizeUnknown }
