package audio

// Listener is notified of audio renderer events. Implementations are called
// on the dispatcher's target execution context, never on the producer.
type Listener interface {
	// OnAudioCodecCounters passes the counters object used by the renderer
	// when it is enabled. The object is shared, not copied.
	OnAudioCodecCounters(counters *CodecCounters)

	// OnAudioDecoderInitialized reports that a decoder was created.
	// initializedAtMs is the monotonic clock reading when initialization
	// finished; initDurationMs is how long it took.
	OnAudioDecoderInitialized(decoderName string, initializedAtMs, initDurationMs int64)

	// OnAudioTrackUnderrun reports an output track underrun. bufferSizeMs is
	// BufferSizeUnknown for passthrough output, where the buffered media may
	// have a variable bitrate.
	OnAudioTrackUnderrun(bufferSizeBytes int32, bufferSizeMs, elapsedSinceLastFeedMs int64)
}

// ListenerFuncs adapts plain functions to a Listener. Nil fields are skipped.
type ListenerFuncs struct {
	CodecCounters      func(counters *CodecCounters)
	DecoderInitialized func(decoderName string, initializedAtMs, initDurationMs int64)
	TrackUnderrun      func(bufferSizeBytes int32, bufferSizeMs, elapsedSinceLastFeedMs int64)
}

var _ Listener = ListenerFuncs{}

func (f ListenerFuncs) OnAudioCodecCounters(counters *CodecCounters) {
	if f.CodecCounters != nil {
		f.CodecCounters(counters)
	}
}

func (f ListenerFuncs) OnAudioDecoderInitialized(decoderName string, initializedAtMs, initDurationMs int64) {
	if f.DecoderInitialized != nil {
		f.DecoderInitialized(decoderName, initializedAtMs, initDurationMs)
	}
}

func (f ListenerFuncs) OnAudioTrackUnderrun(bufferSizeBytes int32, bufferSizeMs, elapsedSinceLastFeedMs int64) {
	if f.TrackUnderrun != nil {
		f.TrackUnderrun(bufferSizeBytes, bufferSizeMs, elapsedSinceLastFeedMs)
	}
}
