package observer

import "audioevents/internal/audio"

// Tee forwards every callback to each listener in order.
type Tee []audio.Listener

func (t Tee) OnAudioCodecCounters(counters *audio.CodecCounters) {
	for _, l := range t {
		l.OnAudioCodecCounters(counters)
	}
}

func (t Tee) OnAudioDecoderInitialized(decoderName string, initializedAtMs, initDurationMs int64) {
	for _, l := range t {
		l.OnAudioDecoderInitialized(decoderName, initializedAtMs, initDurationMs)
	}
}

func (t Tee) OnAudioTrackUnderrun(bufferSizeBytes int32, bufferSizeMs, elapsedSinceLastFeedMs int64) {
	for _, l := range t {
		l.OnAudioTrackUnderrun(bufferSizeBytes, bufferSizeMs, elapsedSinceLastFeedMs)
	}
}
