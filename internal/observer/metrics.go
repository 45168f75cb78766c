package observer

import (
	"time"

	"audioevents/internal/audio"
	"audioevents/internal/metrics"
)

// Metrics exports renderer health to Prometheus.
type Metrics struct{}

func (Metrics) OnAudioCodecCounters(counters *audio.CodecCounters) {
	s := counters.Snapshot()
	metrics.SetCodecBuffers("decoder_init", s.DecoderInitCount)
	metrics.SetCodecBuffers("decoder_release", s.DecoderReleaseCount)
	metrics.SetCodecBuffers("input", s.InputBufferCount)
	metrics.SetCodecBuffers("rendered", s.RenderedOutputBufferCount)
	metrics.SetCodecBuffers("skipped", s.SkippedOutputBufferCount)
	metrics.SetCodecBuffers("dropped", s.DroppedOutputBufferCount)
	metrics.SetCodecBuffers("max_consecutive_dropped", s.MaxConsecutiveDroppedBufferCount)
}

func (Metrics) OnAudioDecoderInitialized(decoderName string, _, initDurationMs int64) {
	metrics.ObserveDecoderInit(decoderName, time.Duration(initDurationMs)*time.Millisecond)
}

func (Metrics) OnAudioTrackUnderrun(_ int32, bufferSizeMs, _ int64) {
	metrics.IncUnderrun(bufferSizeMs == audio.BufferSizeUnknown)
}
