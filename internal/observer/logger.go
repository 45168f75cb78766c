package observer

import (
	"github.com/rs/zerolog"

	"audioevents/internal/audio"
)

// Logger writes one structured record per event.
type Logger struct {
	log zerolog.Logger
}

// NewLogger returns a Logger writing to log.
func NewLogger(log zerolog.Logger) *Logger { return &Logger{log: log} }

func (l *Logger) OnAudioCodecCounters(counters *audio.CodecCounters) {
	s := counters.Snapshot()
	l.log.Info().
		Str("event", audio.KindCodecCounters.String()).
		Int64("decoder_inits", s.DecoderInitCount).
		Int64("input_buffers", s.InputBufferCount).
		Int64("rendered", s.RenderedOutputBufferCount).
		Int64("dropped", s.DroppedOutputBufferCount).
		Msg("codec counters")
}

func (l *Logger) OnAudioDecoderInitialized(decoderName string, initializedAtMs, initDurationMs int64) {
	l.log.Info().
		Str("event", audio.KindDecoderInitialized.String()).
		Str("decoder", decoderName).
		Int64("initialized_at_ms", initializedAtMs).
		Int64("init_duration_ms", initDurationMs).
		Msg("decoder initialized")
}

// OnAudioTrackUnderrun logs at warn level: underruns are audible glitches.
func (l *Logger) OnAudioTrackUnderrun(bufferSizeBytes int32, bufferSizeMs, elapsedSinceLastFeedMs int64) {
	ev := l.log.Warn().
		Str("event", audio.KindTrackUnderrun.String()).
		Int32("buffer_size_bytes", bufferSizeBytes).
		Int64("elapsed_since_last_feed_ms", elapsedSinceLastFeedMs)
	if bufferSizeMs == audio.BufferSizeUnknown {
		ev = ev.Bool("passthrough", true)
	} else {
		ev = ev.Int64("buffer_size_ms", bufferSizeMs)
	}
	ev.Msg("audio track underrun")
}
