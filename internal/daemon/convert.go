package daemon

import (
	"audioevents/internal/audio"
	"audioevents/internal/observer"
	"audioevents/pkg/types"
)

func toEventRecord(r observer.Record) types.EventRecord {
	out := types.EventRecord{
		Seq:              r.Seq,
		Kind:             r.Event.Kind().String(),
		ReceivedAtUnixMs: r.ReceivedAt.UnixMilli(),
	}
	switch e := r.Event.(type) {
	case audio.CodecCountersEvent:
		c := types.CodecCounters(r.Counters)
		out.Counters = &c
	case audio.DecoderInitializedEvent:
		out.DecoderName = e.DecoderName
		out.InitializedAtMs = &e.InitializedAtMs
		out.InitDurationMs = &e.InitDurationMs
	case audio.TrackUnderrunEvent:
		out.BufferSizeBytes = &e.BufferSizeBytes
		out.BufferSizeMs = &e.BufferSizeMs
		out.ElapsedSinceLastFeedMs = &e.ElapsedSinceLastFeedMs
	}
	return out
}
