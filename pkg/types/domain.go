package types

// EventRecord is one delivered renderer event as exposed by GET /events.
// Only the fields belonging to Kind are set.
type EventRecord struct {
	// Monotonic sequence number assigned on delivery.
	// example: 42
	Seq uint64 `json:"seq" example:"42"`
	// Event kind: codec_counters, decoder_initialized or track_underrun.
	// example: track_underrun
	Kind string `json:"kind" example:"track_underrun"`
	// Delivery time in unix milliseconds.
	// example: 1700000000000
	ReceivedAtUnixMs int64 `json:"received_at_unix_ms" example:"1700000000000"`

	// decoder_initialized
	DecoderName     string `json:"decoder_name,omitempty" example:"c2.android.aac.decoder"`
	InitializedAtMs *int64 `json:"initialized_at_ms,omitempty"`
	InitDurationMs  *int64 `json:"init_duration_ms,omitempty"`

	// track_underrun; buffer_size_ms is -1 for passthrough output.
	BufferSizeBytes        *int32 `json:"buffer_size_bytes,omitempty"`
	BufferSizeMs           *int64 `json:"buffer_size_ms,omitempty"`
	ElapsedSinceLastFeedMs *int64 `json:"elapsed_since_last_feed_ms,omitempty"`

	// codec_counters, snapshot taken on delivery.
	Counters *CodecCounters `json:"counters,omitempty"`
}

// CodecCounters mirrors audio.CounterValues on the wire.
type CodecCounters struct {
	DecoderInitCount                 int64 `json:"decoder_init_count"`
	DecoderReleaseCount              int64 `json:"decoder_release_count"`
	InputBufferCount                 int64 `json:"input_buffer_count"`
	RenderedOutputBufferCount        int64 `json:"rendered_output_buffer_count"`
	SkippedOutputBufferCount         int64 `json:"skipped_output_buffer_count"`
	DroppedOutputBufferCount         int64 `json:"dropped_output_buffer_count"`
	MaxConsecutiveDroppedBufferCount int64 `json:"max_consecutive_dropped_buffer_count"`
}
