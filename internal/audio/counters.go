package audio

import "sync"

// CounterValues is a point-in-time copy of CodecCounters.
type CounterValues struct {
	DecoderInitCount                 int64 `json:"decoder_init_count"`
	DecoderReleaseCount              int64 `json:"decoder_release_count"`
	InputBufferCount                 int64 `json:"input_buffer_count"`
	RenderedOutputBufferCount        int64 `json:"rendered_output_buffer_count"`
	SkippedOutputBufferCount         int64 `json:"skipped_output_buffer_count"`
	DroppedOutputBufferCount         int64 `json:"dropped_output_buffer_count"`
	MaxConsecutiveDroppedBufferCount int64 `json:"max_consecutive_dropped_buffer_count"`
}

// CodecCounters tracks decoder activity for one renderer. The renderer
// updates it from its own goroutine while observers read Snapshot from
// theirs.
type CodecCounters struct {
	mu                 sync.Mutex
	v                  CounterValues
	consecutiveDropped int64
}

// NewCodecCounters returns zeroed counters.
func NewCodecCounters() *CodecCounters { return &CodecCounters{} }

// DecoderInitialized records a decoder initialization.
func (c *CodecCounters) DecoderInitialized() {
	c.mu.Lock()
	c.v.DecoderInitCount++
	c.mu.Unlock()
}

// DecoderReleased records a decoder release.
func (c *CodecCounters) DecoderReleased() {
	c.mu.Lock()
	c.v.DecoderReleaseCount++
	c.mu.Unlock()
}

// InputBuffer records a buffer queued to the decoder.
func (c *CodecCounters) InputBuffer() {
	c.mu.Lock()
	c.v.InputBufferCount++
	c.mu.Unlock()
}

// OutputRendered records a rendered output buffer and ends any run of drops.
func (c *CodecCounters) OutputRendered() {
	c.mu.Lock()
	c.v.RenderedOutputBufferCount++
	c.consecutiveDropped = 0
	c.mu.Unlock()
}

// OutputSkipped records an output buffer skipped on purpose.
func (c *CodecCounters) OutputSkipped() {
	c.mu.Lock()
	c.v.SkippedOutputBufferCount++
	c.mu.Unlock()
}

// OutputDropped records a dropped output buffer and tracks the longest run.
func (c *CodecCounters) OutputDropped() {
	c.mu.Lock()
	c.v.DroppedOutputBufferCount++
	c.consecutiveDropped++
	if c.consecutiveDropped > c.v.MaxConsecutiveDroppedBufferCount {
		c.v.MaxConsecutiveDroppedBufferCount = c.consecutiveDropped
	}
	c.mu.Unlock()
}

// Snapshot returns a copy of the current values. A nil receiver yields zeros.
func (c *CodecCounters) Snapshot() CounterValues {
	if c == nil {
		return CounterValues{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}
