package audio

import (
	"sync"
	"testing"
)

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		KindCodecCounters:      "codec_counters",
		KindDecoderInitialized: "decoder_initialized",
		KindTrackUnderrun:      "track_underrun",
		Kind(99):               "unknown",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Fatalf("Kind(%d).String() = %q, want %q", int(k), got, want)
		}
	}
	if len(Kinds) != 3 {
		t.Fatalf("expected 3 kinds, got %d", len(Kinds))
	}
}

func TestEventDeliver_InvokesMatchingCallback(t *testing.T) {
	var got []string
	counters := NewCodecCounters()
	l := ListenerFuncs{
		CodecCounters: func(c *CodecCounters) {
			if c != counters {
				t.Fatalf("counters pointer not passed through")
			}
			got = append(got, "counters")
		},
		DecoderInitialized: func(name string, at, dur int64) {
			if name != "opus" || at != 10 || dur != 3 {
				t.Fatalf("unexpected decoder args: %q %d %d", name, at, dur)
			}
			got = append(got, "decoder")
		},
		TrackUnderrun: func(size int32, ms, elapsed int64) {
			if size != 4096 || ms != BufferSizeUnknown || elapsed != 120 {
				t.Fatalf("unexpected underrun args: %d %d %d", size, ms, elapsed)
			}
			got = append(got, "underrun")
		},
	}
	events := []Event{
		CodecCountersEvent{Counters: counters},
		DecoderInitializedEvent{DecoderName: "opus", InitializedAtMs: 10, InitDurationMs: 3},
		TrackUnderrunEvent{BufferSizeBytes: 4096, BufferSizeMs: BufferSizeUnknown, ElapsedSinceLastFeedMs: 120},
	}
	for i, e := range events {
		if e.Kind() != Kinds[i] {
			t.Fatalf("event %d kind = %v, want %v", i, e.Kind(), Kinds[i])
		}
		e.Deliver(l)
	}
	want := []string{"counters", "decoder", "underrun"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestListenerFuncs_NilFieldsAreSkipped(t *testing.T) {
	var l ListenerFuncs
	l.OnAudioCodecCounters(nil)
	l.OnAudioDecoderInitialized("x", 0, 0)
	l.OnAudioTrackUnderrun(0, 0, 0)
}

func TestTrackUnderrunPassthrough(t *testing.T) {
	if !(TrackUnderrunEvent{BufferSizeMs: BufferSizeUnknown}).Passthrough() {
		t.Fatalf("expected passthrough for -1")
	}
	if (TrackUnderrunEvent{BufferSizeMs: 250}).Passthrough() {
		t.Fatalf("unexpected passthrough for PCM buffer")
	}
}

func TestCodecCounters_ConsecutiveDrops(t *testing.T) {
	c := NewCodecCounters()
	c.OutputDropped()
	c.OutputDropped()
	c.OutputRendered()
	c.OutputDropped()
	s := c.Snapshot()
	if s.DroppedOutputBufferCount != 3 {
		t.Fatalf("dropped = %d, want 3", s.DroppedOutputBufferCount)
	}
	if s.MaxConsecutiveDroppedBufferCount != 2 {
		t.Fatalf("max consecutive = %d, want 2", s.MaxConsecutiveDroppedBufferCount)
	}
	if s.RenderedOutputBufferCount != 1 {
		t.Fatalf("rendered = %d, want 1", s.RenderedOutputBufferCount)
	}
}

func TestCodecCounters_ConcurrentUpdates(t *testing.T) {
	c := NewCodecCounters()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.InputBuffer()
				_ = c.Snapshot()
			}
		}()
	}
	wg.Wait()
	if got := c.Snapshot().InputBufferCount; got != 800 {
		t.Fatalf("input buffers = %d, want 800", got)
	}
}

func TestCodecCounters_NilSnapshot(t *testing.T) {
	var c *CodecCounters
	if (c.Snapshot() != CounterValues{}) {
		t.Fatalf("nil snapshot should be zero")
	}
}

func TestCodecCounters_EachMutatorCounts(t *testing.T) {
	c := NewCodecCounters()
	c.DecoderInitialized()
	c.DecoderReleased()
	c.InputBuffer()
	c.OutputSkipped()
	c.OutputSkipped()
	want := CounterValues{
		DecoderInitCount:         1,
		DecoderReleaseCount:      1,
		InputBufferCount:         1,
		SkippedOutputBufferCount: 2,
	}
	if got := c.Snapshot(); got != want {
		t.Fatalf("snapshot = %+v, want %+v", got, want)
	}
}
