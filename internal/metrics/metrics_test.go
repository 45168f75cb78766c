package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestIncEmittedAndRejected(t *testing.T) {
	before := testutil.ToFloat64(dispatchEmitted.WithLabelValues("track_underrun"))
	IncEmitted("track_underrun")
	IncEmitted("track_underrun")
	if got := testutil.ToFloat64(dispatchEmitted.WithLabelValues("track_underrun")); got < before+2 {
		t.Fatalf("emitted = %v, want >= %v", got, before+2)
	}
	before = testutil.ToFloat64(dispatchRejected.WithLabelValues("codec_counters"))
	IncRejected("codec_counters")
	if got := testutil.ToFloat64(dispatchRejected.WithLabelValues("codec_counters")); got < before+1 {
		t.Fatalf("rejected = %v, want >= %v", got, before+1)
	}
}

func TestAddLooperUnits_IgnoresNonPositive(t *testing.T) {
	c := looperUnits.WithLabelValues("metrics-test", OutcomeDropped)
	before := testutil.ToFloat64(c)
	AddLooperUnits("metrics-test", OutcomeDropped, 0)
	AddLooperUnits("metrics-test", OutcomeDropped, -3)
	if got := testutil.ToFloat64(c); got != before {
		t.Fatalf("counter moved on non-positive add: %v -> %v", before, got)
	}
	AddLooperUnits("metrics-test", OutcomeDropped, 3)
	if got := testutil.ToFloat64(c); got != before+3 {
		t.Fatalf("counter = %v, want %v", got, before+3)
	}
}

func TestIncUnderrun_LabelsOutput(t *testing.T) {
	pcm := testutil.ToFloat64(underruns.WithLabelValues("pcm"))
	pt := testutil.ToFloat64(underruns.WithLabelValues("passthrough"))
	IncUnderrun(false)
	IncUnderrun(true)
	IncUnderrun(true)
	if got := testutil.ToFloat64(underruns.WithLabelValues("pcm")); got < pcm+1 {
		t.Fatalf("pcm underruns = %v, want >= %v", got, pcm+1)
	}
	if got := testutil.ToFloat64(underruns.WithLabelValues("passthrough")); got < pt+2 {
		t.Fatalf("passthrough underruns = %v, want >= %v", got, pt+2)
	}
}

func TestGaugesAndHistograms(t *testing.T) {
	SetQueueDepth("metrics-test", 7)
	if got := testutil.ToFloat64(looperDepth.WithLabelValues("metrics-test")); got != 7 {
		t.Fatalf("depth = %v, want 7", got)
	}
	SetCodecBuffers("dropped", 12)
	if got := testutil.ToFloat64(codecBuffers.WithLabelValues("dropped")); got != 12 {
		t.Fatalf("codec gauge = %v, want 12", got)
	}
	ObserveUnit("metrics-test", time.Millisecond)
	ObserveDecoderInit("", 5*time.Millisecond)
	ObserveHTTP("/x", "GET", "200", time.Millisecond)
	if n := testutil.CollectAndCount(decoderInitDuration); n < 1 {
		t.Fatalf("expected decoder init histogram series, got %d", n)
	}
}
