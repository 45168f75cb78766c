// Package simulate drives a dispatcher from several fake audio renderers,
// each on its own goroutine, the way a decode/render thread would.
package simulate

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"audioevents/internal/audio"
)

// 16-bit stereo PCM at 44.1kHz.
const (
	pcmFrameBytes = 4
	pcmSampleRate = 44100
)

// Emitter is the producer-side view of a dispatcher.
type Emitter interface {
	CodecCounters(counters *audio.CodecCounters)
	DecoderInitializedNow(decoderName string, initDurationMs int64)
	AudioTrackUnderrun(bufferSize int32, bufferSizeMs, elapsedSinceLastFeedMs int64)
}

// Options describes a simulation run.
type Options struct {
	Producers            int
	UnderrunsPerProducer int
	UnderrunInterval     time.Duration
	DecoderName          string
	BufferSizeBytes      int32
	Passthrough          bool
	Seed                 int64
}

// Summary reports what a run emitted.
type Summary struct {
	Producers          int           `json:"producers"`
	CodecCounters      int64         `json:"codec_counters"`
	DecoderInitialized int64         `json:"decoder_initialized"`
	TrackUnderruns     int64         `json:"track_underruns"`
	Elapsed            time.Duration `json:"elapsed_ns"`
}

// Total returns the number of events emitted.
func (s Summary) Total() int64 { return s.CodecCounters + s.DecoderInitialized + s.TrackUnderruns }

// BufferSizeMs converts a PCM buffer size to milliseconds of audio.
func BufferSizeMs(bufferSizeBytes int32) int64 {
	return int64(bufferSizeBytes) * 1000 / (pcmFrameBytes * pcmSampleRate)
}

type tally struct {
	counters, decoders, underruns atomic.Int64
}

// Run starts opts.Producers renderers and waits for all of them. Each
// renderer reports its counters when enabled, its decoder initialization,
// then UnderrunsPerProducer underruns spaced by UnderrunInterval. On
// cancellation Run returns the partial summary and ctx.Err().
func Run(ctx context.Context, em Emitter, opts Options) (Summary, error) {
	if opts.Producers <= 0 {
		return Summary{}, fmt.Errorf("producers must be positive: %d", opts.Producers)
	}
	start := time.Now()
	var t tally
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < opts.Producers; i++ {
		r := renderer{
			em:   em,
			opts: opts,
			rng:  rand.New(rand.NewSource(opts.Seed + int64(i))),
			t:    &t,
		}
		g.Go(func() error { return r.run(gctx) })
	}
	err := g.Wait()
	return Summary{
		Producers:          opts.Producers,
		CodecCounters:      t.counters.Load(),
		DecoderInitialized: t.decoders.Load(),
		TrackUnderruns:     t.underruns.Load(),
		Elapsed:            time.Since(start),
	}, err
}

type renderer struct {
	em   Emitter
	opts Options
	rng  *rand.Rand
	t    *tally
}

func (r renderer) run(ctx context.Context) error {
	counters := audio.NewCodecCounters()
	r.em.CodecCounters(counters)
	r.t.counters.Add(1)

	initMs := int64(1 + r.rng.Intn(20))
	counters.DecoderInitialized()
	// Every producer reports the same decoder name; it labels a histogram.
	r.em.DecoderInitializedNow(r.opts.DecoderName, initMs)
	r.t.decoders.Add(1)
	defer counters.DecoderReleased()

	bufferMs := audio.BufferSizeUnknown
	if !r.opts.Passthrough {
		bufferMs = BufferSizeMs(r.opts.BufferSizeBytes)
	}

	var timer *time.Timer
	if r.opts.UnderrunInterval > 0 {
		timer = time.NewTimer(r.opts.UnderrunInterval)
		defer timer.Stop()
	}
	for n := 0; n < r.opts.UnderrunsPerProducer; n++ {
		lastFeed := time.Now()
		r.feed(counters)
		if timer != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
				timer.Reset(r.opts.UnderrunInterval)
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		elapsed := time.Since(lastFeed).Milliseconds()
		r.em.AudioTrackUnderrun(r.opts.BufferSizeBytes, bufferMs, elapsed)
		r.t.underruns.Add(1)
	}
	return nil
}

// feed pushes a handful of buffers through the counters, dropping some.
func (r renderer) feed(c *audio.CodecCounters) {
	for i := 0; i < 4; i++ {
		c.InputBuffer()
		switch r.rng.Intn(10) {
		case 0:
			c.OutputDropped()
		case 1:
			c.OutputSkipped()
		default:
			c.OutputRendered()
		}
	}
}
