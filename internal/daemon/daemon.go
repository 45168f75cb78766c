// Package daemon wires the delivery loop, dispatcher and observers together
// and exposes them to the HTTP layer.
package daemon

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"audioevents/internal/config"
	"audioevents/internal/dispatch"
	"audioevents/internal/looper"
	"audioevents/internal/observer"
	"audioevents/internal/simulate"
	"audioevents/pkg/types"
)

// LooperName labels the control loop in logs and metrics.
const LooperName = "control"

// Daemon owns one control loop and one dispatcher armed with the logging,
// metrics and recording observers.
type Daemon struct {
	cfg        config.Config
	log        zerolog.Logger
	loop       *looper.Looper
	recorder   *observer.Recorder
	dispatcher *dispatch.Dispatcher
	startTime  time.Time
}

// New builds a Daemon from cfg; unset fields take their defaults. The loop
// is not started.
func New(cfg config.Config, log zerolog.Logger) (*Daemon, error) {
	cfg.ApplyDefaults()
	loop := looper.New(
		looper.WithName(LooperName),
		looper.WithLogger(log),
		looper.WithMaxPending(cfg.MaxPending),
	)
	rec := observer.NewRecorder(cfg.RecorderCapacity)
	listener := observer.Tee{
		observer.NewLogger(log.With().Str("component", "observer").Logger()),
		observer.Metrics{},
		rec,
	}
	d, err := dispatch.New(loop, listener, dispatch.WithLogger(log))
	if err != nil {
		return nil, err
	}
	return &Daemon{
		cfg:        cfg,
		log:        log,
		loop:       loop,
		recorder:   rec,
		dispatcher: d,
		startTime:  time.Now(),
	}, nil
}

// Config returns the effective configuration.
func (d *Daemon) Config() config.Config { return d.cfg }

// Dispatcher returns the armed dispatcher producers emit on.
func (d *Daemon) Dispatcher() *dispatch.Dispatcher { return d.dispatcher }

// Start runs the control loop on its own goroutine.
func (d *Daemon) Start() error {
	if err := d.loop.Start(); err != nil {
		return err
	}
	d.log.Info().Str("looper", LooperName).Int("max_pending", d.cfg.MaxPending).Msg("control loop started")
	return nil
}

// Simulate runs the configured renderers against the dispatcher.
func (d *Daemon) Simulate(ctx context.Context) (simulate.Summary, error) {
	opts := simulate.Options{
		Producers:            d.cfg.Producers,
		UnderrunsPerProducer: d.cfg.UnderrunsPerProducer,
		UnderrunInterval:     time.Duration(d.cfg.UnderrunIntervalMs) * time.Millisecond,
		DecoderName:          d.cfg.DecoderName,
		BufferSizeBytes:      d.cfg.BufferSizeBytes,
		Passthrough:          d.cfg.Passthrough,
		Seed:                 d.cfg.Seed,
	}
	sum, err := simulate.Run(ctx, d.dispatcher, opts)
	ev := d.log.Info()
	if err != nil {
		ev = d.log.Warn().Err(err)
	}
	ev.Int("producers", sum.Producers).
		Int64("events", sum.Total()).
		Dur("elapsed", sum.Elapsed).
		Msg("simulation finished")
	return sum, err
}

// Sync waits until every event emitted so far has been delivered.
func (d *Daemon) Sync(ctx context.Context) error { return d.loop.Sync(ctx) }

// Shutdown stops accepting events, lets queued ones run and waits for the
// loop to exit. If ctx ends first the remaining events are dropped.
func (d *Daemon) Shutdown(ctx context.Context) error {
	d.loop.QuitSafely()
	select {
	case <-d.loop.Done():
		d.log.Info().Msg("control loop stopped")
		return nil
	case <-ctx.Done():
		d.loop.Quit()
		d.log.Warn().Err(ctx.Err()).Uint64("dropped", d.loop.Stats().Dropped).Msg("control loop stopped before draining")
		return ctx.Err()
	}
}

// Ready reports whether the control loop is running and accepting events.
func (d *Daemon) Ready() bool {
	s := d.loop.Stats()
	return s.Running && !s.Quit
}

// Stats implements httpapi.Service.
func (d *Daemon) Stats() types.StatsResponse {
	s := d.loop.Stats()
	now := time.Now()
	return types.StatsResponse{
		Looper: types.LooperStatus{
			Name:     s.Name,
			Posted:   s.Posted,
			Executed: s.Executed,
			Dropped:  s.Dropped,
			Rejected: s.Rejected,
			Panicked: s.Panicked,
			Depth:    s.Depth,
			Running:  s.Running,
			Quit:     s.Quit,
		},
		Armed:          d.dispatcher.Armed(),
		Recorded:       d.recorder.Len(),
		UptimeSeconds:  int64(now.Sub(d.startTime).Seconds()),
		ServerTimeUnix: now.Unix(),
	}
}

// Events implements httpapi.Service.
func (d *Daemon) Events(limit int) types.EventsResponse {
	recs := d.recorder.Events()
	if limit > 0 && len(recs) > limit {
		recs = recs[len(recs)-limit:]
	}
	out := make([]types.EventRecord, 0, len(recs))
	for _, r := range recs {
		out = append(out, toEventRecord(r))
	}
	return types.EventsResponse{Events: out, Total: d.recorder.Total()}
}
