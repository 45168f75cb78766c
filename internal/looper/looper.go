// Package looper provides a FIFO, single-consumer work loop. Units posted from
// any goroutine run one at a time, in the order Post accepted them, on the
// goroutine that runs the loop.
package looper

import (
	"context"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"audioevents/internal/metrics"
)

const defaultName = "main"

// Looper is a FIFO work queue drained by a single consumer goroutine.
// The queue is unbounded unless WithMaxPending is used; Post never waits
// for a unit to run.
type Looper struct {
	name       string
	maxPending int
	log        zerolog.Logger

	mu       sync.Mutex
	queue    []func()
	quitting bool
	running  bool

	wake     chan struct{}
	done     chan struct{}
	doneOnce sync.Once

	posted   atomic.Uint64
	executed atomic.Uint64
	dropped  atomic.Uint64
	rejected atomic.Uint64
	panicked atomic.Uint64
}

// Option configures a Looper.
type Option func(*Looper)

// WithName sets the name used in logs and metric labels.
func WithName(name string) Option {
	return func(l *Looper) {
		if name != "" {
			l.name = name
		}
	}
}

// WithLogger sets the logger used to report panicking units.
func WithLogger(log zerolog.Logger) Option {
	return func(l *Looper) { l.log = log }
}

// WithMaxPending caps the number of queued units. Zero means unbounded.
func WithMaxPending(n int) Option {
	return func(l *Looper) {
		if n > 0 {
			l.maxPending = n
		}
	}
}

// New creates a looper. Nothing runs until Run, Start or RunPending is called.
func New(opts ...Option) *Looper {
	l := &Looper{
		name: defaultName,
		log:  zerolog.Nop(),
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Name returns the looper name.
func (l *Looper) Name() string { return l.name }

// Post appends fn to the queue. It is safe for concurrent use and returns
// without waiting for fn to run.
func (l *Looper) Post(fn func()) error {
	if fn == nil {
		return ErrNilUnit
	}
	l.mu.Lock()
	if l.quitting {
		l.mu.Unlock()
		l.reject()
		return ErrQuit
	}
	if l.maxPending > 0 && len(l.queue) >= l.maxPending {
		l.mu.Unlock()
		l.reject()
		return ErrQueueFull
	}
	l.queue = append(l.queue, fn)
	depth := len(l.queue)
	l.mu.Unlock()

	l.posted.Add(1)
	metrics.AddLooperUnits(l.name, metrics.OutcomePosted, 1)
	metrics.SetQueueDepth(l.name, depth)
	l.signal()
	return nil
}

func (l *Looper) reject() {
	l.rejected.Add(1)
	metrics.AddLooperUnits(l.name, metrics.OutcomeRejected, 1)
}

func (l *Looper) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run makes the calling goroutine the looper's consumer. It returns nil once
// the looper has quit and has nothing left to run. If ctx ends first the
// looper is quit, pending units are dropped, and ctx.Err() is returned.
func (l *Looper) Run(ctx context.Context) error {
	if err := l.acquire(); err != nil {
		return err
	}
	return l.loop(ctx)
}

// Start runs the loop on a new goroutine until Quit or QuitSafely.
func (l *Looper) Start() error {
	if err := l.acquire(); err != nil {
		return err
	}
	go func() { _ = l.loop(context.Background()) }()
	return nil
}

func (l *Looper) acquire() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return ErrAlreadyRunning
	}
	l.running = true
	return nil
}

func (l *Looper) release() {
	l.mu.Lock()
	l.running = false
	l.finishLocked()
	l.mu.Unlock()
}

func (l *Looper) loop(ctx context.Context) error {
	defer l.release()
	for {
		if err := ctx.Err(); err != nil {
			l.Quit()
			return err
		}
		fn, quit := l.take()
		if fn != nil {
			l.execute(fn)
			continue
		}
		if quit {
			return nil
		}
		select {
		case <-l.wake:
		case <-ctx.Done():
			l.Quit()
			return ctx.Err()
		}
	}
}

// take pops the head of the queue. When the queue is empty it reports
// whether the looper is quitting.
func (l *Looper) take() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil, l.quitting
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	metrics.SetQueueDepth(l.name, len(l.queue))
	return fn, false
}

func (l *Looper) execute(fn func()) {
	start := time.Now()
	defer func() {
		metrics.ObserveUnit(l.name, time.Since(start))
		if r := recover(); r != nil {
			l.panicked.Add(1)
			metrics.AddLooperUnits(l.name, metrics.OutcomePanicked, 1)
			l.log.Error().
				Str("looper", l.name).
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("unit panicked")
			return
		}
		l.executed.Add(1)
		metrics.AddLooperUnits(l.name, metrics.OutcomeExecuted, 1)
	}()
	fn()
}

// RunPending runs the units queued at the time of the call on the calling
// goroutine and returns how many ran. Units posted meanwhile wait for the
// next call. It fails with ErrAlreadyRunning while another consumer is active.
func (l *Looper) RunPending() (int, error) {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return 0, ErrAlreadyRunning
	}
	l.running = true
	n := len(l.queue)
	l.mu.Unlock()
	defer l.release()

	ran := 0
	for ran < n {
		fn, _ := l.take()
		if fn == nil {
			break
		}
		l.execute(fn)
		ran++
	}
	return ran, nil
}

// Quit stops accepting units and drops everything still queued. A unit that
// is already running finishes.
func (l *Looper) Quit() {
	l.mu.Lock()
	l.quitting = true
	n := len(l.queue)
	l.queue = nil
	l.finishLocked()
	l.mu.Unlock()

	if n > 0 {
		l.dropped.Add(uint64(n))
		metrics.AddLooperUnits(l.name, metrics.OutcomeDropped, n)
		l.log.Debug().Str("looper", l.name).Int("dropped", n).Msg("looper quit")
	}
	metrics.SetQueueDepth(l.name, 0)
	l.signal()
}

// QuitSafely stops accepting units; those already queued still run.
func (l *Looper) QuitSafely() {
	l.mu.Lock()
	l.quitting = true
	l.finishLocked()
	l.mu.Unlock()
	l.signal()
}

// finishLocked closes done once the looper has quit, drained and has no
// active consumer. l.mu must be held.
func (l *Looper) finishLocked() {
	if l.quitting && !l.running && len(l.queue) == 0 {
		l.doneOnce.Do(func() { close(l.done) })
	}
}

// Done is closed when the looper has quit and no consumer is running.
func (l *Looper) Done() <-chan struct{} { return l.done }

// Sync waits until every unit posted before the call has run.
//
// Sync must not be called from a unit running on this looper: the barrier
// queues behind the caller, so such a call only returns when ctx ends.
func (l *Looper) Sync(ctx context.Context) error {
	barrier := make(chan struct{})
	if err := l.Post(func() { close(barrier) }); err != nil {
		return err
	}
	select {
	case <-barrier:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		select {
		case <-barrier:
			return nil
		default:
			return ErrQuit
		}
	}
}

// Stats is a snapshot of looper counters.
type Stats struct {
	Name     string
	Posted   uint64
	Executed uint64
	Dropped  uint64
	Rejected uint64
	Panicked uint64
	Depth    int
	Running  bool
	Quit     bool
}

// Stats returns current counters.
func (l *Looper) Stats() Stats {
	l.mu.Lock()
	depth, running, quit := len(l.queue), l.running, l.quitting
	l.mu.Unlock()
	return Stats{
		Name:     l.name,
		Posted:   l.posted.Load(),
		Executed: l.executed.Load(),
		Dropped:  l.dropped.Load(),
		Rejected: l.rejected.Load(),
		Panicked: l.panicked.Load(),
		Depth:    depth,
		Running:  running,
		Quit:     quit,
	}
}

// Running reports whether a consumer is currently draining the queue.
func (l *Looper) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}
