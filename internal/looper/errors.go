package looper

import "errors"

var (
	// ErrQuit is returned by Post once Quit or QuitSafely has been called.
	ErrQuit = errors.New("looper has quit")

	// ErrQueueFull is returned by Post when WithMaxPending is set and the
	// queue is at capacity.
	ErrQueueFull = errors.New("looper queue is full")

	// ErrAlreadyRunning is returned when a second consumer tries to run
	// the same looper.
	ErrAlreadyRunning = errors.New("looper is already running")

	// ErrNilUnit is returned when Post is given a nil func.
	ErrNilUnit = errors.New("nil unit")
)
