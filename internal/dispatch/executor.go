package dispatch

import "fmt"

// Executor is the target execution context. Post must be safe for concurrent
// use, must not wait for unit to run, and must run accepted units one at a
// time in the order it accepted them. A unit posted from inside a running
// unit goes to the back of the queue.
type Executor interface {
	Post(unit func()) error
}

// ExecutorFunc adapts a function to an Executor.
type ExecutorFunc func(unit func()) error

// Post calls f(unit).
func (f ExecutorFunc) Post(unit func()) error { return f(unit) }

// post hands unit to target. A panicking Executor is reported as a refusal.
func post(target Executor, unit func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("executor panicked: %v", r)
		}
	}()
	return target.Post(unit)
}
