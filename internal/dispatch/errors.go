package dispatch

import (
	"errors"

	"audioevents/internal/audio"
)

// invalidConfigurationError signals a listener supplied without a target.
type invalidConfigurationError struct{ msg string }

func (e invalidConfigurationError) Error() string { return "invalid configuration: " + e.msg }

// ErrInvalidConfiguration is returned by New when a listener is given without
// an Executor to deliver on.
var ErrInvalidConfiguration error = invalidConfigurationError{msg: "listener requires a target executor"}

// IsInvalidConfiguration reports whether err came from an invalid New call.
func IsInvalidConfiguration(err error) bool {
	var e invalidConfigurationError
	return errors.As(err, &e)
}

// dispatchRejectedError records an event the Executor would not accept.
type dispatchRejectedError struct {
	kind audio.Kind
	err  error
}

func (e dispatchRejectedError) Error() string {
	return "dispatch rejected: " + e.kind.String() + ": " + e.err.Error()
}

func (e dispatchRejectedError) Unwrap() error { return e.err }

// ErrDispatchRejected wraps the Executor's refusal for kind.
func ErrDispatchRejected(kind audio.Kind, err error) error {
	return dispatchRejectedError{kind: kind, err: err}
}

// IsDispatchRejected reports whether err describes a refused delivery unit.
func IsDispatchRejected(err error) bool {
	var e dispatchRejectedError
	return errors.As(err, &e)
}
