// Package audio declares the events an audio renderer reports about itself
// and the Listener interface that observes them.
//
//   - event.go: Kind, the Event sum type and its three variants.
//   - listener.go: Listener and the ListenerFuncs adapter.
//   - counters.go: CodecCounters, the shared performance counters object.
//
// The package has no behavior of its own beyond Event.Deliver, which invokes
// the matching Listener callback. Scheduling lives in internal/dispatch.
package audio
