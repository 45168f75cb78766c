// Package observer provides audio.Listener implementations used by the
// daemon: structured logging, an in-memory recorder, Prometheus export, and
// Tee to combine them behind one dispatcher.
package observer
