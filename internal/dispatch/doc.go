// Package dispatch delivers audio renderer events to a single Listener on a
// designated execution context.
//
// A Dispatcher is built once with New and is either inert (no listener) or
// armed (listener plus target Executor). Emitting on an inert dispatcher does
// nothing. Emitting on an armed dispatcher captures the event by value, posts
// one delivery unit to the Executor and returns; the listener is never called
// on the producer's goroutine, even when the producer is the Executor's own
// consumer.
//
// Ordering: units posted by one goroutine are delivered in the order that
// goroutine emitted them, provided the Executor is FIFO. Events emitted
// concurrently from different goroutines are delivered in whatever order the
// Executor accepted them; there is no global ordering across producers.
//
// If the Executor refuses a unit (for example because its loop has quit) the
// event is dropped. The refusal is counted and logged at debug level and is
// never reported to the producer.
package dispatch
