package godefer

import "sync/atomic"

// Producer is the closure stored inside a Deferred. It receives the two
// continuations when a consumer subscribes, performs (or kicks off) the
// asynchronous work, and eventually invokes exactly one continuation with
// its payload. A producer that completes on a worker goroutine must deliver
// the continuation call through the designated Loop.
type Producer[S any, F any] func(succeed func(S), fail func(F))

// Deferred represents a single eventual success-or-failure result without
// the consumer needing to know how the result is produced. It is an
// immutable value holding one producer closure; constructing it has no side
// effects and the producer is not invoked until Subscribe.
//
// A Deferred supports exactly one subscription. Subscribing a second time
// would re-invoke the producer and re-run its side effects (for example a
// duplicate network request), so the second call panics instead.
type Deferred[S any, F any] struct {
	produce    Producer[S, F]
	subscribed *atomic.Bool
}

// New creates a Deferred wrapping the given producer. The producer is not
// invoked. Panics if produce is nil.
func New[S any, F any](produce Producer[S, F]) Deferred[S, F] {
	if produce == nil {
		panic("Cannot create a Deferred with a nil producer")
	}
	return Deferred[S, F]{
		produce:    produce,
		subscribed: &atomic.Bool{},
	}
}

// Resolved creates an already-settled Deferred that succeeds with value as
// soon as it is subscribed.
func Resolved[S any, F any](value S) Deferred[S, F] {
	return New(func(succeed func(S), fail func(F)) {
		succeed(value)
	})
}

// Rejected creates an already-settled Deferred that fails with failure as
// soon as it is subscribed.
func Rejected[S any, F any](failure F) Deferred[S, F] {
	return New(func(succeed func(S), fail func(F)) {
		fail(failure)
	})
}

// Subscribe registers the two continuations by dispatching them to the
// stored producer, synchronously and unchanged. Whichever continuation the
// producer eventually invokes receives exactly the payload the producer
// passed; nothing is transformed, buffered or replayed in transit.
//
// Panics if either continuation is nil, or if this Deferred has already
// been subscribed.
func (d Deferred[S, F]) Subscribe(onSuccess func(S), onFailure func(F)) {
	if onSuccess == nil || onFailure == nil {
		panic("Cannot subscribe with nil continuations")
	}
	if d.subscribed.Swap(true) {
		panic("Cannot subscribe twice to the same Deferred")
	}
	d.produce(onSuccess, onFailure)
}
