package godefer

import "sync"

// joinState is the working state of one JoinAll subscription. It is the only
// shared mutable structure in the package; every field is guarded by mu so
// the single-writer discipline holds even when branch producers misbehave
// and call back from arbitrary goroutines.
type joinState[S any] struct {
	mu      sync.Mutex
	results []S
	seen    []bool
	arrived int
	done    bool // terminal: the aggregate continuation has been chosen
}

// JoinAll joins N independently-constructed Deferreds into one Deferred
// whose success continuation fires with the N results ordered by input
// position (index 0..N-1, regardless of completion order) once all inputs
// have succeeded, and whose failure continuation fires with the first
// observed failure as soon as any input fails.
//
// Subscribing to the returned Deferred subscribes to all inputs; no
// ordering is imposed on when the underlying producers run or complete,
// only the result sequence is ordered. After the first failure the
// aggregate is terminal: later successes are ignored and a second failure
// never re-fires the failure continuation. Failure payloads pass through
// unwrapped.
//
// JoinAll with zero inputs succeeds immediately with an empty sequence.
func JoinAll[S any, F any](sources ...Deferred[S, F]) Deferred[[]S, F] {
	if len(sources) == 0 {
		return Resolved[[]S, F]([]S{})
	}
	n := len(sources)
	return New(func(succeed func([]S), fail func(F)) {
		st := &joinState[S]{
			results: make([]S, n),
			seen:    make([]bool, n),
		}
		for i, source := range sources {
			index := i
			source.Subscribe(func(value S) {
				st.mu.Lock()
				if st.done || st.seen[index] {
					st.mu.Unlock()
					return
				}
				st.seen[index] = true
				st.results[index] = value
				st.arrived++
				complete := st.arrived == n
				if complete {
					st.done = true
				}
				st.mu.Unlock()
				// Invoked outside the lock so a continuation that
				// re-enters the aggregator cannot deadlock it.
				if complete {
					succeed(st.results)
				}
			}, func(failure F) {
				st.mu.Lock()
				if st.done {
					st.mu.Unlock()
					return
				}
				st.done = true
				st.mu.Unlock()
				fail(failure)
			})
		}
	})
}
