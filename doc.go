// Package godefer provides a minimal deferred-value abstraction for
// decoupling the consumer of a single asynchronous result from its producer.
//
// The main components include:
//
//   - Deferred: An immutable value wrapping one producer closure; a consumer registers a success and a failure continuation once via Subscribe, and the producer eventually invokes exactly one of them
//   - JoinAll: A combinator joining N independent Deferreds into one whose success is the ordered list of all N results (in input order, not completion order) and whose failure is the first failure among them
//   - Loop: A serial task executor acting as the single delivery context; producers completing on worker goroutines re-enter it via Dispatch so that no two continuations ever run concurrently
//
// Deferreds never transform, buffer, or replay the payloads flowing through
// them; all failure handling belongs to the caller's failure continuation.
// Cancellation, timeouts, retries and multi-step chaining are out of scope.
package godefer
