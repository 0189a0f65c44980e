package godefer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testTimeout = 5 * time.Second

// withTimeout wraps a channel receive with a timeout
func withTimeout[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case val := <-ch:
		return val
	case <-time.After(testTimeout):
		t.Fatal("Test timed out waiting for channel receive")
		var zero T
		return zero
	}
}

func TestDeferredConstructionHasNoSideEffects(t *testing.T) {
	invoked := false
	d := New(func(succeed func(int), fail func(error)) {
		invoked = true
	})
	assert.False(t, invoked, "Producer must not run at construction time")

	d.Subscribe(func(int) {}, func(error) {})
	assert.True(t, invoked, "Subscribe must dispatch to the producer")
}

func TestDeferredDeliversSuccessExactlyOnce(t *testing.T) {
	payload := &struct{ name string }{name: "payload"}
	successes := 0
	failures := 0

	d := New(func(succeed func(*struct{ name string }), fail func(error)) {
		succeed(payload)
	})
	d.Subscribe(func(got *struct{ name string }) {
		successes++
		// Pass-through: the very same pointer the producer supplied.
		assert.Same(t, payload, got)
	}, func(error) {
		failures++
	})

	assert.Equal(t, 1, successes)
	assert.Equal(t, 0, failures)
}

func TestDeferredDeliversFailureExactlyOnce(t *testing.T) {
	reason := assert.AnError
	successes := 0
	var got error

	d := New(func(succeed func(string), fail func(error)) {
		fail(reason)
	})
	d.Subscribe(func(string) {
		successes++
	}, func(err error) {
		got = err
	})

	assert.Equal(t, 0, successes)
	assert.Same(t, reason, got, "Failure payload must pass through unchanged")
}

func TestDeferredAsyncDeliveryViaLoop(t *testing.T) {
	loop := NewLoop()
	defer loop.Stop()

	resultChan := make(chan string, 1)
	d := New(func(succeed func(string), fail func(error)) {
		go func() {
			time.Sleep(5 * time.Millisecond)
			loop.Dispatch(func() { succeed("done") })
		}()
	})
	d.Subscribe(func(v string) { resultChan <- v }, func(error) {
		t.Error("Failure continuation must not fire")
	})

	assert.Equal(t, "done", withTimeout(t, resultChan))
}

func TestDeferredSecondSubscribePanics(t *testing.T) {
	d := New(func(succeed func(int), fail func(error)) {
		succeed(1)
	})
	d.Subscribe(func(int) {}, func(error) {})

	assert.Panics(t, func() {
		d.Subscribe(func(int) {}, func(error) {})
	}, "A second subscription would re-run the producer's side effects")
}

func TestDeferredNilArgumentsPanic(t *testing.T) {
	assert.Panics(t, func() {
		New[int, error](nil)
	})

	d := Resolved[int, error](42)
	assert.Panics(t, func() {
		d.Subscribe(nil, func(error) {})
	})
}

func TestResolvedAndRejected(t *testing.T) {
	var value int
	Resolved[int, error](7).Subscribe(func(v int) { value = v }, func(error) {
		t.Error("Resolved must not fail")
	})
	assert.Equal(t, 7, value)

	var reason string
	Rejected[int, string]("nope").Subscribe(func(int) {
		t.Error("Rejected must not succeed")
	}, func(f string) { reason = f })
	assert.Equal(t, "nope", reason)
}
