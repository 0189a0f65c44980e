package godefer

import (
	"sync"

	"github.com/eapache/queue"
)

// Loop is a serial task executor: the single delivery context on which all
// continuations are expected to run. Producers doing their work on worker
// goroutines re-enter the Loop with Dispatch before invoking a continuation,
// so continuations never race against each other.
//
// The Loop starts running immediately upon creation, like the other
// primitives in this package.
type Loop struct {
	mu      sync.Mutex
	notify  *sync.Cond
	pending *queue.Queue
	running bool
	wg      sync.WaitGroup
}

// NewLoop creates a Loop and starts its goroutine.
func NewLoop() *Loop {
	out := &Loop{pending: queue.New()}
	out.notify = sync.NewCond(&out.mu)
	out.start()
	return out
}

// Dispatch enqueues fn to run on the Loop, after every task enqueued before
// it. Dispatch never blocks, so it is safe to call from within a task that
// is itself running on the Loop. Tasks dispatched after Stop are discarded.
// Panics if fn is nil.
func (l *Loop) Dispatch(fn func()) {
	if fn == nil {
		panic("Cannot dispatch a nil task")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.running {
		return
	}
	l.pending.Add(fn)
	l.notify.Signal()
}

// IsRunning returns true until Stop has been called.
func (l *Loop) IsRunning() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Stop runs the tasks already enqueued, then stops the Loop and waits for
// its goroutine to exit. Stopping twice is harmless.
func (l *Loop) Stop() {
	l.mu.Lock()
	l.running = false
	l.notify.Broadcast()
	l.mu.Unlock()
	l.wg.Wait()
}

func (l *Loop) start() {
	l.running = true
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		l.mu.Lock()
		for {
			for l.running && l.pending.Length() == 0 {
				l.notify.Wait()
			}
			if l.pending.Length() == 0 {
				// Stopped and drained.
				l.mu.Unlock()
				return
			}
			task := l.pending.Remove().(func())
			l.mu.Unlock()
			task()
			l.mu.Lock()
		}
	}()
}
