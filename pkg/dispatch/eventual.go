package dispatch

import "sync"

// Eventual is the library's thenable: a single-assignment future that a
// tapPromise function returns, and that Hook.Promise resolves or rejects
// with the orchestration's outer onResult/onError. It plays the role of a
// JavaScript Promise without borrowing Go's standard error-channel idioms,
// since callers need the "attach handlers later, possibly after settlement"
// semantics the dispatcher's sync-leak guard depends on.
type Eventual struct {
	mu      sync.Mutex
	done    bool
	value   interface{}
	err     error
	waiters []chan struct{}
}

// NewEventual returns an unsettled Eventual.
func NewEventual() *Eventual {
	return &Eventual{}
}

// Resolve settles the Eventual with a value. Subsequent settlements are ignored.
func (e *Eventual) Resolve(v interface{}) {
	e.settle(v, nil)
}

// Reject settles the Eventual with an error. Subsequent settlements are ignored.
func (e *Eventual) Reject(err error) {
	e.settle(nil, err)
}

func (e *Eventual) settle(v interface{}, err error) {
	e.mu.Lock()
	if e.done {
		e.mu.Unlock()
		return
	}

	e.done = true
	e.value = v
	e.err = err
	waiters := e.waiters
	e.waiters = nil
	e.mu.Unlock()

	for _, w := range waiters {
		close(w)
	}
}

// Await blocks until the Eventual settles and returns its outcome.
func (e *Eventual) Await() (interface{}, error) {
	e.mu.Lock()
	if e.done {
		v, err := e.value, e.err
		e.mu.Unlock()
		return v, err
	}

	ch := make(chan struct{})
	e.waiters = append(e.waiters, ch)
	e.mu.Unlock()

	<-ch

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value, e.err
}

// Then registers fulfillment/rejection handlers. Handlers always run on a
// fresh goroutine, never synchronously with the call to Then, mirroring a
// Promise's microtask deferral: a caller that calls Then immediately after
// receiving the Eventual is guaranteed to have done so before any handler runs.
func (e *Eventual) Then(onFulfilled func(interface{}), onRejected func(error)) {
	go func() {
		v, err := e.Await()
		if err != nil {
			if onRejected != nil {
				onRejected(err)
			}
			return
		}
		if onFulfilled != nil {
			onFulfilled(v)
		}
	}()
}
