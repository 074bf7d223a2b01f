package dispatch

import (
	"sync"

	"github.com/hookforge/hookforge/pkg/herrors"
)

// runParallel launches every tap without waiting for its predecessors
// (spec §4.2 callTapsParallel). The first tap to fail reports the error
// exactly once and the invocation returns without waiting for the taps
// still running; subsequent completions (success or failure) are observed
// internally but suppressed from the outer result, the same "counter
// reaches zero" gate the spec describes, expressed here with a mutex-guarded
// latch instead of a decrementing counter. A single tap degrades to series.
func (d *Dispatcher) runParallel(ctx *InvocationContext, args []interface{}) (interface{}, error) {
	taps := d.snapshot.Taps
	if len(taps) <= 1 {
		return d.runSeries(ctx, args, taps)
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		settled  bool
		result   interface{}
		firstErr error
		errored  = make(chan struct{})
	)

	for _, tap := range taps {
		wg.Add(1)
		go func(tap *Tap) {
			defer wg.Done()

			tapResult, err := d.callTap(ctx, tap, args)

			mu.Lock()
			defer mu.Unlock()

			if settled {
				return
			}

			if err != nil {
				firstErr = herrors.WrapTapError(d.snapshot.HookName, tap.Name, herrors.SeverityCritical, err)
				settled = true
				close(errored)
				return
			}

			if tapResult != nil && d.snapshot.Template.Result == BailResult && result == nil {
				result = tapResult
				settled = true
			}
		}(tap)
	}

	allDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(allDone)
	}()

	select {
	case <-allDone:
	case <-errored:
	}

	mu.Lock()
	defer mu.Unlock()

	if firstErr != nil {
		return nil, firstErr
	}

	return result, nil
}
