// Package dispatch is the hook code factory: given a snapshot of taps,
// interceptors, and argument arity, it produces a Dispatcher specialized to
// that snapshot's orchestration (series, looping, parallel) and calling
// convention (sync, async, promise). A real dynamic-dispatch compiler would
// synthesize source text for this; this package instead builds a tree of
// closures parameterized by the continuation protocol, which the spec's
// design notes call out as an equally conforming strategy.
package dispatch

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/hookforge/hookforge/pkg/herrors"
)

// Orchestration selects how taps are composed.
type Orchestration int

const (
	// Series runs taps one after another, short-circuiting on error.
	Series Orchestration = iota
	// Looping re-runs a series while any tap keeps producing a defined result.
	Looping
	// Parallel launches every tap without waiting for its predecessors.
	Parallel
)

// ResultPolicy controls what a tap's non-nil result means to the orchestration.
type ResultPolicy int

const (
	// IgnoreResult means tap results are discarded; only errors and
	// completion matter (the "basic" hooks).
	IgnoreResult ResultPolicy = iota
	// BailResult means the first tap to produce a non-nil result short-circuits
	// the remaining taps and becomes the invocation's result.
	BailResult
	// WaterfallResult means a tap's non-nil result replaces the first
	// argument passed to the next tap, and the last non-nil result wins.
	WaterfallResult
)

// Template names one of the five standard flavor shapes (spec.md §1 Non-goals
// lists these as derivations of this package, not independently specified).
type Template struct {
	Orchestration Orchestration
	Result        ResultPolicy
}

// Snapshot is C2's input contract: the registry state captured at the
// moment a dispatcher is synthesized. A Dispatcher built from a Snapshot
// never observes registrations that happen after Compile returns.
type Snapshot struct {
	Taps         []*Tap
	Interceptors []*Interceptor
	Args         []string
	Template     Template
	// HookName is used only for error annotation.
	HookName string
	// OnTapInvoked, if set, is called once per tap execution attempt. It
	// lets a host wire in instrumentation (pkg/telemetry) without this
	// package importing it.
	OnTapInvoked func(tapName string)
}

// Dispatcher is the callable produced by Compile, exposing the three
// calling conventions over one compiled snapshot.
type Dispatcher struct {
	snapshot Snapshot
}

// Compile synthesizes a Dispatcher for the given snapshot. The base
// contract (an abstract "compile" with no orchestration) is represented by
// a Template whose Orchestration is none of Series, Looping or Parallel,
// which Compile rejects with herrors.ErrAbstractOverride to mirror the JS
// base class raising "Abstract: should be overridden". The zero Template{}
// is not abstract: it is a Series orchestration with IgnoreResult.
func Compile(snap Snapshot) (*Dispatcher, error) {
	switch snap.Template.Orchestration {
	case Series, Looping, Parallel:
	default:
		return nil, herrors.NewAbstractOverride()
	}

	return &Dispatcher{snapshot: snap}, nil
}

// Call is the sync calling convention: it runs the orchestration to
// completion on the calling goroutine and returns its outcome directly.
func (d *Dispatcher) Call(args ...interface{}) (interface{}, error) {
	ctx := d.newContext()
	d.fireCallInterceptors(ctx, args)
	return d.run(ctx, args)
}

// CallAsync is the async calling convention: it returns immediately and
// delivers the outcome to cb exactly once, never more than once, regardless
// of tap count (including zero taps).
func (d *Dispatcher) CallAsync(args []interface{}, cb func(err error, result interface{})) {
	go func() {
		ctx := d.newContext()
		d.fireCallInterceptors(ctx, args)
		result, err := d.run(ctx, args)
		cb(err, result)
	}()
}

// Promise is the promise calling convention. The Eventual is returned
// synchronously; settlement always happens on a later goroutine tick, which
// is this package's analogue of the JS source's "_sync" sync-leak guard: a
// tap that fails before any handler is attached still only becomes
// observable once the caller has had the chance to attach one.
func (d *Dispatcher) Promise(args ...interface{}) *Eventual {
	e := NewEventual()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				e.Reject(fmt.Errorf("panic in tap: %v", r))
			}
		}()

		ctx := d.newContext()
		d.fireCallInterceptors(ctx, args)
		result, err := d.run(ctx, args)
		if err != nil {
			e.Reject(err)
			return
		}
		e.Resolve(result)
	}()

	return e
}

func (d *Dispatcher) newContext() *InvocationContext {
	needsContext := false
	for _, t := range d.snapshot.Taps {
		if t != nil && t.Context {
			needsContext = true
			break
		}
	}
	if !needsContext {
		for _, i := range d.snapshot.Interceptors {
			if i != nil && i.Context {
				needsContext = true
				break
			}
		}
	}
	if !needsContext {
		return nil
	}

	return &InvocationContext{
		ID:       uuid.NewString(),
		Metadata: make(map[string]interface{}),
	}
}

func (d *Dispatcher) fireCallInterceptors(ctx *InvocationContext, args []interface{}) {
	for _, i := range d.snapshot.Interceptors {
		if i != nil && i.Call != nil {
			i.Call(ctx, args)
		}
	}
}

func (d *Dispatcher) fireTapInterceptors(ctx *InvocationContext, tap *Tap) *Tap {
	current := tap
	for _, i := range d.snapshot.Interceptors {
		if i != nil && i.Tap != nil {
			i.Tap(ctx, current)
		}
	}
	return current
}

func (d *Dispatcher) fireLoopInterceptors(ctx *InvocationContext, args []interface{}) {
	for _, i := range d.snapshot.Interceptors {
		if i != nil && i.Loop != nil {
			i.Loop(ctx, args)
		}
	}
}

func (d *Dispatcher) run(ctx *InvocationContext, args []interface{}) (interface{}, error) {
	switch d.snapshot.Template.Orchestration {
	case Looping:
		return d.runLooping(ctx, args)
	case Parallel:
		return d.runParallel(ctx, args)
	default:
		result, err := d.runSeries(ctx, args, d.snapshot.Taps)
		return result, err
	}
}

// callTap is the per-tap invocation (spec §4.2 callTap): it fires every
// interceptor.tap observer, resolves the tap function, dispatches by kind,
// and blocks the calling goroutine until the tap completes. Suspension for
// async/promise taps is expressed as an ordinary blocking receive rather
// than a continuation-passing callback chain, which is this package's
// idiomatic-Go substitute for the spec's onError/onResult/onDone threading;
// the observable completion-exactness and ordering guarantees are identical.
func (d *Dispatcher) callTap(ctx *InvocationContext, tap *Tap, args []interface{}) (interface{}, error) {
	if tap == nil {
		panic("hookforge: nil tap encountered during dispatch (see Hook.Intercept register-fold hazard)")
	}

	resolved := d.fireTapInterceptors(ctx, tap)

	if d.snapshot.OnTapInvoked != nil {
		d.snapshot.OnTapInvoked(resolved.Name)
	}

	switch resolved.Kind {
	case Async:
		fn, ok := resolved.Fn.(AsyncFunc)
		if !ok || fn == nil {
			return nil, herrors.WrapTapError(d.snapshot.HookName, resolved.Name, herrors.SeverityNormal,
				fmt.Errorf("async tap %q has no function bound", resolved.Name))
		}

		type outcome struct {
			result interface{}
			err    error
		}
		done := make(chan outcome, 1)
		fn(args, func(err error, result interface{}) {
			done <- outcome{result, err}
		})
		o := <-done
		return o.result, o.err

	case Promise:
		fn, ok := resolved.Fn.(PromiseFunc)
		if !ok || fn == nil {
			return nil, herrors.WrapTapError(d.snapshot.HookName, resolved.Name, herrors.SeverityNormal,
				fmt.Errorf("promise tap %q has no function bound", resolved.Name))
		}

		ev := fn(args)
		if ev == nil {
			return nil, herrors.NewNonPromiseReturn(resolved.Name, nil)
		}
		return ev.Await()

	default:
		fn, ok := resolved.Fn.(SyncFunc)
		if !ok || fn == nil {
			return nil, herrors.WrapTapError(d.snapshot.HookName, resolved.Name, herrors.SeverityNormal,
				fmt.Errorf("sync tap %q has no function bound", resolved.Name))
		}
		return fn(args)
	}
}
