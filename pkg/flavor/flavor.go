// Package flavor provides the five standard hook shapes the spec calls out
// as derivations of the dispatch templates rather than independently
// specified behavior (spec.md §1 Non-goals): bail-early, waterfall, loop,
// parallel, and parallel-bail. Each is a thin constructor over hook.New
// with a particular dispatch.Template.
package flavor

import (
	"github.com/hookforge/hookforge/pkg/dispatch"
	"github.com/hookforge/hookforge/pkg/hook"
)

// NewBasic returns a Hook whose taps run in series and whose results are
// ignored: the invocation completes once every tap has run, or the first
// tap error short-circuits it.
func NewBasic(args []string, name string) *hook.Hook {
	return hook.New(dispatch.Template{Orchestration: dispatch.Series, Result: dispatch.IgnoreResult}, args, name)
}

// NewBail returns a Hook where the first tap to produce a non-nil result
// short-circuits the remaining taps and becomes the invocation's result.
func NewBail(args []string, name string) *hook.Hook {
	return hook.New(dispatch.Template{Orchestration: dispatch.Series, Result: dispatch.BailResult}, args, name)
}

// NewWaterfall returns a Hook where each tap's non-nil result replaces the
// first argument passed to the next tap; the invocation resolves with the
// last non-nil result produced.
func NewWaterfall(args []string, name string) *hook.Hook {
	return hook.New(dispatch.Template{Orchestration: dispatch.Series, Result: dispatch.WaterfallResult}, args, name)
}

// NewLoop returns a Hook that re-runs its full tap series for as long as
// any tap in the most recent pass produced a non-nil result.
func NewLoop(args []string, name string) *hook.Hook {
	return hook.New(dispatch.Template{Orchestration: dispatch.Looping, Result: dispatch.BailResult}, args, name)
}

// NewParallel returns a Hook whose taps are all launched without waiting
// for their predecessors; tap results are ignored and the invocation
// completes once every tap has completed, or the first error arrives.
func NewParallel(args []string, name string) *hook.Hook {
	return hook.New(dispatch.Template{Orchestration: dispatch.Parallel, Result: dispatch.IgnoreResult}, args, name)
}

// NewParallelBail returns a Hook whose taps are all launched without
// waiting, where the first non-nil result or error settles the invocation.
func NewParallelBail(args []string, name string) *hook.Hook {
	return hook.New(dispatch.Template{Orchestration: dispatch.Parallel, Result: dispatch.BailResult}, args, name)
}
