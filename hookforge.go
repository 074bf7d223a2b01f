// Package hookforge aggregates named hooks for a host program that exposes
// "dozens of hooks" (spec.md §1) under one registry, mirroring the way the
// teacher's Downloader aggregates its plugin manager, event emitter, and
// middleware chain behind a single entry point.
package hookforge

import (
	"fmt"
	"sync"

	"github.com/hookforge/hookforge/pkg/dispatch"
	"github.com/hookforge/hookforge/pkg/flavor"
	"github.com/hookforge/hookforge/pkg/hook"
	"github.com/hookforge/hookforge/pkg/telemetry"
)

// Flavor names the basic hook shape or one of the five standard flavors a
// HookSet can build.
type Flavor string

const (
	FlavorBasic        Flavor = "basic"
	FlavorBail         Flavor = "bail"
	FlavorWaterfall    Flavor = "waterfall"
	FlavorLoop         Flavor = "loop"
	FlavorParallel     Flavor = "parallel"
	FlavorParallelBail Flavor = "parallel-bail"
)

// HookSet is a named collection of *hook.Hook instances for a host
// exposing many extension points behind one registry, grounded on
// pkg/plugin/manager.go's named-registration-with-stats pattern.
type HookSet struct {
	mu        sync.RWMutex
	hooks     map[string]*hook.Hook
	telemetry *telemetry.Recorder
}

// NewHookSet returns an empty HookSet. rec may be nil to disable telemetry.
func NewHookSet(rec *telemetry.Recorder) *HookSet {
	return &HookSet{
		hooks:     make(map[string]*hook.Hook),
		telemetry: rec,
	}
}

// Get returns the hook registered under name, if any.
func (s *HookSet) Get(name string) (*hook.Hook, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.hooks[name]
	return h, ok
}

// MustNew creates and registers a new hook of the given flavor under name,
// panicking if name is already taken. Hosts that wire up dozens of hooks
// at startup are expected to treat a name collision as a programming error.
func (s *HookSet) MustNew(name string, args []string, f Flavor) *hook.Hook {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.hooks[name]; exists {
		panic(fmt.Sprintf("hookforge: hook %q already registered", name))
	}

	var h *hook.Hook
	switch f {
	case FlavorBail:
		h = flavor.NewBail(args, name)
	case FlavorWaterfall:
		h = flavor.NewWaterfall(args, name)
	case FlavorLoop:
		h = flavor.NewLoop(args, name)
	case FlavorParallel:
		h = flavor.NewParallel(args, name)
	case FlavorParallelBail:
		h = flavor.NewParallelBail(args, name)
	default:
		h = flavor.NewBasic(args, name)
	}

	h.SetTelemetry(s.telemetry)
	s.hooks[name] = h
	return h
}

// Names returns the registered hook names in no particular order.
func (s *HookSet) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.hooks))
	for name := range s.hooks {
		names = append(names, name)
	}
	return names
}

// HookStats describes one hook's registry occupancy.
type HookStats struct {
	Name             string
	TapCount         int
	InterceptorCount int
	IsUsed           bool
}

// Stats returns per-hook tap/interceptor counts, mirroring
// PluginManager.GetPluginStats.
func (s *HookSet) Stats() []HookStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make([]HookStats, 0, len(s.hooks))
	for name, h := range s.hooks {
		stats = append(stats, HookStats{
			Name:             name,
			TapCount:         len(h.Taps()),
			InterceptorCount: len(h.Interceptors()),
			IsUsed:           h.IsUsed(),
		})
	}
	return stats
}

// dispatchTemplateFor returns the Template a Flavor maps to (the same
// mapping MustNew applies through pkg/flavor) without constructing a hook.
// It is unexported; cmd/hookforge does not call it.
func dispatchTemplateFor(f Flavor) dispatch.Template {
	switch f {
	case FlavorBail:
		return dispatch.Template{Orchestration: dispatch.Series, Result: dispatch.BailResult}
	case FlavorWaterfall:
		return dispatch.Template{Orchestration: dispatch.Series, Result: dispatch.WaterfallResult}
	case FlavorLoop:
		return dispatch.Template{Orchestration: dispatch.Looping, Result: dispatch.BailResult}
	case FlavorParallel:
		return dispatch.Template{Orchestration: dispatch.Parallel, Result: dispatch.IgnoreResult}
	case FlavorParallelBail:
		return dispatch.Template{Orchestration: dispatch.Parallel, Result: dispatch.BailResult}
	default:
		return dispatch.Template{Orchestration: dispatch.Series, Result: dispatch.IgnoreResult}
	}
}
