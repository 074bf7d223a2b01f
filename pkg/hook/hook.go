// Package hook is the hook registry (spec.md §4.1 "Hook base"): an ordered
// collection of tap descriptors with deterministic insertion semantics, an
// interceptor pipeline, and the three dispatcher slots that lazily delegate
// to pkg/dispatch to synthesize a specialized callable.
package hook

import (
	"sync"

	"github.com/hookforge/hookforge/pkg/dispatch"
	"github.com/hookforge/hookforge/pkg/herrors"
	"github.com/hookforge/hookforge/pkg/telemetry"
)

// TapOptions is the normalized registration options for a tap. A bare
// string passed to Tap/TapAsync/TapPromise is treated as TapOptions{Name: s}.
//
// Stage and Context are pointers so that a Facade (Hook.WithOptions) can
// distinguish "the caller did not set this field" (nil) from "the caller
// explicitly set it to the zero value" (spec.md §4.1: "Merges are shallow;
// user fields win over defaults"). Use the Stage and UseContext helpers to
// build a non-nil value.
type TapOptions struct {
	Name    string
	Before  []string
	Stage   *int
	Context *bool
	Extra   *Extra
}

// Stage returns a pointer to n for use as TapOptions.Stage.
func Stage(n int) *int { return &n }

// UseContext returns a pointer to b for use as TapOptions.Context.
func UseContext(b bool) *bool { return &b }

// Hook is a named extension point that multiplexes an invocation across
// any number of taps under the Template it was constructed with.
type Hook struct {
	Args []string
	Name string

	template  dispatch.Template
	telemetry *telemetry.Recorder

	// alignRegisterSemantics opts into treating Interceptor.Register's
	// "no change" return the same way in Intercept's existing-tap fold as
	// it is treated at registration time. Off by default to replicate the
	// JS source's asymmetry (spec.md §9).
	alignRegisterSemantics bool

	mu           sync.Mutex
	taps         []*dispatch.Tap
	interceptors []*dispatch.Interceptor
	compiled     *dispatch.Dispatcher
}

// New constructs a Hook with the given orchestration/result template, named
// argument list, and optional name.
func New(template dispatch.Template, args []string, name string) *Hook {
	return &Hook{
		Args:     append([]string(nil), args...),
		Name:     name,
		template: template,
	}
}

// SetTelemetry injects optional instrumentation. A nil Recorder disables it.
func (h *Hook) SetTelemetry(r *telemetry.Recorder) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.telemetry = r
}

// AlignRegisterSemantics opts this Hook into the bug-compatibility fix
// discussed in spec.md §9: Intercept's fold over existing taps will treat a
// Register callback's "no change" return as "keep the tap" instead of
// overwriting it. Off by default.
func (h *Hook) AlignRegisterSemantics(align bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.alignRegisterSemantics = align
}

// normalizeOptions converts the bare-string-or-options argument accepted by
// Tap/TapAsync/TapPromise into a TapOptions, or fails with InvalidOptions /
// MissingName.
func normalizeOptions(opts interface{}) (TapOptions, error) {
	switch v := opts.(type) {
	case string:
		if v == "" {
			return TapOptions{}, herrors.NewMissingName()
		}
		return TapOptions{Name: v}, nil

	case TapOptions:
		if v.Name == "" {
			return TapOptions{}, herrors.NewMissingName()
		}
		return v, nil

	case map[string]interface{}:
		to := TapOptions{}
		if n, ok := v["name"].(string); ok {
			to.Name = n
		}
		switch b := v["before"].(type) {
		case string:
			to.Before = []string{b}
		case []string:
			to.Before = append([]string(nil), b...)
		case []interface{}:
			for _, x := range b {
				if s, ok := x.(string); ok {
					to.Before = append(to.Before, s)
				}
			}
		}
		if s, ok := v["stage"].(int); ok {
			to.Stage = Stage(s)
		}
		if c, ok := v["context"].(bool); ok {
			to.Context = UseContext(c)
		}
		extraSrc := make(map[string]interface{})
		for k, val := range v {
			switch k {
			case "name", "before", "stage", "context", "type", "fn":
				continue
			default:
				extraSrc[k] = val
			}
		}
		if len(extraSrc) > 0 {
			extra, err := NewExtraFromMap(extraSrc)
			if err != nil {
				return TapOptions{}, err
			}
			to.Extra = extra
		}
		if to.Name == "" {
			return TapOptions{}, herrors.NewMissingName()
		}
		return to, nil

	default:
		return TapOptions{}, herrors.NewInvalidOptions()
	}
}

func toDispatchTap(opts TapOptions, kind dispatch.Kind, fn interface{}) *dispatch.Tap {
	t := &dispatch.Tap{
		Name:   opts.Name,
		Kind:   kind,
		Fn:     fn,
		Before: append([]string(nil), opts.Before...),
	}
	if opts.Stage != nil {
		t.Stage = *opts.Stage
	}
	if opts.Context != nil {
		t.Context = *opts.Context
	}
	if opts.Extra != nil {
		t.Extra = opts.Extra.Bytes()
	}
	return t
}

// runRegisterInterceptors folds the interceptor list in registration order
// over tap, letting each interceptor with a Register callback replace the
// running descriptor (spec.md §4.1 "_runRegisterInterceptors").
func (h *Hook) runRegisterInterceptors(tap *dispatch.Tap) *dispatch.Tap {
	current := tap
	for _, i := range h.interceptors {
		if i == nil || i.Register == nil {
			continue
		}
		if replacement, ok := i.Register(current); ok {
			current = replacement
		}
	}
	return current
}

func (h *Hook) register(opts interface{}, kind dispatch.Kind, fn interface{}) error {
	normalized, err := normalizeOptions(opts)
	if err != nil {
		return err
	}

	if normalized.Context != nil && *normalized.Context {
		// The notice itself is part of the core's observable contract
		// (spec.md §6, §9), not ambient telemetry a host can decline: it
		// must fire once per process whether or not a Recorder was
		// injected. telemetry.WarnContextDeprecated is guarded by a single
		// package-level sync.Once shared by both paths below, so whichever
		// fires first is the only one that ever logs.
		if h.telemetry != nil {
			h.telemetry.ContextDeprecated()
		} else {
			telemetry.WarnContextDeprecated(telemetry.DefaultLogger)
		}
	}

	tap := toDispatchTap(normalized, kind, fn)

	h.mu.Lock()
	defer h.mu.Unlock()

	tap = h.runRegisterInterceptors(tap)
	h.resetCompiled()
	h.taps = insertTap(h.taps, tap)
	return nil
}

// Tap registers a sync tap.
func (h *Hook) Tap(opts interface{}, fn dispatch.SyncFunc) error {
	return h.register(opts, dispatch.Sync, fn)
}

// TapAsync registers an async tap; fn must invoke its completion callback
// exactly once.
func (h *Hook) TapAsync(opts interface{}, fn dispatch.AsyncFunc) error {
	return h.register(opts, dispatch.Async, fn)
}

// TapPromise registers a promise tap; fn must return a non-nil *dispatch.Eventual.
func (h *Hook) TapPromise(opts interface{}, fn dispatch.PromiseFunc) error {
	return h.register(opts, dispatch.Promise, fn)
}

// Intercept appends a shallow copy of interceptor to the interceptor list
// and, if it defines Register, applies it to every already-registered tap
// in place. Unlike the registration-time fold, this path overwrites a tap
// with Register's result even when ok is false, unless AlignRegisterSemantics
// has been turned on — spec.md §9 flags the default as a probable source
// bug that a faithful port must replicate.
func (h *Hook) Intercept(interceptor dispatch.Interceptor) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.resetCompiled()

	stored := interceptor
	h.interceptors = append(h.interceptors, &stored)

	if interceptor.Register == nil {
		return
	}

	for idx, tap := range h.taps {
		replacement, ok := interceptor.Register(tap)
		if ok {
			h.taps[idx] = replacement
			continue
		}
		if !h.alignRegisterSemantics {
			h.taps[idx] = replacement // nil: replicates the source's unconditional overwrite
		}
	}
}

// IsUsed reports whether any tap or interceptor has been registered.
func (h *Hook) IsUsed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.taps) > 0 || len(h.interceptors) > 0
}

// resetCompiled invalidates the compiled dispatcher; the next call
// recompiles from the current taps/interceptors snapshot. Must be called
// with h.mu held.
func (h *Hook) resetCompiled() {
	h.compiled = nil
}

// ensureCompiled returns the current dispatcher, compiling one from a fresh
// snapshot if the last mutation invalidated it. This is the trampoline: the
// branch collapses to a single nil check instead of re-deriving per-call
// whether the dispatcher is fresh.
func (h *Hook) ensureCompiled() (*dispatch.Dispatcher, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.compiled != nil {
		return h.compiled, nil
	}

	snap := dispatch.Snapshot{
		Taps:         append([]*dispatch.Tap(nil), h.taps...),
		Interceptors: append([]*dispatch.Interceptor(nil), h.interceptors...),
		Args:         h.Args,
		Template:     h.template,
		HookName:     h.Name,
	}
	if h.telemetry != nil {
		rec := h.telemetry
		snap.OnTapInvoked = func(tapName string) { rec.TapInvoked(h.Name, tapName) }
	}

	d, err := dispatch.Compile(snap)
	if err != nil {
		return nil, err
	}

	if h.telemetry != nil {
		h.telemetry.DispatcherSynthesized(h.Name)
	}

	h.compiled = d
	return d, nil
}

// Call is the sync invocation entry point.
func (h *Hook) Call(args ...interface{}) (interface{}, error) {
	d, err := h.ensureCompiled()
	if err != nil {
		return nil, err
	}
	return d.Call(args...)
}

// CallAsync is the async invocation entry point.
func (h *Hook) CallAsync(args []interface{}, cb func(err error, result interface{})) {
	d, err := h.ensureCompiled()
	if err != nil {
		cb(err, nil)
		return
	}
	d.CallAsync(args, cb)
}

// Promise is the promise invocation entry point.
func (h *Hook) Promise(args ...interface{}) *dispatch.Eventual {
	d, err := h.ensureCompiled()
	if err != nil {
		e := dispatch.NewEventual()
		e.Reject(err)
		return e
	}
	return d.Promise(args...)
}

// Taps returns a snapshot copy of the currently registered taps, in
// dispatch order. Intended for introspection (cmd/hookforge); mutating the
// returned slice does not affect the Hook.
func (h *Hook) Taps() []*dispatch.Tap {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*dispatch.Tap(nil), h.taps...)
}

// Interceptors returns a snapshot copy of the registered interceptors, in
// registration order.
func (h *Hook) Interceptors() []*dispatch.Interceptor {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*dispatch.Interceptor(nil), h.interceptors...)
}
