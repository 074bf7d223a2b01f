package hook

import "github.com/hookforge/hookforge/pkg/dispatch"

// Facade is the value returned by Hook.WithOptions: a view over the same
// Hook whose tap* methods merge a fixed set of defaults over each
// caller-supplied options value before delegating registration.
type Facade struct {
	hook     *Hook
	defaults TapOptions
}

// WithOptions returns a Facade whose Tap/TapAsync/TapPromise methods merge
// defaults over each user-supplied options value (wrapping a bare string as
// TapOptions{Name: s} first). Merges are shallow; fields the caller actually
// sets win over defaults, including a field the caller explicitly sets back
// to its zero value (spec.md §4.1) — use the Stage/UseContext helpers so a
// caller-supplied zero is distinguishable from "not set".
func (h *Hook) WithOptions(defaults TapOptions) *Facade {
	return &Facade{hook: h, defaults: defaults}
}

func (f *Facade) merge(opts interface{}) (TapOptions, error) {
	normalized, err := normalizeOptions(opts)
	if err != nil {
		return TapOptions{}, err
	}

	merged := f.defaults
	if normalized.Name != "" {
		merged.Name = normalized.Name
	}
	if normalized.Before != nil {
		merged.Before = normalized.Before
	}
	if normalized.Stage != nil {
		merged.Stage = normalized.Stage
	}
	if normalized.Context != nil {
		merged.Context = normalized.Context
	}
	if normalized.Extra != nil {
		merged.Extra = normalized.Extra
	}
	return merged, nil
}

// Tap registers a sync tap through the facade's merged defaults.
func (f *Facade) Tap(opts interface{}, fn dispatch.SyncFunc) error {
	merged, err := f.merge(opts)
	if err != nil {
		return err
	}
	return f.hook.register(merged, dispatch.Sync, fn)
}

// TapAsync registers an async tap through the facade's merged defaults.
func (f *Facade) TapAsync(opts interface{}, fn dispatch.AsyncFunc) error {
	merged, err := f.merge(opts)
	if err != nil {
		return err
	}
	return f.hook.register(merged, dispatch.Async, fn)
}

// TapPromise registers a promise tap through the facade's merged defaults.
func (f *Facade) TapPromise(opts interface{}, fn dispatch.PromiseFunc) error {
	merged, err := f.merge(opts)
	if err != nil {
		return err
	}
	return f.hook.register(merged, dispatch.Promise, fn)
}

// Intercept delegates to the underlying Hook.
func (f *Facade) Intercept(interceptor dispatch.Interceptor) {
	f.hook.Intercept(interceptor)
}

// IsUsed delegates to the underlying Hook.
func (f *Facade) IsUsed() bool {
	return f.hook.IsUsed()
}

// WithOptions composes another layer of defaults on top of this facade's.
func (f *Facade) WithOptions(defaults TapOptions) *Facade {
	merged := f.defaults
	if defaults.Name != "" {
		merged.Name = defaults.Name
	}
	if defaults.Before != nil {
		merged.Before = defaults.Before
	}
	if defaults.Stage != nil {
		merged.Stage = defaults.Stage
	}
	if defaults.Context != nil {
		merged.Context = defaults.Context
	}
	if defaults.Extra != nil {
		merged.Extra = defaults.Extra
	}
	return &Facade{hook: f.hook, defaults: merged}
}
