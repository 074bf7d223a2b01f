package dispatch

import "encoding/json"

// Kind identifies a tap's calling convention.
type Kind int

const (
	// Sync taps are called directly and return (result, error).
	Sync Kind = iota
	// Async taps are called with a trailing completion callback.
	Async
	// Promise taps are called and must return an *Eventual.
	Promise
)

// String renders the Kind the way the spec names it ("sync"/"async"/"promise").
func (k Kind) String() string {
	switch k {
	case Async:
		return "async"
	case Promise:
		return "promise"
	default:
		return "sync"
	}
}

// SyncFunc is the signature of a sync tap. args has one entry per hook
// argument, in declaration order.
type SyncFunc func(args []interface{}) (interface{}, error)

// AsyncFunc is the signature of an async tap. done must be invoked exactly
// once with either an error or a result (never both meaningfully).
type AsyncFunc func(args []interface{}, done func(err error, result interface{}))

// PromiseFunc is the signature of a tapPromise tap. It must return a
// non-nil *Eventual; returning nil is a contract violation
// (herrors.ErrNonPromiseReturn).
type PromiseFunc func(args []interface{}) *Eventual

// Tap is the registry's descriptor for one registered callback.
type Tap struct {
	// Name identifies the tap; required, non-empty.
	Name string

	// Kind selects which of Fn's concrete types applies.
	Kind Kind

	// Fn holds a SyncFunc, AsyncFunc, or PromiseFunc matching Kind.
	Fn interface{}

	// Before lists tap names this tap must precede.
	Before []string

	// Stage is the secondary ordering key; lower runs earlier.
	Stage int

	// Context requests a shared per-invocation context record (deprecated).
	Context bool

	// Extra carries interceptor-attached fields that must round-trip
	// unchanged through the registry. Stored as raw JSON so untouched bytes
	// stay byte-identical across registration and later inspection.
	Extra json.RawMessage
}

// Clone returns a shallow copy of t, safe for a caller to mutate Before on
// without perturbing the registry's stored descriptor.
func (t *Tap) Clone() *Tap {
	if t == nil {
		return nil
	}
	c := *t
	if t.Before != nil {
		c.Before = append([]string(nil), t.Before...)
	}
	return &c
}
