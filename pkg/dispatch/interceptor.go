package dispatch

// RegisterFunc observes a tap at registration time. ok=false means "no
// change" (the JavaScript source's undefined return); ok=true replaces the
// descriptor with tap.
type RegisterFunc func(tap *Tap) (result *Tap, ok bool)

// CallFunc observes the start of every invocation, before any tap runs.
type CallFunc func(ctx *InvocationContext, args []interface{})

// TapInterceptFunc observes a tap immediately before it executes.
type TapInterceptFunc func(ctx *InvocationContext, tap *Tap)

// LoopFunc observes the top of every looping-orchestration iteration.
type LoopFunc func(ctx *InvocationContext, args []interface{})

// Interceptor is a cross-cutting observer attached with Hook.Intercept.
type Interceptor struct {
	Register RegisterFunc
	Call     CallFunc
	Tap      TapInterceptFunc
	Loop     LoopFunc

	// Context requests the shared per-invocation context record be passed
	// to Call/Tap/Loop callbacks.
	Context bool
}

// Clone returns a shallow copy of i.
func (i *Interceptor) Clone() *Interceptor {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}

// InvocationContext is the fresh, per-call record shared across interceptors
// and context-opted taps for a single invocation. It is not safe to retain
// or mutate across goroutines beyond the invocation that created it, beyond
// the Metadata map it carries (spec §5: "not thread-safe").
type InvocationContext struct {
	// ID correlates interceptor.call / interceptor.tap observations for one
	// invocation across goroutines (used by async/parallel orchestration).
	ID string

	Metadata map[string]interface{}
}
