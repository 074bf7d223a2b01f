package hook

import (
	"bytes"
	"errors"
	"testing"

	"github.com/hookforge/hookforge/pkg/dispatch"
	"github.com/hookforge/hookforge/pkg/herrors"
	"github.com/hookforge/hookforge/pkg/telemetry"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func basicTemplate() dispatch.Template {
	return dispatch.Template{Orchestration: dispatch.Series, Result: dispatch.IgnoreResult}
}

func bailTemplate() dispatch.Template {
	return dispatch.Template{Orchestration: dispatch.Series, Result: dispatch.BailResult}
}

func TestHook_TapRejectsInvalidOptions(t *testing.T) {
	h := New(basicTemplate(), []string{"x"}, "t")

	err := h.Tap(42, func(args []interface{}) (interface{}, error) { return nil, nil })
	require.Error(t, err)
	assert.True(t, errors.Is(err, herrors.ErrInvalidOptions))
}

func TestHook_TapRejectsMissingName(t *testing.T) {
	h := New(basicTemplate(), []string{"x"}, "t")

	err := h.Tap("", func(args []interface{}) (interface{}, error) { return nil, nil })
	require.Error(t, err)
	assert.True(t, errors.Is(err, herrors.ErrMissingName))

	err = h.Tap(TapOptions{}, func(args []interface{}) (interface{}, error) { return nil, nil })
	require.Error(t, err)
	assert.True(t, errors.Is(err, herrors.ErrMissingName))
}

func TestHook_TapAcceptsBareStringAsName(t *testing.T) {
	h := New(basicTemplate(), []string{"x"}, "t")

	called := false
	err := h.Tap("only", func(args []interface{}) (interface{}, error) {
		called = true
		return nil, nil
	})
	require.NoError(t, err)

	_, err = h.Call("v")
	require.NoError(t, err)
	assert.True(t, called)
}

func TestHook_IsUsed(t *testing.T) {
	h := New(basicTemplate(), []string{"x"}, "t")
	assert.False(t, h.IsUsed())

	require.NoError(t, h.Tap("a", func(args []interface{}) (interface{}, error) { return nil, nil }))
	assert.True(t, h.IsUsed())
}

func TestHook_WithOptionsMergesDefaults(t *testing.T) {
	h := New(basicTemplate(), []string{"x"}, "t")
	facade := h.WithOptions(TapOptions{Stage: Stage(7)})

	require.NoError(t, facade.Tap("a", func(args []interface{}) (interface{}, error) { return nil, nil }))

	taps := h.Taps()
	require.Len(t, taps, 1)
	assert.Equal(t, "a", taps[0].Name)
	assert.Equal(t, 7, taps[0].Stage)
}

func TestHook_WithOptionsUserFieldsWinOverDefaults(t *testing.T) {
	h := New(basicTemplate(), []string{"x"}, "t")
	facade := h.WithOptions(TapOptions{Stage: Stage(7)})

	require.NoError(t, facade.Tap(TapOptions{Name: "a", Stage: Stage(1)}, func(args []interface{}) (interface{}, error) { return nil, nil }))

	taps := h.Taps()
	require.Len(t, taps, 1)
	assert.Equal(t, 1, taps[0].Stage)
}

// TestHook_WithOptionsUserExplicitZeroWinsOverNonZeroDefault covers the gap
// zero-value comparison used to miss: a caller explicitly setting Stage
// back to 0 through a Facade must override a non-zero default, not be
// mistaken for "field not set" (spec.md §4.1 "user fields win over
// defaults").
func TestHook_WithOptionsUserExplicitZeroWinsOverNonZeroDefault(t *testing.T) {
	h := New(basicTemplate(), []string{"x"}, "t")
	facade := h.WithOptions(TapOptions{Stage: Stage(7), Context: UseContext(true)})

	require.NoError(t, facade.Tap(TapOptions{Name: "a", Stage: Stage(0), Context: UseContext(false)}, func(args []interface{}) (interface{}, error) { return nil, nil }))

	taps := h.Taps()
	require.Len(t, taps, 1)
	assert.Equal(t, 0, taps[0].Stage)
	assert.False(t, taps[0].Context)
}

func TestHook_CallSyncBasic(t *testing.T) {
	h := New(basicTemplate(), []string{"x"}, "t")

	var seen []interface{}
	require.NoError(t, h.Tap("a", func(args []interface{}) (interface{}, error) {
		seen = append(seen, args[0])
		return nil, nil
	}))
	require.NoError(t, h.Tap("b", func(args []interface{}) (interface{}, error) {
		seen = append(seen, args[0])
		return nil, nil
	}))

	_, err := h.Call(42)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{42, 42}, seen)
}

func TestHook_CallSyncPropagatesTapError(t *testing.T) {
	h := New(basicTemplate(), []string{"x"}, "t")

	boom := errors.New("boom")
	require.NoError(t, h.Tap("a", func(args []interface{}) (interface{}, error) { return nil, boom }))

	ran := false
	require.NoError(t, h.Tap("b", func(args []interface{}) (interface{}, error) { ran = true; return nil, nil }))

	_, err := h.Call(nil)
	require.Error(t, err)
	assert.False(t, ran, "second tap must not run after the first tap's error")
}

func TestHook_CallBailReturnsFirstDefinedResult(t *testing.T) {
	h := New(bailTemplate(), []string{"x"}, "t")

	require.NoError(t, h.Tap("a", func(args []interface{}) (interface{}, error) { return nil, nil }))
	require.NoError(t, h.Tap("b", func(args []interface{}) (interface{}, error) { return 42, nil }))

	ran := false
	require.NoError(t, h.Tap("c", func(args []interface{}) (interface{}, error) { ran = true; return nil, nil }))

	result, err := h.Call(nil)
	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.False(t, ran, "bail orchestration must short-circuit after a defined result")
}

func TestHook_CallAsyncCompletionExactlyOnce(t *testing.T) {
	h := New(basicTemplate(), []string{"x"}, "t")

	require.NoError(t, h.TapAsync("a", func(args []interface{}, done func(error, interface{})) {
		done(nil, nil)
	}))

	calls := 0
	done := make(chan struct{})
	h.CallAsync([]interface{}{nil}, func(err error, result interface{}) {
		calls++
		close(done)
	})
	<-done
	assert.Equal(t, 1, calls)
}

func TestHook_CallAsyncZeroTapsCompletesOnce(t *testing.T) {
	h := New(basicTemplate(), []string{"x"}, "t")

	done := make(chan struct{})
	h.CallAsync([]interface{}{nil}, func(err error, result interface{}) {
		require.NoError(t, err)
		close(done)
	})
	<-done
}

func TestHook_PromiseRejectsWithoutSynchronousPanic(t *testing.T) {
	h := New(basicTemplate(), []string{"x"}, "t")

	boom := errors.New("boom")
	require.NoError(t, h.Tap("a", func(args []interface{}) (interface{}, error) { return nil, boom }))

	ev := h.Promise(nil)
	require.NotNil(t, ev)

	_, err := ev.Await()
	require.Error(t, err)
}

func TestHook_InterceptRegisterFoldAtRegistrationTime(t *testing.T) {
	h := New(basicTemplate(), []string{"x"}, "t")

	h.Intercept(dispatch.Interceptor{
		Register: func(tap *dispatch.Tap) (*dispatch.Tap, bool) {
			clone := tap.Clone()
			clone.Stage = 99
			return clone, true
		},
	})

	require.NoError(t, h.Tap("a", func(args []interface{}) (interface{}, error) { return nil, nil }))

	taps := h.Taps()
	require.Len(t, taps, 1)
	assert.Equal(t, 99, taps[0].Stage)
}

func TestHook_InterceptRegisterFoldPreservesUndefinedAtRegistrationTime(t *testing.T) {
	h := New(basicTemplate(), []string{"x"}, "t")

	h.Intercept(dispatch.Interceptor{
		Register: func(tap *dispatch.Tap) (*dispatch.Tap, bool) {
			return nil, false // "undefined": carries the original descriptor through
		},
	})

	require.NoError(t, h.Tap("a", func(args []interface{}) (interface{}, error) { return nil, nil }))

	taps := h.Taps()
	require.Len(t, taps, 1)
	assert.Equal(t, "a", taps[0].Name)
}

func TestHook_InterceptOverwritesExistingTapsOnUndefinedByDefault(t *testing.T) {
	h := New(basicTemplate(), []string{"x"}, "t")
	require.NoError(t, h.Tap("a", func(args []interface{}) (interface{}, error) { return nil, nil }))

	h.Intercept(dispatch.Interceptor{
		Register: func(tap *dispatch.Tap) (*dispatch.Tap, bool) {
			return nil, false
		},
	})

	taps := h.Taps()
	require.Len(t, taps, 1)
	assert.Nil(t, taps[0], "default (bug-compatible) behavior overwrites the tap with nil")
}

func TestHook_InterceptAlignRegisterSemanticsKeepsTapOnUndefined(t *testing.T) {
	h := New(basicTemplate(), []string{"x"}, "t")
	h.AlignRegisterSemantics(true)
	require.NoError(t, h.Tap("a", func(args []interface{}) (interface{}, error) { return nil, nil }))

	h.Intercept(dispatch.Interceptor{
		Register: func(tap *dispatch.Tap) (*dispatch.Tap, bool) {
			return nil, false
		},
	})

	taps := h.Taps()
	require.Len(t, taps, 1)
	require.NotNil(t, taps[0])
	assert.Equal(t, "a", taps[0].Name)
}

func TestHook_InterceptorTapAndCallOrdering(t *testing.T) {
	h := New(basicTemplate(), []string{"x"}, "t")

	var order []string

	h.Intercept(dispatch.Interceptor{
		Call: func(ctx *dispatch.InvocationContext, args []interface{}) { order = append(order, "I1.call") },
		Tap:  func(ctx *dispatch.InvocationContext, tap *dispatch.Tap) { order = append(order, "I1.tap("+tap.Name+")") },
	})
	h.Intercept(dispatch.Interceptor{
		Call: func(ctx *dispatch.InvocationContext, args []interface{}) { order = append(order, "I2.call") },
		Tap:  func(ctx *dispatch.InvocationContext, tap *dispatch.Tap) { order = append(order, "I2.tap("+tap.Name+")") },
	})

	require.NoError(t, h.Tap("T1", func(args []interface{}) (interface{}, error) {
		order = append(order, "T1")
		return nil, nil
	}))
	require.NoError(t, h.Tap("T2", func(args []interface{}) (interface{}, error) {
		order = append(order, "T2")
		return nil, nil
	}))

	_, err := h.Call(nil)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"I1.call", "I2.call",
		"I1.tap(T1)", "I2.tap(T1)", "T1",
		"I1.tap(T2)", "I2.tap(T2)", "T2",
	}, order)
}

// TestHook_ContextDeprecationNoticeFiresWithoutTelemetry covers spec.md §6/§9:
// the context-option deprecation notice is part of the core's observable
// contract, not ambient telemetry a host can decline by never calling
// SetTelemetry. This must be the first Context:true registration anywhere
// in this package's test binary, since telemetry's guarding sync.Once is
// process-global.
func TestHook_ContextDeprecationNoticeFiresWithoutTelemetry(t *testing.T) {
	var buf bytes.Buffer
	orig := telemetry.DefaultLogger
	telemetry.DefaultLogger = zerolog.New(&buf)
	defer func() { telemetry.DefaultLogger = orig }()

	h := New(basicTemplate(), []string{"x"}, "t")
	require.NoError(t, h.Tap(TapOptions{Name: "a", Context: UseContext(true)}, func(args []interface{}) (interface{}, error) { return nil, nil }))

	assert.Contains(t, buf.String(), "Hook.context is deprecated")
}

func TestHook_MutationInvalidatesCompiledDispatcher(t *testing.T) {
	h := New(basicTemplate(), []string{"x"}, "t")

	require.NoError(t, h.Tap("a", func(args []interface{}) (interface{}, error) { return nil, nil }))
	_, err := h.Call(nil)
	require.NoError(t, err)

	h.mu.Lock()
	compiledBefore := h.compiled
	h.mu.Unlock()
	require.NotNil(t, compiledBefore)

	ran := false
	require.NoError(t, h.Tap("b", func(args []interface{}) (interface{}, error) { ran = true; return nil, nil }))

	h.mu.Lock()
	compiledAfter := h.compiled
	h.mu.Unlock()
	assert.Nil(t, compiledAfter, "registering a tap must reset the compiled dispatcher")

	_, err = h.Call(nil)
	require.NoError(t, err)
	assert.True(t, ran)
}
