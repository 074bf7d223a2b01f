// Package telemetry provides optional, injected instrumentation for the
// hook registry and dispatcher: structured logging via zerolog and
// in-process counters. Nothing in pkg/hook or pkg/dispatch imports
// zerolog's global singleton directly on the hot dispatch path; a host
// that wants instrumentation injects a *Recorder built from its own
// zerolog.Logger.
package telemetry

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var contextDeprecationOnce sync.Once

// DefaultLogger is the logger the context-deprecation notice falls back to
// when a Hook has no injected Recorder. The notice itself (spec.md §6, §9)
// is not optional instrumentation, so it must still reach somewhere even
// when a host has declined telemetry entirely.
var DefaultLogger = zerolog.New(os.Stderr).With().Timestamp().Logger()

// WarnContextDeprecated emits the one-shot-per-process deprecation notice
// for the `context` tap/interceptor option (spec.md §6, §9). Calling it more
// than once, from any number of goroutines, only ever logs once.
func WarnContextDeprecated(logger zerolog.Logger) {
	contextDeprecationOnce.Do(func() {
		logger.Warn().Msg("Hook.context is deprecated and will be removed")
	})
}

// Recorder is the instrumentation a host injects into a Hook or HookSet.
// A nil *Recorder is valid and every method on it is a no-op, so injecting
// telemetry is opt-in.
type Recorder struct {
	logger zerolog.Logger
	metrics *Metrics
}

// NewRecorder builds a Recorder that logs through logger and accumulates
// the supplied Metrics (or a fresh Metrics if metrics is nil).
func NewRecorder(logger zerolog.Logger, metrics *Metrics) *Recorder {
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Recorder{logger: logger, metrics: metrics}
}

// Metrics returns the Recorder's counter set.
func (r *Recorder) Metrics() *Metrics {
	if r == nil {
		return nil
	}
	return r.metrics
}

// DispatcherSynthesized records a cache-miss on a hook's trampoline: a new
// dispatcher was compiled because the taps/interceptors snapshot changed.
func (r *Recorder) DispatcherSynthesized(hookName string) {
	if r == nil {
		return
	}
	r.metrics.incSynth()
	r.logger.Debug().Str("hook", hookName).Msg("dispatcher synthesized")
}

// TapInvoked records one tap execution.
func (r *Recorder) TapInvoked(hookName, tapName string) {
	if r == nil {
		return
	}
	r.metrics.incTapInvocations()
	r.logger.Trace().Str("hook", hookName).Str("tap", tapName).Msg("tap invoked")
}

// ContextDeprecated forwards to WarnContextDeprecated using this
// Recorder's logger, or is a no-op on a nil Recorder.
func (r *Recorder) ContextDeprecated() {
	if r == nil {
		return
	}
	WarnContextDeprecated(r.logger)
}
