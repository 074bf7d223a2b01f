package telemetry

import "sync/atomic"

// Metrics holds the in-process counters the spec calls out as useful given
// "every invocation must be cheap" (spec.md §1): how often a dispatcher had
// to be resynthesized after a mutation, and how many taps actually ran.
// Grounded on the teacher's monitoring.MetricsCollector counter/gauge
// conventions, trimmed to what the hook core can observe about itself.
type Metrics struct {
	dispatcherSynthCount int64
	tapInvocationCount   int64
}

// NewMetrics returns a zeroed Metrics.
func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) incSynth() {
	if m == nil {
		return
	}
	atomic.AddInt64(&m.dispatcherSynthCount, 1)
}

func (m *Metrics) incTapInvocations() {
	if m == nil {
		return
	}
	atomic.AddInt64(&m.tapInvocationCount, 1)
}

// DispatcherSynthCount returns how many times a dispatcher has been
// (re)compiled.
func (m *Metrics) DispatcherSynthCount() int64 {
	if m == nil {
		return 0
	}
	return atomic.LoadInt64(&m.dispatcherSynthCount)
}

// TapInvocationCount returns how many tap executions have been started; a
// tap is counted before its function runs, whether or not it completes.
func (m *Metrics) TapInvocationCount() int64 {
	if m == nil {
		return 0
	}
	return atomic.LoadInt64(&m.tapInvocationCount)
}

// Snapshot returns a point-in-time copy of the counters, mirroring the
// teacher's AggregatedMetrics snapshot pattern.
type Snapshot struct {
	DispatcherSynthCount int64
	TapInvocationCount   int64
}

// Snapshot returns the current counter values.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	return Snapshot{
		DispatcherSynthCount: m.DispatcherSynthCount(),
		TapInvocationCount:   m.TapInvocationCount(),
	}
}
