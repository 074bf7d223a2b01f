package dispatch

import "github.com/hookforge/hookforge/pkg/herrors"

// runLooping wraps a series in a do/while over "_loop" (spec §4.2
// callTapsLooping): the series re-runs from the top whenever any tap in the
// most recent pass produced a non-nil result, and every interceptor's Loop
// callback fires at the top of each iteration. Taps never see the previous
// iteration's result as an argument under this template (unlike waterfall);
// a defined result is purely a "run again" signal.
func (d *Dispatcher) runLooping(ctx *InvocationContext, args []interface{}) (interface{}, error) {
	for {
		d.fireLoopInterceptors(ctx, args)

		loopAgain := false
		for _, tap := range d.snapshot.Taps {
			result, err := d.callTap(ctx, tap, args)
			if err != nil {
				return nil, herrors.WrapTapError(d.snapshot.HookName, tap.Name, herrors.SeverityNormal, err)
			}
			if result != nil {
				loopAgain = true
			}
		}

		if !loopAgain {
			return nil, nil
		}
	}
}
