package dispatch

import "github.com/hookforge/hookforge/pkg/herrors"

// runSeries runs taps in order (spec §4.2 callTapsSeries). A tap's error
// short-circuits the remainder. Under BailResult, the first non-nil result
// short-circuits and becomes the outcome. Under WaterfallResult, a non-nil
// result replaces args[0] for the next tap and is carried forward as the
// running result.
func (d *Dispatcher) runSeries(ctx *InvocationContext, args []interface{}, taps []*Tap) (interface{}, error) {
	var waterfallArgs []interface{}
	if d.snapshot.Template.Result == WaterfallResult {
		waterfallArgs = append([]interface{}(nil), args...)
	}

	var lastResult interface{}

	for _, tap := range taps {
		callArgs := args
		if waterfallArgs != nil {
			callArgs = waterfallArgs
		}

		result, err := d.callTap(ctx, tap, callArgs)
		if err != nil {
			return nil, herrors.WrapTapError(d.snapshot.HookName, tap.Name, herrors.SeverityNormal, err)
		}

		if result == nil {
			continue
		}

		switch d.snapshot.Template.Result {
		case BailResult:
			return result, nil
		case WaterfallResult:
			lastResult = result
			if len(waterfallArgs) > 0 {
				waterfallArgs[0] = result
			}
		}
	}

	if d.snapshot.Template.Result == WaterfallResult {
		return lastResult, nil
	}

	return nil, nil
}
