package hook

import "github.com/hookforge/hookforge/pkg/dispatch"

// insertTap inserts item into the ordered taps slice (spec.md §4.1
// Insertion algorithm). It walks backward from the tail, shifting each
// neighbor forward by one slot until it finds the position where item's
// "before" predecessors have all been skipped over and the first neighbor
// with stage <= item.Stage is reached; item lands immediately after that
// neighbor (or at index 0 if its "before" set is never exhausted).
//
// Equal-stage ties resolve in FIFO order because the walk stops on
// xStage <= stage, not <, so an equal-stage neighbor is never shifted past.
func insertTap(taps []*dispatch.Tap, item *dispatch.Tap) []*dispatch.Tap {
	n := len(taps)
	taps = append(taps, nil)

	var before map[string]struct{}
	if len(item.Before) > 0 {
		before = make(map[string]struct{}, len(item.Before))
		for _, b := range item.Before {
			before[b] = struct{}{}
		}
	}

	stage := item.Stage

	i := n
	for i > 0 {
		i--
		x := taps[i]
		taps[i+1] = x

		if before != nil {
			if _, ok := before[x.Name]; ok {
				delete(before, x.Name)
				continue
			}
			if len(before) > 0 {
				continue
			}
		}

		if x.Stage > stage {
			continue
		}

		i++
		break
	}

	taps[i] = item
	return taps
}
