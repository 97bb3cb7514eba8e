package events

import (
	"slices"
	"sort"

	"tracelens/internal/trace"
)

// filePathKeys are the args-bag keys that may carry a source file path,
// in resolution priority order.
var filePathKeys = []string{"path", "fileName", "containingFileName", "configFilePath"}

// pairKey identifies the begin/end stream a duration event belongs to.
// Nested spans with the same key are matched innermost-first.
type pairKey struct {
	pid  int
	tid  int
	name string
	cat  trace.Category
}

// Rebuild turns raw trace events into the normalized processed-event list.
//
// Metadata events are discarded, the rest are re-sorted by timestamp, and
// then complete ("X"/"I") events are emitted directly while begin/end
// pairs are matched through per-key LIFO stacks. An end event with no
// pending begin denotes a truncated or malformed trace and is dropped
// silently; a begin that never sees its end produces no output. The
// returned slice is ordered by non-decreasing StartTime.
func Rebuild(raw []trace.RawEvent) []ProcessedEvent {
	retained := make([]trace.RawEvent, 0, len(raw))
	for _, ev := range raw {
		if ev.Phase == trace.PhaseMetadata {
			continue
		}
		retained = append(retained, ev)
	}
	if len(retained) == 0 {
		return nil
	}

	// Stable keeps a begin ahead of its end when both share a timestamp.
	sort.SliceStable(retained, func(i, j int) bool {
		return retained[i].Timestamp < retained[j].Timestamp
	})
	minTS := retained[0].Timestamp

	processed := make([]ProcessedEvent, 0, len(retained))
	pending := make(map[pairKey][]trace.RawEvent)
	nextID := 0

	emit := func(ev ProcessedEvent) {
		ev.ID = nextID
		nextID++
		// Most events arrive in start-time order already, so the
		// binary-searched insertion point is usually the end of the slice.
		idx := sort.Search(len(processed), func(i int) bool {
			return processed[i].StartTime > ev.StartTime
		})
		processed = slices.Insert(processed, idx, ev)
	}

	for _, ev := range retained {
		switch ev.Phase {
		case trace.PhaseComplete, trace.PhaseInstant:
			emit(ProcessedEvent{
				Name:      ev.Name,
				Category:  ev.Category,
				StartTime: (ev.Timestamp - minTS) / 1000,
				Duration:  ev.Duration / 1000,
				FilePath:  resolveFilePath(ev.Args),
				Args:      copyArgs(ev.Args),
			})

		case trace.PhaseBegin:
			key := pairKey{ev.ProcessID, ev.ThreadID, ev.Name, ev.Category}
			pending[key] = append(pending[key], ev)

		case trace.PhaseEnd:
			key := pairKey{ev.ProcessID, ev.ThreadID, ev.Name, ev.Category}
			stack := pending[key]
			if len(stack) == 0 {
				// Unmatched end: drop it, the trace is partial.
				continue
			}
			begin := stack[len(stack)-1]
			pending[key] = stack[:len(stack)-1]

			args := mergeArgs(begin.Args, ev.Args)
			emit(ProcessedEvent{
				Name:      begin.Name,
				Category:  begin.Category,
				StartTime: (begin.Timestamp - minTS) / 1000,
				Duration:  (ev.Timestamp - begin.Timestamp) / 1000,
				FilePath:  resolveFilePath(args),
				Args:      args,
			})
		}
	}

	return processed
}

// resolveFilePath picks the source file path out of an args bag, trying
// the candidate keys in fixed priority order. It returns "" when none of
// them carries a non-empty string.
func resolveFilePath(args map[string]any) string {
	for _, key := range filePathKeys {
		if s, ok := args[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// mergeArgs combines the args of a begin/end pair. End-side values win on
// key collision, since the compiler attaches late-resolved metadata there.
func mergeArgs(begin, end map[string]any) map[string]any {
	if len(begin) == 0 && len(end) == 0 {
		return nil
	}
	merged := make(map[string]any, len(begin)+len(end))
	for k, v := range begin {
		merged[k] = v
	}
	for k, v := range end {
		merged[k] = v
	}
	return merged
}

func copyArgs(args map[string]any) map[string]any {
	if len(args) == 0 {
		return nil
	}
	c := make(map[string]any, len(args))
	for k, v := range args {
		c[k] = v
	}
	return c
}
