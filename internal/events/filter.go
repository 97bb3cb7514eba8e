package events

// FilterMinDuration drops events shorter than minMS milliseconds. The
// threshold is an inclusive floor: an event lasting exactly minMS
// survives. A non-positive threshold returns the input unchanged.
func FilterMinDuration(evs []ProcessedEvent, minMS float64) []ProcessedEvent {
	if minMS <= 0 {
		return evs
	}
	kept := make([]ProcessedEvent, 0, len(evs))
	for _, ev := range evs {
		if ev.Duration >= minMS {
			kept = append(kept, ev)
		}
	}
	return kept
}

// FilterRange returns the events whose span overlaps the half-open
// normalized-time window [startMS, endMS).
func FilterRange(evs []ProcessedEvent, startMS, endMS float64) []ProcessedEvent {
	var kept []ProcessedEvent
	for _, ev := range evs {
		if ev.StartTime < endMS && ev.EndTime() > startMS {
			kept = append(kept, ev)
		}
	}
	return kept
}
