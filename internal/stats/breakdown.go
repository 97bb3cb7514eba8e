package stats

import (
	"tracelens/internal/events"
	"tracelens/internal/trace"
)

// Breakdown computes count/total/avg/min/max per phase in one pass over
// the processed-event list.
func Breakdown(evs []events.ProcessedEvent) PhaseBreakdown {
	var b PhaseBreakdown
	for _, ev := range evs {
		switch ev.Category {
		case trace.CategoryParse:
			b.Parse.observe(ev.Duration)
		case trace.CategoryBind:
			b.Bind.observe(ev.Duration)
		case trace.CategoryCheck, trace.CategoryCheckTypes:
			b.Check.observe(ev.Duration)
		case trace.CategoryEmit:
			b.Emit.observe(ev.Duration)
		}
	}
	b.Parse.finish()
	b.Bind.finish()
	b.Check.finish()
	b.Emit.finish()
	return b
}

func (s *PhaseStats) observe(d float64) {
	if s.Count == 0 || d < s.MinTime {
		s.MinTime = d
	}
	if d > s.MaxTime {
		s.MaxTime = d
	}
	s.Count++
	s.TotalTime += d
}

func (s *PhaseStats) finish() {
	if s.Count > 0 {
		s.AvgTime = s.TotalTime / float64(s.Count)
	}
}
