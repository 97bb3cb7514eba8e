// Package events reconstructs normalized, time-ordered processed events
// from the raw begin/end/complete events of a compiler trace.
package events

import "tracelens/internal/trace"

// ProcessedEvent is a reconstructed trace event. StartTime and Duration
// are in milliseconds; StartTime is relative to the earliest timestamp in
// the trace, so the first event of a trace starts at 0.
type ProcessedEvent struct {
	ID        int            `json:"id"`
	Name      string         `json:"name"`
	Category  trace.Category `json:"category"`
	StartTime float64        `json:"startTime"`
	Duration  float64        `json:"duration"`
	FilePath  string         `json:"filePath,omitempty"`
	Args      map[string]any `json:"args,omitempty"`
}

// EndTime returns the event's end position on the normalized timeline,
// in milliseconds.
func (e ProcessedEvent) EndTime() float64 {
	return e.StartTime + e.Duration
}
