// Package stats computes phase-level statistics, top-K hotspot selection
// and duration percentiles over processed trace events. All functions are
// pure computations with no side effects.
package stats

import "tracelens/internal/aggregate"

// PhaseStats summarizes the durations of one compiler phase, in
// milliseconds. All fields are zero when the phase has no events.
type PhaseStats struct {
	Count     int     `json:"count"`
	TotalTime float64 `json:"totalTime"`
	AvgTime   float64 `json:"avgTime"`
	MaxTime   float64 `json:"maxTime"`
	MinTime   float64 `json:"minTime"`
}

// PhaseBreakdown holds per-phase statistics for the four timed phases.
// check covers both the check and checkTypes categories.
type PhaseBreakdown struct {
	Parse PhaseStats `json:"parse"`
	Bind  PhaseStats `json:"bind"`
	Check PhaseStats `json:"check"`
	Emit  PhaseStats `json:"emit"`
}

// Hotspots lists the slowest files and code locations, descending.
type Hotspots struct {
	Files     []aggregate.FileEvents   `json:"files"`
	Locations []aggregate.CodeLocation `json:"locations"`
}
