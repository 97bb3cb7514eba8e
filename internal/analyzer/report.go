// Package analyzer wires the trace pipeline together: decode, rebuild,
// filter, aggregate, and summarize into a single serializable Report.
package analyzer

import (
	"tracelens/internal/aggregate"
	"tracelens/internal/events"
	"tracelens/internal/stats"
)

// Report is the aggregated data model handed to the report renderer. It
// carries no behavior and encodes directly with encoding/json.
type Report struct {
	Meta        Meta                    `json:"meta"`
	Events      []events.ProcessedEvent `json:"events"`
	Files       []FileReport            `json:"files"`
	Phases      stats.PhaseBreakdown    `json:"phases"`
	Hotspots    stats.Hotspots          `json:"hotspots"`
	Percentiles map[string]float64      `json:"percentiles"`
}

// FileReport is one file's aggregation plus its slow code locations.
type FileReport struct {
	aggregate.FileEvents
	Locations []aggregate.CodeLocation `json:"locations,omitempty"`
}

// Meta describes the trace as a whole.
type Meta struct {
	TotalEvents     int     `json:"totalEvents"`
	DroppedByFilter int     `json:"droppedByFilter"`
	TraceDurationMS float64 `json:"traceDurationMs"`
	// Process and thread names recovered from metadata events. Thread
	// names are keyed "pid/tid".
	ProcessNames map[int]string    `json:"processNames,omitempty"`
	ThreadNames  map[string]string `json:"threadNames,omitempty"`
}
