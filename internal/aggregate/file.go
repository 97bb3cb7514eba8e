// Package aggregate groups processed trace events by source file and by
// AST byte range, producing the per-file phase totals and per-location
// hotspots the report is built from.
package aggregate

import (
	"sort"
	"strings"
	"sync"

	"tracelens/internal/events"
	"tracelens/internal/trace"
)

// FileEvents holds every processed event attributed to one source file,
// with per-phase time totals in milliseconds. TotalTime is always the sum
// of the four phase buckets; categories outside them (program, metadata)
// contribute nothing. Built once per aggregation pass and immutable
// afterwards.
type FileEvents struct {
	Path        string                  `json:"path"`
	DisplayPath string                  `json:"displayPath"`
	Events      []events.ProcessedEvent `json:"events"`
	ParseTime   float64                 `json:"parseTime"`
	BindTime    float64                 `json:"bindTime"`
	CheckTime   float64                 `json:"checkTime"`
	EmitTime    float64                 `json:"emitTime"`
	TotalTime   float64                 `json:"totalTime"`
}

// Files groups events by resolved file path and sums per-phase durations.
// Events without a file path are excluded; they stay visible only in the
// unfiltered event list. The result is sorted descending by TotalTime
// (ties fall in grouping order, which is unspecified).
func Files(evs []events.ProcessedEvent) []FileEvents {
	byPath := make(map[string]*FileEvents)
	var order []string

	for _, ev := range evs {
		if ev.FilePath == "" {
			continue
		}
		fe, ok := byPath[ev.FilePath]
		if !ok {
			fe = &FileEvents{
				Path:        ev.FilePath,
				DisplayPath: ShortenPath(ev.FilePath),
			}
			byPath[ev.FilePath] = fe
			order = append(order, ev.FilePath)
		}
		fe.Events = append(fe.Events, ev)

		switch ev.Category {
		case trace.CategoryParse:
			fe.ParseTime += ev.Duration
		case trace.CategoryBind:
			fe.BindTime += ev.Duration
		case trace.CategoryCheck, trace.CategoryCheckTypes:
			// Both categories report type-checking time.
			fe.CheckTime += ev.Duration
		case trace.CategoryEmit:
			fe.EmitTime += ev.Duration
		}
	}

	result := make([]FileEvents, 0, len(byPath))
	for _, path := range order {
		fe := byPath[path]
		fe.TotalTime = fe.ParseTime + fe.BindTime + fe.CheckTime + fe.EmitTime
		result = append(result, *fe)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TotalTime > result[j].TotalTime
	})
	return result
}

// ShortenPath produces the display form of a file path. Paths under
// node_modules keep only the node_modules suffix; long paths keep their
// last three segments behind an ellipsis; short paths pass through.
// Display-only: grouping always uses the full path.
func ShortenPath(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if part == "node_modules" {
			return strings.Join(parts[i:], "/")
		}
	}
	if len(parts) > 4 {
		return "..." + "/" + strings.Join(parts[len(parts)-3:], "/")
	}
	return path
}

type rangeKey struct {
	start float64
	end   float64
}

// Aggregation is a fully built file aggregation plus a cache of
// range-filtered views. The underlying data never changes once built, so
// cached views live as long as the Aggregation itself.
type Aggregation struct {
	Events []events.ProcessedEvent
	Files  []FileEvents

	mu     sync.Mutex
	ranges map[rangeKey][]FileEvents
}

// Build constructs an Aggregation over the full processed-event list.
func Build(evs []events.ProcessedEvent) *Aggregation {
	return &Aggregation{
		Events: evs,
		Files:  Files(evs),
		ranges: make(map[rangeKey][]FileEvents),
	}
}

// FilesInRange returns the file aggregation restricted to events whose
// span overlaps [startMS, endMS). Repeated identical queries are served
// from the cache.
func (a *Aggregation) FilesInRange(startMS, endMS float64) []FileEvents {
	key := rangeKey{startMS, endMS}

	a.mu.Lock()
	defer a.mu.Unlock()
	if cached, ok := a.ranges[key]; ok {
		return cached
	}
	view := Files(events.FilterRange(a.Events, startMS, endMS))
	a.ranges[key] = view
	return view
}
