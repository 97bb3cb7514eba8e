package aggregate

import (
	"sort"

	"tracelens/internal/events"
)

// noiseFloorMS is the location-duration threshold below which an
// aggregated location is considered measurement noise and dropped.
const noiseFloorMS = 0.1

// CodeLocation is one (pos,end) byte range within a file with the summed
// duration of every position-carrying event that referenced it. These are
// the AST-node-level hotspots surfaced per file, almost always produced
// by check-phase events.
type CodeLocation struct {
	Pos       int     `json:"pos"`
	End       int     `json:"end"`
	Duration  float64 `json:"duration"`
	Kind      int     `json:"kind"`
	KindLabel string  `json:"kindLabel"`
	TypeRefs  []int   `json:"typeRefs,omitempty"`
	Snippet   string  `json:"snippet,omitempty"`
	Line      int     `json:"line,omitempty"`
	Column    int     `json:"column,omitempty"`
}

type spanKey struct {
	pos int
	end int
}

// Locations groups a file's position-carrying events by (pos,end),
// summing durations and accumulating type references. Snippet and
// line/column metadata stick with the first event that supplies them.
// Locations whose combined duration sits at or below the noise floor
// are dropped before the descending sort.
func Locations(evs []events.ProcessedEvent) []CodeLocation {
	bySpan := make(map[spanKey]*CodeLocation)
	var order []spanKey

	for _, ev := range evs {
		pos, okPos := events.ArgInt(ev.Args, "pos")
		end, okEnd := events.ArgInt(ev.Args, "end")
		if !okPos || !okEnd {
			continue
		}

		key := spanKey{pos, end}
		loc, ok := bySpan[key]
		if !ok {
			loc = &CodeLocation{Pos: pos, End: end}
			bySpan[key] = loc
			order = append(order, key)
		}
		loc.Duration += ev.Duration

		if kind, ok := events.ArgInt(ev.Args, "kind"); ok && loc.KindLabel == "" {
			loc.Kind = kind
			loc.KindLabel = SyntaxKindLabel(kind)
		}
		if id, ok := events.ArgInt(ev.Args, "sourceId"); ok {
			loc.TypeRefs = append(loc.TypeRefs, id)
		}
		if id, ok := events.ArgInt(ev.Args, "targetId"); ok {
			loc.TypeRefs = append(loc.TypeRefs, id)
		}

		// First non-empty snippet wins; later events never overwrite it.
		if loc.Snippet == "" {
			if snippet, ok := events.ArgString(ev.Args, "snippet"); ok && snippet != "" {
				loc.Snippet = snippet
				if line, ok := events.ArgInt(ev.Args, "line"); ok {
					loc.Line = line
				}
				if col, ok := events.ArgInt(ev.Args, "column"); ok {
					loc.Column = col
				}
			}
		}
	}

	result := make([]CodeLocation, 0, len(bySpan))
	for _, key := range order {
		loc := bySpan[key]
		if loc.Duration <= noiseFloorMS {
			continue
		}
		result = append(result, *loc)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Duration > result[j].Duration
	})
	return result
}
