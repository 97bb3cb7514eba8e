// Package trace defines the raw event model for tsc --generateTrace output
// (Chrome Trace Event Format) and a streaming decoder that reads a trace
// file without materializing the whole document in memory.
package trace

// Phase is the single-character event type marker ("ph" field) from the
// trace file.
type Phase string

const (
	PhaseBegin    Phase = "B" // start of a duration event
	PhaseEnd      Phase = "E" // end of a duration event
	PhaseComplete Phase = "X" // self-contained event carrying its own duration
	PhaseInstant  Phase = "I" // point-in-time event, no duration
	PhaseMetadata Phase = "M" // process/thread naming, not a timed event
)

// Category tags an event with the compiler phase that produced it
// ("cat" field).
type Category string

const (
	CategoryParse      Category = "parse"
	CategoryBind       Category = "bind"
	CategoryCheck      Category = "check"
	CategoryCheckTypes Category = "checkTypes"
	CategoryEmit       Category = "emit"
	CategoryProgram    Category = "program"
	CategoryMetadata   Category = "metadata"
)

// RawEvent is one entry of the top-level trace array. Timestamps are in
// microseconds on the trace's own monotonic clock; they are not zero-based.
// The args bag is free-form: depending on the event it may carry a source
// file path (under "path", "fileName", "containingFileName" or
// "configFilePath"), an AST byte range ("pos"/"end"), a numeric syntax-kind
// code ("kind"), and type-reference ids ("sourceId"/"targetId").
type RawEvent struct {
	Name      string         `json:"name"`
	Category  Category       `json:"cat"`
	Phase     Phase          `json:"ph"`
	ProcessID int            `json:"pid"`
	ThreadID  int            `json:"tid"`
	Timestamp float64        `json:"ts"`
	Duration  float64        `json:"dur,omitempty"`
	Args      map[string]any `json:"args,omitempty"`
}
