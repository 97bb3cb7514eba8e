package events

import (
	"sort"
	"testing"

	"tracelens/internal/trace"
)

func begin(name string, cat trace.Category, ts float64) trace.RawEvent {
	return trace.RawEvent{Name: name, Category: cat, Phase: trace.PhaseBegin, ProcessID: 1, ThreadID: 1, Timestamp: ts}
}

func end(name string, cat trace.Category, ts float64) trace.RawEvent {
	return trace.RawEvent{Name: name, Category: cat, Phase: trace.PhaseEnd, ProcessID: 1, ThreadID: 1, Timestamp: ts}
}

func TestRebuild_SinglePair(t *testing.T) {
	raw := []trace.RawEvent{
		begin("checkSourceFile", trace.CategoryCheck, 1000),
		end("checkSourceFile", trace.CategoryCheck, 1500),
	}

	processed := Rebuild(raw)
	if len(processed) != 1 {
		t.Fatalf("expected 1 processed event, got %d", len(processed))
	}

	ev := processed[0]
	if ev.Category != trace.CategoryCheck {
		t.Errorf("expected category check, got %q", ev.Category)
	}
	if ev.StartTime != 0 {
		t.Errorf("expected startTime=0, got %v", ev.StartTime)
	}
	if ev.Duration != 0.5 {
		t.Errorf("expected duration=0.5ms, got %v", ev.Duration)
	}
}

func TestRebuild_NestedSameNameLIFO(t *testing.T) {
	// B1 B2 E(closes B2) E(closes B1): inner span is 10µs, outer 100µs.
	raw := []trace.RawEvent{
		begin("checkExpression", trace.CategoryCheck, 1000),
		begin("checkExpression", trace.CategoryCheck, 1040),
		end("checkExpression", trace.CategoryCheck, 1050),
		end("checkExpression", trace.CategoryCheck, 1100),
	}

	processed := Rebuild(raw)
	if len(processed) != 2 {
		t.Fatalf("expected 2 processed events, got %d", len(processed))
	}

	// Output is sorted by start time, so the outer span comes first.
	if processed[0].StartTime != 0 || processed[0].Duration != 0.1 {
		t.Errorf("outer span: expected start=0 dur=0.1, got start=%v dur=%v",
			processed[0].StartTime, processed[0].Duration)
	}
	if processed[1].StartTime != 0.04 || processed[1].Duration != 0.01 {
		t.Errorf("inner span: expected start=0.04 dur=0.01, got start=%v dur=%v",
			processed[1].StartTime, processed[1].Duration)
	}
}

func TestRebuild_UnmatchedEndDropped(t *testing.T) {
	raw := []trace.RawEvent{
		end("checkSourceFile", trace.CategoryCheck, 1500),
		{Name: "emit", Category: trace.CategoryEmit, Phase: trace.PhaseComplete, Timestamp: 2000, Duration: 100},
	}

	processed := Rebuild(raw)
	if len(processed) != 1 {
		t.Fatalf("expected only the complete event, got %d events", len(processed))
	}
	if processed[0].Name != "emit" {
		t.Errorf("expected emit event, got %q", processed[0].Name)
	}
}

func TestRebuild_UnmatchedBeginNeverEmits(t *testing.T) {
	raw := []trace.RawEvent{
		begin("checkSourceFile", trace.CategoryCheck, 1000),
	}
	if processed := Rebuild(raw); len(processed) != 0 {
		t.Fatalf("expected no output for an unmatched begin, got %d events", len(processed))
	}
}

func TestRebuild_ArgsMergeEndWins(t *testing.T) {
	b := begin("checkSourceFile", trace.CategoryCheck, 1000)
	b.Args = map[string]any{"path": "/src/a.ts", "pos": float64(10)}
	e := end("checkSourceFile", trace.CategoryCheck, 2000)
	e.Args = map[string]any{"pos": float64(20), "end": float64(90)}

	processed := Rebuild([]trace.RawEvent{b, e})
	if len(processed) != 1 {
		t.Fatalf("expected 1 event, got %d", len(processed))
	}

	ev := processed[0]
	if ev.FilePath != "/src/a.ts" {
		t.Errorf("expected file path from begin side, got %q", ev.FilePath)
	}
	if pos, _ := ArgInt(ev.Args, "pos"); pos != 20 {
		t.Errorf("expected end-side pos=20 to win, got %d", pos)
	}
	if endPos, _ := ArgInt(ev.Args, "end"); endPos != 90 {
		t.Errorf("expected end=90, got %d", endPos)
	}
}

func TestRebuild_MetadataDiscarded(t *testing.T) {
	raw := []trace.RawEvent{
		{Name: "process_name", Phase: trace.PhaseMetadata, Timestamp: 10},
		{Name: "emit", Category: trace.CategoryEmit, Phase: trace.PhaseComplete, Timestamp: 5000, Duration: 100},
	}

	processed := Rebuild(raw)
	if len(processed) != 1 {
		t.Fatalf("expected 1 event, got %d", len(processed))
	}
	// The metadata timestamp must not anchor the timeline.
	if processed[0].StartTime != 0 {
		t.Errorf("expected startTime=0, got %v", processed[0].StartTime)
	}
}

func TestRebuild_OutOfOrderInputResorted(t *testing.T) {
	raw := []trace.RawEvent{
		{Name: "late", Category: trace.CategoryCheck, Phase: trace.PhaseComplete, Timestamp: 9000, Duration: 10},
		begin("checkSourceFile", trace.CategoryCheck, 1000),
		{Name: "early", Category: trace.CategoryParse, Phase: trace.PhaseComplete, Timestamp: 2000, Duration: 10},
		end("checkSourceFile", trace.CategoryCheck, 9500),
	}

	processed := Rebuild(raw)
	if len(processed) != 3 {
		t.Fatalf("expected 3 events, got %d", len(processed))
	}
	if !sort.SliceIsSorted(processed, func(i, j int) bool {
		return processed[i].StartTime < processed[j].StartTime
	}) {
		t.Errorf("processed events not ordered by startTime: %+v", processed)
	}
	// The long check span starts at the trace origin despite its end
	// arriving after the complete events.
	if processed[0].Name != "checkSourceFile" {
		t.Errorf("expected checkSourceFile first, got %q", processed[0].Name)
	}
}

func TestRebuild_CompleteWithoutDuration(t *testing.T) {
	raw := []trace.RawEvent{
		{Name: "mark", Category: trace.CategoryProgram, Phase: trace.PhaseInstant, Timestamp: 1000},
	}
	processed := Rebuild(raw)
	if len(processed) != 1 {
		t.Fatalf("expected 1 event, got %d", len(processed))
	}
	if processed[0].Duration != 0 {
		t.Errorf("expected duration=0, got %v", processed[0].Duration)
	}
}

func TestRebuild_UniqueIDs(t *testing.T) {
	raw := []trace.RawEvent{
		{Name: "a", Phase: trace.PhaseComplete, Timestamp: 1000, Duration: 5},
		{Name: "b", Phase: trace.PhaseComplete, Timestamp: 2000, Duration: 5},
		{Name: "c", Phase: trace.PhaseComplete, Timestamp: 3000, Duration: 5},
	}
	processed := Rebuild(raw)
	seen := make(map[int]bool)
	for _, ev := range processed {
		if seen[ev.ID] {
			t.Fatalf("duplicate event id %d", ev.ID)
		}
		seen[ev.ID] = true
	}
}

func TestFilterMinDuration(t *testing.T) {
	evs := []ProcessedEvent{
		{Name: "tiny", Duration: 0.05},
		{Name: "exact", Duration: 0.1},
		{Name: "big", Duration: 3},
	}

	kept := FilterMinDuration(evs, 0.1)
	if len(kept) != 2 {
		t.Fatalf("expected 2 events kept, got %d", len(kept))
	}
	if kept[0].Name != "exact" {
		t.Errorf("expected the at-threshold event to survive, got %q", kept[0].Name)
	}

	if got := FilterMinDuration(evs, 0); len(got) != 3 {
		t.Errorf("expected zero threshold to keep everything, got %d", len(got))
	}
}

func TestFilterRange(t *testing.T) {
	evs := []ProcessedEvent{
		{Name: "before", StartTime: 0, Duration: 1},
		{Name: "spanning", StartTime: 4, Duration: 10},
		{Name: "inside", StartTime: 6, Duration: 1},
		{Name: "after", StartTime: 30, Duration: 1},
	}

	kept := FilterRange(evs, 5, 20)
	if len(kept) != 2 {
		t.Fatalf("expected 2 events, got %d", len(kept))
	}
	if kept[0].Name != "spanning" || kept[1].Name != "inside" {
		t.Errorf("expected spanning+inside, got %q %q", kept[0].Name, kept[1].Name)
	}
}

func TestRebuild_Empty(t *testing.T) {
	if got := Rebuild(nil); len(got) != 0 {
		t.Errorf("expected no events for empty input, got %d", len(got))
	}
}
