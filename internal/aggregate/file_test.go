package aggregate

import (
	"math"
	"testing"

	"tracelens/internal/events"
	"tracelens/internal/trace"
)

func ev(path string, cat trace.Category, start, dur float64) events.ProcessedEvent {
	return events.ProcessedEvent{
		Name:      string(cat),
		Category:  cat,
		StartTime: start,
		Duration:  dur,
		FilePath:  path,
	}
}

func TestFiles_PhaseBuckets(t *testing.T) {
	evs := []events.ProcessedEvent{
		ev("/src/a.ts", trace.CategoryParse, 0, 1),
		ev("/src/a.ts", trace.CategoryBind, 1, 2),
		ev("/src/a.ts", trace.CategoryCheck, 3, 4),
		ev("/src/a.ts", trace.CategoryCheckTypes, 7, 5),
		ev("/src/a.ts", trace.CategoryEmit, 12, 3),
		ev("/src/a.ts", trace.CategoryProgram, 0, 100), // must not count
	}

	files := Files(evs)
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}

	f := files[0]
	if f.ParseTime != 1 || f.BindTime != 2 || f.EmitTime != 3 {
		t.Errorf("unexpected phase times: parse=%v bind=%v emit=%v", f.ParseTime, f.BindTime, f.EmitTime)
	}
	if f.CheckTime != 9 {
		t.Errorf("expected check+checkTypes merged into checkTime=9, got %v", f.CheckTime)
	}
	if f.TotalTime != 15 {
		t.Errorf("expected totalTime=15, got %v", f.TotalTime)
	}
	if got := f.ParseTime + f.BindTime + f.CheckTime + f.EmitTime; math.Abs(got-f.TotalTime) > 1e-9 {
		t.Errorf("phase buckets sum %v does not equal totalTime %v", got, f.TotalTime)
	}
}

func TestFiles_SortedDescendingByTotal(t *testing.T) {
	evs := []events.ProcessedEvent{
		ev("/src/small.ts", trace.CategoryCheck, 0, 1),
		ev("/src/big.ts", trace.CategoryCheck, 0, 50),
		ev("/src/mid.ts", trace.CategoryCheck, 0, 10),
	}

	files := Files(evs)
	if len(files) != 3 {
		t.Fatalf("expected 3 files, got %d", len(files))
	}
	for i := 1; i < len(files); i++ {
		if files[i].TotalTime > files[i-1].TotalTime {
			t.Fatalf("files not sorted descending: %v before %v",
				files[i-1].TotalTime, files[i].TotalTime)
		}
	}
	if files[0].Path != "/src/big.ts" {
		t.Errorf("expected /src/big.ts first, got %q", files[0].Path)
	}
}

func TestFiles_PathlessEventsExcluded(t *testing.T) {
	evs := []events.ProcessedEvent{
		ev("", trace.CategoryCheck, 0, 100),
		ev("/src/a.ts", trace.CategoryCheck, 0, 1),
	}

	files := Files(evs)
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	if files[0].Path != "/src/a.ts" {
		t.Errorf("expected only the pathed file, got %q", files[0].Path)
	}
}

func TestShortenPath(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"node_modules", "/home/me/proj/node_modules/lodash/index.d.ts", "node_modules/lodash/index.d.ts"},
		{"deep path", "/home/me/proj/src/lib/util.ts", ".../src/lib/util.ts"},
		{"short path", "/src/app.ts", "/src/app.ts"},
		{"relative short", "src/app.ts", "src/app.ts"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ShortenPath(tc.in); got != tc.want {
				t.Errorf("ShortenPath(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestAggregation_FilesInRangeCached(t *testing.T) {
	evs := []events.ProcessedEvent{
		ev("/src/a.ts", trace.CategoryCheck, 0, 5),
		ev("/src/b.ts", trace.CategoryCheck, 100, 5),
	}

	agg := Build(evs)

	view := agg.FilesInRange(0, 50)
	if len(view) != 1 || view[0].Path != "/src/a.ts" {
		t.Fatalf("expected only /src/a.ts in range, got %+v", view)
	}

	// Repeated identical query returns the cached slice.
	again := agg.FilesInRange(0, 50)
	if len(again) != 1 {
		t.Fatalf("expected cached view of 1 file, got %d", len(again))
	}
	if &again[0] != &view[0] {
		t.Errorf("expected the cached view to be reused")
	}

	full := agg.FilesInRange(0, 200)
	if len(full) != 2 {
		t.Errorf("expected 2 files over the full range, got %d", len(full))
	}
}

func TestFiles_Empty(t *testing.T) {
	if got := Files(nil); len(got) != 0 {
		t.Errorf("expected no files for empty input, got %d", len(got))
	}
}
