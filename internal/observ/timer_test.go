package observ

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTimerReportSumsTopLevelPhases(t *testing.T) {
	tm := NewTimer()
	outer := tm.Begin("materialize")
	inner := tm.Begin("kind:VarDecl")
	time.Sleep(time.Millisecond)
	tm.End(inner, "3 nodes")
	tm.End(outer, "")

	rep := tm.Report()
	if len(rep.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(rep.Phases))
	}
	if rep.Phases[1].Note != "3 nodes" {
		t.Fatalf("note lost: %+v", rep.Phases[1])
	}
	if rep.TotalMS != rep.Phases[0].DurationMS {
		t.Fatalf("total %v should equal outer phase %v", rep.TotalMS, rep.Phases[0].DurationMS)
	}
}

func TestTimerMeasureMarksFailure(t *testing.T) {
	tm := NewTimer()
	boom := errors.New("boom")
	if err := tm.Measure("index", func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("Measure must return fn error, got %v", err)
	}
	if got := tm.Report().Phases[0].Note; got != "failed" {
		t.Fatalf("note = %q, want failed", got)
	}
	if !strings.Contains(tm.Summary(), "index") {
		t.Fatalf("summary misses phase:\n%s", tm.Summary())
	}
}

func TestTimerEndIgnoresBadIndex(t *testing.T) {
	tm := NewTimer()
	tm.End(5, "x")
	if len(tm.Report().Phases) != 0 {
		t.Fatal("End must not create phases")
	}
}
