package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelGatesScopes(t *testing.T) {
	cases := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeError, false},
		{LevelError, ScopeError, true},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopePhase, true},
		{LevelPhase, ScopeKind, false},
		{LevelDetail, ScopeKind, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, c := range cases {
		if got := c.level.ShouldEmit(c.scope); got != c.want {
			t.Errorf("%v.ShouldEmit(%v) = %v, want %v", c.level, c.scope, got, c.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	if l, err := ParseLevel("DETAIL"); err != nil || l != LevelDetail {
		t.Fatalf("ParseLevel(DETAIL) = %v, %v", l, err)
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatNDJSON)
	ctx := WithTracer(context.Background(), tr)

	ctx, span := Start(ctx, ScopeDriver, "load")
	_, kind := Start(ctx, ScopeKind, "kind:VarDecl") // filtered at LevelPhase
	kind.End("")
	span.WithCount("nodes", 3).End("ok")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected begin+end only, got %d lines:\n%s", len(lines), buf.String())
	}
	var end jsonEvent
	if err := json.Unmarshal([]byte(lines[1]), &end); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if end.Kind != "end" || end.Name != "load" || end.Extra["nodes"] != "3" {
		t.Fatalf("unexpected end event: %+v", end)
	}
}

func TestRingTracerKeepsNewest(t *testing.T) {
	r := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		r.Emit(&Event{Kind: KindPoint, Scope: ScopeNode, Name: name})
	}
	snap := r.Snapshot()
	if len(snap) != 2 || snap[0].Name != "b" || snap[1].Name != "c" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatAuto); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "• c") {
		t.Fatalf("dump misses newest event:\n%s", buf.String())
	}
}

func TestMultiTracerFindsRing(t *testing.T) {
	var buf bytes.Buffer
	m := NewMultiTracer(LevelDebug, NewStreamTracer(&buf, LevelDebug, FormatText), NewRingTracer(8, LevelDebug))
	Point(WithTracer(context.Background(), m), ScopeNode, "dangling", "VarDecl#9")
	if m.Ring() == nil || len(m.Ring().Snapshot()) != 1 {
		t.Fatal("ring did not receive the event")
	}
	if !strings.Contains(buf.String(), "dangling (VarDecl#9)") {
		t.Fatalf("stream output: %q", buf.String())
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatal(err)
	}
	if tr.Enabled() {
		t.Fatal("off tracer must be disabled")
	}
}
