package trace_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"glsllayout/internal/trace"
)

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"off", "error", "phase", "detail", "DEBUG"} {
		if _, err := trace.ParseLevel(s); err != nil {
			t.Fatalf("ParseLevel(%q) error: %v", s, err)
		}
	}
	if _, err := trace.ParseLevel("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestLevel_ShouldEmit(t *testing.T) {
	cases := []struct {
		level trace.Level
		scope trace.Scope
		want  bool
	}{
		{trace.LevelOff, trace.ScopeCommand, false},
		{trace.LevelError, trace.ScopeCommand, false},
		{trace.LevelPhase, trace.ScopeFile, true},
		{trace.LevelPhase, trace.ScopeStruct, false},
		{trace.LevelDetail, trace.ScopeStruct, true},
		{trace.LevelDetail, trace.ScopeMember, false},
		{trace.LevelDebug, trace.ScopeMember, true},
	}
	for _, tc := range cases {
		if got := tc.level.ShouldEmit(tc.scope); got != tc.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tc.level, tc.scope, got, tc.want)
		}
	}
}

func TestNew_OffIsNop(t *testing.T) {
	tr, err := trace.New(trace.Config{Level: trace.LevelOff, Mode: trace.ModeStream})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if tr.Enabled() {
		t.Fatal("off tracer reports enabled")
	}
}

func TestStreamTracer_NDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr, err := trace.New(trace.Config{
		Level:  trace.LevelDetail,
		Mode:   trace.ModeStream,
		Format: trace.FormatNDJSON,
		Output: &buf,
	})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	root := trace.Begin(tr, trace.ScopeCommand, "struct", 0)
	child := trace.Begin(tr, trace.ScopeStruct, "struct:Scene", root.ID())
	child.WithExtra("size", "96").End("")
	trace.Begin(tr, trace.ScopeMember, "member:view", child.ID()).End("")
	root.End("ok")
	if err := tr.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4 (member scope filtered):\n%s", len(lines), buf.String())
	}
	var ev map[string]any
	if err := json.Unmarshal([]byte(lines[2]), &ev); err != nil {
		t.Fatalf("line is not JSON: %v", err)
	}
	if ev["kind"] != "end" || ev["name"] != "struct:Scene" || ev["scope"] != "struct" {
		t.Fatalf("unexpected event: %v", ev)
	}
	extra, _ := ev["extra"].(map[string]any)
	if extra["size"] != "96" {
		t.Fatalf("extra = %v", ev["extra"])
	}
}

func TestStreamTracer_TextSortsExtra(t *testing.T) {
	var buf bytes.Buffer
	tr := trace.NewStreamTracer(&buf, trace.LevelDebug, trace.FormatText)
	tr.Emit(&trace.Event{
		Time:  time.Now(),
		Kind:  trace.KindPoint,
		Scope: trace.ScopeFile,
		Name:  "cache",
		Extra: map[string]string{"b": "2", "a": "1"},
	})
	if buf.Len() != 0 {
		t.Fatal("stream tracer wrote before Flush")
	}
	if err := tr.Flush(); err != nil {
		t.Fatalf("Flush error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "• cache {a=1, b=2}") {
		t.Fatalf("unexpected text line: %q", out)
	}
}

func TestRingTracer_Wraps(t *testing.T) {
	ring := trace.NewRingTracer(3, trace.LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		ring.Emit(&trace.Event{Kind: trace.KindPoint, Scope: trace.ScopeFile, Name: name})
	}
	snap := ring.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("snapshot has %d events, want 3", len(snap))
	}
	for i, want := range []string{"c", "d", "e"} {
		if snap[i].Name != want {
			t.Fatalf("snapshot[%d] = %q, want %q", i, snap[i].Name, want)
		}
	}
	if snap[0].Seq >= snap[2].Seq {
		t.Fatal("sequence numbers are not increasing")
	}

	if ring.Dropped() != 2 {
		t.Fatalf("Dropped = %d, want 2", ring.Dropped())
	}

	var buf bytes.Buffer
	if err := ring.Dump(&buf, trace.FormatText); err != nil {
		t.Fatalf("Dump error: %v", err)
	}
	if strings.Count(buf.String(), "\n") != 3 {
		t.Fatalf("dump:\n%s", buf.String())
	}
}

func TestModeBoth_FeedsRing(t *testing.T) {
	var buf bytes.Buffer
	tr, err := trace.New(trace.Config{Level: trace.LevelPhase, Mode: trace.ModeBoth, Output: &buf, RingSize: 8})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	multi, ok := tr.(*trace.MultiTracer)
	if !ok {
		t.Fatalf("tracer is %T, want *MultiTracer", tr)
	}
	trace.Point(tr, trace.ScopeFile, "load", "a.toml", 0)
	if err := tr.Flush(); err != nil {
		t.Fatalf("Flush error: %v", err)
	}
	if got := len(multi.Ring().Snapshot()); got != 1 {
		t.Fatalf("ring holds %d events, want 1", got)
	}
	if !strings.Contains(buf.String(), "load (a.toml)") {
		t.Fatalf("stream output = %q", buf.String())
	}
}

func TestContextPropagation(t *testing.T) {
	ring := trace.NewRingTracer(16, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)

	ctx, outer := trace.BeginFromContext(ctx, trace.ScopeCommand, "outer")
	_, inner := trace.BeginFromContext(ctx, trace.ScopeFile, "inner")
	inner.End("")
	outer.End("")

	snap := ring.Snapshot()
	if len(snap) != 4 {
		t.Fatalf("got %d events, want 4", len(snap))
	}
	if snap[1].ParentID != outer.ID() {
		t.Fatalf("inner parent = %d, want %d", snap[1].ParentID, outer.ID())
	}
	if trace.FromContext(context.Background()) != trace.Nop {
		t.Fatal("empty context should yield Nop")
	}
}

func TestHeartbeat_StopNil(t *testing.T) {
	var h *trace.Heartbeat
	h.Stop()
	if trace.StartHeartbeat(trace.Nop, time.Millisecond) != nil {
		t.Fatal("heartbeat started for disabled tracer")
	}
}

func TestHeartbeat_Emits(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelPhase)
	h := trace.StartHeartbeat(ring, time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for len(ring.Snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	h.Stop()
	h.Stop()
	snap := ring.Snapshot()
	if len(snap) == 0 || snap[0].Kind != trace.KindHeartbeat {
		t.Fatalf("no heartbeat recorded: %v", snap)
	}
}

func TestLevel_Admits(t *testing.T) {
	errEv := &trace.Event{Kind: trace.KindError, Scope: trace.ScopeStruct}
	beat := &trace.Event{Kind: trace.KindHeartbeat, Scope: trace.ScopeCommand}
	point := &trace.Event{Kind: trace.KindPoint, Scope: trace.ScopeFile}
	if !trace.LevelError.Admits(errEv) || trace.LevelOff.Admits(errEv) {
		t.Fatal("error events must pass LevelError and nothing below")
	}
	if !trace.LevelError.Admits(beat) || trace.LevelOff.Admits(beat) {
		t.Fatal("heartbeats must pass any enabled level")
	}
	if trace.LevelError.Admits(point) || !trace.LevelPhase.Admits(point) {
		t.Fatal("points follow the scope filter")
	}
}

func TestSpan_FailAtErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	tr := trace.NewStreamTracer(&buf, trace.LevelError, trace.FormatText)

	ok := trace.Begin(tr, trace.ScopeFile, "file:a.toml", 0)
	if ok.ID() != 0 {
		t.Fatal("file span recorded at LevelError")
	}
	ok.End("")
	bad := trace.Begin(tr, trace.ScopeFile, "file:b.toml", 0)
	bad.Fail(errors.New("struct has no members"))

	// Errors flush without an explicit Flush.
	out := buf.String()
	if strings.Count(out, "\n") != 1 || !strings.Contains(out, "✗ file:b.toml (struct has no members)") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestSpan_FailNil(t *testing.T) {
	ring := trace.NewRingTracer(8, trace.LevelPhase)
	trace.Begin(ring, trace.ScopeFile, "file:a.toml", 0).Fail(nil)
	snap := ring.Snapshot()
	if len(snap) != 2 || snap[1].Kind != trace.KindSpanEnd {
		t.Fatalf("Fail(nil) events = %+v", snap)
	}
}

type closeRecorder struct {
	bytes.Buffer
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func TestModeRing_DumpsOnClose(t *testing.T) {
	out := &closeRecorder{}
	tr, err := trace.New(trace.Config{Level: trace.LevelPhase, Mode: trace.ModeRing, Output: out, RingSize: 2, Format: trace.FormatNDJSON})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	for _, name := range []string{"a", "b", "c"} {
		trace.Point(tr, trace.ScopeFile, name, "", 0)
	}
	if out.Len() != 0 {
		t.Fatal("ring wrote before Close")
	}
	if err := tr.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], `"name":"b"`) || !strings.Contains(lines[1], `"name":"c"`) {
		t.Fatalf("dump = %q", out.String())
	}
	if !out.closed {
		t.Fatal("dump destination not closed")
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]trace.Format{
		"":       trace.FormatAuto,
		"auto":   trace.FormatAuto,
		"Text":   trace.FormatText,
		"ndjson": trace.FormatNDJSON,
		"json":   trace.FormatNDJSON,
	}
	for in, want := range cases {
		got, err := trace.ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := trace.ParseFormat("xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNew_RejectsUnknownMode(t *testing.T) {
	if _, err := trace.New(trace.Config{Level: trace.LevelPhase, Mode: trace.StorageMode(9), Output: &bytes.Buffer{}}); err == nil {
		t.Fatal("expected error for unknown storage mode")
	}
}
