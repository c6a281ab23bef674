package trace

import (
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// NextSeq returns the next process-wide event sequence number.
func NextSeq() uint64 { return seqCounter.Add(1) }

// NextSpanID returns a fresh span ID. IDs start at 1; 0 means unrecorded.
func NextSpanID() uint64 { return spanCounter.Add(1) }

// Span tracks one begin/end pair. A span whose scope the level filters out
// has ID 0 and emits nothing except through Fail.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	extra   map[string]string
}

func (s *Span) event(kind Kind, at time.Time, detail string) *Event {
	return &Event{
		Time:     at,
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Name:     s.name,
		Detail:   detail,
	}
}

// Begin opens a span under parent (0 for a root span).
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	s := &Span{tracer: Nop, parent: parent, scope: scope, name: name, started: time.Now()}
	if t == nil || !t.Enabled() {
		return s
	}
	s.tracer = t
	if t.Level().ShouldEmit(scope) {
		s.id = NextSpanID()
		t.Emit(s.event(KindSpanBegin, s.started, ""))
	}
	return s
}

// End closes the span and returns how long it was open.
func (s *Span) End(detail string) time.Duration {
	if s == nil {
		return 0
	}
	now := time.Now()
	if s.id != 0 {
		ev := s.event(KindSpanEnd, now, detail)
		ev.Extra = s.extra
		s.tracer.Emit(ev)
	}
	return now.Sub(s.started)
}

// Fail records err as a KindError event and ends the span with the error
// text as detail. A nil err is the same as End("").
func (s *Span) Fail(err error) time.Duration {
	if s == nil {
		return 0
	}
	if err == nil {
		return s.End("")
	}
	s.tracer.Emit(s.event(KindError, time.Now(), err.Error()))
	return s.End(err.Error())
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.id == 0 {
		return s
	}
	if s.extra == nil {
		s.extra = map[string]string{}
	}
	s.extra[key] = value
	return s
}

// ID returns the span ID, or 0 when the span is not recorded.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point emits an instant event under parent.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return
	}
	t.Emit(&Event{Time: time.Now(), Kind: KindPoint, Scope: scope, ParentID: parent, Name: name, Detail: detail})
}
