package trace

import (
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// NextSeq returns a process-wide increasing sequence number.
func NextSeq() uint64 { return seqCounter.Add(1) }

// Span brackets one operation with begin and end events. The zero Span and a
// nil *Span are inert.
type Span struct {
	t       Tracer
	begin   Event
	started time.Time
	extra   map[string]string
}

func live(t Tracer, scope Scope) bool {
	return t != nil && t.Enabled() && t.Level().ShouldEmit(scope)
}

// Begin emits the begin event under parent. Filtered scopes yield an inert span.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if !live(t, scope) {
		return &Span{}
	}
	now := time.Now()
	s := &Span{
		t:       t,
		started: now,
		begin: Event{
			Time: now, Kind: KindSpanBegin, Scope: scope,
			SpanID: spanCounter.Add(1), ParentID: parent, Name: name,
		},
	}
	ev := s.begin
	t.Emit(&ev)
	return s
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.t == nil {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 2)
	}
	s.extra[key] = value
	return s
}

// End emits the end event and returns the elapsed time, or 0 for an inert span.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.t == nil {
		return 0
	}
	elapsed := time.Since(s.started)
	ev := s.begin
	ev.Time = s.started.Add(elapsed)
	ev.Kind = KindSpanEnd
	ev.Detail = detail
	ev.Extra = s.extra
	s.t.Emit(&ev)
	return elapsed
}

// ID is 0 for an inert span, so children of a filtered span become roots.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.begin.SpanID
}

// Point emits an instant event under parent.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	if !live(t, scope) {
		return
	}
	t.Emit(&Event{Time: time.Now(), Kind: KindPoint, Scope: scope, ParentID: parent, Name: name, Detail: detail})
}
