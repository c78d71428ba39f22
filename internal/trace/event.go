package trace

import "time"

// Event is a single trace record.
type Event struct {
	Time     time.Time
	Seq      uint64 // stamped by the tracer that stores or writes it
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for roots
	Name     string
	Detail   string
	Extra    map[string]string
}

// admit is the filter every concrete tracer applies; heartbeats always pass.
func admit(l Level, ev *Event) bool {
	return ev.Kind == KindHeartbeat || l.ShouldEmit(ev.Scope)
}
