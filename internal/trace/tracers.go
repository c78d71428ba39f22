package trace

import (
	"bufio"
	"errors"
	"io"
	"sync"
)

type nopTracer struct{}

func (nopTracer) Emit(*Event)   {}
func (nopTracer) Flush() error  { return nil }
func (nopTracer) Close() error  { return nil }
func (nopTracer) Level() Level  { return LevelOff }
func (nopTracer) Enabled() bool { return false }

// Nop discards everything.
var Nop Tracer = nopTracer{}

// StreamTracer formats events as they arrive into a buffered writer. Write
// errors are dropped; tracing never fails a run.
type StreamTracer struct {
	mu     sync.Mutex
	out    io.Writer
	buf    *bufio.Writer
	level  Level
	format Format
}

func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return &StreamTracer{out: w, buf: bufio.NewWriter(w), level: level, format: format}
}

func (t *StreamTracer) Emit(ev *Event) {
	if !admit(t.level, ev) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	ev.Seq = NextSeq()
	_, _ = t.buf.Write(FormatEvent(ev, t.format))
	// driver events go out at once
	if ev.Scope == ScopeDriver {
		_ = t.buf.Flush()
	}
}

func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf.Flush()
}

func (t *StreamTracer) Close() error {
	err := t.Flush()
	if c, ok := t.out.(io.Closer); ok {
		err = errors.Join(err, c.Close())
	}
	return err
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }

// RingTracer keeps the most recent events in memory.
type RingTracer struct {
	mu    sync.Mutex
	buf   []Event
	total int // events ever stored
	level Level
}

// NewRingTracer keeps up to size events; size <= 0 means 4096.
func NewRingTracer(size int, level Level) *RingTracer {
	if size <= 0 {
		size = 4096
	}
	return &RingTracer{buf: make([]Event, size), level: level}
}

func (t *RingTracer) Emit(ev *Event) {
	if !admit(t.level, ev) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	stored := *ev
	stored.Seq = NextSeq()
	t.buf[t.total%len(t.buf)] = stored
	t.total++
}

// Snapshot returns the stored events oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := min(t.total, len(t.buf))
	out := make([]Event, 0, n)
	for i := t.total - n; i < t.total; i++ {
		out = append(out, t.buf[i%len(t.buf)])
	}
	return out
}

// Dump writes the snapshot in format.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }

// MultiTracer fans events out; each child gets its own copy.
type MultiTracer struct {
	children []Tracer
	level    Level
}

func NewMultiTracer(level Level, children ...Tracer) *MultiTracer {
	return &MultiTracer{children: children, level: level}
}

func (t *MultiTracer) Emit(ev *Event) {
	for _, c := range t.children {
		cp := *ev
		c.Emit(&cp)
	}
}

func (t *MultiTracer) each(op func(Tracer) error) error {
	var errs []error
	for _, c := range t.children {
		errs = append(errs, op(c))
	}
	return errors.Join(errs...)
}

func (t *MultiTracer) Flush() error  { return t.each(Tracer.Flush) }
func (t *MultiTracer) Close() error  { return t.each(Tracer.Close) }
func (t *MultiTracer) Level() Level  { return t.level }
func (t *MultiTracer) Enabled() bool { return t.level > LevelOff }

// Ring returns the first RingTracer child, if any.
func (t *MultiTracer) Ring() *RingTracer {
	for _, c := range t.children {
		if r, ok := c.(*RingTracer); ok {
			return r
		}
	}
	return nil
}
