package pipeline

import (
	"slices"
	"sync"
	"time"
)

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(ev Event) { f(ev) }

// ChannelSink forwards events into Ch; a nil channel drops them.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(ev Event) {
	if s.Ch != nil {
		s.Ch <- ev
	}
}

// RecordingSink keeps every event, for tests and post-run summaries.
type RecordingSink struct {
	mu  sync.Mutex
	got []Event
}

func (s *RecordingSink) OnEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, ev)
}

func (s *RecordingSink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.got)
}

func emit(sink ProgressSink, file string, stage Stage, status Status, err error, elapsed time.Duration) {
	if sink != nil {
		sink.OnEvent(Event{File: file, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
	}
}

// EmitQueued announces files before any work starts.
func EmitQueued(sink ProgressSink, files []string) {
	for _, f := range files {
		emit(sink, f, StageLoad, StatusQueued, nil, 0)
	}
}
