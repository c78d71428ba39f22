// Package pipeline runs one AST document through load, decode, lower and
// validate, reporting progress per stage.
package pipeline

import (
	"slices"
	"time"
)

// Stage describes a pipeline phase.
type Stage string

const (
	StageLoad     Stage = "load"
	StageDecode   Stage = "decode"
	StageLower    Stage = "lower"
	StageValidate Stage = "validate"
)

// Stages lists every stage in execution order.
var Stages = stageOrder[:]

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusSkipped Status = "skipped"
	StatusError   Status = "error"
)

// Event reports progress for one file.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Sinks may be called from several
// goroutines when the driver lowers files in parallel.
type ProgressSink interface {
	OnEvent(Event)
}

// Timings records how long each stage of one run took.
type Timings struct {
	dur  [len(stageOrder)]time.Duration
	seen [len(stageOrder)]bool
}

var stageOrder = [...]Stage{StageLoad, StageDecode, StageLower, StageValidate}

func (t *Timings) Set(stage Stage, d time.Duration) {
	if i := slices.Index(stageOrder[:], stage); t != nil && i >= 0 {
		t.dur[i], t.seen[i] = d, true
	}
}

// Has reports whether stage ran far enough to be timed.
func (t Timings) Has(stage Stage) bool {
	i := slices.Index(stageOrder[:], stage)
	return i >= 0 && t.seen[i]
}

func (t Timings) Duration(stage Stage) time.Duration {
	if i := slices.Index(stageOrder[:], stage); i >= 0 {
		return t.dur[i]
	}
	return 0
}

func (t Timings) Total() time.Duration {
	var sum time.Duration
	for _, d := range t.dur {
		sum += d
	}
	return sum
}
