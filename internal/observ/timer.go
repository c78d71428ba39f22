// Package observ aggregates per-stage timings for --timings.
package observ

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Phase is one named stage and its accumulated time.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Count int
	Note  string
}

// Timer collects phase durations. Phases keep first-seen order; repeated names
// accumulate, so a multi-file run reports one "lower" line for all files.
// Safe for concurrent use.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
	index  map[string]int
}

func NewTimer() *Timer {
	return &Timer{phases: make([]Phase, 0, 8), index: make(map[string]int)}
}

func (t *Timer) slot(name string) *Phase {
	idx, ok := t.index[name]
	if !ok {
		idx = len(t.phases)
		t.phases = append(t.phases, Phase{Name: name})
		t.index[name] = idx
	}
	return &t.phases[idx]
}

// Begin starts timing name and returns the matching stop function.
func (t *Timer) Begin(name string) func(note string) {
	if t == nil {
		return func(string) {}
	}
	start := time.Now()
	t.mu.Lock()
	p := t.slot(name)
	if p.Start.IsZero() {
		p.Start = start
	}
	t.mu.Unlock()
	return func(note string) {
		t.Observe(name, time.Since(start), note)
	}
}

// Observe adds an externally measured duration to name.
func (t *Timer) Observe(name string, d time.Duration, note string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	p := t.slot(name)
	p.Dur += d
	p.Count++
	if note != "" {
		p.Note = note
	}
}

type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Count      int     `json:"count"`
	Note       string  `json:"note,omitempty"`
}

type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report snapshots the phases; TotalMS is the sum of all phases.
func (t *Timer) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.phases) == 0 {
		return Report{}
	}
	report := Report{Phases: make([]PhaseReport, len(t.phases))}
	var total time.Duration
	for i, p := range t.phases {
		total += p.Dur
		report.Phases[i] = PhaseReport{
			Name:       p.Name,
			DurationMS: millis(p.Dur),
			Count:      p.Count,
			Note:       p.Note,
		}
	}
	report.TotalMS = millis(total)
	return report
}

// WriteSummary prints the report as an aligned table.
func (t *Timer) WriteSummary(w io.Writer) error {
	report := t.Report()
	if _, err := fmt.Fprintln(w, "timings:"); err != nil {
		return err
	}
	for _, p := range report.Phases {
		line := fmt.Sprintf("  %-12s %9.2f ms  x%d", p.Name, p.DurationMS, p.Count)
		if p.Note != "" {
			line += "  // " + p.Note
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "  %-12s %9.2f ms\n", "total", report.TotalMS)
	return err
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
