package trace

import (
	"fmt"
	"strings"
)

// nameOf indexes a name table, tolerating values outside it.
func nameOf[T ~uint8](names []string, v T) string {
	if int(v) < len(names) && names[v] != "" {
		return names[v]
	}
	return "unknown"
}

// parseName matches s case-insensitively against names and extra aliases.
// The empty string maps to def.
func parseName[T ~uint8](what string, names []string, s string, def T, aliases map[string]T) (T, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return def, nil
	}
	for i, n := range names {
		if n != "" && n == s {
			return T(i), nil //nolint:gosec // tables are tiny
		}
	}
	if v, ok := aliases[s]; ok {
		return v, nil
	}
	var valid []string
	for _, n := range names {
		if n != "" {
			valid = append(valid, n)
		}
	}
	return def, fmt.Errorf("invalid trace %s: %q (expected: %s)", what, s, strings.Join(valid, "|"))
}

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff Level = iota
	LevelError
	LevelPhase  // driver and pass boundaries
	LevelDetail // plus per-file events
	LevelDebug  // plus per-node events
)

var levelNames = []string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string { return nameOf(levelNames, l) }

func ParseLevel(s string) (Level, error) {
	return parseName("level", levelNames, s, LevelOff, nil)
}

// widest scope each level lets through
var levelScopes = [...]Scope{LevelPhase: ScopePass, LevelDetail: ScopeFile, LevelDebug: ScopeNode}

// ShouldEmit reports whether events of scope pass the level filter.
func (l Level) ShouldEmit(scope Scope) bool {
	return int(l) < len(levelScopes) && scope <= levelScopes[l]
}

// Scope is the granularity of an event; smaller values are coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // CLI and driver operations
	ScopePass                    // load, decode, lower, validate
	ScopeFile                    // one AST document
	ScopeNode                    // blocks inside the lowerer
)

var scopeNames = []string{"", "driver", "pass", "file", "node"}

func (s Scope) String() string { return nameOf(scopeNames, s) }

// Kind is the type of a trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat
)

var kindNames = []string{"", "begin", "end", "point", "heartbeat"}

func (k Kind) String() string { return nameOf(kindNames, k) }

// StorageMode selects where events go.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // write immediately
	ModeRing                          // keep the last N in memory
	ModeBoth
)

var modeNames = []string{"", "stream", "ring", "both"}

func (m StorageMode) String() string { return nameOf(modeNames, m) }

func ParseMode(s string) (StorageMode, error) {
	return parseName("mode", modeNames, s, ModeStream, nil)
}

// Format is the on-disk representation of events.
type Format uint8

const (
	FormatAuto   Format = iota // pick from the output path
	FormatText                 // one human-readable line per event
	FormatNDJSON               // one JSON object per line
)

var formatNames = []string{"auto", "text", "ndjson"}

func (f Format) String() string { return nameOf(formatNames, f) }

func ParseFormat(s string) (Format, error) {
	return parseName("format", formatNames, s, FormatAuto, map[string]Format{"json": FormatNDJSON})
}
