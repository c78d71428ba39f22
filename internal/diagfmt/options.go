// Package diagfmt renders diagnostic bags for terminals and tools.
package diagfmt

import "fmt"

// PathMode picks how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto shortens paths under the base dir and leaves the rest alone.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

var pathModeNames = [...]string{"auto", "absolute", "relative", "basename"}

func (m PathMode) String() string {
	if int(m) < len(pathModeNames) {
		return pathModeNames[m]
	}
	return fmt.Sprintf("PathMode(%d)", m)
}

func ParsePathMode(s string) (PathMode, error) {
	for i, n := range pathModeNames {
		if n == s {
			return PathMode(i), nil //nolint:gosec // four entries
		}
	}
	return PathModeAuto, fmt.Errorf("invalid path mode %q (expected auto|absolute|relative|basename)", s)
}

// PrettyOpts configures the multi-line human format.
type PrettyOpts struct {
	Color     bool
	Context   uint8 // source lines shown above the primary line
	PathMode  PathMode
	ShowNotes bool
}

// JSONOpts configures JSON output.
type JSONOpts struct {
	IncludePositions bool
	IncludeNotes     bool
	PathMode         PathMode
	Max              int // caps the output, not the Bag
}
