package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"flexir/internal/source"
)

// goldenLine is one rendered row: "<label> <code> <path>:<line>:<col> <message>".
type goldenLine struct {
	label, code, path string
	line, col         uint32
	msg               string
}

func (g goldenLine) String() string {
	return fmt.Sprintf("%s %s %s:%d:%d %s", g.label, g.code, g.path, g.line, g.col, g.msg)
}

func compareGolden(a, b goldenLine) int {
	return cmp.Or(
		cmp.Compare(a.path, b.path),
		cmp.Compare(a.line, b.line),
		cmp.Compare(a.col, b.col),
		cmp.Compare(a.label, b.label),
		cmp.Compare(a.code, b.code),
		cmp.Compare(a.msg, b.msg),
	)
}

// FormatGoldenDiagnostics renders one diagnostic per line, sorted by position,
// with paths relative to fs.BaseDir(). Notes become rows labelled "note" that
// carry their parent's code. Messages are flattened to a single line.
func FormatGoldenDiagnostics(diags []*Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}
	lines := make([]goldenLine, 0, len(diags))
	row := func(label string, code Code, sp source.Span, msg string) {
		path := "<unknown>"
		if f := fs.Get(sp.File); f != nil {
			path = filepath.ToSlash(source.RelativePath(f.Path, fs.BaseDir()))
			for strings.HasPrefix(path, "./") {
				path = path[2:]
			}
		}
		pos, _ := fs.Resolve(sp)
		lines = append(lines, goldenLine{
			label: label, code: code.ID(), path: path,
			line: pos.Line, col: pos.Col, msg: oneLine(msg),
		})
	}
	for _, d := range diags {
		if d == nil {
			continue
		}
		row(d.Severity.Label(), d.Code, d.Primary, d.Message)
		if includeNotes {
			for _, n := range d.Notes {
				row("note", d.Code, n.Span, n.Msg)
			}
		}
	}
	slices.SortStableFunc(lines, compareGolden)

	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return strings.Join(out, "\n")
}

func oneLine(msg string) string {
	return strings.TrimSpace(strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(msg))
}
