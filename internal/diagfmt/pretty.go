package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"flexir/internal/diag"
	"flexir/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info, note, gutter, caret, bold *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		bold:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.gutter, p.caret, p.bold} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty writes every diagnostic in bag as a header line followed by a source
// excerpt with the primary span underlined:
//
//	main.fx:2:5: ERROR LOW4001: cannot assign to a call
//	   |
//	 2 | f() = 1
//	   | ^^^
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := writeDiagnostic(w, d, fs, opts, p); err != nil {
			return err
		}
	}
	return nil
}

func writeDiagnostic(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) error {
	file := fs.Get(d.Primary.File)
	start, end := fs.Resolve(d.Primary)
	path := opts.PathMode.render(file, fs.BaseDir())

	var b strings.Builder
	fmt.Fprintf(&b, "%s:%d:%d: %s %s: %s\n",
		p.bold.Sprint(path), start.Line, start.Col,
		p.severity(d.Severity).Sprint(d.Severity.String()),
		d.Code.ID(), p.bold.Sprint(d.Message))

	if file != nil && len(file.Content) > 0 {
		writeExcerpt(&b, file, start, end, opts.Context, p)
	}

	if opts.ShowNotes {
		for _, note := range d.Notes {
			ns, _ := fs.Resolve(note.Span)
			npath := opts.PathMode.render(fs.Get(note.Span.File), fs.BaseDir())
			fmt.Fprintf(&b, "  %s %s:%d:%d: %s\n", p.note.Sprint("note:"), npath, ns.Line, ns.Col, note.Msg)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeExcerpt(b *strings.Builder, file *source.File, start, end source.LineCol, context uint8, p palette) {
	first := start.Line
	if uint32(context) < first {
		first -= uint32(context)
	} else {
		first = 1
	}
	width := len(strconv.FormatUint(uint64(start.Line), 10))
	pad := strings.Repeat(" ", width)

	fmt.Fprintf(b, "%s %s\n", pad, p.gutter.Sprint("|"))
	for ln := first; ln <= start.Line; ln++ {
		fmt.Fprintf(b, "%*d %s %s\n", width, ln, p.gutter.Sprint("|"), expandTabs(file.Line(ln)))
	}

	line := file.Line(start.Line)
	from := clampCol(start.Col, line)
	to := len(line)
	if end.Line == start.Line {
		to = clampCol(end.Col, line)
	}
	lead := runewidth.StringWidth(expandTabs(line[:from]))
	marks := runewidth.StringWidth(expandTabs(line[from:max(from, to)]))
	if marks == 0 {
		marks = 1
	}
	fmt.Fprintf(b, "%s %s %s%s\n", pad, p.gutter.Sprint("|"),
		strings.Repeat(" ", lead), p.caret.Sprint(strings.Repeat("^", marks)))
}

// clampCol turns a 1-based byte column into an offset inside line.
func clampCol(col uint32, line string) int {
	if col == 0 {
		return 0
	}
	off := int(col - 1)
	if off > len(line) {
		return len(line)
	}
	return off
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
