package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"flexir/internal/diag"
	"flexir/internal/source"
)

func sampleBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	fs.SetBaseDir("/home/user/project")
	content := []byte("let a = 1\nf() = a / 0\n")
	file := fs.AddVirtual("/home/user/project/src/main.fx", content)

	bag := diag.NewBag(10)
	diag.ReportError(diag.BagReporter{Bag: bag}, diag.LowAssignTarget,
		source.Span{File: file, Start: 10, End: 13}, "cannot assign to a call").
		WithNote(source.Span{File: file, Start: 10, End: 11}, "only names can be assigned").
		Emit()
	diag.ReportWarning(diag.BagReporter{Bag: bag}, diag.LowDivisionByZero,
		source.Span{File: file, Start: 16, End: 21}, "division by zero").Emit()
	return bag, fs
}

func TestPathModes(t *testing.T) {
	bag, fs := sampleBag(t)
	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"absolute", PathModeAbsolute, "/home/user/project/src/main.fx:2:1"},
		{"relative", PathModeRelative, "src/main.fx:2:1"},
		{"basename", PathModeBasename, "main.fx:2:1"},
		{"auto under base", PathModeAuto, "\nsrc/main.fx:2:7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode}); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(buf.String(), tt.contains) {
				t.Errorf("output missing %q:\n%s", tt.contains, buf.String())
			}
		})
	}
}

func TestPrettyExcerpt(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: PathModeRelative, ShowNotes: true}); err != nil {
		t.Fatal(err)
	}
	want := `src/main.fx:2:1: ERROR LOW4001: cannot assign to a call
  |
1 | let a = 1
2 | f() = a / 0
  | ^^^
  note: src/main.fx:2:1: only names can be assigned

src/main.fx:2:7: WARNING LOW4003: division by zero
  |
1 | let a = 1
2 | f() = a / 0
  |       ^^^^^
`
	if got := buf.String(); got != want {
		t.Errorf("Pretty output:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyWideRunes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("名前 = 1\n")
	file := fs.AddVirtual("wide.fx", content)
	bag := diag.NewBag(0)
	// the "=" after two double-width runes and a space
	diag.ReportError(diag.BagReporter{Bag: bag}, diag.LowAssignTarget,
		source.Span{File: file, Start: 7, End: 8}, "x").Emit()

	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(buf.String(), "\n")
	caret := lines[3]
	if caret != "  |      ^" {
		t.Errorf("caret line = %q", caret)
	}
}

func TestPrettyColor(t *testing.T) {
	bag, fs := sampleBag(t)
	var plain, colored bytes.Buffer
	if err := Pretty(&plain, bag, fs, PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	if err := Pretty(&colored, bag, fs, PrettyOpts{Color: true}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(plain.String(), "\x1b[") {
		t.Error("plain output contains escape codes")
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Error("colored output has no escape codes")
	}
}

func TestShort(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	if err := Short(&buf, bag, fs, true); err != nil {
		t.Fatal(err)
	}
	want := "error LOW4001 src/main.fx:2:1 cannot assign to a call\n" +
		"note LOW4001 src/main.fx:2:1 only names can be assigned\n" +
		"warning LOW4003 src/main.fx:2:7 division by zero\n"
	if buf.String() != want {
		t.Errorf("Short:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestJSON(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	opts := JSONOpts{IncludePositions: true, PathMode: PathModeBasename, IncludeNotes: true}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatal(err)
	}
	var out Report
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Count != 2 || len(out.Diagnostics) != 2 {
		t.Fatalf("count = %d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Severity != "ERROR" || d.Code != "LOW4001" || d.Location.File != "main.fx" {
		t.Errorf("diagnostic = %+v", d)
	}
	if d.Location.Start == nil || *d.Location.Start != (Position{Line: 2, Col: 1}) || d.Location.End.Col != 4 {
		t.Errorf("location = %+v", d.Location)
	}
	if len(d.Notes) != 1 || d.Notes[0].Message != "only names can be assigned" {
		t.Errorf("notes = %+v", d.Notes)
	}

	buf.Reset()
	if err := JSON(&buf, bag, fs, JSONOpts{Max: 1}); err != nil {
		t.Fatal(err)
	}
	var truncated Report
	if err := json.Unmarshal(buf.Bytes(), &truncated); err != nil {
		t.Fatal(err)
	}
	if truncated.Count != 1 || truncated.Omitted != 1 ||
		truncated.Diagnostics[0].Location.Start != nil || truncated.Diagnostics[0].Notes != nil {
		t.Errorf("truncated output = %+v", truncated)
	}
}

func TestParsePathMode(t *testing.T) {
	for _, m := range []PathMode{PathModeAuto, PathModeAbsolute, PathModeRelative, PathModeBasename} {
		got, err := ParsePathMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParsePathMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParsePathMode("short"); err == nil {
		t.Error("expected an error for an unknown mode")
	}
}
