package diagfmt

import (
	"encoding/json"
	"io"

	"flexir/internal/diag"
	"flexir/internal/source"
)

// Position is a 1-based line and byte column.
type Position struct {
	Line uint32 `json:"line"`
	Col  uint32 `json:"col"`
}

// Location always carries the byte range; Start and End need IncludePositions.
type Location struct {
	File  string    `json:"file"`
	Bytes [2]uint32 `json:"bytes"`
	Start *Position `json:"start,omitempty"`
	End   *Position `json:"end,omitempty"`
}

type NoteRecord struct {
	Message  string   `json:"message"`
	Location Location `json:"location"`
}

type Record struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Title    string       `json:"title"`
	Message  string       `json:"message"`
	Location Location     `json:"location"`
	Notes    []NoteRecord `json:"notes,omitempty"`
}

// Report is the object JSON writes. Omitted counts diagnostics cut by Max.
type Report struct {
	Diagnostics []Record `json:"diagnostics"`
	Count       int      `json:"count"`
	Omitted     int      `json:"omitted,omitempty"`
}

type jsonBuilder struct {
	fs   *source.FileSet
	base string
	opts JSONOpts
}

func (b jsonBuilder) location(sp source.Span) Location {
	loc := Location{
		File:  b.opts.PathMode.render(b.fs.Get(sp.File), b.base),
		Bytes: [2]uint32{sp.Start, sp.End},
	}
	if b.opts.IncludePositions {
		start, end := b.fs.Resolve(sp)
		loc.Start = &Position{Line: start.Line, Col: start.Col}
		loc.End = &Position{Line: end.Line, Col: end.Col}
	}
	return loc
}

// BuildReport assembles the JSON structure without encoding it.
func BuildReport(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) Report {
	b := jsonBuilder{fs: fs, base: fs.BaseDir(), opts: opts}
	items := bag.Items()
	keep := len(items)
	if opts.Max > 0 {
		keep = min(keep, opts.Max)
	}
	rep := Report{Diagnostics: make([]Record, 0, keep), Omitted: len(items) - keep}
	for _, d := range items[:keep] {
		rec := Record{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Title:    d.Code.Title(),
			Message:  d.Message,
			Location: b.location(d.Primary),
		}
		if opts.IncludeNotes {
			for _, n := range d.Notes {
				rec.Notes = append(rec.Notes, NoteRecord{Message: n.Msg, Location: b.location(n.Span)})
			}
		}
		rep.Diagnostics = append(rep.Diagnostics, rec)
	}
	rep.Count = len(rep.Diagnostics)
	return rep
}

// JSON writes the bag as one indented JSON object.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildReport(bag, fs, opts))
}
