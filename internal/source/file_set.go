package source

import (
	"fmt"
	"os"
	"slices"

	"fortio.org/safecast"
)

// FileSet owns the source text that spans point into.
type FileSet struct {
	files   []File
	byPath  map[string]FileID
	baseDir string
}

func NewFileSet() *FileSet {
	return &FileSet{byPath: make(map[string]FileID)}
}

func (fs *FileSet) SetBaseDir(dir string) { fs.baseDir = dir }

// BaseDir falls back to the working directory when unset.
func (fs *FileSet) BaseDir() string {
	if fs.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fs.baseDir
}

// AddVirtual registers in-memory content under name. Adding a name twice yields
// a new id; GetLatest then returns the newer one.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		panic(fmt.Errorf("file %s too large: %w", name, err))
	}
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	id := FileID(n)
	path := cleanPath(name)
	fs.files = append(fs.files, File{ID: id, Path: path, Content: content, lineStarts: lineStarts(content)})
	fs.byPath[path] = id
	return id
}

// Get returns nil for an unknown id.
func (fs *FileSet) Get(id FileID) *File {
	if int(id) >= len(fs.files) {
		return nil
	}
	return &fs.files[id]
}

func (fs *FileSet) Len() int { return len(fs.files) }

func (fs *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fs.byPath[cleanPath(path)]
	return id, ok
}

// Resolve converts both ends of span to positions. Unknown files resolve to 1:1.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fs.Get(span.File)
	if f == nil {
		return LineCol{Line: 1, Col: 1}, LineCol{Line: 1, Col: 1}
	}
	return f.position(span.Start), f.position(span.End)
}

func lineStarts(content []byte) []uint32 {
	starts := make([]uint32, 1, len(content)/32+1)
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, uint32(i+1)) //nolint:gosec // size checked in AddVirtual
		}
	}
	return starts
}

func (f *File) position(off uint32) LineCol {
	i, exact := slices.BinarySearch(f.lineStarts, off)
	if !exact {
		i-- // off lies inside line i
	}
	return LineCol{Line: uint32(i) + 1, Col: off - f.lineStarts[i] + 1} //nolint:gosec // i < len(lineStarts)
}

// LineCount counts a trailing empty line after a final newline.
func (f *File) LineCount() int {
	if f == nil {
		return 0
	}
	return len(f.lineStarts)
}

// Line returns the 1-based line without its newline, or "" when out of range.
func (f *File) Line(n uint32) string {
	if f == nil || n == 0 || int(n) > len(f.lineStarts) {
		return ""
	}
	start := f.lineStarts[n-1]
	end := uint32(len(f.Content)) //nolint:gosec // size checked in AddVirtual
	if int(n) < len(f.lineStarts) {
		end = f.lineStarts[n] - 1
	}
	return string(f.Content[start:end])
}
