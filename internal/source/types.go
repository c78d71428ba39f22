package source

// FileID identifies a document within a FileSet.
type FileID uint32

// File is the source text a document's spans point into.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	// byte offset of the first character of every line; lineStarts[0] == 0
	lineStarts []uint32
}

// LineCol is a 1-based line and byte column.
type LineCol struct {
	Line uint32
	Col  uint32
}
