package source

import "strconv"

// Span is the half-open byte range [Start, End) inside one file.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

func (s Span) Len() uint32 {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}

func (s Span) String() string {
	return strconv.FormatUint(uint64(s.File), 10) + ":" +
		strconv.FormatUint(uint64(s.Start), 10) + "-" +
		strconv.FormatUint(uint64(s.End), 10)
}
