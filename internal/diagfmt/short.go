package diagfmt

import (
	"io"

	"flexir/internal/diag"
	"flexir/internal/source"
)

// Short writes one sorted line per diagnostic:
//
//	error LOW4001 main.fx:3:5 cannot assign to a call
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, showNotes bool) error {
	out := diag.FormatGoldenDiagnostics(bag.Items(), fs, showNotes)
	if out == "" {
		return nil
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}
