package main

import (
	"fmt"
	"io"

	"flexir/internal/diagfmt"
	"flexir/internal/driver"
	"flexir/internal/ir"
	"flexir/internal/pipeline"
)

type reportOptions struct {
	check    bool
	format   string
	color    bool
	pathMode diagfmt.PathMode
	dump     ir.DumpOptions
}

func (o reportOptions) validate() error {
	switch o.format {
	case "pretty", "short", "json":
		return nil
	default:
		return fmt.Errorf("invalid --format %q (expected pretty|short|json)", o.format)
	}
}

// report prints IR to stdout and diagnostics to stderr, in result order. It
// returns true when any file failed.
func report(stdout, stderr io.Writer, results []*pipeline.Result, opts reportOptions) (bool, error) {
	multi := len(results) > 1
	for _, res := range results {
		if res == nil {
			continue
		}
		if err := writeDiagnostics(stderr, res, opts); err != nil {
			return false, err
		}
		if opts.check {
			if res.ValidateErr != nil {
				fmt.Fprintf(stderr, "%s: invalid IR:\n%v\n", res.Path, res.ValidateErr)
			}
			if !res.Failed() {
				fmt.Fprintf(stdout, "ok %s\n", res.Path)
			}
			continue
		}
		if res.Program == nil || res.Tree.HasDiagnostics() {
			continue
		}
		if multi {
			fmt.Fprintf(stdout, "; %s\n", res.Path)
		}
		if err := ir.Dump(stdout, res.Program, opts.dump); err != nil {
			return false, err
		}
	}

	s := driver.Summarize(results)
	if opts.check || s.Failed > 0 {
		fmt.Fprintf(stderr, "%d file(s), %d failed, %d error(s), %d warning(s)\n",
			s.Files, s.Failed, s.Errors, s.Warnings)
	}
	return s.Failed > 0, nil
}

func writeDiagnostics(w io.Writer, res *pipeline.Result, opts reportOptions) error {
	if res.Diagnostics.Len() == 0 {
		return nil
	}
	switch opts.format {
	case "short":
		return diagfmt.Short(w, res.Diagnostics, res.FileSet, true)
	case "json":
		return diagfmt.JSON(w, res.Diagnostics, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
			PathMode:         opts.pathMode,
		})
	default:
		return diagfmt.Pretty(w, res.Diagnostics, res.FileSet, diagfmt.PrettyOpts{
			Color:     opts.color,
			Context:   1,
			PathMode:  opts.pathMode,
			ShowNotes: true,
		})
	}
}
