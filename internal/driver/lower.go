package driver

import (
	"context"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"flexir/internal/diag"
	"flexir/internal/pipeline"
	"flexir/internal/trace"
)

// LowerFiles runs the pipeline for every path with at most jobs workers
// (GOMAXPROCS when jobs <= 0). tmpl supplies everything but Path and Data.
// Results come back in the order of paths. The error is non-nil only when ctx
// is cancelled; per-file failures live in each Result.
func LowerFiles(ctx context.Context, paths []string, jobs int, tmpl pipeline.Request) ([]*pipeline.Result, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]*pipeline.Result, len(paths))
	if len(paths) == 0 {
		return results, nil
	}

	span := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "lower_files", trace.ParentSpan(ctx)).
		WithExtra("files", strconv.Itoa(len(paths))).
		WithExtra("jobs", strconv.Itoa(jobs))
	defer span.End("")
	ctx = trace.WithParentSpan(ctx, span.ID())

	pipeline.EmitQueued(tmpl.Progress, paths)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			req := tmpl
			req.Path = path
			req.Data = nil
			// indices are unique per goroutine
			results[i] = pipeline.Run(gctx, req)
			return nil
		})
	}
	return results, g.Wait()
}

// Summary counts outcomes over a batch of results.
type Summary struct {
	Files    int
	Failed   int
	Errors   int
	Warnings int
}

func Summarize(results []*pipeline.Result) Summary {
	var s Summary
	for _, r := range results {
		if r == nil {
			continue
		}
		s.Files++
		if r.Failed() {
			s.Failed++
		}
		errs := r.Diagnostics.Count(diag.SevError)
		s.Errors += errs
		s.Warnings += r.Diagnostics.Count(diag.SevWarning) - errs
	}
	return s
}
