package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"flexir/internal/ast"
	"flexir/internal/astio"
	"flexir/internal/diag"
	"flexir/internal/ir"
	"flexir/internal/observ"
	"flexir/internal/source"
	"flexir/internal/trace"
)

var (
	// ErrParseDiagnostics marks a lower stage that had nothing to do because the
	// document carried parser diagnostics.
	ErrParseDiagnostics = errors.New("document has parse diagnostics")
	// ErrLowering marks a lower stage that reported error diagnostics.
	ErrLowering = errors.New("lowering reported errors")
)

// Request configures one run.
type Request struct {
	Path     string
	Data     []byte // read from Path when nil
	BaseDir  string
	Lower    ir.Options
	Validate bool
	Progress ProgressSink
	Timer    *observ.Timer
}

// Result holds the artefacts of every stage that ran.
type Result struct {
	Path        string
	FileSet     *source.FileSet
	Document    *astio.Document
	Tree        *ast.Tree
	Program     *ir.Program
	Diagnostics *diag.Bag // parser diagnostics followed by lowering diagnostics
	ValidateErr error
	Err         error // load or decode failure; later stages did not run
	Timings     Timings
}

// Failed reports whether the run should make the CLI exit non-zero.
func (r *Result) Failed() bool {
	return r.Err != nil || r.ValidateErr != nil || r.Diagnostics.HasErrors()
}

type runner struct {
	ctx    context.Context
	req    Request
	res    *Result
	tracer trace.Tracer
	parent uint64 // file span
	span   uint64 // current stage span
	data   []byte
}

// Run executes the stages for req.Path in order. A failed load or decode stops
// the run; the failure is kept in Result.Err and also recorded as an IO
// diagnostic so it renders like any other. Cancellation is checked between
// stages only.
func Run(ctx context.Context, req Request) *Result {
	if ctx == nil {
		ctx = context.Background()
	}
	res := &Result{
		Path:        req.Path,
		FileSet:     source.NewFileSet(),
		Diagnostics: diag.NewBag(req.Lower.MaxDiagnostics),
	}
	if req.BaseDir != "" {
		res.FileSet.SetBaseDir(req.BaseDir)
	}

	tracer := trace.FromContext(ctx)
	fileSpan := trace.Begin(tracer, trace.ScopeFile, "file", trace.ParentSpan(ctx)).
		WithExtra("path", req.Path)
	r := &runner{ctx: ctx, req: req, res: res, tracer: tracer, parent: fileSpan.ID()}
	defer func() {
		status := "ok"
		if res.Failed() {
			status = "failed"
		}
		fileSpan.End(status)
	}()

	if !r.stage(StageLoad, true, r.load) {
		return res
	}
	if !r.stage(StageDecode, true, r.decode) {
		return res
	}
	r.stage(StageLower, false, r.lower)
	if req.Validate && !res.Tree.HasDiagnostics() {
		r.stage(StageValidate, false, r.validate)
	} else {
		emit(req.Progress, req.Path, StageValidate, StatusSkipped, nil, 0)
	}
	return res
}

// stage runs fn with progress events, a trace span and timing. A fatal stage
// that fails stops the run.
func (r *runner) stage(stage Stage, fatal bool, fn func() error) bool {
	if err := r.ctx.Err(); err != nil {
		r.res.Err = err
		emit(r.req.Progress, r.req.Path, stage, StatusError, err, 0)
		return false
	}
	emit(r.req.Progress, r.req.Path, stage, StatusWorking, nil, 0)
	span := trace.Begin(r.tracer, trace.ScopePass, string(stage), r.parent)
	r.span = span.ID()
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	r.res.Timings.Set(stage, elapsed)
	r.req.Timer.Observe(string(stage), elapsed, "")

	if err != nil {
		span.End(err.Error())
		emit(r.req.Progress, r.req.Path, stage, StatusError, err, elapsed)
		if fatal {
			r.res.Err = err
			return false
		}
		return true
	}
	span.End("")
	emit(r.req.Progress, r.req.Path, stage, StatusDone, nil, elapsed)
	return true
}

func (r *runner) load() error {
	if r.req.Data != nil {
		r.data = r.req.Data
		return nil
	}
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(r.req.Path)
	if err != nil {
		err = fmt.Errorf("load %s: %w", r.req.Path, err)
		r.ioDiagnostic(diag.IOLoadFileError, err)
		return err
	}
	r.data = data
	return nil
}

func (r *runner) decode() error {
	doc, err := astio.Decode(r.req.Path, r.data)
	if err == nil {
		r.res.Document = doc
		r.res.Tree, err = astio.BuildInto(doc, r.res.FileSet)
	}
	if err != nil {
		code := diag.IODecodeError
		if errors.Is(err, astio.ErrSchema) {
			code = diag.IOSchemaVersion
		}
		r.ioDiagnostic(code, err)
		return err
	}
	return nil
}

func (r *runner) lower() error {
	opts := r.req.Lower
	if opts.Tracer == nil {
		opts.Tracer = r.tracer
	}
	opts.ParentSpan = r.span
	prog, bag := ir.GenerateFromAST(r.res.Tree, opts)
	r.res.Program = prog
	r.res.Diagnostics.Merge(r.res.Tree.Diags)
	r.res.Diagnostics.Merge(bag)

	switch {
	case r.res.Tree.HasDiagnostics():
		return ErrParseDiagnostics
	case bag.HasErrors():
		return ErrLowering
	}
	return nil
}

func (r *runner) validate() error {
	r.res.ValidateErr = ir.Validate(r.res.Program)
	return r.res.ValidateErr
}

// ioDiagnostic records err against the document's file, registering an empty
// virtual file when decoding never got that far.
func (r *runner) ioDiagnostic(code diag.Code, err error) {
	file, ok := r.res.FileSet.GetLatest(r.req.Path)
	if !ok {
		file = r.res.FileSet.AddVirtual(r.req.Path, nil)
	}
	diag.ReportError(diag.BagReporter{Bag: r.res.Diagnostics}, code,
		source.Span{File: file}, err.Error()).Emit()
}
