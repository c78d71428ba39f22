package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"flexir/internal/diagfmt"
	"flexir/internal/driver"
	"flexir/internal/ir"
	"flexir/internal/pipeline"
	"flexir/internal/ui"
)

type batchFlags struct {
	check           bool
	preds           bool
	hideUnreachable bool
	noFold          bool
	watch           bool
	tempPrefix      string
	ui              string
	format          string
	pathMode        string
	jobs            int
}

func (f *batchFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	if !f.check {
		fl.BoolVar(&f.preds, "preds", false, "list predecessors next to each block label")
		fl.BoolVar(&f.hideUnreachable, "hide-unreachable", false, "omit blocks not reachable from the entry block")
	}
	fl.BoolVar(&f.noFold, "no-fold", false, "keep constant operations instead of folding them")
	fl.StringVar(&f.tempPrefix, "temp-prefix", "", "prefix for compiler temporaries (default from config, __tmp)")
	fl.IntVarP(&f.jobs, "jobs", "j", 0, "files lowered in parallel (0 = GOMAXPROCS)")
	fl.StringVar(&f.ui, "ui", "auto", "progress view (auto|on|off)")
	fl.BoolVarP(&f.watch, "watch", "w", false, "re-run when documents change")
	fl.StringVar(&f.format, "format", "", "diagnostic format (pretty|short|json, default from config)")
	fl.StringVar(&f.pathMode, "path-mode", "auto", "how diagnostics show paths (auto|absolute|relative|basename)")
}

func newLowerCmd(st *cliState) *cobra.Command {
	f := &batchFlags{}
	cmd := &cobra.Command{
		Use:   "lower <file|dir>...",
		Short: "Lower AST documents and print the IR",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, st, f, args)
		},
	}
	f.register(cmd)
	return cmd
}

func newCheckCmd(st *cliState) *cobra.Command {
	f := &batchFlags{check: true}
	cmd := &cobra.Command{
		Use:   "check <file|dir>...",
		Short: "Lower AST documents and verify the IR invariants",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, st, f, args)
		},
	}
	f.register(cmd)
	return cmd
}

// request merges config and flags into the per-file pipeline template.
func (f *batchFlags) request(cmd *cobra.Command, st *cliState) pipeline.Request {
	cfg := st.cfg
	opts := ir.Options{
		TempPrefix:     cfg.Lower.TempPrefix,
		NoFold:         !cfg.Lower.Fold,
		MaxDiagnostics: cfg.Lower.MaxDiagnostics,
	}
	if cmd.Flags().Changed("no-fold") {
		opts.NoFold = f.noFold
	}
	if f.tempPrefix != "" {
		opts.TempPrefix = f.tempPrefix
	}
	return pipeline.Request{
		Lower:    opts,
		Validate: f.check,
		Timer:    st.timer,
	}
}

func (f *batchFlags) output(st *cliState) (reportOptions, error) {
	format := st.cfg.Output.Format
	if f.format != "" {
		format = f.format
	}
	pm, err := diagfmt.ParsePathMode(f.pathMode)
	if err != nil {
		return reportOptions{}, err
	}
	return reportOptions{
		check:    f.check,
		format:   format,
		color:    st.color,
		pathMode: pm,
		dump: ir.DumpOptions{
			Preds:           f.preds || st.cfg.Output.Preds,
			HideUnreachable: f.hideUnreachable || st.cfg.Output.HideUnreachable,
		},
	}, nil
}

func runBatch(cmd *cobra.Command, st *cliState, f *batchFlags, args []string) error {
	mode, err := readUIMode(f.ui)
	if err != nil {
		return err
	}
	out, err := f.output(st)
	if err != nil {
		return err
	}
	if err := out.validate(); err != nil {
		return err
	}
	jobs := f.jobs
	if !cmd.Flags().Changed("jobs") {
		jobs = st.cfg.Lower.Jobs
	}
	tmpl := f.request(cmd, st)

	once := func(ctx context.Context, targets []string) (bool, error) {
		paths, err := driver.ExpandPaths(targets)
		if err != nil {
			return false, err
		}
		if len(paths) == 0 {
			return false, fmt.Errorf("no AST documents found in %v", targets)
		}
		results, err := lowerPaths(ctx, cmd, mode, paths, jobs, tmpl)
		if err != nil {
			return false, err
		}
		return report(cmd.OutOrStdout(), cmd.ErrOrStderr(), results, out)
	}

	ctx := cmd.Context()
	failed, err := once(ctx, args)
	if err != nil {
		return err
	}
	if !f.watch {
		if failed {
			return errFailed
		}
		return nil
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "watching %d path(s), press Ctrl+C to stop\n", len(args))
	err = driver.Watch(ctx, args, driver.WatchOptions{Heartbeat: st.heartbeat},
		func(ctx context.Context, changed []string) error {
			_, err := once(ctx, changed)
			return err
		})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

type batchOutcome struct {
	results []*pipeline.Result
	err     error
}

func lowerPaths(ctx context.Context, cmd *cobra.Command, mode uiMode, paths []string, jobs int, tmpl pipeline.Request) ([]*pipeline.Result, error) {
	if !shouldUseTUI(mode, len(paths)) {
		return driver.LowerFiles(ctx, paths, jobs, tmpl)
	}
	outcome, uiErr := ui.Run(cmd.Name(), paths, cmd.ErrOrStderr(), func(sink pipeline.ProgressSink) batchOutcome {
		req := tmpl
		req.Progress = sink
		results, err := driver.LowerFiles(ctx, paths, jobs, req)
		return batchOutcome{results: results, err: err}
	})
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
