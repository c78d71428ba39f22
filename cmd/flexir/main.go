package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"flexir/internal/version"
)

// errFailed reports that diagnostics were already printed and the process should
// exit non-zero without another message.
var errFailed = errors.New("failed")

func newRootCmd(st *cliState) *cobra.Command {
	root := &cobra.Command{
		Use:           "flexir",
		Short:         "Lower AST documents into a control-flow graph IR",
		Version:       version.Current().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return st.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.String("config", "", "path to flexir.toml (default: nearest one above the working directory)")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics per file (0 = unlimited)")
	pf.Bool("timings", false, "print per-stage timings to stderr")
	pf.String("trace", "", "write trace events to file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")
	pf.Duration("trace-heartbeat", 0, "in watch mode, emit a trace heartbeat at this interval (0 = off)")

	root.AddCommand(newLowerCmd(st), newCheckCmd(st), newFmtASTCmd(), newVersionCmd(st))
	return root
}

// run executes one invocation. Cleanup happens here rather than in a post-run
// hook because cobra skips those when the command fails.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	st := &cliState{}
	root := newRootCmd(st)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	if ferr := st.finish(); err == nil {
		err = ferr
	}
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err == nil {
		return
	}
	if !errors.Is(err, errFailed) {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	os.Exit(1)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}
