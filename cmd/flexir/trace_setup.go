package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"flexir/internal/config"
	"flexir/internal/trace"
)

// setupTracing attaches a tracer built from cfg to the command context and
// returns the function that flushes and closes it.
func setupTracing(cmd *cobra.Command, cfg config.Config) (func(), error) {
	tcfg, err := cfg.TraceConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid trace config: %w", err)
	}
	if tcfg.Level == trace.LevelOff {
		return func() {}, nil
	}
	tracer, err := trace.New(tcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	ctx := trace.WithTracer(cmd.Context(), tracer)
	span := trace.Begin(tracer, trace.ScopeDriver, cmd.Name(), 0)
	ctx = trace.WithParentSpan(ctx, span.ID())
	cmd.SetContext(ctx)

	return func() {
		span.End("")
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}, nil
}
