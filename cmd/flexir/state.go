package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"flexir/internal/config"
	"flexir/internal/observ"
	"flexir/internal/prof"
)

// cliState is what the persistent flags resolve to, shared by every subcommand.
type cliState struct {
	cfg       config.Config
	color     bool
	timer     *observ.Timer
	heartbeat time.Duration // watch mode only
	profile   *prof.Session
	cleanup   func()
	stderr    io.Writer
}

func (st *cliState) setup(cmd *cobra.Command) error {
	st.stderr = cmd.ErrOrStderr()
	flags := cmd.Flags()
	explicit, _ := flags.GetString("config")
	cfg, err := config.Discover(explicit, ".")
	if err != nil {
		return err
	}

	if flags.Changed("color") {
		cfg.Output.Color, _ = flags.GetString("color")
	}
	if flags.Changed("max-diagnostics") {
		cfg.Lower.MaxDiagnostics, _ = flags.GetInt("max-diagnostics")
	}
	if flags.Changed("trace") {
		cfg.Trace.Output, _ = flags.GetString("trace")
		if cfg.Trace.Level == "off" && !flags.Changed("trace-level") {
			cfg.Trace.Level = "phase"
		}
	}
	if flags.Changed("trace-level") {
		cfg.Trace.Level, _ = flags.GetString("trace-level")
	}
	if flags.Changed("trace-mode") {
		cfg.Trace.Mode, _ = flags.GetString("trace-mode")
	}
	cfg.Output.Color = strings.ToLower(strings.TrimSpace(cfg.Output.Color))
	if err := cfg.Validate(); err != nil {
		return err
	}
	st.cfg = cfg
	st.color = colorEnabled(cfg.Output.Color)

	if on, _ := flags.GetBool("timings"); on {
		st.timer = observ.NewTimer()
	}

	var popts prof.Options
	popts.CPUPath, _ = flags.GetString("cpu-profile")
	popts.MemPath, _ = flags.GetString("mem-profile")
	popts.TracePath, _ = flags.GetString("runtime-trace")
	if popts.Enabled() {
		if st.profile, err = prof.Start(popts); err != nil {
			return err
		}
	}

	st.heartbeat, _ = flags.GetDuration("trace-heartbeat")
	st.cleanup, err = setupTracing(cmd, cfg)
	return err
}

// finish releases what setup acquired; it is a no-op when setup never ran.
func (st *cliState) finish() error {
	var errs []error
	if st.timer != nil {
		errs = append(errs, st.timer.WriteSummary(st.stderr))
		st.timer = nil
	}
	if st.cleanup != nil {
		st.cleanup()
		st.cleanup = nil
	}
	errs = append(errs, st.profile.Stop())
	st.profile = nil
	return errors.Join(errs...)
}

func colorEnabled(mode string) bool {
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return false
		}
		return isTerminal(os.Stderr)
	}
}

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

// shouldUseTUI enables the live view only for several files on a terminal.
func shouldUseTUI(mode uiMode, files int) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return files > 1 && isTerminal(os.Stderr)
	}
}
