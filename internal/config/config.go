// Package config loads flexir.toml project settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"flexir/internal/trace"
)

// FileName is the manifest looked up by Find.
const FileName = "flexir.toml"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Lower  Lower  `toml:"lower"`
	Output Output `toml:"output"`
	Trace  Trace  `toml:"trace"`

	// Path is the file the config was read from; empty for Default.
	Path string `toml:"-"`
}

type Lower struct {
	TempPrefix     string `toml:"temp_prefix"`
	Fold           bool   `toml:"fold"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
	Jobs           int    `toml:"jobs"` // 0 means GOMAXPROCS
}

type Output struct {
	Preds           bool   `toml:"preds"`
	HideUnreachable bool   `toml:"hide_unreachable"`
	Color           string `toml:"color"`  // auto|on|off
	Format          string `toml:"format"` // pretty|short|json
}

type Trace struct {
	Level  string `toml:"level"`
	Output string `toml:"output"`
	Format string `toml:"format"`
	Mode   string `toml:"mode"`
}

func Default() Config {
	return Config{
		Lower: Lower{
			TempPrefix:     "__tmp",
			Fold:           true,
			MaxDiagnostics: 100,
		},
		Output: Output{
			Color:  "auto",
			Format: "pretty",
		},
		Trace: Trace{
			Level: "off",
		},
	}
}

// Load decodes path over Default. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: %w: unknown keys %s", path, ErrInvalid, strings.Join(keys, ", "))
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Find walks up from startDir looking for flexir.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads explicit when set, otherwise the nearest flexir.toml above
// startDir, otherwise Default.
func Discover(explicit, startDir string) (Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.Lower.TempPrefix == "" || strings.ContainsAny(c.Lower.TempPrefix, " \t\n") {
		bad("lower.temp_prefix %q must be a non-empty identifier prefix", c.Lower.TempPrefix)
	}
	if c.Lower.MaxDiagnostics < 0 {
		bad("lower.max_diagnostics must be >= 0, got %d", c.Lower.MaxDiagnostics)
	}
	if c.Lower.Jobs < 0 {
		bad("lower.jobs must be >= 0, got %d", c.Lower.Jobs)
	}
	switch c.Output.Color {
	case "auto", "on", "off":
	default:
		bad("output.color %q (expected: auto|on|off)", c.Output.Color)
	}
	switch c.Output.Format {
	case "pretty", "short", "json":
	default:
		bad("output.format %q (expected: pretty|short|json)", c.Output.Format)
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		errs = append(errs, fmt.Errorf("%w: trace.level: %w", ErrInvalid, err))
	}
	if _, err := trace.ParseFormat(c.Trace.Format); err != nil {
		errs = append(errs, fmt.Errorf("%w: trace.format: %w", ErrInvalid, err))
	}
	if _, err := trace.ParseMode(c.Trace.Mode); err != nil {
		errs = append(errs, fmt.Errorf("%w: trace.mode: %w", ErrInvalid, err))
	}
	return errors.Join(errs...)
}

// TraceConfig converts the [trace] table for trace.New.
func (c Config) TraceConfig() (trace.Config, error) {
	level, err := trace.ParseLevel(c.Trace.Level)
	if err != nil {
		return trace.Config{}, err
	}
	format, err := trace.ParseFormat(c.Trace.Format)
	if err != nil {
		return trace.Config{}, err
	}
	mode, err := trace.ParseMode(c.Trace.Mode)
	if err != nil {
		return trace.Config{}, err
	}
	return trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: c.Trace.Output,
	}, nil
}
