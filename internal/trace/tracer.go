package trace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Tracer receives events. Implementations are safe for concurrent use.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	Enabled() bool
}

type Config struct {
	Level      Level
	Mode       StorageMode
	Format     Format
	Output     io.Writer // wins over OutputPath
	OutputPath string    // "" or "-" is stderr; a .ndjson path selects NDJSON under FormatAuto
	RingSize   int       // default 4096
}

// New builds a tracer from cfg. LevelOff always yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	var parts []Tracer
	if cfg.Mode == 0 || cfg.Mode == ModeStream || cfg.Mode == ModeBoth {
		w, err := cfg.writer()
		if err != nil {
			return nil, err
		}
		parts = append(parts, NewStreamTracer(w, cfg.Level, cfg.format()))
	}
	if cfg.Mode == ModeRing || cfg.Mode == ModeBoth {
		parts = append(parts, NewRingTracer(cfg.RingSize, cfg.Level))
	}
	switch len(parts) {
	case 0:
		return nil, fmt.Errorf("unknown trace storage mode %d", cfg.Mode)
	case 1:
		return parts[0], nil
	default:
		return NewMultiTracer(cfg.Level, parts...), nil
	}
}

func (cfg Config) format() Format {
	if cfg.Format != FormatAuto {
		return cfg.Format
	}
	if filepath.Ext(cfg.OutputPath) == ".ndjson" {
		return FormatNDJSON
	}
	return FormatText
}

func (cfg Config) writer() (io.Writer, error) {
	switch {
	case cfg.Output != nil:
		return cfg.Output, nil
	case cfg.OutputPath == "" || cfg.OutputPath == "-":
		return struct{ io.Writer }{os.Stderr}, nil // hides Close
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("open trace output: %w", err)
	}
	return f, nil
}
