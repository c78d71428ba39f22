package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"flexir/internal/config"
	"flexir/internal/trace"
)

func writeFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, config.FileName)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := config.Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, `
[lower]
temp_prefix = "$t"
fold = false

[output]
preds = true
format = "short"

[trace]
level = "phase"
output = "trace.ndjson"
`)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Lower.TempPrefix != "$t" || cfg.Lower.Fold {
		t.Errorf("lower = %+v", cfg.Lower)
	}
	if cfg.Lower.MaxDiagnostics != 100 {
		t.Errorf("max_diagnostics default lost: %d", cfg.Lower.MaxDiagnostics)
	}
	if !cfg.Output.Preds || cfg.Output.Format != "short" || cfg.Output.Color != "auto" {
		t.Errorf("output = %+v", cfg.Output)
	}
	if cfg.Path != path {
		t.Errorf("Path = %q", cfg.Path)
	}

	tc, err := cfg.TraceConfig()
	if err != nil {
		t.Fatalf("TraceConfig: %v", err)
	}
	if tc.Level != trace.LevelPhase || tc.OutputPath != "trace.ndjson" || tc.Mode != trace.ModeStream {
		t.Errorf("trace config = %+v", tc)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", "[lower]\nfolding = true\n", "lower.folding"},
		{"bad color", "[output]\ncolor = \"sometimes\"\n", "output.color"},
		{"bad format", "[output]\nformat = \"xml\"\n", "output.format"},
		{"bad level", "[trace]\nlevel = \"loud\"\n", "trace.level"},
		{"empty prefix", "[lower]\ntemp_prefix = \"\"\n", "temp_prefix"},
		{"negative jobs", "[lower]\njobs = -1\n", "lower.jobs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tt.content)
			_, err := config.Load(path)
			if !errors.Is(err, config.ErrInvalid) {
				t.Fatalf("err = %v, want ErrInvalid", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %q, want substring %q", err, tt.want)
			}
		})
	}
}

func TestLoadSyntaxError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "[lower\n")
	if _, err := config.Load(path); err == nil || !strings.Contains(err.Error(), "failed to parse TOML") {
		t.Fatalf("err = %v", err)
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeFile(t, root, "")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	got, ok, err := config.Find(nested)
	if err != nil || !ok {
		t.Fatalf("Find = %q, %v, %v", got, ok, err)
	}
	if got != want {
		t.Errorf("Find = %q, want %q", got, want)
	}
}

func TestDiscoverFallsBackToDefault(t *testing.T) {
	cfg, err := config.Discover("", t.TempDir())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if cfg.Path != "" || cfg.Lower.TempPrefix != "__tmp" {
		t.Errorf("cfg = %+v", cfg)
	}
}
