package diagfmt

import (
	"path/filepath"
	"strings"

	"flexir/internal/source"
)

func (m PathMode) render(f *source.File, base string) string {
	if f == nil {
		return "<unknown>"
	}
	p := f.Path
	switch m {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(p); err == nil {
			p = filepath.ToSlash(abs)
		}
	case PathModeRelative:
		p = source.RelativePath(p, base)
	case PathModeBasename:
		p = filepath.Base(p)
	default:
		if filepath.IsAbs(p) && base != "" {
			if rel := source.RelativePath(p, base); !strings.HasPrefix(rel, "..") {
				p = rel
			}
		}
	}
	return p
}
