package source

import "path/filepath"

func cleanPath(path string) string {
	if path == "" {
		return ""
	}
	return filepath.ToSlash(filepath.Clean(path))
}

// RelativePath returns path relative to base in slash form. Anything that
// cannot be made relative comes back unchanged.
func RelativePath(path, base string) string {
	if base == "" {
		return path
	}
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
