// Package driver lowers many AST documents at once and re-runs on change.
package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"flexir/internal/astio"
)

// ListDocuments returns every AST document under dir, sorted. Hidden
// directories are skipped.
func ListDocuments(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if astio.IsDocumentPath(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// ExpandPaths replaces directories in args with their documents. Explicit files
// are kept whatever their extension so the decode stage can report them. The
// result is sorted and free of duplicates.
func ExpandPaths(args []string) ([]string, error) {
	seen := make(map[string]struct{}, len(args))
	var out []string
	add := func(p string) {
		p = filepath.Clean(p)
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			add(arg)
			continue
		}
		docs, err := ListDocuments(arg)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", arg, err)
		}
		for _, d := range docs {
			add(d)
		}
	}
	sort.Strings(out)
	return out, nil
}
