package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"flexir/internal/astio"
	"flexir/internal/trace"
)

// WatchOptions tunes Watch. Zero values pick sensible defaults.
type WatchOptions struct {
	Debounce  time.Duration // quiet period before a batch fires; 100ms by default
	Heartbeat time.Duration // trace heartbeat interval; 0 disables
	OnReady   func()        // called once the watches are installed
}

// Watch calls fn with the sorted set of changed documents every time a batch
// of file events settles. Directories in paths are watched for documents
// created or written inside them; files are watched through their parent
// directory so editors that replace files on save keep working. Watch returns
// when ctx is done or fn fails.
func Watch(ctx context.Context, paths []string, opts WatchOptions, fn func(ctx context.Context, changed []string) error) error {
	if opts.Debounce <= 0 {
		opts.Debounce = 100 * time.Millisecond
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	watched, err := addWatches(w, paths)
	if err != nil {
		return err
	}

	tracer := trace.FromContext(ctx)
	hb := trace.StartHeartbeat(tracer, opts.Heartbeat)
	defer hb.Stop()
	if opts.OnReady != nil {
		opts.OnReady()
	}

	pending := make(map[string]struct{})
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			trace.Point(tracer, trace.ScopeDriver, "watch_error", err.Error(), trace.ParentSpan(ctx))
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(ev, watched) {
				continue
			}
			pending[filepath.Clean(ev.Name)] = struct{}{}
			timer.Reset(opts.Debounce)
		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			clear(pending)
			sort.Strings(changed)
			trace.Point(tracer, trace.ScopeDriver, "watch_batch", fmt.Sprintf("%d files", len(changed)), trace.ParentSpan(ctx))
			if err := fn(ctx, changed); err != nil {
				return err
			}
		}
	}
}

// addWatches installs one watch per directory. The returned set holds the
// explicit files plus every directory whose documents all count.
func addWatches(w *fsnotify.Watcher, paths []string) (map[string]bool, error) {
	files := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, p := range paths {
		p = filepath.Clean(p)
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("watch %s: %w", p, err)
		}
		if info.IsDir() {
			err := filepath.WalkDir(p, func(path string, d os.DirEntry, err error) error {
				if err != nil || !d.IsDir() {
					return err
				}
				dirs[path] = true
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("watch %s: %w", p, err)
			}
			continue
		}
		files[p] = true
		dir := filepath.Dir(p)
		if _, ok := dirs[dir]; !ok {
			dirs[dir] = false
		}
	}
	var errs []error
	for dir, whole := range dirs {
		if err := w.Add(dir); err != nil {
			errs = append(errs, fmt.Errorf("watch %s: %w", dir, err))
		}
		if whole {
			files[dir] = true
		}
	}
	return files, errors.Join(errs...)
}

func relevant(ev fsnotify.Event, watched map[string]bool) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	name := filepath.Clean(ev.Name)
	if watched[name] {
		return true
	}
	return astio.IsDocumentPath(name) && watched[filepath.Dir(name)]
}
