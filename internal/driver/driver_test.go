package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"flexir/internal/driver"
	"flexir/internal/pipeline"
)

const okDoc = `{"schema":"1.0.0","source":"x = 1\n","root":{"kind":"expr","start":0,"end":5,"children":[
{"kind":"assign","start":0,"end":5,"children":[
{"kind":"ident","start":0,"end":1,"name":"x"},
{"kind":"lit","start":4,"end":5,"lit":{"kind":"int","value":"1"}}]}]}}`

func writeDoc(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestListDocuments(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, filepath.Join(dir, "b.json"), okDoc)
	writeDoc(t, filepath.Join(dir, "a.astpack"), "")
	writeDoc(t, filepath.Join(dir, "sub", "c.mp"), "")
	writeDoc(t, filepath.Join(dir, "notes.txt"), "")
	writeDoc(t, filepath.Join(dir, ".cache", "d.json"), "")

	got, err := driver.ListDocuments(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "a.astpack"),
		filepath.Join(dir, "b.json"),
		filepath.Join(dir, "sub", "c.mp"),
	}
	if !slices.Equal(got, want) {
		t.Errorf("ListDocuments:\n got %v\nwant %v", got, want)
	}
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.json")
	writeDoc(t, a, okDoc)
	txt := filepath.Join(dir, "x.txt")
	writeDoc(t, txt, "")

	got, err := driver.ExpandPaths([]string{dir, a, txt, filepath.Join(dir, "missing.json")})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{a, filepath.Join(dir, "missing.json"), txt}
	if !slices.Equal(got, want) {
		t.Errorf("ExpandPaths:\n got %v\nwant %v", got, want)
	}
}

func TestLowerFilesKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.json", "b.json", "c.json", "d.json"} {
		p := filepath.Join(dir, name)
		writeDoc(t, p, okDoc)
		paths = append(paths, p)
	}
	bad := filepath.Join(dir, "e.json")
	writeDoc(t, bad, "{")
	paths = append(paths, bad)

	sink := &pipeline.RecordingSink{}
	results, err := driver.LowerFiles(context.Background(), paths, 2, pipeline.Request{Validate: true, Progress: sink})
	if err != nil {
		t.Fatal(err)
	}
	for i, r := range results {
		if r.Path != paths[i] {
			t.Errorf("result %d is for %s", i, r.Path)
		}
	}
	s := driver.Summarize(results)
	if s.Files != 5 || s.Failed != 1 || s.Errors != 1 {
		t.Errorf("summary = %+v", s)
	}

	queued := 0
	for _, ev := range sink.Events() {
		if ev.Status == pipeline.StatusQueued {
			queued++
		}
	}
	if queued != 5 {
		t.Errorf("queued events = %d", queued)
	}
}

func TestLowerFilesCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := driver.LowerFiles(ctx, []string{"a.json"}, 1, pipeline.Request{})
	if err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestWatchReportsChangedDocuments(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ready := make(chan struct{})
	batches := make(chan []string, 4)
	done := make(chan error, 1)
	go func() {
		done <- driver.Watch(ctx, []string{dir}, driver.WatchOptions{
			Debounce: 20 * time.Millisecond,
			OnReady:  func() { close(ready) },
		}, func(_ context.Context, changed []string) error {
			batches <- changed
			return nil
		})
	}()

	select {
	case <-ready:
	case err := <-done:
		t.Fatalf("Watch exited early: %v", err)
	}
	writeDoc(t, filepath.Join(dir, "ignored.txt"), "x")
	doc := filepath.Join(dir, "w.json")
	writeDoc(t, doc, okDoc)

	select {
	case got := <-batches:
		if !slices.Equal(got, []string{doc}) {
			t.Errorf("batch = %v", got)
		}
	case <-ctx.Done():
		t.Fatal("no batch before timeout")
	}
	cancel()
	if err := <-done; err != context.Canceled && err != context.DeadlineExceeded {
		t.Errorf("Watch returned %v", err)
	}
}
