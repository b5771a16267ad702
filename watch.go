package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"fsaudit/internal/request"
)

// runWatch re-runs the audit whenever the request file or a watched target
// path changes. Watch mode needs a request file: stdin can only be read once.
func runWatch(requestPath, outPath string) {
	if requestPath == "" {
		fmt.Fprintln(os.Stderr, "ERROR: watch requires --request <path>")
		os.Exit(1)
	}
	if err := runWatchWithStop(requestPath, outPath, nil); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func runWatchWithStop(requestPath, outPath string, stop <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch init failed: %w", err)
	}
	defer watcher.Close()

	trigger := func() {
		raw, err := readRequest(requestPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			return
		}
		resp, err := executeRequest(raw, "watch")
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: invalid request: %v\n", err)
			return
		}
		if err := writeResponse(resp, outPath); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: cannot write response: %v\n", err)
		}
		// The audit itself may have added or removed targets.
		if err := addWatchTargets(watcher, requestPath); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: watch update failed: %v\n", err)
		}
	}

	if err := addWatchTargets(watcher, requestPath); err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}
	trigger()

	var timer *time.Timer
	debounce := time.Duration(config.Watch.DebounceMs) * time.Millisecond

	for {
		select {
		case <-stop:
			return nil
		case ev := <-watcher.Events:
			// Skip events for our own report and run-log writes, or every
			// audit would schedule the next one.
			if selfWrite(ev.Name, outPath) || selfWrite(ev.Name, config.RunLogPath) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, trigger)
		case err := <-watcher.Errors:
			fmt.Fprintf(os.Stderr, "ERROR: watch error: %v\n", err)
		}
	}
}

// selfWrite reports whether name is the given output path or one of the
// temporary files produced while writing it atomically.
func selfWrite(name, out string) bool {
	return out != "" && strings.HasPrefix(name, out)
}

// addWatchTargets watches the request file plus the parent directories of
// every spec'd path, so creations and deletions are visible too. Adding an
// already-watched directory is a no-op.
func addWatchTargets(w *fsnotify.Watcher, requestPath string) error {
	if err := w.Add(filepath.Dir(requestPath)); err != nil {
		return err
	}
	raw, err := readRequest(requestPath)
	if err != nil {
		return err
	}
	req, err := request.Parse(raw)
	if err != nil {
		// A request that fails to parse still watches its own file, so a
		// correcting edit restarts the loop.
		return nil
	}
	for _, dir := range watchDirs(req) {
		if err := w.Add(dir); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "WARNING: cannot watch %s: %v\n", dir, err)
		}
	}
	return nil
}

// watchDirs returns the deduplicated parent directories of every target and
// content source in the request, in first-seen order.
func watchDirs(req *request.Request) []string {
	seen := map[string]struct{}{}
	dirs := []string{}
	add := func(path string) {
		if path == "" {
			return
		}
		dir := filepath.Dir(path)
		if _, ok := seen[dir]; ok {
			return
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}
	for _, spec := range req.Files {
		add(spec.Path)
		add(spec.ContentSource)
	}
	return dirs
}
