package measure

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Marker waits until a file at Path is created or written, typically by a
// test module running inside the tool. A zero Timeout waits indefinitely.
type Marker struct {
	Path    string
	Timeout time.Duration
}

func (m Marker) Mode() string { return "marker" }

func (m Marker) Wait(ctx context.Context, _ StatusFunc) error {
	if m.Path == "" {
		return errors.New("measure: marker wait needs a path")
	}
	target, err := filepath.Abs(m.Path)
	if err != nil {
		return fmt.Errorf("measure: resolve %s: %w", m.Path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("measure: create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch before checking for the file so a marker written in between is
	// not missed.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("measure: watch %s: %w", filepath.Dir(target), err)
	}
	if _, err := os.Stat(target); err == nil {
		return nil
	}

	ctx, cancel := withTimeout(ctx, m.Timeout)
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return timeoutErr(ctx)
		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("measure: watcher closed")
			}
			return fmt.Errorf("measure: watch %s: %w", target, err)
		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("measure: watcher closed")
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if filepath.Clean(event.Name) == target {
				return nil
			}
		}
	}
}
