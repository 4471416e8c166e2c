package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the file at path whenever it changes and hands the new config
// to onChange. A file that fails to load or validate is reported to onErr and
// the previous config stays in effect. Both callbacks run on the watcher
// goroutine; callers owning UI state must marshal onto their UI thread.
//
// The parent directory is watched rather than the file, so editors that save
// by rename are picked up. Watching stops when ctx is done.
func Watch(ctx context.Context, path string, onChange func(*Config), onErr func(error)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	report := func(err error) {
		if onErr != nil && err != nil {
			onErr(err)
		}
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				cfg, err := LoadFromPath(abs)
				if err != nil {
					report(err)
					continue
				}
				if onChange != nil {
					onChange(cfg)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				report(err)
			}
		}
	}()
	return nil
}
