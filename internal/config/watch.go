// Package config provides craftctl configuration management.
//
// This file contains the config file watcher used to pick up alias-table
// edits without restarting the shell.
package config

import (
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the config file when it changes on disk.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	done    chan struct{}
}

// Watch starts watching a config file and invokes onReload with the
// freshly parsed config after each change. Parse failures are logged and
// skipped; the previous config stays in effect.
//
// The parent directory is watched rather than the file itself, so that
// editors that replace the file (rename-over-write) keep triggering events.
//
// Parameters:
//   - path: The config file path to watch
//   - onReload: Callback invoked with each successfully reloaded config
//
// Returns:
//   - *Watcher: The running watcher; call Close to stop it
//   - error: Any error creating the underlying watcher
func Watch(path string, onReload func(*Config)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		watcher: fsw,
		path:    path,
		done:    make(chan struct{}),
	}

	go func() {
		for {
			select {
			case <-w.done:
				return
			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(path) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				cfg, err := Load(path)
				if err != nil {
					log.Debug("config reload skipped", "path", path, "err", err)
					continue
				}
				log.Debug("config reloaded", "path", path)
				onReload(cfg)
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				log.Debug("config watcher error", "err", err)
			}
		}
	}()

	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
