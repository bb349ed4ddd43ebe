// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package staging

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jeranaias/datachat-tui/internal/logger"
)

// =============================================================================
// EVENTS
// =============================================================================

// ChangeKind classifies a change to the staged file on disk.
type ChangeKind int

const (
	// Modified means the file's bytes changed.
	Modified ChangeKind = iota
	// Removed means the file was deleted or renamed away.
	Removed
)

func (k ChangeKind) String() string {
	if k == Removed {
		return "removed"
	}
	return "modified"
}

// FileChange is reported by a Watcher.
type FileChange struct {
	Path string
	Kind ChangeKind
}

// =============================================================================
// FSNOTIFY WATCHER
// =============================================================================

// Watcher reports changes to one staged file. It watches the parent
// directory so editors that save by rename are still seen.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	changes  chan FileChange
	ctx      context.Context
	cancel   context.CancelFunc
	once     sync.Once
	log      *slog.Logger
}

// Watch starts watching path. Bursts of writes within debounce are reported
// once.
func Watch(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:     abs,
		watcher:  fw,
		debounce: debounce,
		changes:  make(chan FileChange, 1),
		ctx:      ctx,
		cancel:   cancel,
		log:      logger.ComponentLogger("staging.watch"),
	}
	go w.processEvents()
	return w, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Changes delivers debounced changes. It is closed by Close.
func (w *Watcher) Changes() <-chan FileChange {
	return w.changes
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		w.cancel()
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) processEvents() {
	defer close(w.changes)

	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending *FileChange
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}

			var change FileChange
			switch {
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				change = FileChange{Path: w.path, Kind: Removed}
			case event.Op&(fsnotify.Write|fsnotify.Create) != 0:
				change = FileChange{Path: w.path, Kind: Modified}
			default:
				continue
			}

			// A removal is never downgraded by a later write in the same burst.
			if pending == nil || pending.Kind != Removed || change.Kind == Removed {
				pending = &change
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if pending == nil {
				continue
			}
			w.log.Debug("staged file changed", "path", pending.Path, "kind", pending.Kind)
			select {
			case w.changes <- *pending:
			case <-w.ctx.Done():
				return
			}
			pending = nil

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", "path", w.path, "error", err)
		}
	}
}
