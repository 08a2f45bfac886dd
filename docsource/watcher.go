// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package docsource

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/panjf2000/ants/v2"
)

// DefaultDebounce is how long the watcher waits after the last file
// event before triggering an ingestion run. Editors typically fire
// several events per save; the quiet period collapses them into one
// run.
const DefaultDebounce = 2 * time.Second

// Runner triggers one ingestion pass. *ingestion.Pipeline satisfies it.
type Runner interface {
	Run(ctx context.Context) (int, error)
}

// Watcher re-runs ingestion whenever a matching file in the watched
// directory is created, written or renamed. Runs execute on a
// single-worker pool in non-blocking mode, so at most one ingestion is
// in flight and triggers arriving mid-run are dropped rather than
// queued. The next file event after the run completes triggers a fresh
// pass, which re-reads the whole directory anyway.
type Watcher struct {
	dir        string
	runner     Runner
	extensions []string
	debounce   time.Duration
	logger     *slog.Logger

	fswatcher *fsnotify.Watcher
	pool      *ants.Pool
	done      chan struct{}
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher) error

// WithDebounce sets the quiet period between the last file event and
// the triggered run. Default is 2s.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) error {
		if d > 0 {
			w.debounce = d
		}
		return nil
	}
}

// WithWatcherExtensions overrides the file extensions that trigger a
// run.
func WithWatcherExtensions(extensions []string) WatcherOption {
	return func(w *Watcher) error {
		if len(extensions) > 0 {
			w.extensions = extensions
		}
		return nil
	}
}

// WithWatcherLogger sets a custom logger. Default is slog.Default().
func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) error {
		if logger != nil {
			w.logger = logger
		}
		return nil
	}
}

// NewWatcher creates a watcher over the given directory.
func NewWatcher(dir string, runner Runner, opts ...WatcherOption) (*Watcher, error) {
	if dir == "" {
		return nil, ErrDirRequired
	}
	if runner == nil {
		return nil, ErrRunnerRequired
	}

	w := &Watcher{
		dir:        dir,
		runner:     runner,
		extensions: DefaultExtensions,
		debounce:   DefaultDebounce,
		logger:     slog.Default().With("component", "watcher"),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}

	fswatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	pool, err := ants.NewPool(1, ants.WithNonblocking(true))
	if err != nil {
		fswatcher.Close()
		return nil, err
	}

	w.fswatcher = fswatcher
	w.pool = pool
	return w, nil
}

// Start begins watching. It returns once the watch is registered; event
// handling runs in the background until Close is called or the context
// is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.fswatcher.Add(w.dir); err != nil {
		return err
	}

	go w.loop(ctx)
	w.logger.Info("watching for document changes", "dir", w.dir)
	return nil
}

func (w *Watcher) loop(ctx context.Context) {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.fswatcher.Events:
			if !ok {
				return
			}
			if !w.triggers(event) {
				continue
			}
			w.logger.Debug("file event", "file", filepath.Base(event.Name), "op", event.Op.String())
			if timer == nil {
				timer = time.AfterFunc(w.debounce, func() { w.trigger(ctx) })
			} else {
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.fswatcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", "err", err)
		}
	}
}

func (w *Watcher) triggers(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	return slices.Contains(w.extensions, filepath.Ext(event.Name))
}

func (w *Watcher) trigger(ctx context.Context) {
	err := w.pool.Submit(func() {
		stored, err := w.runner.Run(ctx)
		if err != nil {
			w.logger.Error("watch-triggered ingestion failed", "err", err)
			return
		}
		w.logger.Info("watch-triggered ingestion finished", "stored", stored)
	})
	if errors.Is(err, ants.ErrPoolOverload) {
		w.logger.Debug("ingestion already running, trigger dropped")
	} else if err != nil {
		w.logger.Error("submitting ingestion run", "err", err)
	}
}

// Close stops watching and releases the worker pool. A run already in
// flight finishes on its own.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.fswatcher.Close()
	w.pool.Release()
	return err
}
