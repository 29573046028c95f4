// Package watcher re-ingests the datasets when the CSV files change on
// disk. Editors and sync tools write files in bursts, so events are
// debounced before triggering a reload.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kamerdata/kamerarchief/internal/dataset"
)

const debounceDelay = 2 * time.Second

// Watcher watches the data directory and calls reload after changes settle.
type Watcher struct {
	dataDir string
	reload  func() error
	logger  *slog.Logger
}

// New creates a Watcher. reload is called from the watch goroutine, at most
// once per settled burst of file events.
func New(dataDir string, reload func() error, logger *slog.Logger) *Watcher {
	return &Watcher{dataDir: dataDir, reload: reload, logger: logger}
}

// Start begins watching until ctx is canceled. It returns an error only when
// the watch cannot be established.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(w.dataDir); err != nil {
		fw.Close()
		return fmt.Errorf("watch %s: %w", w.dataDir, err)
	}

	go w.run(ctx, fw)
	return nil
}

func (w *Watcher) run(ctx context.Context, fw *fsnotify.Watcher) {
	defer fw.Close()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("dataset file event", "file", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(debounceDelay)
				timerC = timer.C
			} else {
				timer.Reset(debounceDelay)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)
		case <-timerC:
			timer = nil
			timerC = nil
			if err := w.reload(); err != nil {
				w.logger.Error("reload after file change", "error", err)
			}
		}
	}
}

// relevant reports whether the event touches one of the dataset files with
// an operation that changes content.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(event.Name)
	return name == dataset.MembersFile || name == dataset.AppointmentsFile
}
