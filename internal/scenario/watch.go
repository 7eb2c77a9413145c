package scenario

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ReportFunc receives the outcome of re-checking a changed file.
type ReportFunc func(path string, issues []Issue, err error)

// Watcher re-checks scenario files when they change.
type Watcher struct {
	runner   *Runner
	watcher  *fsnotify.Watcher
	report   ReportFunc
	debounce time.Duration
}

// NewWatcher watches every directory below dirs. Call Run to start
// delivering reports.
func NewWatcher(runner *Runner, dirs []string, report ReportFunc) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return fw.Add(path)
			}
			return nil
		})
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}
	return &Watcher{
		runner:   runner,
		watcher:  fw,
		report:   report,
		debounce: 100 * time.Millisecond,
	}, nil
}

// Run delivers reports until ctx is done, then releases the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleFileEvent(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.runner.logger.Error("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleFileEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if !hasScenarioExtension(event.Name) {
		return
	}

	// editors write in several steps
	select {
	case <-ctx.Done():
		return
	case <-time.After(w.debounce):
	}

	issues, err := w.runner.RunFile(event.Name)
	w.report(event.Name, issues, err)
}
