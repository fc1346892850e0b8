// Package watch reruns a generation pass whenever one of its manifests
// changes on disk.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/patternkit/errors"
	"github.com/teranos/patternkit/logger"
)

// Func runs one pass. Returned errors are logged and watching continues.
type Func func(ctx context.Context) error

// Watcher debounces filesystem events on a fixed set of manifest files
type Watcher struct {
	fsw      *fsnotify.Watcher
	files    map[string]struct{}
	debounce time.Duration
	log      *zap.SugaredLogger
}

// New watches the directories holding paths. Directories rather than
// files are watched so editors that save by rename are still seen.
func New(paths []string, debounce time.Duration, log *zap.SugaredLogger) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, errors.New("nothing to watch")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		fsw:      fsw,
		files:    make(map[string]struct{}, len(paths)),
		debounce: debounce,
		log:      logger.OrNop(log),
	}
	dirs := map[string]bool{}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, errors.Wrapf(err, "resolve %s", p)
		}
		w.files[abs] = struct{}{}
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, errors.Wrapf(err, "failed to watch %s", dir)
		}
		dirs[dir] = true
	}
	return w, nil
}

// Run blocks until ctx is done, calling fn once per burst of changes.
// Passes never overlap: events arriving during a pass schedule the next one.
func (w *Watcher) Run(ctx context.Context, fn Func) error {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debugw("Manifest changed",
				logger.FieldPath, event.Name,
				"op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warnw("Watcher error", logger.FieldError, err)

		case <-fire:
			fire = nil
			start := time.Now()
			if err := fn(ctx); err != nil {
				w.log.Errorw("Pass failed", logger.FieldError, err)
				continue
			}
			w.log.Infow("Pass complete", logger.FieldDurationMS, time.Since(start).Milliseconds())
		}
	}
}

// Close releases the underlying fsnotify watcher
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Only reload on Write or Create events for a watched manifest
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	_, ok := w.files[abs]
	return ok
}
