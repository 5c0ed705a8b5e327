package convert

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher converts parquet files as they appear in a directory. Writes
// are debounced so a file being copied in is only converted once it has
// settled.
type Watcher struct {
	converter *Converter
	outDir    string
	settle    time.Duration
	log       *zap.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewWatcher creates a directory watcher feeding the converter.
func NewWatcher(converter *Converter, outDir string, log *zap.Logger) *Watcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		converter: converter,
		outDir:    outDir,
		settle:    500 * time.Millisecond,
		log:       log,
		pending:   make(map[string]*time.Timer),
	}
}

// Watch blocks converting incoming files until ctx is cancelled.
// onResult is invoked after each conversion, with the error if it failed.
func (w *Watcher) Watch(ctx context.Context, dir string, onResult func(*Result, error)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(dir); err != nil {
		return err
	}
	w.log.Info("watching for parquet files", zap.String("dir", dir))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if strings.ToLower(filepath.Ext(ev.Name)) != ".parquet" {
				continue
			}
			w.schedule(ctx, ev.Name, onResult)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))
		}
	}
}

// schedule (re)arms the settle timer for a path. Repeated write events
// push the conversion back until the file stops changing.
func (w *Watcher) schedule(ctx context.Context, path string, onResult func(*Result, error)) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Reset(w.settle)
		return
	}
	w.pending[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		res, err := w.converter.ConvertStreaming(ctx, path, OutputName(path, w.outDir), nil)
		if err != nil {
			w.log.Warn("watch conversion failed", zap.String("path", path), zap.Error(err))
		}
		if onResult != nil {
			onResult(res, err)
		}
	})
}
