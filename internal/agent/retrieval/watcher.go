package retrieval

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	logx "github.com/Chative-core-poc-v1/policy-advisor/pkg/logger"
)

const (
	defaultDebounce = 300 * time.Millisecond
	debounceTick    = 50 * time.Millisecond
)

// Watcher keeps a MemoryStore in sync with the policy folder. Events are
// debounced per file; a settled file is reloaded if it exists and dropped
// from the index otherwise.
type Watcher struct {
	watcher     *fsnotify.Watcher
	store       *MemoryStore
	dir         string
	chunking    Chunking
	debounceMap map[string]time.Time
	debounceDur time.Duration
}

// NewWatcher starts watching dir. Call Run to process events and Close to stop.
func NewWatcher(store *MemoryStore, dir string, c Chunking) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create policy watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return &Watcher{
		watcher:     w,
		store:       store,
		dir:         dir,
		chunking:    c,
		debounceMap: make(map[string]time.Time),
		debounceDur: defaultDebounce,
	}, nil
}

// Run processes events until ctx is done or the watcher is closed. The
// debounce map is only touched from this goroutine.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(debounceTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isSupported(ev.Name) {
				continue
			}
			w.debounceMap[ev.Name] = time.Now()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logx.Warn().Err(err).Str("dir", w.dir).Msg("Policy watcher error")
		case now := <-ticker.C:
			w.processSettled(ctx, now)
		}
	}
}

func (w *Watcher) processSettled(ctx context.Context, now time.Time) {
	for path, at := range w.debounceMap {
		if now.Sub(at) < w.debounceDur {
			continue
		}
		delete(w.debounceMap, path)
		w.sync(ctx, path)
	}
}

func (w *Watcher) sync(ctx context.Context, path string) {
	source := filepath.Base(path)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		n := w.store.DeleteSource(source)
		logx.Info().Str("file", source).Int("chunks", n).Msg("Policy removed from index")
		return
	}

	docs, err := LoadFile(path, w.chunking)
	if err != nil {
		logx.Warn().Err(err).Str("file", source).Msg("Policy reload failed")
		return
	}
	if err := w.store.ReplaceSource(ctx, source, docs); err != nil {
		logx.Warn().Err(err).Str("file", source).Msg("Policy reindex failed")
		return
	}
	logx.Info().Str("file", source).Int("chunks", len(docs)).Msg("Policy reindexed")
}

// Close stops the underlying watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
