// Package watcher reports when open documents change on disk because of
// something other than this program.
package watcher

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce collapses the burst of events an editor save produces.
const DefaultDebounce = 200 * time.Millisecond

// Change is an external modification of a watched file.
type Change struct {
	Path string
}

// Watcher watches individual files. Parent directories are watched so
// that replace-by-rename saves are seen.
type Watcher struct {
	fs       *fsnotify.Watcher
	log      *zap.Logger
	debounce time.Duration
	changes  chan Change

	mu     sync.Mutex
	files  map[string][sha256.Size]byte
	dirs   map[string]int
	timers map[string]*time.Timer

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a watcher. Call Start to begin delivering changes.
func New(log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		fs:       fw,
		log:      log.Named("watcher"),
		debounce: DefaultDebounce,
		changes:  make(chan Change, 16),
		files:    map[string][sha256.Size]byte{},
		dirs:     map[string]int{},
		timers:   map[string]*time.Timer{},
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Changes delivers external modifications. Changes are dropped rather
// than blocking when the reader falls behind.
func (w *Watcher) Changes() <-chan Change { return w.changes }

// Start runs the event loop in a goroutine.
func (w *Watcher) Start() { go w.loop() }

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.cancel()
	w.mu.Lock()
	for _, t := range w.timers {
		t.Stop()
	}
	w.mu.Unlock()
	return w.fs.Close()
}

// Watch starts watching path. The current contents become the baseline.
func (w *Watcher) Watch(path string) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.files[path]; ok {
		return nil
	}
	dir := filepath.Dir(path)
	if w.dirs[dir] == 0 {
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	w.dirs[dir]++
	w.files[path] = digestFile(path)
	return nil
}

// Unwatch stops watching path.
func (w *Watcher) Unwatch(path string) {
	path, err := filepath.Abs(path)
	if err != nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.files[path]; !ok {
		return
	}
	delete(w.files, path)
	if t := w.timers[path]; t != nil {
		t.Stop()
		delete(w.timers, path)
	}
	dir := filepath.Dir(path)
	w.dirs[dir]--
	if w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		_ = w.fs.Remove(dir)
	}
}

// Expect records data as the contents this program is about to write to
// path, so the resulting events are not reported. The returned func puts
// the previous baseline back; call it when the write fails.
func (w *Watcher) Expect(path string, data []byte) (undo func()) {
	undo = func() {}
	path, err := filepath.Abs(path)
	if err != nil {
		return undo
	}
	sum := sha256.Sum256(data)

	w.mu.Lock()
	defer w.mu.Unlock()
	prev, ok := w.files[path]
	if !ok {
		return undo
	}
	w.files[path] = sum
	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if cur, ok := w.files[path]; ok && cur == sum {
			w.files[path] = prev
		}
	}
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule(filepath.Clean(event.Name))

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", zap.Error(err))
		}
	}
}

// schedule re-checks path once events for it have been quiet for the
// debounce interval.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.files[path]; !ok {
		return
	}
	if t := w.timers[path]; t != nil {
		t.Reset(w.debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() { w.check(path) })
}

func (w *Watcher) check(path string) {
	sum := digestFile(path)

	w.mu.Lock()
	delete(w.timers, path)
	prev, ok := w.files[path]
	if !ok || prev == sum {
		w.mu.Unlock()
		return
	}
	w.files[path] = sum
	w.mu.Unlock()

	w.log.Info("document changed on disk", zap.String("path", path))
	select {
	case w.changes <- Change{Path: path}:
	case <-w.ctx.Done():
	default:
		w.log.Debug("change dropped", zap.String("path", path))
	}
}

func digestFile(path string) [sha256.Size]byte {
	data, err := os.ReadFile(path)
	if err != nil {
		return [sha256.Size]byte{}
	}
	return sha256.Sum256(data)
}
