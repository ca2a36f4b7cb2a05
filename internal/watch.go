package internal

import (
	"crypto/md5"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the watcher waits after a change before it
// reads the file, so that an editor's burst of writes is handled once.
const DefaultDebounce = 100 * time.Millisecond

// Watcher calls a handler whenever the content of one file changes.
// It watches the parent directory, since editors often replace a file
// rather than write to it in place.
type Watcher struct {
	path     string
	onChange func(path string)
	logger   *zap.Logger
	debounce time.Duration

	watcher    *fsnotify.Watcher
	mu         sync.Mutex
	isWatching bool
	lastHash   string
	done       chan struct{}
}

// NewWatcher prepares a watcher for path. A nil logger discards log output.
func NewWatcher(path string, logger *zap.Logger, onChange func(path string)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		path:     abs,
		onChange: onChange,
		logger:   logger,
		debounce: DefaultDebounce,
	}, nil
}

// SetDebounce overrides DefaultDebounce. It must be called before StartWatching.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

func (w *Watcher) StartWatching() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isWatching {
		return errors.New("already watching")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("error adding directory to watcher: %w", err)
	}

	// a missing file is fine: the first write creates it
	w.lastHash, _ = getFileHash(w.path)
	w.watcher = watcher
	w.done = make(chan struct{})
	w.isWatching = true

	go w.watchLoop(watcher, w.done)
	return nil
}

func (w *Watcher) StopWatching() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.isWatching {
		return nil
	}
	w.isWatching = false
	err := w.watcher.Close()
	<-w.done
	return err
}

func (w *Watcher) watchLoop(watcher *fsnotify.Watcher, done chan struct{}) {
	defer close(done)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			w.handleFileEvent(event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleFileEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	time.Sleep(w.debounce)

	hash, err := getFileHash(w.path)
	if err != nil {
		w.logger.Error("Error reading watched file", zap.String("path", w.path), zap.Error(err))
		return
	}
	if hash == w.lastHash {
		w.logger.Debug("Content unchanged", zap.String("path", w.path))
		return
	}
	w.lastHash = hash

	w.logger.Info("File changed", zap.String("path", w.path), zap.String("hash", hash))
	w.onChange(w.path)
}

func getFileHash(filename string) (string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}
