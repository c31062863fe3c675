package app

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"rectlink/internal/logging"
)

const reloadDebounce = 500 * time.Millisecond

// HotReloader watches a binary for rebuilds and triggers a callback when a
// newer version appears. During development this prompts for a restart after
// recompilation.
type HotReloader struct {
	path     string
	watcher  *fsnotify.Watcher
	log      *zap.Logger
	debounce time.Duration

	mu          sync.Mutex
	baseline    time.Time
	onNewBinary func()
	stopCh      chan struct{}
	stopped     bool
}

// NewExecutableReloader watches the running executable.
func NewExecutableReloader(logger *zap.Logger) (*HotReloader, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locate executable: %w", err)
	}
	return NewHotReloader(execPath, logger)
}

// NewHotReloader watches the file at path. The directory is watched rather
// than the file, because builds usually replace the file instead of writing it.
func NewHotReloader(path string, logger *zap.Logger) (*HotReloader, error) {
	// go build may leave a symlink pointing at the old location
	if real, err := filepath.EvalSymlinks(path); err == nil {
		path = real
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	return &HotReloader{
		path:     path,
		watcher:  watcher,
		log:      logging.OrNop(logger),
		debounce: reloadDebounce,
		baseline: info.ModTime(),
		stopCh:   make(chan struct{}),
	}, nil
}

// OnNewBinary sets the callback to invoke when a newer binary is detected.
// The callback is called from a background goroutine - use appropriate
// synchronization if updating UI.
func (h *HotReloader) OnNewBinary(callback func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onNewBinary = callback
}

// Start begins watching in a background goroutine.
func (h *HotReloader) Start() {
	go h.watchLoop()
}

// Stop stops watching and releases the watcher.
func (h *HotReloader) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return
	}
	h.stopped = true
	close(h.stopCh)
	h.watcher.Close()
}

// Done is closed once Stop has been called.
func (h *HotReloader) Done() <-chan struct{} {
	return h.stopCh
}

func (h *HotReloader) watchLoop() {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != h.path {
				continue
			}
			h.log.Debug("binary changed",
				zap.String("file", event.Name),
				zap.String("operation", event.Op.String()))

			// a build writes the file in several chunks
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(h.debounce, h.check)

		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.log.Warn("binary watcher error", zap.Error(err))

		case <-h.stopCh:
			return
		}
	}
}

// check invokes the callback if the binary is newer than the baseline.
func (h *HotReloader) check() {
	if !h.newer() {
		return
	}
	h.mu.Lock()
	callback := h.onNewBinary
	h.mu.Unlock()

	h.log.Info("newer binary detected", zap.String("path", h.path))
	if callback != nil {
		callback()
	}
}

func (h *HotReloader) newer() bool {
	info, err := os.Stat(h.path)
	if err != nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return info.ModTime().After(h.baseline)
}

// Path returns the path of the watched binary.
func (h *HotReloader) Path() string {
	return h.path
}

// ResetBaseline updates the baseline timestamp to the current binary's mod time.
// Call this when the user declines a restart to avoid repeated notifications.
func (h *HotReloader) ResetBaseline() {
	if info, err := os.Stat(h.path); err == nil {
		h.mu.Lock()
		h.baseline = info.ModTime()
		h.mu.Unlock()
	}
}

// Restart replaces the current process with a new instance of the binary.
// This function does not return on success.
func (h *HotReloader) Restart() error {
	return RestartProcess(h.path)
}

// RestartProcess replaces the current process with a new instance of the
// specified executable, preserving command line arguments and environment.
// This function does not return on success.
func RestartProcess(execPath string) error {
	// syscall.Exec replaces the current process - no fork
	return syscall.Exec(execPath, os.Args, os.Environ())
}
