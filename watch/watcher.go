// Package watch reports changes to ontology files so they can be converted
// again.
package watch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/c360studio/aboxer/batch"
)

const (
	// eventChannelBuffer is the size of the watch event channel.
	eventChannelBuffer = 500

	defaultDebounce = 500 * time.Millisecond
)

// Config configures a Watcher.
type Config struct {
	// Debounce is how long changes are collected before they are reported.
	Debounce time.Duration
	// Include selects files below watched directories (doublestar patterns
	// relative to the directory).
	Include []string
	// Exclude removes files from the selection.
	Exclude []string
}

// Op indicates the type of change.
type Op string

// OpCreate, OpModify, and OpDelete enumerate the change types.
const (
	OpCreate Op = "create"
	OpModify Op = "modify"
	OpDelete Op = "delete"
)

// Event reports a changed file.
type Event struct {
	Path string
	Op   Op
}

// Watcher watches files and directories for changes and emits debounced
// events. Files whose content did not change are not reported.
type Watcher struct {
	config  Config
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	// Watched roots: directories with their include rules, single files
	mu    sync.RWMutex
	dirs  map[string]bool
	files map[string]bool

	// Debouncing: collect changes before processing
	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op

	// Hash-based change detection
	hashMu sync.RWMutex
	hashes map[string]string

	// Output channel
	events chan Event
	done   chan struct{}

	// Metrics
	droppedEvents atomic.Int64
}

// New creates a watcher. It watches nothing until Add is called.
func New(config Config, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if config.Debounce <= 0 {
		config.Debounce = defaultDebounce
	}
	return &Watcher{
		config:  config,
		watcher: fsw,
		logger:  logger,
		dirs:    make(map[string]bool),
		files:   make(map[string]bool),
		pending: make(map[string]fsnotify.Op),
		hashes:  make(map[string]string),
		events:  make(chan Event, eventChannelBuffer),
		done:    make(chan struct{}),
	}, nil
}

// Events returns the channel of watch events. It is closed when the watcher
// stops.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Add watches path. A directory is watched recursively and reports the files
// selected by the include and exclude patterns; a file is always reported.
// The current content of the selected files is recorded so that only later
// changes produce events.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		// Editors often replace files, so the parent directory is watched.
		w.mu.Lock()
		w.files[abs] = true
		w.mu.Unlock()
		w.recordHash(abs)
		return w.watcher.Add(filepath.Dir(abs))
	}

	w.mu.Lock()
	w.dirs[abs] = true
	w.mu.Unlock()
	return w.addWatchesRecursive(abs)
}

// Start begins processing file system events until ctx is cancelled or
// Stop is called.
func (w *Watcher) Start(ctx context.Context) {
	go w.processEvents(ctx)

	w.logger.Info("Watcher started",
		"debounce", w.config.Debounce,
		"include", w.config.Include)
}

// Stop stops the watcher and waits until the events channel is closed.
// It must only be called after Start.
func (w *Watcher) Stop() error {
	err := w.watcher.Close()
	<-w.done
	return err
}

// DroppedEvents returns the number of events dropped due to channel overflow.
func (w *Watcher) DroppedEvents() int64 {
	return w.droppedEvents.Load()
}

// addWatchesRecursive adds watches to all directories below root and
// records the hashes of the selected files.
func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			if w.selected(path) {
				w.recordHash(path)
			}
			return nil
		}

		// Skip hidden directories
		base := filepath.Base(path)
		if path != root && strings.HasPrefix(base, ".") {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("Failed to watch directory",
				"path", path,
				"error", err)
		} else {
			w.logger.Debug("Watching directory", "path", path)
		}
		return nil
	})
}

// selected reports whether path is a watched file or is selected by the
// patterns of a watched directory containing it.
func (w *Watcher) selected(path string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.files[path] {
		return true
	}
	for dir := range w.dirs {
		rel, err := filepath.Rel(dir, path)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}
		if batch.Selected(filepath.ToSlash(rel), w.config.Include, w.config.Exclude) {
			return true
		}
	}
	return false
}

// processEvents handles fsnotify events with debouncing.
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.done)
	defer close(w.events) // Close events channel when goroutine exits
	ticker := time.NewTicker(w.config.Debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

// handleFSEvent processes a single fsnotify event.
func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path := event.Name

	if !w.selected(path) {
		// But handle directory creation (for new watches)
		if event.Has(fsnotify.Create) {
			if info, err := os.Stat(path); err == nil && info.IsDir() && w.insideWatchedDir(path) {
				w.handleNewDirectory(path)
			}
		}
		return
	}

	// Accumulate pending changes
	w.pendingMu.Lock()
	w.pending[path] |= event.Op
	w.pendingMu.Unlock()

	w.logger.Debug("File change detected",
		"path", path,
		"op", event.Op.String())
}

func (w *Watcher) insideWatchedDir(path string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for dir := range w.dirs {
		if rel, err := filepath.Rel(dir, path); err == nil && !strings.HasPrefix(rel, "..") {
			return true
		}
	}
	return false
}

// handleNewDirectory adds a watch to a newly created directory and reports
// the selected files already inside it.
func (w *Watcher) handleNewDirectory(path string) {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return
	}
	if err := w.watcher.Add(path); err != nil {
		w.logger.Warn("Failed to watch new directory",
			"path", path,
			"error", err)
		return
	}
	w.logger.Debug("Added watch for new directory", "path", path)

	_ = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if p != path {
				_ = w.watcher.Add(p)
			}
			return nil
		}
		if w.selected(p) {
			w.pendingMu.Lock()
			w.pending[p] |= fsnotify.Create
			w.pendingMu.Unlock()
		}
		return nil
	})
}

// flushPending processes accumulated changes.
func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}

	// Copy and clear pending
	toProcess := w.pending
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	for path := range toProcess {
		select {
		case <-ctx.Done():
			return
		default:
		}

		content, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			// File deleted or renamed away
			w.hashMu.Lock()
			_, known := w.hashes[path]
			delete(w.hashes, path)
			w.hashMu.Unlock()
			if known {
				w.sendEvent(Event{Path: path, Op: OpDelete})
			}
			continue
		}
		if err != nil {
			w.logger.Warn("Failed to read file for hash check",
				"path", path,
				"error", err)
			continue
		}

		newHash := contentHash(content)

		// Check if content actually changed
		w.hashMu.Lock()
		oldHash, hadHash := w.hashes[path]
		w.hashes[path] = newHash
		w.hashMu.Unlock()
		if hadHash && oldHash == newHash {
			continue
		}

		event := Event{Path: path, Op: OpModify}
		if !hadHash {
			event.Op = OpCreate
		}
		w.sendEvent(event)
	}
}

func (w *Watcher) recordHash(path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		return
	}
	w.hashMu.Lock()
	w.hashes[path] = contentHash(content)
	w.hashMu.Unlock()
}

// sendEvent sends an event to the output channel.
func (w *Watcher) sendEvent(event Event) {
	select {
	case w.events <- event:
		w.logger.Debug("Sent watch event",
			"path", event.Path,
			"op", event.Op)
	default:
		dropped := w.droppedEvents.Add(1)
		w.logger.Warn("Event channel full, dropping event",
			"path", event.Path,
			"total_dropped", dropped)
	}
}

func contentHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}
