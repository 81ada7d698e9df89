// Package watch watches a schema corpus and reports document changes.
package watch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/c360studio/semcheck/corpus"
)

const (
	// eventChannelBuffer is the size of the watch event channel.
	eventChannelBuffer = 500

	// DefaultDebounce is used when Config.Debounce is zero.
	DefaultDebounce = 500 * time.Millisecond
)

// Config configures schema watching.
type Config struct {
	// Debounce is how long changes accumulate before events are emitted.
	Debounce time.Duration
	// Extensions lists document suffixes (default: corpus.DefaultExtensions).
	Extensions []string
	// Exclude holds doublestar patterns relative to the root.
	Exclude []string
}

// Event represents a document change.
type Event struct {
	// Path is the slash-separated path relative to the root.
	Path string
	// Operation is the type of change.
	Operation Operation
	// AbsPath is the file path on disk.
	AbsPath string
}

// Operation indicates the type of file operation.
type Operation string

// OpCreate, OpModify, and OpDelete enumerate the change kinds.
const (
	OpCreate Operation = "create"
	OpModify Operation = "modify"
	OpDelete Operation = "delete"
)

// Watcher watches a schema root for document changes and emits events.
// Writes that leave a file's content unchanged produce no event.
type Watcher struct {
	root       string
	debounce   time.Duration
	watcher    *fsnotify.Watcher
	logger     *slog.Logger
	extensions map[string]bool
	exclude    []string

	// Debouncing: collect changes before processing
	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op

	// Content hashes by relative path
	hashMu sync.RWMutex
	hashes map[string]string

	// Output channel
	events chan Event

	droppedEvents atomic.Int64
}

// New creates a watcher for root.
func New(root string, config Config, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	exts := config.Extensions
	if len(exts) == 0 {
		exts = corpus.DefaultExtensions
	}
	extensions := make(map[string]bool, len(exts))
	for _, ext := range exts {
		// Ensure extension starts with .
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extensions[strings.ToLower(ext)] = true
	}

	exclude := config.Exclude
	if exclude == nil {
		exclude = corpus.DefaultExclude
	}

	debounce := config.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{
		root:       root,
		debounce:   debounce,
		watcher:    fsw,
		logger:     logger,
		extensions: extensions,
		exclude:    exclude,
		pending:    make(map[string]fsnotify.Op),
		hashes:     make(map[string]string),
		events:     make(chan Event, eventChannelBuffer),
	}, nil
}

// Events returns the channel of watch events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start hashes the current documents and begins watching the root.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.Prime(); err != nil {
		return err
	}

	// Add watches recursively
	if err := w.addWatchesRecursive(w.root); err != nil {
		return err
	}

	// Start the event processing goroutine
	go w.processEvents(ctx)

	w.logger.Info("Schema watcher started",
		"root", w.root,
		"debounce", w.debounce,
		"documents", w.HashCount())

	return nil
}

// Stop stops the watcher.
// The events channel is closed by processEvents when it exits.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

// Prime records the content hash of every document under the root, so that
// later writes producing the same bytes (a canonical rewrite that changed
// nothing, for example) are not reported.
func (w *Watcher) Prime() error {
	hashes := make(map[string]string)
	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := w.rel(path)
		if d.IsDir() {
			if path != w.root && w.excluded(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !w.watched(path) || w.excluded(rel) {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		hashes[rel] = contentHash(content)
		return nil
	})
	if err != nil {
		return err
	}

	w.hashMu.Lock()
	w.hashes = hashes
	w.hashMu.Unlock()
	return nil
}

// SetHash records the hash for a file.
func (w *Watcher) SetHash(rel, hash string) {
	w.hashMu.Lock()
	defer w.hashMu.Unlock()
	w.hashes[rel] = hash
}

// GetHash returns the recorded hash for a file.
func (w *Watcher) GetHash(rel string) (string, bool) {
	w.hashMu.RLock()
	defer w.hashMu.RUnlock()
	hash, ok := w.hashes[rel]
	return hash, ok
}

// HashCount returns the number of documents with a recorded hash.
func (w *Watcher) HashCount() int {
	w.hashMu.RLock()
	defer w.hashMu.RUnlock()
	return len(w.hashes)
}

func contentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func (w *Watcher) rel(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func (w *Watcher) watched(path string) bool {
	return w.extensions[strings.ToLower(filepath.Ext(path))]
}

func (w *Watcher) excluded(rel string) bool {
	for _, pattern := range w.exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// addWatchesRecursive adds watches to all directories.
func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Only watch directories
		if !d.IsDir() {
			return nil
		}

		if path != w.root && w.excluded(w.rel(path)) {
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

// processEvents handles fsnotify events with debouncing.
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events) // Close events channel when goroutine exits
	ticker := time.NewTicker(w.debounce)
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
	rel := w.rel(path)

	if !w.watched(path) {
		// But handle directory creation (for new watches)
		if event.Has(fsnotify.Create) {
			if info, err := os.Stat(path); err == nil && info.IsDir() && !w.excluded(rel) {
				w.addNewDirectory(path)
			}
		}
		return
	}

	if w.excluded(rel) {
		return
	}

	// Accumulate pending changes
	w.pendingMu.Lock()
	w.pending[path] |= event.Op
	w.pendingMu.Unlock()

	w.logger.Debug("Document change detected",
		"path", rel,
		"op", event.Op.String())
}

// addNewDirectory watches a newly created directory and queues the documents
// already inside it, which may have been written before the watch existed.
func (w *Watcher) addNewDirectory(path string) {
	if err := w.addWatchesRecursive(path); err != nil {
		w.logger.Warn("Failed to watch new directory",
			"path", path,
			"error", err)
		return
	}
	w.logger.Debug("Added watch for new directory", "path", path)

	_ = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !w.watched(p) || w.excluded(w.rel(p)) {
			return nil
		}
		w.pendingMu.Lock()
		w.pending[p] |= fsnotify.Create
		w.pendingMu.Unlock()
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

	// Swap out pending
	toProcess := w.pending
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	for path, op := range toProcess {
		select {
		case <-ctx.Done():
			return
		default:
		}

		rel := w.rel(path)
		event := Event{Path: rel, AbsPath: path}

		content, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			// Removed, or renamed away
			w.hashMu.Lock()
			_, known := w.hashes[rel]
			delete(w.hashes, rel)
			w.hashMu.Unlock()

			if known || op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename) {
				event.Operation = OpDelete
				w.sendEvent(event)
			}
			continue
		}
		if err != nil {
			w.logger.Warn("Failed to read file for hash check",
				"path", rel,
				"error", err)
			continue
		}

		newHash := contentHash(content)

		// Check if content actually changed
		oldHash, hadHash := w.GetHash(rel)
		if hadHash && oldHash == newHash {
			continue
		}

		w.SetHash(rel, newHash)

		if hadHash {
			event.Operation = OpModify
		} else {
			event.Operation = OpCreate
		}

		w.sendEvent(event)
	}
}

// sendEvent sends an event to the output channel.
func (w *Watcher) sendEvent(event Event) {
	select {
	case w.events <- event:
		w.logger.Debug("Sent watch event",
			"path", event.Path,
			"op", event.Operation)
	default:
		dropped := w.droppedEvents.Add(1)
		w.logger.Warn("Event channel full, dropping event",
			"path", event.Path,
			"total_dropped", dropped)
	}
}

// DroppedEvents returns the number of events dropped due to channel overflow.
func (w *Watcher) DroppedEvents() int64 {
	return w.droppedEvents.Load()
}
