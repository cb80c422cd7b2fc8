package storage

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"tabvault/pkg/log"
)

// debounceInterval delays reacting to on-disk changes so editors and other
// processes finish writing before we re-read the file.
const debounceInterval = 200 * time.Millisecond

// Event describes a change to a stored key. Origin identifies the writer:
// events caused by this process carry the writer's origin id, events caused
// by another process editing the file on disk carry an empty origin.
type Event struct {
	Key    string
	Origin string
}

// FileKV is a file-backed key-value store holding raw JSON values under
// string keys in a single JSON file. Writes replace the whole file
// atomically (temp file + rename); the last writer wins across processes.
type FileKV struct {
	path string
	l    log.Logger

	mu      sync.Mutex
	lastSum [sha256.Size]byte // checksum of the payload we last wrote

	subsMu  sync.Mutex
	subs    map[int]chan Event
	nextSub int

	watcher *fsnotify.Watcher
	stopCh  chan struct{}

	debounceMu    sync.Mutex
	debounceTimer *time.Timer
}

// NewFileKV creates a store backed by the file at path. The parent directory
// is created if missing; the file itself is created on first write.
func NewFileKV(path string, l log.Logger) (*FileKV, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &FileKV{
		path: path,
		l:    l,
		subs: make(map[int]chan Event),
	}, nil
}

// Get reads the value stored under key into out. Returns false if the key
// (or the whole file) does not exist.
func (kv *FileKV) Get(key string, out any) (bool, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	doc, err := kv.load()
	if err != nil {
		return false, err
	}

	raw, ok := doc[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("failed to decode value for key %q: %w", key, err)
	}
	return true, nil
}

// Set stores value under key and notifies subscribers with the given origin.
func (kv *FileKV) Set(key string, value any, origin string) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for key %q: %w", key, err)
	}

	kv.mu.Lock()
	doc, err := kv.load()
	if err != nil {
		kv.mu.Unlock()
		return err
	}
	doc[key] = raw
	err = kv.save(doc)
	kv.mu.Unlock()
	if err != nil {
		return err
	}

	kv.notify(Event{Key: key, Origin: origin})
	return nil
}

// Delete removes key and notifies subscribers. Deleting a missing key is a
// no-op.
func (kv *FileKV) Delete(key string, origin string) error {
	kv.mu.Lock()
	doc, err := kv.load()
	if err != nil {
		kv.mu.Unlock()
		return err
	}
	if _, ok := doc[key]; !ok {
		kv.mu.Unlock()
		return nil
	}
	delete(doc, key)
	err = kv.save(doc)
	kv.mu.Unlock()
	if err != nil {
		return err
	}

	kv.notify(Event{Key: key, Origin: origin})
	return nil
}

// Subscribe registers a change listener. The returned function unsubscribes
// and closes the channel.
func (kv *FileKV) Subscribe() (<-chan Event, func()) {
	kv.subsMu.Lock()
	defer kv.subsMu.Unlock()

	id := kv.nextSub
	kv.nextSub++
	ch := make(chan Event, 16)
	kv.subs[id] = ch

	return ch, func() {
		kv.subsMu.Lock()
		defer kv.subsMu.Unlock()
		if c, ok := kv.subs[id]; ok {
			delete(kv.subs, id)
			close(c)
		}
	}
}

// Watch starts an fsnotify watcher on the storage file so edits made by
// other processes surface as Events with an empty origin. Returns an error
// if the watcher cannot be created; callers may treat that as non-fatal.
func (kv *FileKV) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the directory: the atomic rename replaces the file inode, so
	// watching the file itself would go stale after the first write.
	if err := watcher.Add(filepath.Dir(kv.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch storage directory: %w", err)
	}

	kv.watcher = watcher
	kv.stopCh = make(chan struct{})

	go kv.watchLoop(ctx)
	return nil
}

func (kv *FileKV) watchLoop(ctx context.Context) {
	for {
		select {
		case ev, ok := <-kv.watcher.Events:
			if !ok {
				return
			}
			if ev.Name != kv.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			kv.scheduleExternalCheck(ctx)
		case err, ok := <-kv.watcher.Errors:
			if !ok {
				return
			}
			kv.l.Warnf(ctx, "storage watcher error: %v", err)
		case <-kv.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// scheduleExternalCheck debounces bursts of file events, then emits external
// change events unless the on-disk payload matches our own last write.
func (kv *FileKV) scheduleExternalCheck(ctx context.Context) {
	kv.debounceMu.Lock()
	defer kv.debounceMu.Unlock()

	if kv.debounceTimer != nil {
		kv.debounceTimer.Stop()
	}
	kv.debounceTimer = time.AfterFunc(debounceInterval, func() {
		kv.emitExternalChange(ctx)
	})
}

func (kv *FileKV) emitExternalChange(ctx context.Context) {
	kv.mu.Lock()
	raw, err := os.ReadFile(kv.path)
	if err != nil {
		kv.mu.Unlock()
		if !os.IsNotExist(err) {
			kv.l.Warnf(ctx, "storage watcher: failed to re-read file: %v", err)
		}
		return
	}
	if sha256.Sum256(raw) == kv.lastSum {
		// Our own write landing on disk, not an external edit.
		kv.mu.Unlock()
		return
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		kv.mu.Unlock()
		kv.l.Warnf(ctx, "storage watcher: file changed but is not valid JSON: %v", err)
		return
	}
	kv.lastSum = sha256.Sum256(raw)
	kv.mu.Unlock()

	for key := range doc {
		kv.notify(Event{Key: key})
	}
}

// Close stops the watcher and releases resources.
func (kv *FileKV) Close() {
	if kv.stopCh != nil {
		close(kv.stopCh)
		kv.stopCh = nil
	}
	if kv.watcher != nil {
		kv.watcher.Close()
		kv.watcher = nil
	}
}

// load reads the whole file. A missing file yields an empty document.
// Caller must hold kv.mu.
func (kv *FileKV) load() (map[string]json.RawMessage, error) {
	raw, err := os.ReadFile(kv.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, fmt.Errorf("failed to read storage file: %w", err)
	}

	doc := map[string]json.RawMessage{}
	if len(raw) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("storage file is corrupt: %w", err)
	}
	return doc, nil
}

// save writes the whole file atomically. Caller must hold kv.mu.
func (kv *FileKV) save(doc map[string]json.RawMessage) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode storage file: %w", err)
	}

	tmp := kv.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write storage file: %w", err)
	}
	if err := os.Rename(tmp, kv.path); err != nil {
		return fmt.Errorf("failed to replace storage file: %w", err)
	}

	kv.lastSum = sha256.Sum256(raw)
	return nil
}

func (kv *FileKV) notify(ev Event) {
	kv.subsMu.Lock()
	defer kv.subsMu.Unlock()
	for _, ch := range kv.subs {
		select {
		case ch <- ev:
		default:
			// Slow subscriber: drop rather than block a write.
		}
	}
}
