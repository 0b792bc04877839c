// Package fingerprint owns the FingerprintMap — the authoritative record
// of which content hash is currently indexed for each file — and the
// drift scan that reconciles it against the filesystem (spec §4.6).
package fingerprint

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/cortexcore/cortexcore/internal/corerr"
)

// Map is a relative-path -> contentHash record, safe for concurrent use.
// Persistence is atomic (temp file + rename) and cross-process-safe via a
// flock sidecar, guarding the same "don't let two processes stomp the
// same file" problem a concurrent CLI invocation could otherwise hit.
type Map struct {
	path string

	mu      sync.RWMutex
	entries map[string]string // relPath -> contentHash

	// mtimes is a fast-path cache: contentHash recomputation is skipped
	// when a file's mtime matches what was recorded at last index, per
	// the teacher's mtime-before-hash optimization (SUPPLEMENTED in
	// DESIGN.md). It is not persisted; a process restart simply falls
	// back to hashing once per file until the cache warms again.
	mtimes map[string]int64
}

// Load reads the fingerprint map at path, or returns an empty Map if the
// file does not yet exist (first run).
func Load(path string) (*Map, error) {
	m := &Map{path: path, entries: map[string]string{}, mtimes: map[string]int64{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, &corerr.IndexCorruptError{Path: path, Reason: err.Error()}
	}
	if err := json.Unmarshal(data, &m.entries); err != nil {
		return nil, &corerr.IndexCorruptError{Path: path, Reason: err.Error()}
	}
	return m, nil
}

// Get returns the recorded content hash for relPath and whether it exists.
func (m *Map) Get(relPath string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.entries[relPath]
	return h, ok
}

// Set records relPath's content hash and the mtime it was observed at.
func (m *Map) Set(relPath, contentHash string, mtimeNano int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[relPath] = contentHash
	m.mtimes[relPath] = mtimeNano
}

// Delete removes relPath's fingerprint entirely (file removed).
func (m *Map) Delete(relPath string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, relPath)
	delete(m.mtimes, relPath)
}

// MtimeUnchanged reports whether relPath's recorded mtime matches
// mtimeNano, letting the drift scan skip a content hash recomputation.
func (m *Map) MtimeUnchanged(relPath string, mtimeNano int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	recorded, ok := m.mtimes[relPath]
	return ok && recorded == mtimeNano
}

// TouchMtime refreshes relPath's recorded mtime without changing its
// content hash, for the case where a hash recompute confirms content is
// unchanged but the filesystem mtime drifted (SUPPLEMENTED FEATURES).
func (m *Map) TouchMtime(relPath string, mtimeNano int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mtimes[relPath] = mtimeNano
}

// Paths returns a snapshot of every path currently recorded.
func (m *Map) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	paths := make([]string, 0, len(m.entries))
	for p := range m.entries {
		paths = append(paths, p)
	}
	return paths
}

// Snapshot returns a copy of the full path->contentHash map.
func (m *Map) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.entries))
	for k, v := range m.entries {
		out[k] = v
	}
	return out
}

// Save persists the map atomically, guarded by a file lock so a
// concurrent process cannot interleave writes.
func (m *Map) Save() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	lockPath := m.path + ".lock"
	lock := flock.New(lockPath)
	locked, err := lock.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return err
	}
	if !locked {
		return &corerr.BusyError{Operation: "fingerprint save"}
	}
	defer lock.Unlock()

	m.mu.RLock()
	data, err := json.MarshalIndent(m.entries, "", "  ")
	m.mu.RUnlock()
	if err != nil {
		return err
	}

	dir := filepath.Dir(m.path)
	tmp, err := os.CreateTemp(dir, ".fingerprint-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, m.path)
}
