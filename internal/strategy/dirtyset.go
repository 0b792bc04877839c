package strategy

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

// dirtySet is the lazy strategy's persisted set of paths awaiting a flush,
// stored as JSON next to the fingerprint map with the same atomic-write-
// plus-flock discipline (spec §4.9).
type dirtySet struct {
	path string

	mu      sync.Mutex
	entries map[string]bool
}

func loadDirtySet(path string) (*dirtySet, error) {
	d := &dirtySet{path: path, entries: map[string]bool{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return d, nil
		}
		return nil, &corerr.IndexCorruptError{Path: path, Reason: err.Error()}
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, &corerr.IndexCorruptError{Path: path, Reason: err.Error()}
	}
	for _, p := range list {
		d.entries[p] = true
	}
	return d, nil
}

func (d *dirtySet) Add(relPath string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries[relPath] = true
}

func (d *dirtySet) Snapshot() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, 0, len(d.entries))
	for p := range d.entries {
		out = append(out, p)
	}
	return out
}

func (d *dirtySet) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries = map[string]bool{}
}

func (d *dirtySet) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}

func (d *dirtySet) Save() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	lock := flock.New(d.path + ".lock")
	locked, err := lock.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return err
	}
	if !locked {
		return &corerr.BusyError{Operation: "dirty set save"}
	}
	defer lock.Unlock()

	data, err := json.Marshal(d.Snapshot())
	if err != nil {
		return err
	}

	dir := filepath.Dir(d.path)
	tmp, err := os.CreateTemp(dir, ".dirty-*.tmp")
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
	return os.Rename(tmpPath, d.path)
}
