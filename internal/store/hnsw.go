package store

import (
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/coder/hnsw"
)

// HNSWStore is the alternate ChunkStore reference implementation, backed
// by an in-memory coder/hnsw graph with a gob snapshot on disk. Deletes
// are lazy: coder/hnsw has no cheap node removal, so a deleted or
// superseded ID is tombstoned and filtered out of every read path, and
// the graph is rebuilt from the surviving metadata once the number of
// tombstoning deletes reaches compactThreshold.
type HNSWStore struct {
	path string

	mu          sync.RWMutex
	graph       *hnsw.Graph[string]
	metadata    map[string]Record
	tombstoned  map[string]bool
	deleteCount int
}

const compactThreshold = 256

// NewHNSWStore constructs a store persisted as a single gob snapshot file
// at path.
func NewHNSWStore(path string) *HNSWStore {
	return &HNSWStore{path: path}
}

type hnswSnapshot struct {
	Metadata map[string]Record
}

func (s *HNSWStore) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.graph = hnsw.NewGraph[string]()
	s.metadata = map[string]Record{}
	s.tombstoned = map[string]bool{}

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	var snap hnswSnapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return fmt.Errorf("hnsw store: decode snapshot: %w", err)
	}
	for id, rec := range snap.Metadata {
		s.metadata[id] = rec
		s.graph.Add(hnsw.MakeNode(id, hnsw.Vector(rec.Vector)))
	}
	return nil
}

func (s *HNSWStore) Close() error {
	return s.save()
}

func (s *HNSWStore) InsertChunks(ctx context.Context, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		s.metadata[r.ID] = r
		delete(s.tombstoned, r.ID)
		s.graph.Add(hnsw.MakeNode(r.ID, hnsw.Vector(r.Vector)))
	}
	return s.save()
}

func (s *HNSWStore) DeleteByPath(ctx context.Context, relPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, rec := range s.metadata {
		if rec.Path != relPath {
			continue
		}
		s.tombstoned[id] = true
		s.deleteCount++
	}
	if s.deleteCount >= compactThreshold {
		s.compactLocked()
	}
	return s.save()
}

func (s *HNSWStore) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		if _, ok := s.metadata[id]; !ok {
			continue
		}
		s.tombstoned[id] = true
		s.deleteCount++
	}
	if s.deleteCount >= compactThreshold {
		s.compactLocked()
	}
	return s.save()
}

func (s *HNSWStore) compactLocked() {
	fresh := hnsw.NewGraph[string]()
	kept := map[string]Record{}
	for id, rec := range s.metadata {
		if s.tombstoned[id] {
			continue
		}
		kept[id] = rec
		fresh.Add(hnsw.MakeNode(id, hnsw.Vector(rec.Vector)))
	}
	s.graph = fresh
	s.metadata = kept
	s.tombstoned = map[string]bool{}
	s.deleteCount = 0
}

func (s *HNSWStore) ListChunksByPath(ctx context.Context, relPath string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Record
	for id, rec := range s.metadata {
		if s.tombstoned[id] || rec.Path != relPath {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *HNSWStore) CountFiles(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paths := map[string]bool{}
	for id, rec := range s.metadata {
		if s.tombstoned[id] {
			continue
		}
		paths[rec.Path] = true
	}
	return len(paths), nil
}

func (s *HNSWStore) CountChunks(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.metadata) - len(s.tombstoned), nil
}

func (s *HNSWStore) GetStorageSize(ctx context.Context) (int64, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	return info.Size(), nil
}

func (s *HNSWStore) HasData(ctx context.Context) (bool, error) {
	count, err := s.CountChunks(ctx)
	return count > 0, err
}

func (s *HNSWStore) Delete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graph = hnsw.NewGraph[string]()
	s.metadata = map[string]Record{}
	s.tombstoned = map[string]bool{}
	s.deleteCount = 0
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// save must be called with s.mu held.
func (s *HNSWStore) save() error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".hnsw-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	snap := hnswSnapshot{Metadata: s.metadata}
	if err := gob.NewEncoder(tmp).Encode(snap); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, s.path)
}

// Search runs an approximate nearest-neighbor query, filtering tombstoned
// IDs out of the result set before returning.
func (s *HNSWStore) Search(ctx context.Context, query []float32, k int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Over-fetch to absorb tombstoned hits without a second round trip.
	neighbors := s.graph.Search(hnsw.Vector(query), k+len(s.tombstoned))
	out := make([]Record, 0, k)
	for _, n := range neighbors {
		if s.tombstoned[n.Key] {
			continue
		}
		if rec, ok := s.metadata[n.Key]; ok {
			out = append(out, rec)
		}
		if len(out) == k {
			break
		}
	}
	return out, nil
}
