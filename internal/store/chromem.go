package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/philippgille/chromem-go"
)

// ChromemStore is the default ChunkStore reference implementation,
// backed by the teacher's own vector engine (philippgille/chromem-go).
type ChromemStore struct {
	dbPath         string
	collectionName string
	dimension      int

	mu         sync.Mutex
	db         *chromem.DB
	collection *chromem.Collection
}

// NewChromemStore constructs a store persisted at dbPath (a directory)
// under collection collectionName, validating every inserted vector
// against dimension.
func NewChromemStore(dbPath, collectionName string, dimension int) *ChromemStore {
	return &ChromemStore{dbPath: dbPath, collectionName: collectionName, dimension: dimension}
}

// noopEmbeddingFunc never runs: every Document this store creates already
// carries its Embedding, computed upstream by the Embedder.
func noopEmbeddingFunc(_ context.Context, text string) ([]float32, error) {
	return nil, fmt.Errorf("chromem store: embedding func invoked for %q; every document must carry a precomputed vector", text)
}

func (s *ChromemStore) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := chromem.NewPersistentDB(s.dbPath, false)
	if err != nil {
		return err
	}
	s.db = db

	collection, err := db.GetOrCreateCollection(s.collectionName, nil, noopEmbeddingFunc)
	if err != nil {
		return err
	}
	s.collection = collection
	return nil
}

func (s *ChromemStore) Close() error {
	// chromem-go's persistent DB flushes synchronously on every write;
	// there is no separate handle to release.
	return nil
}

func (s *ChromemStore) InsertChunks(ctx context.Context, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := make([]chromem.Document, 0, len(records))
	for _, r := range records {
		if len(r.Vector) != s.dimension {
			return fmt.Errorf("chromem store: vector dimension %d != configured %d", len(r.Vector), s.dimension)
		}
		docs = append(docs, chromem.Document{
			ID:        r.ID,
			Embedding: r.Vector,
			Content:   r.Text,
			Metadata: map[string]string{
				"path":        r.Path,
				"startLine":   strconv.Itoa(r.StartLine),
				"endLine":     strconv.Itoa(r.EndLine),
				"contentHash": r.ContentHash,
				"chunkHash":   r.ChunkHash,
			},
		})
	}

	return s.collection.AddDocuments(ctx, docs, 1)
}

func (s *ChromemStore) DeleteByPath(ctx context.Context, relPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.idsForPath(relPath)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	return s.collection.Delete(ctx, nil, nil, ids...)
}

func (s *ChromemStore) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collection.Delete(ctx, nil, nil, ids...)
}

func (s *ChromemStore) ListChunksByPath(ctx context.Context, relPath string) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Record
	for _, doc := range s.collection.GetDocumentsByIDs(s.allIDs()...) {
		if doc.Metadata["path"] != relPath {
			continue
		}
		out = append(out, documentToRecord(doc))
	}
	return out, nil
}

func (s *ChromemStore) idsForPath(relPath string) ([]string, error) {
	var ids []string
	for _, doc := range s.collection.GetDocumentsByIDs(s.allIDs()...) {
		if doc.Metadata["path"] == relPath {
			ids = append(ids, doc.ID)
		}
	}
	return ids, nil
}

func (s *ChromemStore) allIDs() []string {
	return s.collection.ListIDs()
}

func documentToRecord(doc chromem.Document) Record {
	startLine, _ := strconv.Atoi(doc.Metadata["startLine"])
	endLine, _ := strconv.Atoi(doc.Metadata["endLine"])
	return Record{
		ID:          doc.ID,
		Path:        doc.Metadata["path"],
		Text:        doc.Content,
		Vector:      doc.Embedding,
		StartLine:   startLine,
		EndLine:     endLine,
		ContentHash: doc.Metadata["contentHash"],
		ChunkHash:   doc.Metadata["chunkHash"],
	}
}

func (s *ChromemStore) CountFiles(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths := map[string]bool{}
	for _, doc := range s.collection.GetDocumentsByIDs(s.allIDs()...) {
		paths[doc.Metadata["path"]] = true
	}
	return len(paths), nil
}

func (s *ChromemStore) CountChunks(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collection.Count(), nil
}

func (s *ChromemStore) GetStorageSize(ctx context.Context) (int64, error) {
	info, err := os.Stat(s.dbPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	return dirSize(s.dbPath, info)
}

func (s *ChromemStore) HasData(ctx context.Context) (bool, error) {
	count, err := s.CountChunks(ctx)
	return count > 0, err
}

func (s *ChromemStore) Delete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return os.RemoveAll(s.dbPath)
}

func dirSize(path string, info os.FileInfo) (int64, error) {
	if !info.IsDir() {
		return info.Size(), nil
	}
	var total int64
	entries, err := os.ReadDir(path)
	if err != nil {
		return 0, err
	}
	for _, e := range entries {
		childInfo, err := e.Info()
		if err != nil {
			continue
		}
		childPath := path + string(os.PathSeparator) + e.Name()
		size, err := dirSize(childPath, childInfo)
		if err != nil {
			continue
		}
		total += size
	}
	return total, nil
}
