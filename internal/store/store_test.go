package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func rec(id, path string, vec []float32) Record {
	return Record{
		ID: id, Path: path, Text: "text for " + id, Vector: vec,
		StartLine: 1, EndLine: 2, ContentHash: "hash-" + path, ChunkHash: "chunk-" + id,
	}
}

func TestChromemStoreInsertListDeleteRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewChromemStore(filepath.Join(dir, "db"), "code", 3)
	require.NoError(t, s.Open(ctx))
	defer s.Close()

	require.NoError(t, s.InsertChunks(ctx, []Record{
		rec("a1", "a.go", []float32{1, 0, 0}),
		rec("a2", "a.go", []float32{0, 1, 0}),
		rec("b1", "b.go", []float32{0, 0, 1}),
	}))

	files, err := s.CountFiles(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, files)

	chunks, err := s.CountChunks(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, chunks)

	aRecords, err := s.ListChunksByPath(ctx, "a.go")
	require.NoError(t, err)
	require.Len(t, aRecords, 2)

	require.NoError(t, s.DeleteByPath(ctx, "a.go"))
	chunks, err = s.CountChunks(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, chunks)

	has, err := s.HasData(ctx)
	require.NoError(t, err)
	require.True(t, has)
}

func TestChromemStoreDeleteByIDsLeavesSiblingsAtSamePath(t *testing.T) {
	ctx := context.Background()
	s := NewChromemStore(filepath.Join(t.TempDir(), "db"), "code", 3)
	require.NoError(t, s.Open(ctx))
	defer s.Close()

	require.NoError(t, s.InsertChunks(ctx, []Record{
		rec("a1", "a.go", []float32{1, 0, 0}),
		rec("a2", "a.go", []float32{0, 1, 0}),
	}))
	require.NoError(t, s.DeleteByIDs(ctx, []string{"a1"}))

	recs, err := s.ListChunksByPath(ctx, "a.go")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, "a2", recs[0].ID)
}

func TestChromemStoreRejectsWrongDimension(t *testing.T) {
	ctx := context.Background()
	s := NewChromemStore(filepath.Join(t.TempDir(), "db"), "code", 4)
	require.NoError(t, s.Open(ctx))
	defer s.Close()

	err := s.InsertChunks(ctx, []Record{rec("a1", "a.go", []float32{1, 0, 0})})
	require.Error(t, err)
}

func TestHNSWStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "snapshot.gob")

	s := NewHNSWStore(path)
	require.NoError(t, s.Open(ctx))
	require.NoError(t, s.InsertChunks(ctx, []Record{
		rec("a1", "a.go", []float32{1, 0, 0}),
		rec("b1", "b.go", []float32{0, 1, 0}),
	}))
	require.NoError(t, s.Close())

	reopened := NewHNSWStore(path)
	require.NoError(t, reopened.Open(ctx))
	defer reopened.Close()

	chunks, err := reopened.CountChunks(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, chunks)

	aRecords, err := reopened.ListChunksByPath(ctx, "a.go")
	require.NoError(t, err)
	require.Len(t, aRecords, 1)
}

func TestHNSWStoreDeleteByPathTombstonesAndHidesResults(t *testing.T) {
	ctx := context.Background()
	s := NewHNSWStore(filepath.Join(t.TempDir(), "snapshot.gob"))
	require.NoError(t, s.Open(ctx))
	defer s.Close()

	require.NoError(t, s.InsertChunks(ctx, []Record{
		rec("a1", "a.go", []float32{1, 0, 0}),
		rec("b1", "b.go", []float32{0, 1, 0}),
	}))
	require.NoError(t, s.DeleteByPath(ctx, "a.go"))

	chunks, err := s.CountChunks(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, chunks)

	aRecords, err := s.ListChunksByPath(ctx, "a.go")
	require.NoError(t, err)
	require.Empty(t, aRecords)

	results, err := s.Search(ctx, []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	for _, r := range results {
		require.NotEqual(t, "a.go", r.Path)
	}
}

func TestHNSWStoreDeleteClearsSnapshotFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "snapshot.gob")
	s := NewHNSWStore(path)
	require.NoError(t, s.Open(ctx))
	require.NoError(t, s.InsertChunks(ctx, []Record{rec("a1", "a.go", []float32{1, 0, 0})}))
	require.NoError(t, s.Close())

	require.NoError(t, s.Delete(ctx))
	has, err := s.HasData(ctx)
	require.NoError(t, err)
	require.False(t, has)
}
