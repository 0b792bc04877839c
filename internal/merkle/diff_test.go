package merkle

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRootHashStableAcrossRebuildWithSameContent(t *testing.T) {
	files := map[string]FileNode{
		"a.ts": {Hash: "h1", ContentHash: "c1"},
		"b.md": {Hash: "h2", ContentHash: "c2"},
	}
	require.Equal(t, RootHash(files), RootHash(files))
}

func TestComputeDiffAddedRemovedModified(t *testing.T) {
	old := Snapshot{
		Files: map[string]FileNode{
			"a.ts": {Hash: "ha", ContentHash: "ca"},
			"b.ts": {Hash: "hb", ContentHash: "cb"},
		},
	}
	new := Snapshot{
		Files: map[string]FileNode{
			"a.ts": {Hash: "ha2", ContentHash: "ca2"},
			"c.ts": {Hash: "hc", ContentHash: "cc"},
		},
	}

	diff := ComputeDiff(old, new)
	require.ElementsMatch(t, []string{"c.ts"}, diff.Added)
	require.ElementsMatch(t, []string{"b.ts"}, diff.Removed)
	require.ElementsMatch(t, []string{"a.ts"}, diff.Modified)
}

func TestComputeDiffRootHashFastPath(t *testing.T) {
	old := Snapshot{RootHash: "same", Files: map[string]FileNode{"a.ts": {Hash: "h"}}}
	new := Snapshot{RootHash: "same", Files: map[string]FileNode{"a.ts": {Hash: "different"}}}

	diff := ComputeDiff(old, new)
	require.Empty(t, diff.Added)
	require.Empty(t, diff.Modified)
	require.Empty(t, diff.Removed)
}

func TestComputeDiffChunkLevelMovedAndModified(t *testing.T) {
	old := Snapshot{
		Files: map[string]FileNode{"a.ts": {Hash: "fh1", ContentHash: "same", ChunkOrder: []string{"c1", "c2"}}},
		Chunks: map[string]ChunkNode{
			"c1": {Hash: "hash1"},
			"c2": {Hash: "hash2"},
		},
	}
	new := Snapshot{
		Files: map[string]FileNode{"a.ts": {Hash: "fh2", ContentHash: "same", ChunkOrder: []string{"c2", "c1"}}},
		Chunks: map[string]ChunkNode{
			"c1": {Hash: "hash1changed"},
			"c2": {Hash: "hash2"},
		},
	}

	diff := ComputeDiff(old, new)
	require.Len(t, diff.ChunkOnly, 1)
	kinds := map[string]string{}
	for _, c := range diff.ChunkOnly[0].Changes {
		kinds[c.ChunkID] = c.Kind
	}
	require.Equal(t, "modified", kinds["c1"])
	require.Equal(t, "moved", kinds["c2"])
}

func TestSnapshotRoundTrip(t *testing.T) {
	snap := Snapshot{
		Version:  SnapshotVersion,
		RootHash: "r1",
		Files: map[string]FileNode{
			"a.ts": {Hash: "h1", ContentHash: "c1", Size: 10, ChunkOrder: []string{"id1"}},
		},
		Chunks: map[string]ChunkNode{
			"id1": {FilePath: "a.ts", Hash: "ch1", ContentHash: "c1", StartLine: 1, EndLine: 5},
		},
	}

	path := filepath.Join(t.TempDir(), "merkle-tree.json")
	require.NoError(t, SaveSnapshot(path, snap))

	loaded, err := LoadSnapshot(path)
	require.NoError(t, err)

	firstBytes, err := json.Marshal(snap)
	require.NoError(t, err)
	secondBytes, err := json.Marshal(loaded)
	require.NoError(t, err)
	require.Equal(t, firstBytes, secondBytes)
}

func TestLoadSnapshotVersionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "merkle-tree.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":"0.1.0"}`), 0o644))

	_, err := LoadSnapshot(path)
	require.Error(t, err)
}
