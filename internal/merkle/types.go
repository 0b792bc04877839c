// Package merkle implements the hierarchical hash tree over files and
// chunks used for O(1) no-change detection and O(changes) diffing
// (spec §4.5), backed by github.com/dominikbraun/graph for the DAG
// structure itself.
package merkle

// ChunkNode holds the per-chunk facts needed for diffing and persistence.
type ChunkNode struct {
	FilePath    string `json:"filePath"`
	Hash        string `json:"hash"` // chunkHash
	ContentHash string `json:"contentHash"`
	StartLine   int    `json:"startLine"`
	EndLine     int    `json:"endLine"`
	ChunkType   string `json:"chunkType,omitempty"`
	ChunkName   string `json:"chunkName,omitempty"`
}

// FileNode is the Merkle node for one indexed file.
type FileNode struct {
	Hash        string   `json:"hash"` // fileHash = H(chunkHash_1 ‖ … ‖ chunkHash_n)
	ContentHash string   `json:"contentHash"`
	Size        int64    `json:"size"`
	Mtime       int64    `json:"mtime"` // unix nanoseconds
	ChunkOrder  []string `json:"chunkOrder"`
}

// SnapshotVersion is the persisted format version written to
// merkle-tree.json; a mismatch on load is a structured IndexCorrupt error.
const SnapshotVersion = "1.0.0"

// Snapshot is the full persisted state of a project's Merkle DAG.
type Snapshot struct {
	Version     string               `json:"version"`
	RootHash    string               `json:"rootHash"`
	LastUpdated string               `json:"lastUpdated"`
	Files       map[string]FileNode  `json:"files"`
	Chunks      map[string]ChunkNode `json:"chunks"`
}
