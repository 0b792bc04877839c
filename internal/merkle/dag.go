package merkle

import (
	"github.com/dominikbraun/graph"
)

const rootVertex = "root"

// DAG is the in-memory hierarchy root -> file nodes -> chunk nodes,
// represented as a directed acyclic graph. Vertices are plain node-id
// strings ("file:<path>", "chunk:<id>"); the actual FileNode/ChunkNode
// payloads live in the owning Snapshot's maps so the graph only has to
// answer "what is under this file" and "what changed" questions.
type DAG struct {
	g      graph.Graph[string, string]
	files  map[string]FileNode
	chunks map[string]ChunkNode
}

func fileVertex(path string) string { return "file:" + path }
func chunkVertex(id string) string  { return "chunk:" + id }

// BuildDAG constructs a DAG from a Snapshot's files and chunks.
func BuildDAG(snap Snapshot) *DAG {
	g := graph.New(graph.StringHash, graph.Directed(), graph.Acyclic())
	_ = g.AddVertex(rootVertex)

	d := &DAG{g: g, files: snap.Files, chunks: snap.Chunks}

	for path, fn := range snap.Files {
		fv := fileVertex(path)
		_ = g.AddVertex(fv)
		_ = g.AddEdge(rootVertex, fv)

		for _, chunkID := range fn.ChunkOrder {
			cv := chunkVertex(chunkID)
			_ = g.AddVertex(cv)
			_ = g.AddEdge(fv, cv)
		}
	}

	return d
}

// ChunksOf returns the chunk IDs reachable from path's file vertex, in
// stored order, by walking the DAG's adjacency rather than re-reading
// FileNode.ChunkOrder directly.
func (d *DAG) ChunksOf(path string) ([]string, error) {
	fv := fileVertex(path)
	adjacency, err := d.g.AdjacencyMap()
	if err != nil {
		return nil, err
	}

	edges, ok := adjacency[fv]
	if !ok {
		return nil, nil
	}

	fn := d.files[path]
	order := make([]string, 0, len(edges))
	for _, id := range fn.ChunkOrder {
		if _, present := edges[chunkVertex(id)]; present {
			order = append(order, id)
		}
	}
	return order, nil
}

// Snapshot reassembles a Snapshot from the DAG's current files/chunks maps
// and a freshly computed root hash.
func (d *DAG) Snapshot(lastUpdated string) Snapshot {
	return Snapshot{
		Version:     SnapshotVersion,
		RootHash:    RootHash(d.files),
		LastUpdated: lastUpdated,
		Files:       d.files,
		Chunks:      d.chunks,
	}
}
