package merkle

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cortexcore/cortexcore/internal/corerr"
)

// LoadSnapshot reads and validates a merkle-tree.json snapshot. A version
// mismatch or unreadable file is a structured IndexCorrupt error, per
// spec §7. A missing file returns an empty Snapshot carrying the current
// SnapshotVersion and empty Files/Chunks maps, with no error (first run).
func LoadSnapshot(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Snapshot{Version: SnapshotVersion, Files: map[string]FileNode{}, Chunks: map[string]ChunkNode{}}, nil
		}
		return Snapshot{}, &corerr.IndexCorruptError{Path: path, Reason: err.Error()}
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, &corerr.IndexCorruptError{Path: path, Reason: err.Error()}
	}
	if snap.Version != SnapshotVersion {
		return Snapshot{}, &corerr.IndexCorruptError{Path: path, Reason: "snapshot version mismatch: " + snap.Version}
	}
	return snap, nil
}

// SaveSnapshot writes snap atomically: encode to a temp file in the same
// directory, then rename over the destination, so a crash mid-write never
// leaves a corrupt snapshot in place.
func SaveSnapshot(path string, snap Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".merkle-tree-*.tmp")
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
	return os.Rename(tmpPath, path)
}
