package merkle

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
)

// combineHashes folds an ordered list of hex-encoded hashes into one,
// following the same sequential sha256 write used by the file-level
// content hash elsewhere in the core: H(h1 ‖ h2 ‖ … ‖ hn).
func combineHashes(parts []string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// FileHash computes fileHash from a file's ordered chunk hashes.
func FileHash(chunkHashes []string) string {
	return combineHashes(chunkHashes)
}

// RootHash computes the project root hash as H(sorted(path:fileHash)*),
// per spec §3.
func RootHash(files map[string]FileNode) string {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	parts := make([]string, 0, len(paths))
	for _, p := range paths {
		parts = append(parts, p+":"+files[p].Hash)
	}
	return combineHashes(parts)
}
