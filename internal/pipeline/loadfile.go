package pipeline

import (
	"os"

	"github.com/cortexcore/cortexcore/internal/chunk"
)

// loadFile reads relPath's content and stats its mtime, computing the
// content hash used for both chunk IDs and the fingerprint map entry.
func (p *Pipeline) loadFile(relPath, absPath string) (fileInput, error) {
	data, err := os.ReadFile(absPath)
	if err != nil {
		return fileInput{}, err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return fileInput{}, err
	}

	return fileInput{
		relPath:     relPath,
		absPath:     absPath,
		contentHash: chunk.HashContent(data),
		mtimeNano:   info.ModTime().UnixNano(),
		source:      data,
	}, nil
}
