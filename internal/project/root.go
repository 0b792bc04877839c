// Package project detects the root directory of a source tree by walking
// upward from a starting point looking for well-known project markers.
package project

import (
	"os"
	"path/filepath"

	"github.com/cortexcore/cortexcore/internal/corerr"
)

// markers is checked in priority order at each directory level; the first
// match wins at that level.
var markers = []string{
	".git",
	"package.json",
	"pyproject.toml",
	"Cargo.toml",
	"go.mod",
}

// Detect walks upward from startDir looking for the first directory that
// contains any marker. It returns corerr.ProjectNotDetectedError if the
// filesystem root is reached without a match.
func Detect(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		for _, m := range markers {
			if _, statErr := os.Stat(filepath.Join(dir, m)); statErr == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", &corerr.ProjectNotDetectedError{StartDir: startDir}
		}
		dir = parent
	}
}
