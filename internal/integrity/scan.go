package integrity

import (
	"io/fs"
	"path/filepath"

	"github.com/cortexcore/cortexcore/internal/policy"
)

// ScanEligible walks root applying pol, returning every file relPath ->
// absPath that passes the full eligibility cascade. Hard-denied
// directories are pruned without descending, matching the policy's own
// short-circuit for performance on large trees.
func ScanEligible(root string, pol *policy.Policy) (map[string]string, error) {
	eligible := map[string]string{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if path == root {
			return nil
		}
		relPath, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if pol.IsHardDenied(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		decision, derr := pol.ShouldIndex(relPath, path)
		if derr != nil || !decision.ShouldIndex {
			return nil
		}
		eligible[relPath] = path
		return nil
	})
	if err != nil {
		return nil, err
	}
	return eligible, nil
}
