package fingerprint

import (
	"context"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/cortexcore/cortexcore/internal/chunk"
	"github.com/cortexcore/cortexcore/internal/corerr"
	"github.com/cortexcore/cortexcore/internal/policy"
)

// Drift is the result of comparing the filesystem (through the policy)
// against a fingerprint map.
type Drift struct {
	Added    []string
	Modified []string
	Removed  []string
}

func (d Drift) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Modified) == 0 && len(d.Removed) == 0
}

// hashWorkers bounds the parallel hashing fan-out during a drift scan.
const hashWorkers = 8

// CheckDrift scans eligiblePaths (relPath -> absPath, already filtered by
// the Policy) and hashes them in parallel batches, comparing against m.
// Eligible files not present in eligiblePaths but still recorded in m are
// reported as removed.
func CheckDrift(ctx context.Context, m *Map, pol *policy.Policy, eligiblePaths map[string]string) (Drift, error) {
	type hashed struct {
		relPath string
		hash    string
		mtime   int64
		err     error
	}

	results := make([]hashed, 0, len(eligiblePaths))
	resultsCh := make(chan hashed, len(eligiblePaths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(hashWorkers)

	for relPath, absPath := range eligiblePaths {
		relPath, absPath := relPath, absPath
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			info, statErr := os.Stat(absPath)
			if statErr != nil {
				resultsCh <- hashed{relPath: relPath, err: statErr}
				return nil
			}

			mtimeNano := info.ModTime().UnixNano()
			if m.MtimeUnchanged(relPath, mtimeNano) {
				existing, _ := m.Get(relPath)
				resultsCh <- hashed{relPath: relPath, hash: existing, mtime: mtimeNano}
				return nil
			}

			data, readErr := os.ReadFile(absPath)
			if readErr != nil {
				resultsCh <- hashed{relPath: relPath, err: readErr}
				return nil
			}
			resultsCh <- hashed{relPath: relPath, hash: chunk.HashContent(data), mtime: mtimeNano}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Drift{}, err
	}
	close(resultsCh)
	for r := range resultsCh {
		results = append(results, r)
	}

	var drift Drift
	seen := make(map[string]bool, len(results))
	for _, r := range results {
		seen[r.relPath] = true
		if r.err != nil {
			continue
		}
		existing, existed := m.Get(r.relPath)
		switch {
		case !existed:
			drift.Added = append(drift.Added, r.relPath)
		case existing != r.hash:
			drift.Modified = append(drift.Modified, r.relPath)
		default:
			m.TouchMtime(r.relPath, r.mtime)
		}
	}

	for _, relPath := range m.Paths() {
		if !seen[relPath] {
			drift.Removed = append(drift.Removed, relPath)
		}
	}

	return drift, nil
}

// ResourceLimited wraps a *corerr.ResourceLimitError as a convenience for
// callers enforcing the DoS guards named in spec §4.6 (glob result cap,
// recursion depth cap) ahead of calling CheckDrift.
func ResourceLimited(limit string, value, max int) error {
	return &corerr.ResourceLimitError{Limit: limit, Value: value, Max: max}
}
