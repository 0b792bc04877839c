// Package policy implements the indexing eligibility cascade from spec
// §4.1: hard-deny, user-exclude, gitignore, binary detection, size, and
// user-include, in that order, with security-hardened path matching.
package policy

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/gobwas/glob"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cortexcore/cortexcore/internal/config"
	"github.com/cortexcore/cortexcore/internal/platform"
)

// Policy evaluates file eligibility against a project's configuration. It
// is safe for concurrent use: compiled globs and loaded gitignore rules are
// read-only after construction, and the decision cache is internally
// synchronized.
type Policy struct {
	projectRoot string
	maxFileSize int64

	hardDeny     []glob.Glob
	userExclude  []glob.Glob
	userInclude  []glob.Glob
	hasInclude   bool
	respectGitig bool
	gitigDepth   int
	caseFold     bool

	mu             sync.RWMutex
	gitignoreRules []gitignoreRule
	gitignoreReady bool

	decisionCache *lru.Cache[string, Decision]
}

// New compiles a Policy from cfg. Hard-deny patterns are always compiled;
// gitignore rules are loaded lazily on first use since they require a
// filesystem walk.
func New(cfg config.Config) (*Policy, error) {
	caseFold := platform.Current().IsCaseInsensitive()

	hardDeny, err := compileGlobs(hardDenyGlobs, caseFold)
	if err != nil {
		return nil, err
	}
	userExclude, err := compileGlobs(cfg.Exclude, caseFold)
	if err != nil {
		return nil, err
	}
	userInclude, err := compileGlobs(cfg.Include, caseFold)
	if err != nil {
		return nil, err
	}

	cache, err := lru.New[string, Decision](4096)
	if err != nil {
		return nil, err
	}

	return &Policy{
		projectRoot:   cfg.ProjectRoot,
		maxFileSize:   cfg.MaxFileSize,
		hardDeny:      hardDeny,
		userExclude:   userExclude,
		userInclude:   userInclude,
		hasInclude:    len(cfg.Include) > 0,
		respectGitig:  cfg.RespectGitignore,
		gitigDepth:    cfg.GitignoreMaxDepth,
		caseFold:      caseFold,
		decisionCache: cache,
	}, nil
}

func compileGlobs(patterns []string, caseFold bool) ([]glob.Glob, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		if caseFold {
			p = strings.ToLower(p)
		}
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, g)
	}
	return compiled, nil
}

func matchAny(globs []glob.Glob, path string) bool {
	for _, g := range globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}

// IsHardDenied evaluates only step 1 of the cascade, synchronously and
// without touching the filesystem. It is pure: identical input always
// yields identical output, and case-insensitive on case-insensitive
// filesystems.
func (p *Policy) IsHardDenied(relPath string) bool {
	normalized := normalizePath(relPath)
	return matchAny(p.hardDeny, p.fold(normalized))
}

func (p *Policy) fold(s string) string {
	if p.caseFold {
		return strings.ToLower(s)
	}
	return s
}

// ShouldIndex runs the full seven-step precedence cascade described in
// spec §4.1 against relPath (repo-relative) and absPath (for filesystem
// probes: size and binary sniffing).
//
// Decisions are memoized keyed by (relPath, size, mtime) so repeated scans
// of an unchanged tree skip the glob cascade and the binary sniff entirely;
// any change to size or mtime invalidates the cached entry.
func (p *Policy) ShouldIndex(relPath, absPath string) (Decision, error) {
	normalized := normalizePath(relPath)

	if info, statErr := os.Stat(absPath); statErr == nil {
		cacheKey := cacheKeyFor(normalized, info.Size(), info.ModTime().UnixNano())
		if cached, ok := p.decisionCache.Get(cacheKey); ok {
			return cached, nil
		}
		decision, err := p.evaluate(normalized, absPath)
		if err != nil {
			return Decision{}, err
		}
		p.decisionCache.Add(cacheKey, decision)
		return decision, nil
	}

	return p.evaluate(normalized, absPath)
}

func cacheKeyFor(relPath string, size int64, mtimeNano int64) string {
	return relPath + "\x00" + strconv.FormatInt(size, 10) + "\x00" + strconv.FormatInt(mtimeNano, 10)
}

func (p *Policy) evaluate(normalized, absPath string) (Decision, error) {
	folded := p.fold(normalized)

	// 1. Hard deny.
	if matchAny(p.hardDeny, folded) {
		return reject(CategoryHardcoded, "matches hard-deny pattern"), nil
	}

	// 2. User exclude.
	if matchAny(p.userExclude, folded) {
		return reject(CategoryUserExclude, "matches user exclude pattern"), nil
	}

	// 3. Gitignore.
	if p.respectGitig {
		rules, err := p.gitignore()
		if err != nil {
			return Decision{}, err
		}
		if matchAnyGitignore(rules, normalized) {
			return reject(CategoryGitignore, "matches gitignore pattern"), nil
		}
	}

	// 4. Binary detection.
	isBinary, err := classifyContent(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Vanished between scan and evaluation; treat as ineligible
			// rather than erroring the whole cascade.
			return reject(CategorySize, "file no longer exists"), nil
		}
		return Decision{}, err
	}
	if isBinary {
		return reject(CategoryBinary, "binary content detected"), nil
	}

	// 5. Size.
	info, err := os.Stat(absPath)
	if err != nil {
		return Decision{}, err
	}
	if info.Size() > p.maxFileSize {
		return reject(CategorySize, "exceeds max file size"), nil
	}

	// 6. User include.
	if p.hasInclude && !matchAny(p.userInclude, folded) {
		return reject(CategoryIncludeMismatch, "does not match include pattern"), nil
	}

	// 7. Otherwise accept.
	return accept(), nil
}

func (p *Policy) gitignore() ([]gitignoreRule, error) {
	p.mu.RLock()
	if p.gitignoreReady {
		rules := p.gitignoreRules
		p.mu.RUnlock()
		return rules, nil
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gitignoreReady {
		return p.gitignoreRules, nil
	}

	rules, err := loadGitignoreRules(p.projectRoot, p.gitigDepth)
	if err != nil {
		return nil, err
	}
	p.gitignoreRules = rules
	p.gitignoreReady = true
	return rules, nil
}

// InvalidateGitignore forces the next ShouldIndex call to reload
// .gitignore files from disk, and clears the decision cache since prior
// decisions may no longer hold.
func (p *Policy) InvalidateGitignore() {
	p.mu.Lock()
	p.gitignoreReady = false
	p.gitignoreRules = nil
	p.mu.Unlock()
	p.decisionCache.Purge()
}

// AbsPath joins relPath onto the policy's project root.
func (p *Policy) AbsPath(relPath string) string {
	return filepath.Join(p.projectRoot, filepath.FromSlash(relPath))
}
