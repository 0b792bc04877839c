package policy

import (
	"bufio"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/cortexcore/cortexcore/internal/corerr"
)

// gitignoreRule is one compiled pattern scoped to the directory its
// .gitignore file was found in.
type gitignoreRule struct {
	dirRel string // relative dir this .gitignore lives in, "" for root
	direct glob.Glob
	recursive glob.Glob
}

func (r gitignoreRule) matches(relPath string) bool {
	scoped := relPath
	if r.dirRel != "" {
		if !strings.HasPrefix(relPath, r.dirRel+"/") {
			return false
		}
		scoped = strings.TrimPrefix(relPath, r.dirRel+"/")
	}
	return r.direct.Match(scoped) || r.recursive.Match(scoped)
}

// loadGitignoreRules walks from projectRoot looking for .gitignore files up
// to maxDepth directory levels deep, compiling each pattern into a pair of
// globs: one matching the pattern directly under its directory, one
// matching recursively within it, per spec §4.1 step 3.
func loadGitignoreRules(projectRoot string, maxDepth int) ([]gitignoreRule, error) {
	var rules []gitignoreRule

	rootRule, err := os.Stat(projectRoot)
	if err != nil || !rootRule.IsDir() {
		return nil, nil
	}

	var walk func(dir string, relDir string, depth int) error
	walk = func(dir, relDir string, depth int) error {
		if depth > maxDepth {
			return &corerr.ResourceLimitError{Limit: "gitignoreMaxDepth", Value: depth, Max: maxDepth}
		}

		gitignorePath := filepath.Join(dir, ".gitignore")
		if data, readErr := os.ReadFile(gitignorePath); readErr == nil {
			fileRules, parseErr := parseGitignore(string(data), relDir)
			if parseErr != nil {
				return parseErr
			}
			rules = append(rules, fileRules...)
		}

		entries, readErr := os.ReadDir(dir)
		if readErr != nil {
			return nil
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			if e.Name() == ".git" || e.Name() == "node_modules" {
				continue
			}
			childRel := e.Name()
			if relDir != "" {
				childRel = relDir + "/" + e.Name()
			}
			if walkErr := walk(filepath.Join(dir, e.Name()), childRel, depth+1); walkErr != nil {
				return walkErr
			}
		}
		return nil
	}

	if err := walk(projectRoot, "", 0); err != nil {
		return nil, err
	}
	return rules, nil
}

func parseGitignore(content string, relDir string) ([]gitignoreRule, error) {
	var rules []gitignoreRule
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "!") {
			// Negation rules are skipped: a "!" pattern never re-includes a
			// path; spec §4.1 defines no re-inclusion step.
			continue
		}

		pattern := line
		anchored := strings.HasPrefix(pattern, "/")
		pattern = strings.TrimPrefix(pattern, "/")
		pattern = strings.TrimSuffix(pattern, "/")
		if pattern == "" {
			continue
		}

		directPattern := pattern
		if !anchored && !strings.Contains(pattern, "/") {
			directPattern = "**/" + pattern
		}
		recursivePattern := directPattern
		if !strings.HasSuffix(recursivePattern, "/**") {
			recursivePattern = directPattern + "/**"
		}

		directGlob, err := glob.Compile(directPattern, '/')
		if err != nil {
			continue
		}
		recursiveGlob, err := glob.Compile(recursivePattern, '/')
		if err != nil {
			continue
		}

		rules = append(rules, gitignoreRule{
			dirRel:    relDir,
			direct:    directGlob,
			recursive: recursiveGlob,
		})
	}
	return rules, scanner.Err()
}

func matchAnyGitignore(rules []gitignoreRule, relPath string) bool {
	for _, r := range rules {
		if r.matches(relPath) {
			return true
		}
	}
	return false
}

// cleanRel collapses "./", doubled separators, and ".." segments after
// toSlash, so "a//b/./c" and "a/b/c" land on the same cache key and glob
// match.
func cleanRel(relPath string) string {
	return path.Clean(toSlash(relPath))
}
