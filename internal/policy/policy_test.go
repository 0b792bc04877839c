package policy

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cortexcore/cortexcore/internal/config"
	"github.com/cortexcore/cortexcore/internal/platform"
)

func newTestPolicy(t *testing.T, root string, mutate func(*config.Config)) *Policy {
	t.Helper()
	cfg := config.Default(root)
	if mutate != nil {
		mutate(&cfg)
	}
	p, err := New(cfg)
	require.NoError(t, err)
	return p
}

func TestIsHardDenied(t *testing.T) {
	p := newTestPolicy(t, t.TempDir(), nil)

	require.True(t, p.IsHardDenied("node_modules/x.js"))
	require.True(t, p.IsHardDenied(".env"))
	require.True(t, p.IsHardDenied("a/b/.env.local"))
	require.False(t, p.IsHardDenied("src/a.ts"))
}

func TestIsHardDeniedCaseInsensitiveVariants(t *testing.T) {
	if !platform.Current().IsCaseInsensitive() {
		t.Skip("case-insensitive matching only applies on case-insensitive filesystems")
	}
	p := newTestPolicy(t, t.TempDir(), nil)

	denied := "secrets.pem"
	require.True(t, p.IsHardDenied(denied))
	require.True(t, p.IsHardDenied(strings.ToUpper(denied)))
}

func TestIsHardDeniedStripsZeroWidth(t *testing.T) {
	p := newTestPolicy(t, t.TempDir(), nil)

	tainted := ".e​nv"
	require.True(t, p.IsHardDenied(tainted))
}

func TestIsHardDeniedCleansRedundantSeparators(t *testing.T) {
	p := newTestPolicy(t, t.TempDir(), nil)

	require.True(t, p.IsHardDenied("a//b/./node_modules/x.js"))
	require.True(t, p.IsHardDenied("./.env"))
}

func TestShouldIndexBinaryRejected(t *testing.T) {
	root := t.TempDir()
	p := newTestPolicy(t, root, nil)

	abs := filepath.Join(root, "blob.dat")
	require.NoError(t, os.WriteFile(abs, []byte("hello\x00world"), 0o644))

	decision, err := p.ShouldIndex("blob.dat", abs)
	require.NoError(t, err)
	require.False(t, decision.ShouldIndex)
	require.Equal(t, CategoryBinary, decision.Category)
}

func TestShouldIndexSizeRejected(t *testing.T) {
	root := t.TempDir()
	p := newTestPolicy(t, root, func(c *config.Config) { c.MaxFileSize = 4 })

	abs := filepath.Join(root, "big.txt")
	require.NoError(t, os.WriteFile(abs, []byte("way too big"), 0o644))

	decision, err := p.ShouldIndex("big.txt", abs)
	require.NoError(t, err)
	require.False(t, decision.ShouldIndex)
	require.Equal(t, CategorySize, decision.Category)
}

func TestShouldIndexAcceptsPlainSource(t *testing.T) {
	root := t.TempDir()
	p := newTestPolicy(t, root, nil)

	abs := filepath.Join(root, "main.go")
	require.NoError(t, os.WriteFile(abs, []byte("package main\n"), 0o644))

	decision, err := p.ShouldIndex("main.go", abs)
	require.NoError(t, err)
	require.True(t, decision.ShouldIndex)
}

func TestShouldIndexIncludeMismatch(t *testing.T) {
	root := t.TempDir()
	p := newTestPolicy(t, root, func(c *config.Config) { c.Include = []string{"**/*.ts"} })

	abs := filepath.Join(root, "main.go")
	require.NoError(t, os.WriteFile(abs, []byte("package main\n"), 0o644))

	decision, err := p.ShouldIndex("main.go", abs)
	require.NoError(t, err)
	require.False(t, decision.ShouldIndex)
	require.Equal(t, CategoryIncludeMismatch, decision.Category)
}

func TestShouldIndexGitignore(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("ignored.txt\nbuild/\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "build"), 0o755))

	p := newTestPolicy(t, root, nil)

	abs := filepath.Join(root, "ignored.txt")
	require.NoError(t, os.WriteFile(abs, []byte("x"), 0o644))
	decision, err := p.ShouldIndex("ignored.txt", abs)
	require.NoError(t, err)
	require.False(t, decision.ShouldIndex)
	require.Equal(t, CategoryGitignore, decision.Category)

	absNested := filepath.Join(root, "build", "out.js")
	require.NoError(t, os.WriteFile(absNested, []byte("x"), 0o644))
	decision, err = p.ShouldIndex("build/out.js", absNested)
	require.NoError(t, err)
	require.False(t, decision.ShouldIndex)
}

func TestShouldIndexCachesDecision(t *testing.T) {
	root := t.TempDir()
	p := newTestPolicy(t, root, nil)

	abs := filepath.Join(root, "main.go")
	require.NoError(t, os.WriteFile(abs, []byte("package main\n"), 0o644))

	first, err := p.ShouldIndex("main.go", abs)
	require.NoError(t, err)
	second, err := p.ShouldIndex("main.go", abs)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, p.decisionCache.Len())
}
