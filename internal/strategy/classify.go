package strategy

import (
	"path/filepath"
	"strings"

	"github.com/cortexcore/cortexcore/internal/pipeline"
)

// Classifier decides which pipeline should own a given relative path. The
// default implementation routes markdown/prose extensions to the docs
// pipeline and everything else to the code pipeline; callers building a
// multi-language project can substitute their own.
type Classifier func(relPath string) pipeline.Kind

// DefaultClassifier implements the code/docs split named throughout
// spec §4.2 and §4.8.
func DefaultClassifier(relPath string) pipeline.Kind {
	switch strings.ToLower(filepath.Ext(relPath)) {
	case ".md", ".mdx", ".txt", ".rst":
		return pipeline.KindDocs
	default:
		return pipeline.KindCode
	}
}
