package main

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/cortexcore/cortexcore/internal/pipeline"
)

// barSink renders pipeline progress on a single terminal progress bar,
// re-describing and resizing it whenever the phase or total changes.
type barSink struct {
	bar   *progressbar.ProgressBar
	total int
}

func newBarSink() *barSink {
	return &barSink{}
}

func (s *barSink) OnProgress(e pipeline.Event) {
	if s.bar == nil || e.Total != s.total {
		s.bar = progressbar.NewOptions(e.Total,
			progressbar.OptionSetDescription(e.Kind.String()),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionClearOnFinish(),
		)
		s.total = e.Total
	}
	s.bar.Describe(fmt.Sprintf("%s %s", e.Kind, e.File))
	_ = s.bar.Set(e.Cur)
}
