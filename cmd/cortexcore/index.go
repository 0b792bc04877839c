package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cortexcore/cortexcore/internal/integrity"
	"github.com/cortexcore/cortexcore/internal/pipeline"
	"github.com/cortexcore/cortexcore/internal/strategy"
)

func newIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Index every eligible file under the project root",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := resolveProjectRoot()
			if err != nil {
				return err
			}
			a, err := buildApp(root)
			if err != nil {
				return err
			}
			ctx := context.Background()
			if err := a.openStores(ctx); err != nil {
				return err
			}
			defer a.closeStores()

			eligible, err := integrity.ScanEligible(root, a.policy)
			if err != nil {
				return err
			}

			byKind := map[pipeline.Kind]map[string]string{
				pipeline.KindCode: {},
				pipeline.KindDocs: {},
			}
			for relPath, absPath := range eligible {
				kind := strategy.DefaultClassifier(relPath)
				byKind[kind][relPath] = absPath
			}

			sink := newBarSink()
			for kind, p := range a.pipelines {
				files := byKind[kind]
				if len(files) == 0 {
					continue
				}
				result, err := p.IndexFiles(ctx, files, sink)
				if err != nil {
					return err
				}
				fmt.Printf("%-5s: %d files indexed, %d chunks written, %d errors\n",
					kind, result.FilesProcessed, result.ChunksWritten, len(result.Errors))
				for _, ferr := range result.Errors {
					fmt.Printf("  %s\n", ferr.Error())
				}
			}

			return a.fps.Save()
		},
	}
}
