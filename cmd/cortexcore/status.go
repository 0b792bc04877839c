package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report index size and fingerprint counts",
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

			fmt.Printf("project root: %s\n", root)
			fmt.Printf("strategy:     %s\n", a.cfg.IndexingStrategy)
			fmt.Printf("fingerprints: %d files\n", len(a.fps.Paths()))

			for kind, p := range a.pipelines {
				files, err := p.Store.CountFiles(ctx)
				if err != nil {
					return err
				}
				chunks, err := p.Store.CountChunks(ctx)
				if err != nil {
					return err
				}
				size, err := p.Store.GetStorageSize(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("%-5s store: %6d files, %6d chunks, %8d bytes on disk\n", kind, files, chunks, size)
			}
			return nil
		},
	}
}
