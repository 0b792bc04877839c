package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newDriftCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drift",
		Short: "Report filesystem changes not yet reflected in the index",
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

			drift, err := a.engine.CheckDrift(ctx)
			if err != nil {
				return err
			}
			if drift.IsEmpty() {
				fmt.Println("no drift")
				return nil
			}
			for _, relPath := range drift.Added {
				fmt.Printf("added    %s\n", relPath)
			}
			for _, relPath := range drift.Modified {
				fmt.Printf("modified %s\n", relPath)
			}
			for _, relPath := range drift.Removed {
				fmt.Printf("removed  %s\n", relPath)
			}
			return nil
		},
	}
}
