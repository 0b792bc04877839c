package main

import (
	"os"

	"github.com/spf13/cobra"
)

var projectRootFlag string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cortexcore",
		Short:         "Local code-and-documentation semantic search index",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&projectRootFlag, "project", "", "project root (defaults to the detected project root from cwd)")

	root.AddCommand(
		newStatusCmd(),
		newIndexCmd(),
		newUpdateCmd(),
		newRebuildCmd(),
		newDriftCmd(),
		newStrategyCmd(),
	)
	return root
}

func resolveProjectRoot() (string, error) {
	if projectRootFlag != "" {
		return projectRootFlag, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return detectOrUseCwd(cwd), nil
}
