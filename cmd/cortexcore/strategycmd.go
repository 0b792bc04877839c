package main

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cortexcore/cortexcore/internal/config"
	"github.com/cortexcore/cortexcore/internal/platform"
	"github.com/cortexcore/cortexcore/internal/strategy"
	"github.com/cortexcore/cortexcore/internal/watcher"
)

func newStrategyCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "strategy",
		Short: "Run the filewatcher-driven indexing strategy until interrupted",
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

			selected := config.IndexingStrategy(name)
			if selected == "" {
				selected = a.cfg.IndexingStrategy
			}

			w, err := watcher.New(root, a.policy, platform.Current().PollingHints())
			if err != nil {
				return err
			}
			orch := strategy.NewOrchestrator(w)

			s, err := buildStrategy(a, selected, root)
			if err != nil {
				return err
			}
			if err := orch.SetStrategy(ctx, s); err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			orch.Run(runCtx)
			fmt.Printf("running %s strategy on %s, press ctrl-c to stop\n", selected, root)

			for {
				select {
				case <-runCtx.Done():
					return orch.Stop(context.Background())
				case err, ok := <-orch.Errors():
					if !ok {
						return nil
					}
					fmt.Printf("watcher error: %v\n", err)
				}
			}
		},
	}

	cmd.Flags().StringVar(&name, "strategy", "", "strategy variant to run: realtime, lazy, or git (defaults to the configured strategy)")
	return cmd
}

func buildStrategy(a *app, kind config.IndexingStrategy, root string) (strategy.Strategy, error) {
	classify := strategy.Classifier(strategy.DefaultClassifier)

	switch kind {
	case config.StrategyLazy:
		dirtySetPath := filepath.Join(root, a.cfg.DataDir, "dirty-files.json")
		return strategy.NewLazy(root, a.policy, a.pipelines, classify, a.fps, dirtySetPath, a.cfg.LazyIdleThreshold)
	case config.StrategyGit:
		return strategy.NewGit(a.engine), nil
	case config.StrategyRealtime:
		return strategy.NewRealtime(root, a.policy, a.pipelines, classify, a.fps), nil
	default:
		return nil, fmt.Errorf("unknown indexing strategy %q", kind)
	}
}
