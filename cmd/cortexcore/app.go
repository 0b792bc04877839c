package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cortexcore/cortexcore/internal/config"
	"github.com/cortexcore/cortexcore/internal/embed"
	"github.com/cortexcore/cortexcore/internal/fingerprint"
	"github.com/cortexcore/cortexcore/internal/integrity"
	"github.com/cortexcore/cortexcore/internal/pipeline"
	"github.com/cortexcore/cortexcore/internal/policy"
	"github.com/cortexcore/cortexcore/internal/store"
	"github.com/cortexcore/cortexcore/internal/strategy"
)

// app bundles the wiring every subcommand needs: one policy, one
// fingerprint map shared by both pipelines (code and docs files never
// share a relPath), and the code/docs pipelines themselves.
type app struct {
	cfg       config.Config
	policy    *policy.Policy
	fps       *fingerprint.Map
	pipelines map[pipeline.Kind]*pipeline.Pipeline
	engine    *integrity.Engine
}

// buildApp loads configuration and wires every collaborator named in
// spec §6: ChunkStore (chromem-go, the default reference implementation),
// Embedder (the Registry's named singletons), fingerprints, and policy.
// The actual neural model is out of scope (spec §1); MockProvider stands
// in as the Embedder until a real weights/tokenizer backend is wired.
func buildApp(projectRoot string) (*app, error) {
	cfg, err := config.Load(projectRoot)
	if err != nil {
		return nil, err
	}

	pol, err := policy.New(cfg)
	if err != nil {
		return nil, err
	}

	dataDir := filepath.Join(projectRoot, cfg.DataDir)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}

	fps, err := fingerprint.Load(filepath.Join(dataDir, "fingerprints.json"))
	if err != nil {
		return nil, err
	}

	probe := embed.DeviceProbe{}
	registry := embed.NewRegistry(func(name embed.Name) (embed.Provider, error) {
		dim := cfg.Code.Dimension
		if name == embed.Docs {
			dim = cfg.Docs.Dimension
		}
		return &embed.MockProvider{Dim: dim, Device: probe.Select(cfg)}, nil
	})

	ctx := context.Background()
	codeEmbedder, err := registry.Get(ctx, embed.Code, nil)
	if err != nil {
		return nil, err
	}
	docsEmbedder, err := registry.Get(ctx, embed.Docs, nil)
	if err != nil {
		return nil, err
	}

	codeStore := store.NewChromemStore(filepath.Join(dataDir, "code-store"), "code", cfg.Code.Dimension)
	docsStore := store.NewChromemStore(filepath.Join(dataDir, "docs-store"), "docs", cfg.Docs.Dimension)

	codePipeline := pipeline.New(pipeline.KindCode, projectRoot, pol, cfg.Code, codeEmbedder, codeStore, fps)
	docsPipeline := pipeline.New(pipeline.KindDocs, projectRoot, pol, cfg.Docs, docsEmbedder, docsStore, fps)
	docsPipeline.ExtractComments = cfg.ExtractComments

	pipelines := map[pipeline.Kind]*pipeline.Pipeline{
		pipeline.KindCode: codePipeline,
		pipeline.KindDocs: docsPipeline,
	}

	engine := integrity.NewEngine(projectRoot, pol, fps, pipelines, integrity.Classifier(strategy.DefaultClassifier))

	return &app{cfg: cfg, policy: pol, fps: fps, pipelines: pipelines, engine: engine}, nil
}

func (a *app) openStores(ctx context.Context) error {
	for _, p := range a.pipelines {
		if err := p.Store.Open(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) closeStores() {
	for _, p := range a.pipelines {
		_ = p.Store.Close()
	}
}
