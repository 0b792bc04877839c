// Package config defines the typed configuration for the indexing core and
// a viper-backed loader. Every option named in the external interface is
// represented as a struct field; nothing is read from a duck-typed blob at
// runtime.
package config

import "time"

// IndexingStrategy selects which strategy variant the orchestrator runs.
type IndexingStrategy string

const (
	StrategyRealtime IndexingStrategy = "realtime"
	StrategyLazy     IndexingStrategy = "lazy"
	StrategyGit      IndexingStrategy = "git"
)

// Device overrides the embedder's device auto-selection.
type Device string

const (
	DeviceAuto      Device = ""
	DeviceCPU       Device = "cpu"
	DeviceGPUNative Device = "gpu-native"
	DeviceGPUBrowser Device = "gpu-browser"
)

// ChunkingProfile holds the parameters for one content class (code or
// docs). Dimension is fixed per class; mixing profiles across a store is
// forbidden (spec §4.2).
type ChunkingProfile struct {
	ChunkSize    int
	ChunkOverlap int
	Dimension    int
	Separators   []string
}

// DefaultCodeProfile matches the small-chunk, 384-dim code profile.
func DefaultCodeProfile() ChunkingProfile {
	return ChunkingProfile{
		ChunkSize:    1200,
		ChunkOverlap: 200,
		Dimension:    384,
		Separators:   []string{"\n\n", "\n", ". ", " ", ""},
	}
}

// DefaultDocsProfile matches the ~4x larger, 768-dim docs profile.
func DefaultDocsProfile() ChunkingProfile {
	return ChunkingProfile{
		ChunkSize:    4800,
		ChunkOverlap: 800,
		Dimension:    768,
		Separators:   []string{"\n\n", "\n", ". ", " ", ""},
	}
}

// Config is the fully resolved, strongly-typed configuration for a project.
type Config struct {
	ProjectRoot string

	Include          []string
	Exclude          []string
	RespectGitignore bool
	MaxFileSize      int64 // bytes, parsed from a human-readable string at load time

	IndexingStrategy  IndexingStrategy
	LazyIdleThreshold time.Duration
	ExtractComments   bool

	Device Device

	Code ChunkingProfile
	Docs ChunkingProfile

	GitignoreMaxDepth int

	DataDir string // directory holding fingerprints, merkle snapshot, dirty-files set
}

// Default returns a Config with every field at its documented default,
// rooted at projectRoot.
func Default(projectRoot string) Config {
	return Config{
		ProjectRoot:       projectRoot,
		Include:           nil,
		Exclude:           nil,
		RespectGitignore:  true,
		MaxFileSize:       10 * 1024 * 1024,
		IndexingStrategy:  StrategyRealtime,
		LazyIdleThreshold: 5 * time.Second,
		ExtractComments:   false,
		Device:            DeviceAuto,
		Code:              DefaultCodeProfile(),
		Docs:              DefaultDocsProfile(),
		GitignoreMaxDepth: 32,
		DataDir:           ".cortexcore",
	}
}
