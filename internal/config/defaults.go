package config

import (
	"os"
	"time"
)

const (
	DefaultBuildDirectory    = "build"
	DefaultIndexName         = "index"
	DefaultIndexTitle        = "Index"
	DefaultDocumentExtension = ".adoc"
	DefaultRenderedExtension = ".html"
	DefaultRendererCommand   = "asciidoctor"
	DefaultDiagramExtension  = "asciidoctor-diagram"
	DefaultWatchDebounce     = 300 * time.Millisecond
)

const (
	EnvRendererCommand = "ADOCBUILD_RENDERER"
	EnvBuildDirectory  = "ADOCBUILD_BUILD_DIR"
	EnvRendererTimeout = "ADOCBUILD_RENDERER_TIMEOUT"
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config)
	Domain() string
}

// BuildDefaultApplier handles Build configuration defaults.
type BuildDefaultApplier struct{}

func (BuildDefaultApplier) Domain() string { return "build" }

func (BuildDefaultApplier) ApplyDefaults(cfg *Config) {
	if cfg.Build.Directory == "" {
		cfg.Build.Directory = DefaultBuildDirectory
	}
	if cfg.Build.IndexName == "" {
		cfg.Build.IndexName = DefaultIndexName
	}
	if cfg.Build.IndexTitle == "" {
		cfg.Build.IndexTitle = DefaultIndexTitle
	}
}

// SourceDefaultApplier handles Source configuration defaults.
type SourceDefaultApplier struct{}

func (SourceDefaultApplier) Domain() string { return "source" }

func (SourceDefaultApplier) ApplyDefaults(cfg *Config) {
	if len(cfg.Source.DocumentExtensions) == 0 {
		cfg.Source.DocumentExtensions = []string{DefaultDocumentExtension}
	}
	if cfg.Source.RenderedExtension == "" {
		cfg.Source.RenderedExtension = DefaultRenderedExtension
	}
}

// RendererDefaultApplier handles Renderer configuration defaults. An explicit empty
// requires list (requires: []) is kept so the diagram extension can be switched off.
type RendererDefaultApplier struct{}

func (RendererDefaultApplier) Domain() string { return "renderer" }

func (RendererDefaultApplier) ApplyDefaults(cfg *Config) {
	if cfg.Renderer.Command == "" {
		cfg.Renderer.Command = DefaultRendererCommand
	}
	if cfg.Renderer.Requires == nil {
		cfg.Renderer.Requires = []string{DefaultDiagramExtension}
	}
	if cfg.Renderer.WorkDir == "" {
		cfg.Renderer.WorkDir = WorkDirOutput
	} else if mode, err := workDirModes.NormalizeWithError(string(cfg.Renderer.WorkDir)); err == nil {
		cfg.Renderer.WorkDir = mode
	}
}

// WatchDefaultApplier handles Watch configuration defaults.
type WatchDefaultApplier struct{}

func (WatchDefaultApplier) Domain() string { return "watch" }

func (WatchDefaultApplier) ApplyDefaults(cfg *Config) {
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}
}

var defaultAppliers = []DefaultApplier{
	BuildDefaultApplier{},
	SourceDefaultApplier{},
	RendererDefaultApplier{},
	WatchDefaultApplier{},
}

func applyDefaults(cfg *Config) {
	for _, a := range defaultAppliers {
		a.ApplyDefaults(cfg)
	}
}

// applyEnvOverrides lets the environment override file values. CLI flags are applied
// by the command layer afterwards and win over both.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvRendererCommand); v != "" {
		cfg.Renderer.Command = v
	}
	if v := os.Getenv(EnvBuildDirectory); v != "" {
		cfg.Build.Directory = v
	}
	if v := os.Getenv(EnvRendererTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Renderer.Timeout = d
		}
	}
}
