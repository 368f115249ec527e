package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/adocbuild/internal/foundation/normalization"
)

// DefaultConfigFile is read when no --config flag is given; its absence is not an error.
const DefaultConfigFile = "adocbuild.yaml"

// Config represents the application configuration
type Config struct {
	Build    BuildConfig    `yaml:"build"`
	Source   SourceConfig   `yaml:"source"`
	Renderer RendererConfig `yaml:"renderer"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Watch    WatchConfig    `yaml:"watch"`
}

// BuildConfig controls the build tree and the synthesized index page.
type BuildConfig struct {
	Directory  string `yaml:"directory"`   // build tree location, relative to the working directory
	IndexName  string `yaml:"index_name"`  // base name of the index page, without extension
	IndexTitle string `yaml:"index_title"` // heading of the outline document
}

// SourceConfig controls which source files are convertible documents.
type SourceConfig struct {
	DocumentExtensions []string `yaml:"document_extensions"`
	RenderedExtension  string   `yaml:"rendered_extension"`
}

// WorkDirMode selects the directory the renderer runs in.
type WorkDirMode string

const (
	// WorkDirOutput runs the renderer inside the build-side directory of the page
	// being rendered, so relative diagram and asset output lands in the build tree.
	WorkDirOutput WorkDirMode = "output"
	// WorkDirInherit runs the renderer in the process working directory.
	WorkDirInherit WorkDirMode = "inherit"
)

var workDirModes = normalization.NewNormalizer("workdir mode", map[string]WorkDirMode{
	"output":  WorkDirOutput,
	"inherit": WorkDirInherit,
}, WorkDirOutput)

// RendererConfig describes the external renderer invocation.
type RendererConfig struct {
	Command  string        `yaml:"command"`
	Requires []string      `yaml:"requires"`
	Args     []string      `yaml:"args,omitempty"`
	Timeout  time.Duration `yaml:"timeout"`
	WorkDir  WorkDirMode   `yaml:"workdir"`
}

// MetricsConfig controls metrics export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"` // Prometheus textfile written after each build
}

// WatchConfig controls watch mode.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Load loads configuration from the specified file. A missing file is an error.
func Load(configPath string) (*Config, error) {
	loadEnvFile()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("configuration file not found: %s", configPath)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return parse(data)
}

// LoadOrDefault loads configPath when it exists and falls back to defaults otherwise.
func LoadOrDefault(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		loadEnvFile()
		cfg := Default()
		applyEnvOverrides(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return Load(configPath)
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func parse(data []byte) (*Config, error) {
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
