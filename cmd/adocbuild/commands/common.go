package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/adocbuild/internal/config"
	ferrors "git.home.luguber.info/inful/adocbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/adocbuild/internal/foundation/normalization"
	"git.home.luguber.info/inful/adocbuild/internal/logfields"
	"git.home.luguber.info/inful/adocbuild/internal/metrics"
	"git.home.luguber.info/inful/adocbuild/internal/version"
)

// Usage is printed when the build command does not get exactly one source directory.
const Usage = "Usage: adocbuild <source_dir>"

// EnvLogLevel selects the log level when -v is not given.
const EnvLogLevel = "ADOCBUILD_LOG_LEVEL"

// Global context passed to subcommands.
type Global struct {
	// Out receives user-facing messages. Defaults to stdout.
	Out io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags.
type CLI struct {
	Config      string           `short:"c" help:"Configuration file path (optional)" default:"adocbuild.yaml"`
	Verbose     bool             `short:"v" help:"Enable verbose logging"`
	Version     kong.VersionFlag `name:"version" help:"Show version and exit"`
	BuildDir    string           `short:"o" name:"build-dir" help:"Build directory (overrides build.directory)"`
	MetricsFile string           `name:"metrics-file" help:"Write Prometheus metrics to this textfile after each build"`

	Build BuildCmd `cmd:"" default:"withargs" help:"Build the documentation tree from a source directory"`
	Watch WatchCmd `cmd:"" help:"Build, then rebuild whenever the source directory changes"`
	Init  InitCmd  `cmd:"" help:"Write an example configuration file"`
}

// NewParser returns the kong parser for cli.
func NewParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	opts := append([]kong.Option{
		kong.Name("adocbuild"),
		kong.Description("Mirror an AsciiDoc source tree into a rendered build tree with a generated index."),
		kong.Vars{"version": version.String()},
	}, options...)
	return kong.New(cli, opts...)
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(c.Verbose)}))
	slog.SetDefault(logger)
	return nil
}

var logLevels = normalization.NewNormalizer("log level", map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}, slog.LevelInfo)

// parseLogLevel returns Debug for -v, otherwise the level named by ADOCBUILD_LOG_LEVEL,
// otherwise Info.
func parseLogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return logLevels.Normalize(os.Getenv(EnvLogLevel))
}

// LoadConfig loads the configuration file, falling back to defaults when it does not
// exist, and applies the global flag overrides.
func (c *CLI) LoadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(c.Config)
	if err != nil {
		return nil, ferrors.ConfigError("load configuration failed").
			WithCause(err).
			WithContext("path", c.Config).
			Build()
	}
	if c.BuildDir != "" {
		cfg.Build.Directory = c.BuildDir
	}
	if c.MetricsFile != "" {
		cfg.Metrics.Textfile = c.MetricsFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newRecorder returns the metrics recorder for cfg and a flush function that writes
// the textfile when one is configured.
func newRecorder(cfg *config.Config) (metrics.Recorder, func()) {
	if cfg.Metrics.Textfile == "" {
		return metrics.NoopRecorder{}, func() {}
	}
	rec := metrics.NewPrometheusRecorder(prom.NewRegistry())
	path := cfg.Metrics.Textfile
	return rec, func() {
		if err := rec.WriteTextfile(path); err != nil {
			slog.Warn("Failed to write metrics textfile", logfields.Path(path), logfields.Error(err))
		}
	}
}
