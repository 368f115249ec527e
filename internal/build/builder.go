package build

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/adocbuild/internal/config"
	ferrors "git.home.luguber.info/inful/adocbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/adocbuild/internal/logfields"
	"git.home.luguber.info/inful/adocbuild/internal/metrics"
	"git.home.luguber.info/inful/adocbuild/internal/pathmap"
	"git.home.luguber.info/inful/adocbuild/internal/render"
)

// Builder runs full clean builds of a source tree.
type Builder struct {
	cfg      *config.Config
	renderer render.Renderer
	recorder metrics.Recorder
	logger   *slog.Logger
	workDir  string
}

// Option customizes a Builder.
type Option func(*Builder)

// WithRecorder sets the metrics recorder. A nil recorder disables metrics.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) {
		if r == nil {
			r = metrics.NoopRecorder{}
		}
		b.recorder = r
	}
}

// WithLogger sets the logger used for build progress.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithWorkingDir sets the directory relative source and build roots resolve
// against. It defaults to the process working directory.
func WithWorkingDir(dir string) Option {
	return func(b *Builder) { b.workDir = dir }
}

// NewBuilder returns a Builder for cfg that renders documents with r. A nil cfg
// means the default configuration.
func NewBuilder(cfg *config.Config, r render.Renderer, opts ...Option) *Builder {
	if cfg == nil {
		cfg = config.Default()
	}
	b := &Builder{
		cfg:      cfg,
		renderer: r,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build removes the build tree and rebuilds it from sourceRoot. The returned report
// is never nil; on failure it reflects the work done before the error.
func (b *Builder) Build(ctx context.Context, sourceRoot string) (*Report, error) {
	report := &Report{
		BuildID:   uuid.NewString(),
		Status:    BuildStatusRunning,
		StartTime: time.Now(),
	}
	log := b.logger.With(logfields.BuildID(report.BuildID))

	err := b.run(ctx, log, sourceRoot, report)

	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)
	b.recorder.ObserveBuildDuration(report.Duration)

	switch {
	case err == nil:
		report.Status = BuildStatusSuccess
		b.recorder.IncBuildOutcome(metrics.OutcomeSuccess)
		log.Info("Build completed",
			logfields.BuildRoot(report.BuildRoot),
			slog.Int("directories", report.Directories),
			slog.Int("documents", report.Documents),
			slog.Int("copied", report.Copied),
			logfields.DurationMS(float64(report.Duration.Microseconds())/1000))
	case isCanceled(err):
		report.Status = BuildStatusCancelled
		b.recorder.IncBuildOutcome(metrics.OutcomeCanceled)
		if !ferrors.IsClassified(err) {
			err = canceled(err)
		}
		log.Warn("Build canceled", logfields.Error(err))
	default:
		report.Status = BuildStatusFailed
		b.recorder.IncBuildOutcome(metrics.OutcomeFailed)
		if !ferrors.IsClassified(err) {
			err = ferrors.InternalError("build failed").WithCause(err).Build()
		}
		log.Error("Build failed", logfields.Error(err))
	}
	return report, err
}

func (b *Builder) run(ctx context.Context, log *slog.Logger, sourceRoot string, report *Report) error {
	if strings.TrimSpace(sourceRoot) == "" {
		return ferrors.ValidationError("source directory must not be empty").Build()
	}
	src, err := b.resolve(sourceRoot)
	if err != nil {
		return fsFailure(err, "resolve source directory", sourceRoot)
	}
	buildRoot, err := b.resolve(b.buildDirectory())
	if err != nil {
		return fsFailure(err, "resolve build directory", b.buildDirectory())
	}
	report.SourceRoot = src
	report.BuildRoot = buildRoot
	log = log.With(logfields.Source(src))

	if err := checkSource(src, sourceRoot); err != nil {
		return err
	}
	if contains(buildRoot, src) {
		return ferrors.ValidationError("build directory must not contain the source directory").
			WithContext("source", src).
			WithContext("build_root", buildRoot).
			Build()
	}

	log.Info("Starting build", logfields.BuildRoot(buildRoot))
	if err := os.RemoveAll(buildRoot); err != nil {
		return ferrors.BuildTreeError("remove build tree failed").
			WithCause(err).
			WithContext("path", buildRoot).
			Build()
	}

	mapper := pathmap.New(src, buildRoot,
		pathmap.WithDocumentExtensions(b.cfg.Source.DocumentExtensions...),
		pathmap.WithRenderedExtension(b.cfg.Source.RenderedExtension))
	r := &buildRun{
		Builder: b,
		ctx:     ctx,
		log:     log,
		mapper:  mapper,
		report:  report,
	}

	w := walker{ctx: ctx, skip: r.skip, visit: r.visit}
	if err := w.walk(src); err != nil {
		return err
	}
	return r.writeIndex()
}

// resolve makes p absolute against the builder's working directory. Trailing
// separators are dropped.
func (b *Builder) resolve(p string) (string, error) {
	p = filepath.Clean(p)
	if filepath.IsAbs(p) {
		return p, nil
	}
	base := b.workDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		base = wd
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return "", err
	}
	return filepath.Join(base, p), nil
}

func (b *Builder) buildDirectory() string {
	if b.cfg.Build.Directory == "" {
		return config.DefaultBuildDirectory
	}
	return b.cfg.Build.Directory
}

func (b *Builder) indexName() string {
	if b.cfg.Build.IndexName == "" {
		return config.DefaultIndexName
	}
	return b.cfg.Build.IndexName
}

// renderDir returns the working directory for rendering a page whose output lands
// in outDir.
func (b *Builder) renderDir(outDir string) string {
	if b.cfg.Renderer.WorkDir == config.WorkDirInherit {
		return ""
	}
	return outDir
}

func checkSource(src, given string) error {
	info, err := os.Stat(src)
	if errors.Is(err, fs.ErrNotExist) {
		return ferrors.NotFoundError("source directory not found").
			WithCause(err).
			WithContext("path", given).
			Build()
	}
	if err != nil {
		return fsFailure(err, "stat source directory", given)
	}
	if !info.IsDir() {
		return ferrors.ValidationError("source is not a directory").
			WithContext("path", given).
			Build()
	}
	return nil
}

// contains reports whether dir is p or one of its ancestors. Both lexical paths
// and, where they exist, link-resolved paths are compared.
func contains(dir, p string) bool {
	if within(dir, p) {
		return true
	}
	rdir, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return false
	}
	rp, err := filepath.EvalSymlinks(p)
	if err != nil {
		return false
	}
	return within(rdir, rp)
}

func within(dir, p string) bool {
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
