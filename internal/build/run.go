package build

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/adocbuild/internal/logfields"
	"git.home.luguber.info/inful/adocbuild/internal/outline"
	"git.home.luguber.info/inful/adocbuild/internal/pathmap"
	"git.home.luguber.info/inful/adocbuild/internal/title"
)

// buildRun holds the state of a single build.
type buildRun struct {
	*Builder
	ctx    context.Context
	log    *slog.Logger
	mapper pathmap.Mapper
	report *Report
}

// skip keeps the walk out of a build tree nested inside the source tree.
func (r *buildRun) skip(path string) bool {
	if filepath.Clean(path) != r.mapper.BuildRoot {
		return false
	}
	r.log.Info("Skipping build directory inside source tree", logfields.Path(path))
	return true
}

func (r *buildRun) visit(e treeEntry) error {
	rel, err := r.mapper.Rel(e.Path)
	if err != nil {
		return fsFailure(err, "map path", e.Path)
	}

	kind := r.mapper.Classify(e.Path, e.Info.IsDir())
	dst, err := r.mapper.Map(e.Path, kind)
	if err != nil {
		return fsFailure(err, "map path", e.Path)
	}

	switch kind {
	case pathmap.KindDirectory:
		err = r.directory(rel, dst)
	case pathmap.KindDocument:
		err = r.document(e, rel, dst)
	default:
		err = r.opaque(e, rel, dst)
	}
	if err != nil {
		return err
	}
	r.recorder.IncEntry(kind.String())
	return nil
}

func (r *buildRun) directory(rel, dst string) error {
	// #nosec G301 -- the build tree is published as static content
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return fsFailure(err, "create directory", dst)
	}
	if rel == "." {
		return nil
	}
	label := filepath.ToSlash(rel)
	r.appendEntry(outline.Entry{Level: pathmap.Level(rel), Label: label})
	r.report.Directories++
	r.log.Debug("Mirrored directory", logfields.Path(label))
	return nil
}

func (r *buildRun) document(e treeEntry, rel, dst string) error {
	text, err := r.render(e.Path, filepath.Dir(dst))
	if err != nil {
		return renderFailure(err, e.Path)
	}
	// #nosec G306 -- rendered pages are published as static content
	if err := os.WriteFile(dst, []byte(text), 0o644); err != nil {
		return fsFailure(err, "write rendered page", dst)
	}

	t, err := title.Extract(text)
	if err != nil {
		return titleFailure(err, e.Path)
	}
	target, err := r.mapper.Target(e.Path, pathmap.KindDocument)
	if err != nil {
		return fsFailure(err, "map path", e.Path)
	}

	r.appendEntry(outline.Entry{Level: pathmap.Level(rel), Label: t, Target: target})
	r.report.Documents++
	r.log.Debug("Rendered document",
		logfields.Path(filepath.ToSlash(rel)),
		logfields.Target(target),
		logfields.Title(t))
	return nil
}

func (r *buildRun) opaque(e treeEntry, rel, dst string) error {
	if err := copyFile(e.Path, dst, e.Info.Mode()); err != nil {
		return fsFailure(err, "copy file", e.Path)
	}
	r.report.Copied++
	r.log.Debug("Copied file", logfields.Path(filepath.ToSlash(rel)))
	return nil
}

// writeIndex synthesizes the outline, renders it into the index page and removes
// the outline source again.
func (r *buildRun) writeIndex() error {
	root := r.mapper.BuildRoot
	outlinePath := filepath.Join(root, r.indexName()+r.mapper.DocumentExts[0])
	pagePath := filepath.Join(root, r.indexName()+r.mapper.RenderedExt)

	if _, err := os.Stat(pagePath); err == nil {
		r.log.Warn("Rendered source page replaced by synthesized index", logfields.Target(pagePath))
	}

	text := outline.Synthesize(r.cfg.Build.IndexTitle, r.report.Entries)
	// #nosec G306 -- transient outline source inside the build tree
	if err := os.WriteFile(outlinePath, []byte(text), 0o644); err != nil {
		return fsFailure(err, "write outline", outlinePath)
	}

	page, err := r.render(outlinePath, root)
	if rmErr := os.Remove(outlinePath); rmErr != nil && err == nil {
		return fsFailure(rmErr, "remove outline", outlinePath)
	}
	if err != nil {
		return renderFailure(err, outlinePath)
	}

	// #nosec G306 -- rendered pages are published as static content
	if err := os.WriteFile(pagePath, []byte(page), 0o644); err != nil {
		return fsFailure(err, "write index page", pagePath)
	}
	r.report.IndexPage = pagePath
	r.log.Debug("Wrote index page", logfields.Target(pagePath), logfields.Count(len(r.report.Entries)))
	return nil
}

func (r *buildRun) render(doc, outDir string) (string, error) {
	start := time.Now()
	text, err := r.renderer.Render(r.ctx, doc, r.renderDir(outDir))
	r.recorder.ObserveRenderDuration(time.Since(start), err == nil)
	return text, err
}

func (r *buildRun) appendEntry(e outline.Entry) {
	r.report.Entries = append(r.report.Entries, e)
}
