// Package pathmap maps paths inside a source tree onto their counterparts in the
// build tree.
//
// The source root is replaced as a leading path prefix, component by component.
// Segments deeper in the path that happen to equal the root's name are left alone,
// so docs/docs/intro.adoc under root docs maps to build/docs/intro.html.
package pathmap

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// ErrOutsideRoot indicates a path that does not lie at or beneath the source root.
var ErrOutsideRoot = errors.New("path outside source root")

// Kind classifies a tree entry.
type Kind int

const (
	KindDirectory Kind = iota
	KindDocument
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindDocument:
		return "document"
	case KindOpaque:
		return "opaque"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Mapper rewrites source paths into build paths. The zero value is not useful; use New.
type Mapper struct {
	SourceRoot   string
	BuildRoot    string
	DocumentExts []string // extensions of convertible documents, with leading dot
	RenderedExt  string   // extension given to rendered documents
}

// Option customizes a Mapper.
type Option func(*Mapper)

// WithDocumentExtensions sets the extensions that mark convertible documents.
func WithDocumentExtensions(exts ...string) Option {
	return func(m *Mapper) {
		if len(exts) > 0 {
			m.DocumentExts = slices.Clone(exts)
		}
	}
}

// WithRenderedExtension sets the extension of rendered pages.
func WithRenderedExtension(ext string) Option {
	return func(m *Mapper) {
		if ext != "" {
			m.RenderedExt = ext
		}
	}
}

// New returns a Mapper for the given roots. Convertible documents default to .adoc
// and are rendered to .html.
func New(sourceRoot, buildRoot string, opts ...Option) Mapper {
	m := Mapper{
		SourceRoot:   filepath.Clean(sourceRoot),
		BuildRoot:    filepath.Clean(buildRoot),
		DocumentExts: []string{".adoc"},
		RenderedExt:  ".html",
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// IsDocument reports whether p names a convertible document, judged by extension only.
func (m Mapper) IsDocument(p string) bool {
	return slices.Contains(m.DocumentExts, filepath.Ext(p))
}

// Classify returns the kind of the entry at p.
func (m Mapper) Classify(p string, isDir bool) Kind {
	switch {
	case isDir:
		return KindDirectory
	case m.IsDocument(p):
		return KindDocument
	default:
		return KindOpaque
	}
}

// Rel returns p relative to the source root using OS separators. The root itself is ".".
func (m Mapper) Rel(p string) (string, error) {
	clean := filepath.Clean(p)
	if clean == m.SourceRoot {
		return ".", nil
	}

	if m.SourceRoot == "." {
		if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			return "", fmt.Errorf("%w: %s", ErrOutsideRoot, p)
		}
		return clean, nil
	}

	prefix := m.SourceRoot
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	if !strings.HasPrefix(clean, prefix) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, p)
	}
	return clean[len(prefix):], nil
}

// Map returns the build path for the source path p. Documents get the rendered extension;
// directories and opaque files keep their names.
func (m Mapper) Map(p string, kind Kind) (string, error) {
	rel, err := m.Rel(p)
	if err != nil {
		return "", err
	}
	if kind == KindDocument {
		rel = m.rewriteExt(rel)
	}
	return filepath.Join(m.BuildRoot, rel), nil
}

// Target returns the build-relative, slash separated path used for cross-references.
func (m Mapper) Target(p string, kind Kind) (string, error) {
	rel, err := m.Rel(p)
	if err != nil {
		return "", err
	}
	if kind == KindDocument {
		rel = m.rewriteExt(rel)
	}
	return filepath.ToSlash(rel), nil
}

func (m Mapper) rewriteExt(rel string) string {
	return strings.TrimSuffix(rel, filepath.Ext(rel)) + m.RenderedExt
}

// Depth counts the path components of a root-relative path; the root itself has depth 0.
func Depth(rel string) int {
	clean := filepath.ToSlash(filepath.Clean(rel))
	if clean == "." || clean == "" {
		return 0
	}
	return strings.Count(strings.Trim(clean, "/"), "/") + 1
}

// Level is the outline nesting level of a root-relative path: its depth minus one.
func Level(rel string) int {
	if d := Depth(rel); d > 0 {
		return d - 1
	}
	return 0
}
